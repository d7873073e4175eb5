// Package store keeps content cards in SQLite and answers keyword lookups over them.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"snowthaw/internal/domain"
)

// ErrNotFound is returned when no card has the requested id
var ErrNotFound = errors.New("card not found")

// fixed width so text order equals time order
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const schema = `
CREATE TABLE IF NOT EXISTS cards (
	id         TEXT PRIMARY KEY,
	type       TEXT NOT NULL,
	name       TEXT NOT NULL,
	story      TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cards_type ON cards(type);
CREATE INDEX IF NOT EXISTS idx_cards_created_at ON cards(created_at);
`

// Store is a card database
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and ensures the schema exists
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 30000",
		"PRAGMA temp_store = memory",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert stores one card
func (s *Store) Insert(ctx context.Context, card domain.Card) error {
	return s.InsertMany(ctx, []domain.Card{card})
}

// InsertMany stores cards in a single transaction. A duplicate id fails the whole batch.
func (s *Store) InsertMany(ctx context.Context, cards []domain.Card) error {
	return s.write(ctx, cards, `
		INSERT INTO cards (id, type, name, story, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)
}

// UpsertMany stores cards in a single transaction, replacing the type, name and story
// of cards whose id already exists. The original creation time is kept.
func (s *Store) UpsertMany(ctx context.Context, cards []domain.Card) error {
	return s.write(ctx, cards, `
		INSERT INTO cards (id, type, name, story, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			name = excluded.name,
			story = excluded.story
	`)
}

func (s *Store) write(ctx context.Context, cards []domain.Card, statement string) error {
	if len(cards) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, statement)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, card := range cards {
		if _, err := stmt.ExecContext(ctx,
			card.ID,
			card.Type,
			card.Name,
			card.Story,
			card.CreatedAt.UTC().Format(timeLayout),
		); err != nil {
			return fmt.Errorf("inserting card %s: %w", card.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	committed = true
	return nil
}

// Get returns the card with id
func (s *Store) Get(ctx context.Context, id string) (*domain.Card, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, type, name, story, created_at FROM cards WHERE id = ?`, id)

	card, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading card %s: %w", id, err)
	}
	return card, nil
}

// Count returns the number of stored cards
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cards: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCard(row scanner) (*domain.Card, error) {
	var (
		card    domain.Card
		created string
	)
	if err := row.Scan(&card.ID, &card.Type, &card.Name, &card.Story, &created); err != nil {
		return nil, err
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		// Rows written by other tools may carry plain RFC3339
		t, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at %q: %w", created, err)
		}
	}
	card.CreatedAt = t
	return &card, nil
}
