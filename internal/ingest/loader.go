package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"snowthaw/internal/domain"
	"snowthaw/internal/log"
)

// Loader reads files into cards on a bounded worker pool
type Loader struct {
	pool    *ants.Pool
	cardTyp string
	logger  *log.Logger
}

// NewLoader creates a loader whose cards get cardType. poolSize < 1 picks
// runtime.NumCPU().
func NewLoader(cardType string, poolSize int) (*Loader, error) {
	typ, err := domain.ResolveCardType(cardType)
	if err != nil {
		return nil, err
	}
	if poolSize < 1 {
		poolSize = runtime.NumCPU()
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("creating worker pool: %w", err)
	}
	return &Loader{pool: pool, cardTyp: typ, logger: log.ForService("ingest")}, nil
}

// Release stops the worker pool
func (l *Loader) Release() {
	l.pool.Release()
}

// Expand resolves directories into the supported files below them. Plain file
// arguments are kept whatever their extension so ReadStory can report them.
func Expand(paths []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && strings.HasPrefix(d.Name(), ".") {
					return fs.SkipDir
				}
				return nil
			}
			if Supported(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", p, err)
		}
		sort.Strings(found)
		for _, f := range found {
			add(f)
		}
	}
	return out, nil
}

// Load reads every file concurrently. Cards come back in the order of paths; files
// that could not be read are reported in the joined error and skipped.
func (l *Loader) Load(ctx context.Context, paths []string) ([]domain.Card, error) {
	results := make([]*domain.Card, len(paths))
	errs := make([]error, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			continue
		}
		wg.Add(1)
		i, path := i, path
		if err := l.pool.Submit(func() {
			defer wg.Done()
			card, err := l.loadFile(path)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = card
		}); err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("scheduling %s: %w", path, err)
		}
	}
	wg.Wait()

	cards := make([]domain.Card, 0, len(paths))
	for _, c := range results {
		if c != nil {
			cards = append(cards, *c)
		}
	}
	return cards, errors.Join(errs...)
}

func (l *Loader) loadFile(path string) (*domain.Card, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	story, err := ReadStory(path, raw)
	if err != nil {
		return nil, err
	}

	created := time.Now().UTC()
	if info, err := os.Stat(path); err == nil {
		created = info.ModTime().UTC()
	}

	l.logger.Debugf("loaded %s (%d bytes)", path, len(raw))
	return &domain.Card{
		ID:        FileCardID(path),
		Type:      l.cardTyp,
		Name:      Stem(path),
		Story:     story,
		CreatedAt: created,
	}, nil
}
