package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"snowthaw/internal/debounce"
	"snowthaw/internal/domain"
	"snowthaw/internal/eventbus"
	"snowthaw/internal/log"
)

// Saver persists cards, replacing those whose id already exists
type Saver interface {
	UpsertMany(ctx context.Context, cards []domain.Card) error
}

// Importer loads files and stores them as cards
type Importer struct {
	saver  Saver
	loader *Loader
	bus    eventbus.EventBus
	logger *log.Logger
}

// NewImporter creates an importer. bus may be nil.
func NewImporter(saver Saver, loader *Loader, bus eventbus.EventBus) *Importer {
	return &Importer{
		saver:  saver,
		loader: loader,
		bus:    bus,
		logger: log.ForService("ingest"),
	}
}

// Import reads paths (files or directories) and stores one card per readable file.
// It returns the names of the stored cards. Files that fail are logged and skipped;
// the call fails only when nothing could be stored.
func (im *Importer) Import(ctx context.Context, paths []string) ([]string, error) {
	files, err := Expand(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no supported files in %v", paths)
	}

	cards, loadErr := im.loader.Load(ctx, files)
	if loadErr != nil {
		im.logger.Warnf("some files were skipped: %v", loadErr)
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("no usable files: %w", loadErr)
	}

	if err := im.saver.UpsertMany(ctx, cards); err != nil {
		return nil, fmt.Errorf("storing cards: %w", err)
	}

	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.Name
	}
	im.logger.Infof("imported %d cards", len(cards))
	if im.bus != nil {
		im.bus.Publish(domain.CardsImportedEvent{Names: names})
	}
	return names, nil
}

// Watch imports files under paths again whenever they change, until ctx is done.
// Bursts of file events are coalesced for delay before importing.
func (im *Importer) Watch(ctx context.Context, paths []string, delay time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	for _, p := range paths {
		if err := watcher.Add(p); err != nil {
			return fmt.Errorf("watching %s: %w", p, err)
		}
		im.logger.Infof("watching %s", p)
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]bool)
	)
	flush := func() {
		mu.Lock()
		batch := make([]string, 0, len(pending))
		for p := range pending {
			batch = append(batch, p)
		}
		pending = make(map[string]bool)
		mu.Unlock()

		if len(batch) == 0 {
			return
		}
		if _, err := im.Import(ctx, batch); err != nil && !errors.Is(err, context.Canceled) {
			im.logger.Errorf("re-import failed: %v", err)
		}
	}

	scheduler := debounce.New()
	defer scheduler.Cancel()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !Supported(event.Name) {
				continue
			}
			im.logger.Debugf("change: %s (%s)", event.Name, event.Op)
			mu.Lock()
			pending[filepath.Clean(event.Name)] = true
			mu.Unlock()
			scheduler.Arm(delay, flush)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			im.logger.Warnf("watcher error: %v", err)
		}
	}
}
