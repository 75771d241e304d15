// Package bookmarkflusher buffers reading-position saves in memory and writes
// them to the store in batches on a fixed interval.
package bookmarkflusher

import (
	"context"
	"sync"
	"time"

	"github.com/patric-chuzhbe/studydesk/internal/logger"
	"github.com/patric-chuzhbe/studydesk/internal/models"
)

type bookmarkSaver interface {
	SaveBookmarks(ctx context.Context, batch map[string]map[string]float64) error
}

type BookmarkFlusher struct {
	db            bookmarkSaver
	flushInterval time.Duration
	errorChannel  chan error

	mu      sync.Mutex
	pending map[string]map[string]float64
	// inflight holds the batch being written so reads still see it.
	inflight map[string]map[string]float64
	flushMu  sync.Mutex
}

func New(db bookmarkSaver, errorChannelCapacity int, flushInterval time.Duration) *BookmarkFlusher {
	return &BookmarkFlusher{
		db:            db,
		flushInterval: flushInterval,
		errorChannel:  make(chan error, errorChannelCapacity),
		pending:       map[string]map[string]float64{},
	}
}

func (f *BookmarkFlusher) ListenErrors(callback func(error)) {
	go func() {
		for err := range f.errorChannel {
			callback(err)
		}
	}()
}

// EnqueueJob records a save. A later save of the same file replaces an earlier one.
func (f *BookmarkFlusher) EnqueueJob(job models.Bookmark) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.pending[job.Username] == nil {
		f.pending[job.Username] = map[string]float64{}
	}
	f.pending[job.Username][job.Filename] = job.Position
}

// Pending returns a saved position that has not reached the store yet.
func (f *BookmarkFlusher) Pending(username, filename string) (float64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if position, ok := f.pending[username][filename]; ok {
		return position, true
	}
	position, ok := f.inflight[username][filename]

	return position, ok
}

// Flush writes every pending save. On failure the batch is put back unless a
// newer save for the same file arrived meanwhile.
func (f *BookmarkFlusher) Flush(ctx context.Context) error {
	f.flushMu.Lock()
	defer f.flushMu.Unlock()

	f.mu.Lock()
	batch := f.pending
	if len(batch) == 0 {
		f.mu.Unlock()
		return nil
	}
	f.pending = map[string]map[string]float64{}
	f.inflight = batch
	f.mu.Unlock()

	err := f.db.SaveBookmarks(ctx, batch)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inflight = nil
	if err != nil {
		for username, positions := range batch {
			if f.pending[username] == nil {
				f.pending[username] = map[string]float64{}
			}
			for filename, position := range positions {
				if _, newer := f.pending[username][filename]; !newer {
					f.pending[username][filename] = position
				}
			}
		}
		return err
	}

	logger.Log.Infof("flushed bookmarks of %d users", len(batch))

	return nil
}

// Run flushes on every tick until ctx is done, then flushes once more with a
// fresh context so nothing enqueued before shutdown is lost.
func (f *BookmarkFlusher) Run(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(f.flushInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := f.Flush(ctx); err != nil {
					f.reportError(err)
				}
			case <-ctx.Done():
				if err := f.Flush(context.Background()); err != nil {
					f.reportError(err)
				}
				return
			}
		}
	}()
}

func (f *BookmarkFlusher) reportError(err error) {
	select {
	case f.errorChannel <- err:
	default:
		logger.Log.Errorw("bookmark flush error dropped", "error", err)
	}
}
