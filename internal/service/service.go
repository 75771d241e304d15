// Package service implements the per-user collections (accounts, reminders,
// assignments, notes, timetable, subjects, Spotify embed, bookmarks) on top of a
// document store, plus the notification feed and dashboard built from them.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/patric-chuzhbe/studydesk/internal/db/storage"
	"github.com/patric-chuzhbe/studydesk/internal/logger"
	"github.com/patric-chuzhbe/studydesk/internal/models"
)

const (
	usersDocument       = "users"
	remindersDocument   = "reminders"
	assignmentsDocument = "assignments"
	timetableDocument   = "timetable"
	subjectsDocument    = "subjects"
	spotifyDocument     = "spotify"
	bookmarksDocument   = "bookmarks"

	dateLayout = "2006-01-02"
)

var (
	ErrUserExists         = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidIndex       = errors.New("invalid note index")
	ErrTitleRequired      = errors.New("title is required")
	ErrNotFound           = errors.New("record not found")
	ErrPasswordTooLong    = errors.New("password is longer than 72 bytes")
)

type documentStore interface {
	storage.Reader
	storage.Writer
}

type Service struct {
	db        documentStore
	locks     *documentLocks
	now       func() time.Time
	newID     func() string
	pickQuote func(n int) int
}

type Option func(*Service)

// WithClock replaces time.Now, which decides reminder visibility and default note dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

// WithQuoteSelector replaces the random choice of the dashboard's daily quote.
func WithQuoteSelector(pick func(n int) int) Option {
	return func(s *Service) {
		s.pickQuote = pick
	}
}

func New(db documentStore, opts ...Option) *Service {
	s := &Service{
		db:        db,
		locks:     newDocumentLocks(),
		now:       time.Now,
		newID:     uuid.NewString,
		pickQuote: randomIndex,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// documentLocks hands out one mutex per document name so that read-modify-write
// cycles on the same document do not lose each other's updates.
type documentLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newDocumentLocks() *documentLocks {
	return &documentLocks{locks: map[string]*sync.Mutex{}}
}

func (l *documentLocks) lock(name string) func() {
	l.mu.Lock()
	m, ok := l.locks[name]
	if !ok {
		m = &sync.Mutex{}
		l.locks[name] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// errNoChange lets an update callback skip the write.
var errNoChange = errors.New("no change")

// update loads name, applies fn and saves the result, all under the document's lock.
func update[T any](ctx context.Context, s *Service, name string, def T, fn func(*T) error) error {
	unlock := s.locks.lock(name)
	defer unlock()

	value, err := storage.Load(ctx, s.db, name, def)
	if err != nil {
		return err
	}

	if err := fn(&value); err != nil {
		if errors.Is(err, errNoChange) {
			return nil
		}
		return err
	}

	return storage.Save(ctx, s.db, name, value)
}

// perUser is the shape of every document that maps a username to that user's data.
type perUser[T any] map[string]T

// splitPerUser decodes each user's entry on its own. Entries that do not decode
// as T are returned separately so that a write can put them back untouched.
func splitPerUser[T any](name string, raw map[string]json.RawMessage) (perUser[T], map[string]json.RawMessage) {
	doc := perUser[T]{}
	kept := map[string]json.RawMessage{}
	for username, entry := range raw {
		var value T
		if err := json.Unmarshal(entry, &value); err != nil {
			logger.Log.Warnw("keeping undecodable entry as is", "document", name, "username", username, "error", err)
			kept[username] = entry
			continue
		}
		doc[username] = value
	}

	return doc, kept
}

func loadPerUser[T any](ctx context.Context, s *Service, name string) (perUser[T], error) {
	raw, err := storage.Load(ctx, s.db, name, map[string]json.RawMessage{})
	doc, _ := splitPerUser[T](name, raw)

	return doc, err
}

func updatePerUser[T any](ctx context.Context, s *Service, name string, fn func(doc perUser[T]) error) error {
	return update(ctx, s, name, map[string]json.RawMessage{}, func(raw *map[string]json.RawMessage) error {
		doc, kept := splitPerUser[T](name, *raw)
		if err := fn(doc); err != nil {
			return err
		}

		merged := make(map[string]json.RawMessage, len(doc)+len(kept))
		for username, entry := range kept {
			merged[username] = entry
		}
		for username, value := range doc {
			entry, err := json.Marshal(value)
			if err != nil {
				return fmt.Errorf("error marshaling %q entry of %q: %w", username, name, err)
			}
			merged[username] = entry
		}
		*raw = merged

		return nil
	})
}

// fillIDs gives every record stored without an id a stable one. The id is
// derived from the document, the owner, the position and the content, so a
// read and the write that later persists it agree on the same value.
func fillIDs[T any](document, username string, records []T, idOf func(*T) *string) {
	for i := range records {
		id := idOf(&records[i])
		if *id != "" {
			continue
		}
		content, err := json.Marshal(records[i])
		if err != nil {
			content = nil
		}
		key := fmt.Sprintf("%s\x00%s\x00%d\x00%s", document, username, i, content)
		*id = uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
	}
}

func reminderID(r *models.Reminder) *string     { return &r.ID }
func assignmentID(a *models.Assignment) *string { return &a.ID }
func noteID(n *models.Note) *string             { return &n.ID }
