package service

import (
	"context"
	"strings"

	"github.com/thoas/go-funk"

	"github.com/patric-chuzhbe/studydesk/internal/models"
)

func (s *Service) AddReminder(ctx context.Context, username, title, date, clock string) (models.Reminder, error) {
	reminder := models.Reminder{
		ID:    s.newID(),
		Title: strings.TrimSpace(title),
		Date:  date,
		Time:  clock,
	}

	err := updatePerUser(ctx, s, remindersDocument, func(doc perUser[[]models.Reminder]) error {
		fillIDs(remindersDocument, username, doc[username], reminderID)
		doc[username] = append(doc[username], reminder)
		return nil
	})
	if err != nil {
		return models.Reminder{}, err
	}

	return reminder, nil
}

// Reminders returns the user's reminders in insertion order. Entries stored
// without an id (including legacy bare strings) are shown with a stable one,
// which is persisted by the next write to the document.
func (s *Service) Reminders(ctx context.Context, username string) ([]models.Reminder, error) {
	doc, err := loadPerUser[[]models.Reminder](ctx, s, remindersDocument)
	if err != nil {
		return nil, err
	}

	reminders := append([]models.Reminder{}, doc[username]...)
	fillIDs(remindersDocument, username, reminders, reminderID)

	return reminders, nil
}

// DeleteReminder removes every reminder whose title equals title exactly and
// returns how many were removed.
func (s *Service) DeleteReminder(ctx context.Context, username, title string) (int, error) {
	return s.deleteReminders(ctx, username, func(r models.Reminder) bool {
		return r.Title == title
	})
}

func (s *Service) DeleteReminderByID(ctx context.Context, username, id string) error {
	removed, err := s.deleteReminders(ctx, username, func(r models.Reminder) bool {
		return r.ID == id
	})
	if err != nil {
		return err
	}
	if removed == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *Service) deleteReminders(ctx context.Context, username string, match func(models.Reminder) bool) (int, error) {
	removed := 0
	err := updatePerUser(ctx, s, remindersDocument, func(doc perUser[[]models.Reminder]) error {
		before := doc[username]
		fillIDs(remindersDocument, username, before, reminderID)
		kept := funk.Filter(before, func(r models.Reminder) bool {
			return !match(r)
		}).([]models.Reminder)
		removed = len(before) - len(kept)
		if removed == 0 {
			return errNoChange
		}
		doc[username] = kept
		return nil
	})

	return removed, err
}
