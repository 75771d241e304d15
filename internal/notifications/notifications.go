// Package notifications builds the notification feed shown to a user: every
// assignment, followed by the reminders that are due.
package notifications

import (
	"time"

	"github.com/patric-chuzhbe/studydesk/internal/models"
)

const (
	AssignmentsLink = "/assignments"
	RemindersLink   = "/reminders"

	dueLayout   = "2006-01-02 15:04"
	defaultTime = "00:00"
)

// Build returns assignments first, then reminders, each group in storage order.
// A reminder is included when it has no date, when its date/time cannot be parsed,
// or once now has reached its due moment. Dates are read in now's location.
func Build(assignments []models.Assignment, reminders []models.Reminder, now time.Time) []models.Notification {
	result := make([]models.Notification, 0, len(assignments)+len(reminders))

	for _, a := range assignments {
		title := a.Subject
		if title == "" {
			title = a.Title
		}
		if title == "" {
			title = "Assignment"
		}
		text := "Assignment: " + title
		if a.DueDate != "" {
			text += " (Due " + a.DueDate + ")"
		}
		result = append(result, models.Notification{
			Type: models.NotificationTypeAssignment,
			Text: text,
			Link: AssignmentsLink,
		})
	}

	for _, r := range reminders {
		if !IsDue(r, now) {
			continue
		}
		title := r.Title
		if title == "" {
			title = "Reminder"
		}
		result = append(result, models.Notification{
			Type: models.NotificationTypeReminder,
			Text: "Reminder: " + title,
			Link: RemindersLink,
		})
	}

	return result
}

// IsDue reports whether the reminder should be visible at now.
func IsDue(r models.Reminder, now time.Time) bool {
	if r.Date == "" {
		return true
	}

	clock := r.Time
	if clock == "" {
		clock = defaultTime
	}

	due, err := time.ParseInLocation(dueLayout, r.Date+" "+clock, now.Location())
	if err != nil {
		return true
	}

	return !now.Before(due)
}
