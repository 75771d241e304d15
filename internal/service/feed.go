package service

import (
	"context"
	"math/rand"

	"github.com/thoas/go-funk"

	"github.com/patric-chuzhbe/studydesk/internal/db/storage"
	"github.com/patric-chuzhbe/studydesk/internal/models"
	"github.com/patric-chuzhbe/studydesk/internal/notifications"
)

var dailyQuotes = []string{
	"The secret of getting ahead is getting started. — Mark Twain",
	"Don’t watch the clock; do what it does. Keep going. — Sam Levenson",
	"It always seems impossible until it’s done. — Nelson Mandela",
	"Success is the sum of small efforts, repeated day in and day out. — Robert Collier",
	"Work hard in silence, let your success be the noise.",
}

func randomIndex(n int) int {
	return rand.Intn(n)
}

// Notifications returns the user's assignments followed by the reminders that are due now.
func (s *Service) Notifications(ctx context.Context, username string) ([]models.Notification, error) {
	assignments, err := s.Assignments(ctx, username)
	if err != nil {
		return nil, err
	}

	reminders, err := s.Reminders(ctx, username)
	if err != nil {
		return nil, err
	}

	return notifications.Build(assignments, reminders, s.now()), nil
}

// Dashboard gathers the landing page data. files is the user's upload listing.
func (s *Service) Dashboard(ctx context.Context, username string, files []string) (models.Dashboard, error) {
	reminders, err := s.Reminders(ctx, username)
	if err != nil {
		return models.Dashboard{}, err
	}

	spotifyURL, err := s.SpotifyURL(ctx, username)
	if err != nil {
		return models.Dashboard{}, err
	}

	if files == nil {
		files = []string{}
	}

	return models.Dashboard{
		Username: username,
		Reminders: funk.Map(reminders, func(r models.Reminder) string {
			return r.Title
		}).([]string),
		Files:      files,
		SpotifyURL: spotifyURL,
		DailyQuote: dailyQuotes[s.pickQuote(len(dailyQuotes))],
	}, nil
}

// InternalStats counts accounts and the records kept across all users.
func (s *Service) InternalStats(ctx context.Context) (models.InternalStatsResponse, error) {
	users, err := storage.Load(ctx, s.db, usersDocument, []models.User{})
	if err != nil {
		return models.InternalStatsResponse{}, err
	}

	reminders, err := loadPerUser[[]models.Reminder](ctx, s, remindersDocument)
	if err != nil {
		return models.InternalStatsResponse{}, err
	}

	assignments, err := loadPerUser[models.Assignments](ctx, s, assignmentsDocument)
	if err != nil {
		return models.InternalStatsResponse{}, err
	}

	stats := models.InternalStatsResponse{Users: len(users)}
	for _, list := range reminders {
		stats.Reminders += len(list)
	}
	for _, list := range assignments {
		stats.Assignments += len(list)
	}

	return stats, nil
}
