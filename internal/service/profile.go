package service

import (
	"context"
	"encoding/json"

	"github.com/patric-chuzhbe/studydesk/internal/spotify"
)

var emptyTimetable = json.RawMessage(`{}`)

// Timetable returns the user's timetable as stored; its shape belongs to the client.
func (s *Service) Timetable(ctx context.Context, username string) (json.RawMessage, error) {
	doc, err := loadPerUser[json.RawMessage](ctx, s, timetableDocument)
	if err != nil {
		return nil, err
	}

	timetable, ok := doc[username]
	if !ok || len(timetable) == 0 || string(timetable) == "null" {
		return emptyTimetable, nil
	}

	return timetable, nil
}

func (s *Service) SaveTimetable(ctx context.Context, username string, timetable json.RawMessage) error {
	return updatePerUser(ctx, s, timetableDocument, func(doc perUser[json.RawMessage]) error {
		doc[username] = timetable
		return nil
	})
}

func (s *Service) Subjects(ctx context.Context, username string) ([]string, error) {
	doc, err := loadPerUser[[]string](ctx, s, subjectsDocument)
	if err != nil {
		return nil, err
	}

	subjects := doc[username]
	if subjects == nil {
		subjects = []string{}
	}

	return subjects, nil
}

func (s *Service) SaveSubjects(ctx context.Context, username string, subjects []string) error {
	if subjects == nil {
		subjects = []string{}
	}

	return updatePerUser(ctx, s, subjectsDocument, func(doc perUser[[]string]) error {
		doc[username] = subjects
		return nil
	})
}

// SpotifyURL returns the user's embed URL, or the default playlist when none is saved.
func (s *Service) SpotifyURL(ctx context.Context, username string) (string, error) {
	doc, err := loadPerUser[string](ctx, s, spotifyDocument)
	if err != nil {
		return "", err
	}

	url, ok := doc[username]
	if !ok || url == "" {
		return spotify.DefaultEmbedURL, nil
	}

	return url, nil
}

// SaveSpotifyURL normalizes shareURL to an embed URL, stores and returns it.
func (s *Service) SaveSpotifyURL(ctx context.Context, username, shareURL string) (string, error) {
	embed := spotify.ToEmbed(shareURL)

	err := updatePerUser(ctx, s, spotifyDocument, func(doc perUser[string]) error {
		doc[username] = embed
		return nil
	})
	if err != nil {
		return "", err
	}

	return embed, nil
}
