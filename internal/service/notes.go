package service

import (
	"context"
	"strings"

	"github.com/patric-chuzhbe/studydesk/internal/db/storage"
	"github.com/patric-chuzhbe/studydesk/internal/models"
)

func notesDocument(username string) string {
	return "notes/" + username + "_notes"
}

// Notes returns the user's notes in their stored order.
func (s *Service) Notes(ctx context.Context, username string) ([]models.Note, error) {
	name := notesDocument(username)
	notes, err := storage.Load(ctx, s.db, name, []models.Note{})
	if err != nil {
		return nil, err
	}

	notes = append([]models.Note{}, notes...)
	fillIDs(name, username, notes, noteID)

	return notes, nil
}

// SaveNote appends note, or replaces the note at *index when index is given.
// An index outside the current list fails with ErrInvalidIndex. An empty date
// defaults to today.
func (s *Service) SaveNote(ctx context.Context, username string, note models.Note, index *int) (models.Note, error) {
	note.Title = strings.TrimSpace(note.Title)
	note.Content = strings.TrimSpace(note.Content)
	note.Date = strings.TrimSpace(note.Date)
	if note.Title == "" {
		return models.Note{}, ErrTitleRequired
	}
	if note.Date == "" {
		note.Date = s.now().Format(dateLayout)
	}

	name := notesDocument(username)
	err := update(ctx, s, name, []models.Note{}, func(notes *[]models.Note) error {
		fillIDs(name, username, *notes, noteID)
		if index == nil {
			note.ID = s.newID()
			*notes = append(*notes, note)
			return nil
		}
		if *index < 0 || *index >= len(*notes) {
			return ErrInvalidIndex
		}
		note.ID = (*notes)[*index].ID
		(*notes)[*index] = note
		return nil
	})
	if err != nil {
		return models.Note{}, err
	}

	return note, nil
}

// DeleteNote removes the note at index, or fails with ErrInvalidIndex.
func (s *Service) DeleteNote(ctx context.Context, username string, index int) error {
	name := notesDocument(username)
	return update(ctx, s, name, []models.Note{}, func(notes *[]models.Note) error {
		fillIDs(name, username, *notes, noteID)
		if index < 0 || index >= len(*notes) {
			return ErrInvalidIndex
		}
		*notes = append((*notes)[:index], (*notes)[index+1:]...)
		return nil
	})
}
