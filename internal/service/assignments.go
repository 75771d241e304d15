package service

import (
	"context"
	"strings"

	"github.com/thoas/go-funk"

	"github.com/patric-chuzhbe/studydesk/internal/models"
)

func (s *Service) AddAssignment(ctx context.Context, username, subject, dueDate, description string) (models.Assignment, error) {
	assignment := models.Assignment{
		ID:          s.newID(),
		Subject:     strings.TrimSpace(subject),
		DueDate:     dueDate,
		Description: strings.TrimSpace(description),
		Completed:   false,
	}

	err := updatePerUser(ctx, s, assignmentsDocument, func(doc perUser[models.Assignments]) error {
		fillIDs(assignmentsDocument, username, doc[username], assignmentID)
		doc[username] = append(doc[username], assignment)
		return nil
	})
	if err != nil {
		return models.Assignment{}, err
	}

	return assignment, nil
}

// Assignments returns the user's assignments. Entries that are not objects are
// dropped while decoding; entries without an id are shown with a stable one.
func (s *Service) Assignments(ctx context.Context, username string) ([]models.Assignment, error) {
	doc, err := loadPerUser[models.Assignments](ctx, s, assignmentsDocument)
	if err != nil {
		return nil, err
	}

	assignments := append([]models.Assignment{}, doc[username]...)
	fillIDs(assignmentsDocument, username, assignments, assignmentID)

	return assignments, nil
}

// UpdateAssignmentCompletion sets the completed flag of the first assignment
// with the given subject. Nothing happens when no assignment matches.
func (s *Service) UpdateAssignmentCompletion(ctx context.Context, username, subject string, completed bool) error {
	_, err := s.setCompleted(ctx, username, completed, func(a models.Assignment) bool {
		return a.Subject == subject
	})

	return err
}

func (s *Service) UpdateAssignmentCompletionByID(ctx context.Context, username, id string, completed bool) error {
	found, err := s.setCompleted(ctx, username, completed, func(a models.Assignment) bool {
		return a.ID == id
	})
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}

	return nil
}

func (s *Service) setCompleted(ctx context.Context, username string, completed bool, match func(models.Assignment) bool) (bool, error) {
	found := false
	err := updatePerUser(ctx, s, assignmentsDocument, func(doc perUser[models.Assignments]) error {
		fillIDs(assignmentsDocument, username, doc[username], assignmentID)
		for i, a := range doc[username] {
			if match(a) {
				doc[username][i].Completed = completed
				found = true
				return nil
			}
		}
		return errNoChange
	})

	return found, err
}

// DeleteAssignment removes every assignment whose subject equals subject exactly.
func (s *Service) DeleteAssignment(ctx context.Context, username, subject string) (int, error) {
	return s.deleteAssignments(ctx, username, func(a models.Assignment) bool {
		return a.Subject == subject
	})
}

func (s *Service) DeleteAssignmentByID(ctx context.Context, username, id string) error {
	removed, err := s.deleteAssignments(ctx, username, func(a models.Assignment) bool {
		return a.ID == id
	})
	if err != nil {
		return err
	}
	if removed == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *Service) deleteAssignments(ctx context.Context, username string, match func(models.Assignment) bool) (int, error) {
	removed := 0
	err := updatePerUser(ctx, s, assignmentsDocument, func(doc perUser[models.Assignments]) error {
		before := []models.Assignment(doc[username])
		fillIDs(assignmentsDocument, username, before, assignmentID)
		kept := funk.Filter(before, func(a models.Assignment) bool {
			return !match(a)
		}).([]models.Assignment)
		removed = len(before) - len(kept)
		if removed == 0 {
			return errNoChange
		}
		doc[username] = kept
		return nil
	})

	return removed, err
}
