package service

import "context"

// Bookmark returns the saved position of filename for the user, 0 when none.
func (s *Service) Bookmark(ctx context.Context, username, filename string) (float64, error) {
	doc, err := loadPerUser[map[string]float64](ctx, s, bookmarksDocument)
	if err != nil {
		return 0, err
	}

	return doc[username][filename], nil
}

// SaveBookmarks merges batch (username -> filename -> position) into the stored bookmarks.
func (s *Service) SaveBookmarks(ctx context.Context, batch map[string]map[string]float64) error {
	if len(batch) == 0 {
		return nil
	}

	return updatePerUser(ctx, s, bookmarksDocument, func(doc perUser[map[string]float64]) error {
		for username, positions := range batch {
			if doc[username] == nil {
				doc[username] = map[string]float64{}
			}
			for filename, position := range positions {
				doc[username][filename] = position
			}
		}
		return nil
	})
}
