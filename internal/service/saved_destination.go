package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Mitali-Laddha/travelmate-smart-travel-api/internal/domain"
	"github.com/Mitali-Laddha/travelmate-smart-travel-api/internal/repo"
)

// SavedDestinationService manages a user's bookmarked catalog destinations.
type SavedDestinationService struct {
	saved repo.SavedDestinationRepo
}

// NewSavedDestinationService constructs a SavedDestinationService backed by the provided repo.
func NewSavedDestinationService(saved repo.SavedDestinationRepo) *SavedDestinationService {
	return &SavedDestinationService{saved: saved}
}

// Save bookmarks destinationID for userID.
// Returns domain.ErrValidation for a nil destination id, domain.ErrConflict if
// it is already saved, and domain.ErrNotFound if the destination does not exist.
func (s *SavedDestinationService) Save(ctx context.Context, userID, destinationID uuid.UUID) (domain.SavedDestination, error) {
	if destinationID == uuid.Nil {
		return domain.SavedDestination{}, fmt.Errorf("%w: destination_id is required", domain.ErrValidation)
	}
	result, err := s.saved.Save(ctx, userID, destinationID)
	if err != nil {
		return domain.SavedDestination{}, fmt.Errorf("service.SavedDestinationService.Save: %w", err)
	}
	return result, nil
}

// List returns one page of the user's saved destinations and the total count.
// Always returns a non-nil slice so callers can safely range over it.
func (s *SavedDestinationService) List(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.SavedDestination, int64, error) {
	saved, total, err := s.saved.ListPaged(ctx, userID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.SavedDestinationService.List: %w", err)
	}
	if saved == nil {
		saved = []domain.SavedDestination{}
	}
	return saved, total, nil
}

// Remove deletes the bookmark.
// Returns domain.ErrNotFound if the destination was not saved.
func (s *SavedDestinationService) Remove(ctx context.Context, userID, destinationID uuid.UUID) error {
	if err := s.saved.Remove(ctx, userID, destinationID); err != nil {
		return fmt.Errorf("service.SavedDestinationService.Remove: %w", err)
	}
	return nil
}
