package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Mitali-Laddha/travelmate-smart-travel-api/internal/domain"
)

// tripLister is the part of TripService the export needs.
type tripLister interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.TripWithItinerary, error)
}

// ExportService flattens a user's trips and itineraries into export rows.
type ExportService struct {
	trips tripLister
}

// NewExportService constructs an ExportService that reads through trips.
func NewExportService(trips tripLister) *ExportService {
	return &ExportService{trips: trips}
}

// Export returns one ExportRow per itinerary entry across all of the user's
// trips, newest trip first and entries in display order.
// Trips with no entries contribute one row with empty entry fields.
// Always returns a non-nil slice.
func (s *ExportService) Export(ctx context.Context, userID uuid.UUID) ([]domain.ExportRow, error) {
	trips, err := s.trips.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := []domain.ExportRow{}
	for _, trip := range trips {
		base := domain.ExportRow{
			TripID:        trip.ID.String(),
			TripName:      trip.Name,
			Destination:   trip.Destination,
			TripStartDate: trip.StartDate.Format(time.DateOnly),
			Status:        string(trip.Status),
			TotalBudget:   trip.TotalBudget,
		}
		if trip.EndDate != nil {
			base.TripEndDate = trip.EndDate.Format(time.DateOnly)
		}

		if len(trip.Itinerary) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, e := range trip.Itinerary {
			row := base
			row.HasEntry = true
			row.DayNumber = e.DayNumber
			row.OrderIndex = e.OrderIndex
			row.Activity = e.Name
			row.Time = e.Time
			row.Location = e.Location
			row.Cost = e.Cost
			row.Notes = e.Notes
			rows = append(rows, row)
		}
	}
	return rows, nil
}
