package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mitali-Laddha/travelmate-smart-travel-api/internal/domain"
	"github.com/Mitali-Laddha/travelmate-smart-travel-api/internal/service"
)

// ---- mock ------------------------------------------------------------------

type mockTripLister struct {
	listByUser func(ctx context.Context, userID uuid.UUID) ([]domain.TripWithItinerary, error)
}

func (m *mockTripLister) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.TripWithItinerary, error) {
	return m.listByUser(ctx, userID)
}

func listing(trips ...domain.TripWithItinerary) *mockTripLister {
	return &mockTripLister{
		listByUser: func(context.Context, uuid.UUID) ([]domain.TripWithItinerary, error) { return trips, nil },
	}
}

// ---- helpers ---------------------------------------------------------------

func exportTrip(name string, start time.Time, entries ...domain.ItineraryEntry) domain.TripWithItinerary {
	end := domain.DeriveEndDate(start, 3)
	return domain.TripWithItinerary{
		Trip: domain.Trip{
			ID:          uuid.New(),
			Name:        name,
			Destination: "Rome",
			StartDate:   start,
			EndDate:     &end,
			Days:        3,
			Status:      domain.StatusConfirmed,
			TotalBudget: decimal.RequireFromString("1200.00"),
		},
		Itinerary: entries,
	}
}

// ---- Export ----------------------------------------------------------------

func TestExportService_Export_OneRowPerEntry(t *testing.T) {
	trip := exportTrip("Roman Holiday", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		domain.ItineraryEntry{DayNumber: 1, OrderIndex: 0, Name: "Colosseum", Time: "09:00", Cost: decimal.NewFromInt(18)},
		domain.ItineraryEntry{DayNumber: 2, OrderIndex: 0, Name: "Vatican", Location: "Vatican City"},
	)

	rows, err := service.NewExportService(listing(trip)).Export(context.Background(), uuid.New())

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Roman Holiday", rows[0].TripName)
	assert.Equal(t, "2025-06-01", rows[0].TripStartDate)
	assert.Equal(t, "2025-06-03", rows[0].TripEndDate)
	assert.Equal(t, "confirmed", rows[0].Status)
	assert.True(t, rows[0].HasEntry)
	assert.Equal(t, "Colosseum", rows[0].Activity)
	assert.Equal(t, "09:00", rows[0].Time)
	assert.True(t, rows[0].Cost.Equal(decimal.NewFromInt(18)))
	assert.Equal(t, 2, rows[1].DayNumber)
	assert.Equal(t, "Vatican City", rows[1].Location)
	assert.Equal(t, rows[0].TripID, rows[1].TripID, "trip fields repeat on every row")
}

func TestExportService_Export_TripWithNoEntries(t *testing.T) {
	trip := exportTrip("Empty Trip", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))

	rows, err := service.NewExportService(listing(trip)).Export(context.Background(), uuid.New())

	require.NoError(t, err)
	require.Len(t, rows, 1, "trips with no itinerary should still produce one row")
	assert.Equal(t, "Empty Trip", rows[0].TripName)
	assert.False(t, rows[0].HasEntry)
	assert.Empty(t, rows[0].Activity)
}

func TestExportService_Export_MultipleTrips(t *testing.T) {
	a := exportTrip("Trip A", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		domain.ItineraryEntry{DayNumber: 1, Name: "A1"},
		domain.ItineraryEntry{DayNumber: 1, OrderIndex: 1, Name: "A2"},
	)
	b := exportTrip("Trip B", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		domain.ItineraryEntry{DayNumber: 1, Name: "B1"},
	)

	rows, err := service.NewExportService(listing(a, b)).Export(context.Background(), uuid.New())

	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"A1", "A2", "B1"}, []string{rows[0].Activity, rows[1].Activity, rows[2].Activity})
	assert.Equal(t, "Trip B", rows[2].TripName)
}

func TestExportService_Export_NoTrips(t *testing.T) {
	rows, err := service.NewExportService(listing()).Export(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestExportService_Export_NoEndDate(t *testing.T) {
	trip := exportTrip("Open Ended", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	trip.EndDate = nil

	rows, err := service.NewExportService(listing(trip)).Export(context.Background(), uuid.New())

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].TripEndDate)
}

func TestExportService_Export_ListError(t *testing.T) {
	svc := service.NewExportService(&mockTripLister{
		listByUser: func(context.Context, uuid.UUID) ([]domain.TripWithItinerary, error) {
			return nil, errors.New("boom")
		},
	})

	_, err := svc.Export(context.Background(), uuid.New())

	assert.Error(t, err)
}
