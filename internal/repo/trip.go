package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Mitali-Laddha/travelmate-smart-travel-api/internal/domain"
)

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres implementation,
// which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with DB-generated
	// id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ListByUser returns every trip owned by userID, most recently created first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error)

	// Update overwrites the mutable fields of the trip identified by
	// (trip.ID, trip.UserID) and returns the updated record.
	// Returns domain.ErrNotFound if no such trip exists.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes the trip identified by (userID, id); its itinerary entries
	// go with it via ON DELETE CASCADE. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool or a pgx.Tx from Store.WithinTx;
// in integration tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

// tripSelect projects a trip row aliased as t plus the optional catalog
// destination aliased as d. Every query in this file scans it with scanTrip.
const tripSelect = `
	SELECT t.id, t.user_id, t.destination_id, t.name, t.destination,
	       t.start_date, t.end_date, t.days, t.status,
	       t.budget_flights, t.budget_hotel, t.budget_food,
	       t.budget_activities, t.budget_transport, t.budget_misc,
	       t.total_budget, t.notes, t.created_at, t.updated_at,
	       d.name, d.country`

// tripArgs maps the writable columns of a trip to named arguments.
func tripArgs(trip domain.Trip) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":                trip.ID,
		"user_id":           trip.UserID,
		"destination_id":    trip.DestinationID, // nil becomes NULL
		"name":              trip.Name,
		"destination":       trip.Destination,
		"start_date":        trip.StartDate,
		"end_date":          trip.EndDate,
		"days":              trip.Days,
		"status":            string(trip.Status),
		"budget_flights":    trip.Budget.Flights,
		"budget_hotel":      trip.Budget.Hotel,
		"budget_food":       trip.Budget.Food,
		"budget_activities": trip.Budget.Activities,
		"budget_transport":  trip.Budget.Transport,
		"budget_misc":       trip.Budget.Misc,
		"total_budget":      trip.TotalBudget,
		"notes":             trip.Notes,
	}
}

// Create inserts a new trip row and returns the full persisted record.
// The CTE lets the insert share tripSelect's destination join.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		WITH t AS (
			INSERT INTO trips (
				user_id, destination_id, name, destination, start_date, end_date, days, status,
				budget_flights, budget_hotel, budget_food, budget_activities, budget_transport, budget_misc,
				total_budget, notes)
			VALUES (
				@user_id, @destination_id, @name, @destination, @start_date, @end_date, @days, @status,
				@budget_flights, @budget_hotel, @budget_food, @budget_activities, @budget_transport, @budget_misc,
				@total_budget, @notes)
			RETURNING *
		)` + tripSelect + `
		FROM t
		LEFT JOIN destinations d ON d.id = t.destination_id`

	row := r.db.QueryRow(ctx, q, tripArgs(trip))
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = tripSelect + `
		FROM trips t
		LEFT JOIN destinations d ON d.id = t.destination_id
		WHERE t.id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListByUser returns the user's trips ordered by created_at descending.
// id breaks ties so the order is stable across calls.
func (r *pgTripRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	const q = tripSelect + `
		FROM trips t
		LEFT JOIN destinations d ON d.id = t.destination_id
		WHERE t.user_id = @user_id
		ORDER BY t.created_at DESC, t.id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.ListByUser: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByUser: rows: %w", err)
	}

	return trips, nil
}

// Update overwrites every mutable field of a trip and returns the updated record.
// A trip owned by another user matches zero rows and reports ErrNotFound.
func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		WITH t AS (
			UPDATE trips
			SET destination_id    = @destination_id,
			    name              = @name,
			    destination       = @destination,
			    start_date        = @start_date,
			    end_date          = @end_date,
			    days              = @days,
			    status            = @status,
			    budget_flights    = @budget_flights,
			    budget_hotel      = @budget_hotel,
			    budget_food       = @budget_food,
			    budget_activities = @budget_activities,
			    budget_transport  = @budget_transport,
			    budget_misc       = @budget_misc,
			    total_budget      = @total_budget,
			    notes             = @notes,
			    updated_at        = now()
			WHERE id = @id AND user_id = @user_id
			RETURNING *
		)` + tripSelect + `
		FROM t
		LEFT JOIN destinations d ON d.id = t.destination_id`

	row := r.db.QueryRow(ctx, q, tripArgs(trip))
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

// Delete removes a trip by primary key, scoped to its owner.
func (r *pgTripRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id AND user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanTrip to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single tripSelect row into a domain.Trip.
// It handles the nullable end_date, destination_id, and joined catalog columns.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t           domain.Trip
		status      string
		destID      *uuid.UUID
		endDate     *time.Time
		destName    *string
		destCountry *string
	)

	err := s.Scan(
		&t.ID, &t.UserID, &destID, &t.Name, &t.Destination,
		&t.StartDate, &endDate, &t.Days, &status,
		&t.Budget.Flights, &t.Budget.Hotel, &t.Budget.Food,
		&t.Budget.Activities, &t.Budget.Transport, &t.Budget.Misc,
		&t.TotalBudget, &t.Notes, &t.CreatedAt, &t.UpdatedAt,
		&destName, &destCountry,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.Status = domain.TripStatus(status)
	t.DestinationID = destID
	t.EndDate = endDate
	if destID != nil && destName != nil {
		t.DestinationInfo = &domain.DestinationSummary{ID: *destID, Name: *destName}
		if destCountry != nil {
			t.DestinationInfo.Country = *destCountry
		}
	}

	return t, nil
}
