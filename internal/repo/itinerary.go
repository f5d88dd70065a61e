package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Mitali-Laddha/travelmate-smart-travel-api/internal/domain"
)

// ItineraryRepo defines the persistence operations for itinerary entries.
// Entries are never updated one at a time: a trip's itinerary is replaced by
// deleting every entry and inserting the new set inside one transaction.
type ItineraryRepo interface {
	// InsertAll inserts entries for tripID in the given order and returns them
	// with DB-generated id and created_at populated. DayNumber and OrderIndex
	// are stored exactly as given.
	InsertAll(ctx context.Context, tripID uuid.UUID, entries []domain.ItineraryEntry) ([]domain.ItineraryEntry, error)

	// DeleteByTrip removes every entry of tripID and reports how many were removed.
	DeleteByTrip(ctx context.Context, tripID uuid.UUID) (int64, error)

	// ListByTrip returns all entries of tripID ordered by day_number, then order_index.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.ItineraryEntry, error)
}

// pgItineraryRepo is the Postgres implementation of ItineraryRepo.
type pgItineraryRepo struct {
	db db
}

// NewItineraryRepo constructs an ItineraryRepo backed by the provided db connection.
func NewItineraryRepo(db db) ItineraryRepo {
	return &pgItineraryRepo{db: db}
}

// InsertAll issues one INSERT per entry. On a transaction the statements run
// sequentially on the same connection; the first failure aborts the loop and
// the caller's rollback discards the rows already written.
func (r *pgItineraryRepo) InsertAll(ctx context.Context, tripID uuid.UUID, entries []domain.ItineraryEntry) ([]domain.ItineraryEntry, error) {
	const q = `
		INSERT INTO itinerary_entries (trip_id, day_number, order_index, name, start_time, notes, cost, location)
		VALUES (@trip_id, @day_number, @order_index, @name, @start_time, @notes, @cost, @location)
		RETURNING id, created_at`

	saved := make([]domain.ItineraryEntry, 0, len(entries))
	for _, e := range entries {
		e.TripID = tripID
		args := pgx.NamedArgs{
			"trip_id":     tripID,
			"day_number":  e.DayNumber,
			"order_index": e.OrderIndex,
			"name":        e.Name,
			"start_time":  e.Time,
			"notes":       e.Notes,
			"cost":        e.Cost,
			"location":    e.Location,
		}
		if err := r.db.QueryRow(ctx, q, args).Scan(&e.ID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("repo.ItineraryRepo.InsertAll: day %d #%d: %w", e.DayNumber, e.OrderIndex, conflictOr(err))
		}
		saved = append(saved, e)
	}
	return saved, nil
}

// DeleteByTrip removes all entries owned by tripID.
// Deleting zero rows is not an error: a trip may have had no itinerary.
func (r *pgItineraryRepo) DeleteByTrip(ctx context.Context, tripID uuid.UUID) (int64, error) {
	const q = `DELETE FROM itinerary_entries WHERE trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return 0, fmt.Errorf("repo.ItineraryRepo.DeleteByTrip: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListByTrip returns the trip's entries in display order.
func (r *pgItineraryRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.ItineraryEntry, error) {
	const q = `
		SELECT id, trip_id, day_number, order_index, name, start_time, notes, cost, location, created_at
		FROM itinerary_entries
		WHERE trip_id = @trip_id
		ORDER BY day_number, order_index`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ItineraryRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	entries := []domain.ItineraryEntry{}
	for rows.Next() {
		var e domain.ItineraryEntry
		err := rows.Scan(&e.ID, &e.TripID, &e.DayNumber, &e.OrderIndex, &e.Name,
			&e.Time, &e.Notes, &e.Cost, &e.Location, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("repo.ItineraryRepo.ListByTrip: scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ItineraryRepo.ListByTrip: rows: %w", err)
	}
	return entries, nil
}
