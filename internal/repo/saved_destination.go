package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Mitali-Laddha/travelmate-smart-travel-api/internal/domain"
)

// SavedDestinationRepo defines the persistence operations for the
// saved_destinations join table between users and the destination catalog.
type SavedDestinationRepo interface {
	// Save bookmarks destinationID for userID.
	// Returns domain.ErrConflict if it is already saved and domain.ErrNotFound
	// if the destination does not exist.
	Save(ctx context.Context, userID, destinationID uuid.UUID) (domain.SavedDestination, error)

	// ListPaged returns one page of the user's saved destinations, most
	// recently saved first, and the total count.
	ListPaged(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.SavedDestination, int64, error)

	// Remove deletes the bookmark. Returns domain.ErrNotFound if it was not saved.
	Remove(ctx context.Context, userID, destinationID uuid.UUID) error
}

// pgSavedDestinationRepo is the Postgres implementation of SavedDestinationRepo.
type pgSavedDestinationRepo struct {
	db db
}

// NewSavedDestinationRepo constructs a SavedDestinationRepo backed by the provided db connection.
func NewSavedDestinationRepo(db db) SavedDestinationRepo {
	return &pgSavedDestinationRepo{db: db}
}

// Save inserts the bookmark. Unlike an upsert, a second save of the same pair
// is reported to the caller as a conflict.
func (r *pgSavedDestinationRepo) Save(ctx context.Context, userID, destinationID uuid.UUID) (domain.SavedDestination, error) {
	const q = `
		WITH s AS (
			INSERT INTO saved_destinations (user_id, destination_id)
			VALUES (@user_id, @destination_id)
			RETURNING user_id, destination_id, created_at
		)
		SELECT s.user_id, s.destination_id, d.name, d.country, s.created_at
		FROM s
		JOIN destinations d ON d.id = s.destination_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": userID, "destination_id": destinationID})
	result, err := scanSavedDestination(row)
	if err != nil {
		if _, ok := isPgCode(err, pgForeignKeyViolation); ok {
			return domain.SavedDestination{}, fmt.Errorf("repo.SavedDestinationRepo.Save: destination %w", domain.ErrNotFound)
		}
		return domain.SavedDestination{}, fmt.Errorf("repo.SavedDestinationRepo.Save: %w", conflictOr(err))
	}
	return result, nil
}

// ListPaged returns one page of saved destinations plus the total count.
func (r *pgSavedDestinationRepo) ListPaged(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.SavedDestination, int64, error) {
	const countQ = `SELECT count(*) FROM saved_destinations WHERE user_id = @user_id`

	var total int64
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"user_id": userID}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.SavedDestinationRepo.ListPaged: count: %w", err)
	}

	const q = `
		SELECT s.user_id, s.destination_id, d.name, d.country, s.created_at
		FROM saved_destinations s
		JOIN destinations d ON d.id = s.destination_id
		WHERE s.user_id = @user_id
		ORDER BY s.created_at DESC, s.destination_id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"user_id": userID,
		"limit":   p.Limit,
		"offset":  p.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.SavedDestinationRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	saved := []domain.SavedDestination{}
	for rows.Next() {
		sd, err := scanSavedDestination(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.SavedDestinationRepo.ListPaged: scan: %w", err)
		}
		saved = append(saved, sd)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.SavedDestinationRepo.ListPaged: rows: %w", err)
	}
	return saved, total, nil
}

// Remove deletes a bookmark.
func (r *pgSavedDestinationRepo) Remove(ctx context.Context, userID, destinationID uuid.UUID) error {
	const q = `DELETE FROM saved_destinations WHERE user_id = @user_id AND destination_id = @destination_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"user_id": userID, "destination_id": destinationID})
	if err != nil {
		return fmt.Errorf("repo.SavedDestinationRepo.Remove: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.SavedDestinationRepo.Remove: %w", domain.ErrNotFound)
	}
	return nil
}

// scanSavedDestination maps a single row into a domain.SavedDestination.
func scanSavedDestination(s scanner) (domain.SavedDestination, error) {
	var sd domain.SavedDestination
	err := s.Scan(&sd.UserID, &sd.DestinationID, &sd.Name, &sd.Country, &sd.SavedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SavedDestination{}, domain.ErrNotFound
		}
		return domain.SavedDestination{}, err
	}
	return sd, nil
}
