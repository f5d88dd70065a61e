package domain

import (
	"time"

	"github.com/google/uuid"
)

// SavedDestination records that a user bookmarked a catalog destination.
// A user can save a given destination at most once.
type SavedDestination struct {
	UserID        uuid.UUID
	DestinationID uuid.UUID
	Name          string
	Country       string
	SavedAt       time.Time
}
