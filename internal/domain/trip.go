// Package domain contains the core data types for the TravelMate API.
// It has no I/O and is imported by every other internal package
// (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TripStatus is the lifecycle state of a trip.
type TripStatus string

const (
	StatusPlanning  TripStatus = "planning"
	StatusConfirmed TripStatus = "confirmed"
	StatusCompleted TripStatus = "completed"
	StatusCancelled TripStatus = "cancelled"
)

// Valid reports whether s is one of the known lifecycle states.
func (s TripStatus) Valid() bool {
	switch s {
	case StatusPlanning, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Trip is the top-level aggregate; itinerary entries belong to a trip and are
// deleted with it.
//
// DestinationID is a loose reference into the destination catalog: it is not
// checked on write and may point at nothing. Destination is the free-text
// label the user typed and is stored independently of DestinationID.
type Trip struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	DestinationID *uuid.UUID
	Name          string
	Destination   string
	StartDate     time.Time
	EndDate       *time.Time
	Days          int
	Status        TripStatus
	Budget        Budget
	// TotalBudget is always Budget.Total(); it is recomputed on every write.
	TotalBudget decimal.Decimal
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// DestinationInfo is populated on reads when DestinationID resolves to a
	// catalog entry. Nil otherwise.
	DestinationInfo *DestinationSummary
}

// DestinationSummary is the catalog metadata attached to a trip on read.
type DestinationSummary struct {
	ID      uuid.UUID
	Name    string
	Country string
}

// DeriveEndDate returns start + (days - 1) calendar days.
// A one-day trip ends on the day it starts.
func DeriveEndDate(start time.Time, days int) time.Time {
	return start.AddDate(0, 0, days-1)
}

// TripWithItinerary is a trip together with its itinerary entries ordered by
// (DayNumber, OrderIndex).
type TripWithItinerary struct {
	Trip
	Itinerary []ItineraryEntry
}
