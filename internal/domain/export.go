package domain

import "github.com/shopspring/decimal"

// ExportRow is a single row in the itinerary export.
// It is a flat, denormalized view: one row per itinerary entry, with trip
// fields repeated for every entry on that trip. Trips with no itinerary yield
// one row with zero values for all entry fields and HasEntry false.
type ExportRow struct {
	// Trip fields, repeated for every entry on the trip.
	TripID        string
	TripName      string
	Destination   string
	TripStartDate string // "2006-01-02" formatted date
	TripEndDate   string // empty string when nil
	Status        string
	TotalBudget   decimal.Decimal

	// Entry fields, zero values when the trip has no itinerary.
	HasEntry   bool
	DayNumber  int
	OrderIndex int
	Activity   string
	Time       string
	Location   string
	Cost       decimal.Decimal
	Notes      string
}
