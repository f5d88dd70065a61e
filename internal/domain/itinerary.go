package domain

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Activity is one caller-supplied itinerary item before it has a position.
// Only Name is required. Cost defaults to zero when not priced.
type Activity struct {
	Name     string
	Time     string
	Notes    string
	Cost     decimal.Decimal
	Location string
}

// ItineraryPayload maps a day key ("day1", "day2", ...) to the activities
// planned for that day, in display order.
// A nil payload means the caller sent no itinerary at all.
type ItineraryPayload map[string][]Activity

// ItineraryEntry is one persisted activity on a specific day of a trip.
// Within a (TripID, DayNumber) pair, OrderIndex is unique and defines the
// display order.
type ItineraryEntry struct {
	ID         uuid.UUID
	TripID     uuid.UUID
	DayNumber  int
	OrderIndex int
	Name       string
	Time       string // "15:04", empty when unscheduled
	Notes      string
	Cost       decimal.Decimal
	Location   string
	CreatedAt  time.Time
}

// ItineraryDay groups the entries of a single day in display order.
type ItineraryDay struct {
	DayNumber int
	Entries   []ItineraryEntry
}

// ParseDayKey extracts the day number from a key such as "day3".
// The non-numeric prefix is stripped and the remainder must be a positive integer.
func ParseDayKey(key string) (int, error) {
	digits := strings.TrimLeftFunc(key, func(r rune) bool { return !unicode.IsDigit(r) })
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: itinerary key %q must look like day<N> with N >= 1", ErrValidation, key)
	}
	return n, nil
}

// Entries validates the payload and flattens it into entries ordered by
// (DayNumber, OrderIndex). Each entry's OrderIndex is its zero-based position
// within its day's list, so the result depends only on the input order and
// never on map iteration order. TripID is left zero for the caller to set.
func (p ItineraryPayload) Entries() ([]ItineraryEntry, error) {
	type day struct {
		number     int
		key        string
		activities []Activity
	}

	days := make([]day, 0, len(p))
	seen := make(map[int]string, len(p))
	for key, acts := range p {
		n, err := ParseDayKey(key)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[n]; dup {
			// Report keys in a stable order regardless of which one we hit first.
			a, b := min(prev, key), max(prev, key)
			return nil, fmt.Errorf("%w: itinerary keys %q and %q both refer to day %d", ErrValidation, a, b, n)
		}
		seen[n] = key
		days = append(days, day{number: n, key: key, activities: acts})
	}
	slices.SortFunc(days, func(a, b day) int { return a.number - b.number })

	var entries []ItineraryEntry
	for _, d := range days {
		for i, a := range d.activities {
			e, err := newEntry(d.number, i, a)
			if err != nil {
				return nil, fmt.Errorf("%w (%s[%d])", err, d.key, i)
			}
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// newEntry validates one activity and positions it.
func newEntry(dayNumber, orderIndex int, a Activity) (ItineraryEntry, error) {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		return ItineraryEntry{}, fmt.Errorf("%w: activity name is required", ErrValidation)
	}
	if err := ValidateAmount("activity cost", a.Cost); err != nil {
		return ItineraryEntry{}, err
	}
	tod, err := normalizeTimeOfDay(a.Time)
	if err != nil {
		return ItineraryEntry{}, err
	}
	return ItineraryEntry{
		DayNumber:  dayNumber,
		OrderIndex: orderIndex,
		Name:       name,
		Time:       tod,
		Notes:      strings.TrimSpace(a.Notes),
		Cost:       a.Cost,
		Location:   strings.TrimSpace(a.Location),
	}, nil
}

// normalizeTimeOfDay accepts "HH:MM" or "HH:MM:SS" and returns "HH:MM".
// An empty string means no time was given.
func normalizeTimeOfDay(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", fmt.Errorf("%w: activity time %q must be HH:MM", ErrValidation, s)
}

// SortEntries orders entries by (DayNumber, OrderIndex) in place.
func SortEntries(entries []ItineraryEntry) {
	slices.SortStableFunc(entries, func(a, b ItineraryEntry) int {
		if a.DayNumber != b.DayNumber {
			return a.DayNumber - b.DayNumber
		}
		return a.OrderIndex - b.OrderIndex
	})
}

// GroupByDay sorts entries and splits them into one ItineraryDay per distinct
// day number, ascending. Days with no entries are not represented.
func GroupByDay(entries []ItineraryEntry) []ItineraryDay {
	sorted := slices.Clone(entries)
	SortEntries(sorted)

	days := []ItineraryDay{}
	for _, e := range sorted {
		if n := len(days); n == 0 || days[n-1].DayNumber != e.DayNumber {
			days = append(days, ItineraryDay{DayNumber: e.DayNumber})
		}
		last := &days[len(days)-1]
		last.Entries = append(last.Entries, e)
	}
	return days
}
