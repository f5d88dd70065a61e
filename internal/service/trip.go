// Package service contains the business logic for the TravelMate API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Mitali-Laddha/travelmate-smart-travel-api/internal/domain"
	"github.com/Mitali-Laddha/travelmate-smart-travel-api/internal/repo"
	"github.com/Mitali-Laddha/travelmate-smart-travel-api/internal/telemetry"
)

// Operation labels used for metrics, spans, and logs.
const (
	opCreate  = "create"
	opReplace = "replace"
	opDelete  = "delete"
)

// TripService writes a trip and its itinerary as one unit and reads them back
// assembled. All multi-statement writes go through repo.TxStore.WithinTx.
type TripService struct {
	store     repo.TxStore
	metrics   *telemetry.WriteMetrics
	tracer    trace.Tracer
	logger    *slog.Logger
	txTimeout time.Duration
}

// Option configures a TripService.
type Option func(*TripService)

// WithMetrics records every write on m.
func WithMetrics(m *telemetry.WriteMetrics) Option {
	return func(s *TripService) { s.metrics = m }
}

// WithTracer wraps every write in a span from t.
func WithTracer(t trace.Tracer) Option {
	return func(s *TripService) { s.tracer = t }
}

// WithLogger sets the logger used for rolled-back writes.
func WithLogger(l *slog.Logger) Option {
	return func(s *TripService) { s.logger = l }
}

// WithTxTimeout bounds each write transaction. Zero means no bound beyond ctx.
func WithTxTimeout(d time.Duration) Option {
	return func(s *TripService) { s.txTimeout = d }
}

// NewTripService constructs a TripService backed by store.
func NewTripService(store repo.TxStore, opts ...Option) *TripService {
	s := &TripService{
		store:  store,
		tracer: noop.NewTracerProvider().Tracer(telemetry.TracerName),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates trip and payload, then inserts the trip and every
// itinerary entry in one transaction. trip.UserID must be set by the caller.
//
// Returns domain.ErrValidation before any storage access if input is invalid,
// and an error wrapping domain.ErrPersistence if storage fails; in that case
// nothing was written.
func (s *TripService) Create(ctx context.Context, trip domain.Trip, payload domain.ItineraryPayload) (domain.TripWithItinerary, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "TripService.Create")
	defer span.End()

	entries, err := prepareTrip(&trip, payload)
	if err != nil {
		return domain.TripWithItinerary{}, s.fail(ctx, span, opCreate, uuid.Nil, start, err)
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	var result domain.TripWithItinerary
	err = s.store.WithinTx(ctx, func(ctx context.Context, r repo.Repos) error {
		created, err := r.Trips.Create(ctx, trip)
		if err != nil {
			return err
		}
		saved, err := r.Itinerary.InsertAll(ctx, created.ID, entries)
		if err != nil {
			return err
		}
		result = domain.TripWithItinerary{Trip: created, Itinerary: saved}
		return nil
	})
	if err != nil {
		return domain.TripWithItinerary{}, s.fail(ctx, span, opCreate, uuid.Nil, start, err)
	}

	span.SetAttributes(attribute.String("trip.id", result.ID.String()))
	s.metrics.Observe(opCreate, telemetry.OutcomeCommitted, start)
	return result, nil
}

// Replace overwrites every mutable field of the trip identified by
// (trip.ID, trip.UserID) and swaps its whole itinerary for payload, all in
// one transaction. A nil or empty payload leaves the trip with no entries.
//
// Returns domain.ErrNotFound if the trip does not exist or belongs to
// someone else.
func (s *TripService) Replace(ctx context.Context, trip domain.Trip, payload domain.ItineraryPayload) (domain.TripWithItinerary, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "TripService.Replace",
		trace.WithAttributes(attribute.String("trip.id", trip.ID.String())))
	defer span.End()

	entries, err := prepareTrip(&trip, payload)
	if err != nil {
		return domain.TripWithItinerary{}, s.fail(ctx, span, opReplace, trip.ID, start, err)
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	var result domain.TripWithItinerary
	err = s.store.WithinTx(ctx, func(ctx context.Context, r repo.Repos) error {
		updated, err := r.Trips.Update(ctx, trip)
		if err != nil {
			return err
		}
		if _, err := r.Itinerary.DeleteByTrip(ctx, updated.ID); err != nil {
			return err
		}
		saved, err := r.Itinerary.InsertAll(ctx, updated.ID, entries)
		if err != nil {
			return err
		}
		result = domain.TripWithItinerary{Trip: updated, Itinerary: saved}
		return nil
	})
	if err != nil {
		return domain.TripWithItinerary{}, s.fail(ctx, span, opReplace, trip.ID, start, err)
	}

	s.metrics.Observe(opReplace, telemetry.OutcomeCommitted, start)
	return result, nil
}

// Delete removes the trip identified by (userID, id). Its itinerary entries
// are removed by the ownership foreign key's cascade.
// Returns domain.ErrNotFound if no such trip exists for userID.
func (s *TripService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "TripService.Delete",
		trace.WithAttributes(attribute.String("trip.id", id.String())))
	defer span.End()

	if err := s.store.Repos().Trips.Delete(ctx, userID, id); err != nil {
		return s.fail(ctx, span, opDelete, id, start, err)
	}
	s.metrics.Observe(opDelete, telemetry.OutcomeCommitted, start)
	return nil
}

// GetByID returns the trip with its itinerary ordered by (day, order index).
// Ownership is not checked here; callers compare UserID.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.TripWithItinerary, error) {
	r := s.store.Repos()

	trip, err := r.Trips.GetByID(ctx, id)
	if err != nil {
		return domain.TripWithItinerary{}, readError("GetByID", err)
	}
	result, err := s.assemble(ctx, r, trip)
	if err != nil {
		return domain.TripWithItinerary{}, readError("GetByID", err)
	}
	return result, nil
}

// ListByUser returns every trip owned by userID, most recently created first,
// each with its ordered itinerary. Always returns a non-nil slice.
func (s *TripService) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.TripWithItinerary, error) {
	r := s.store.Repos()

	trips, err := r.Trips.ListByUser(ctx, userID)
	if err != nil {
		return nil, readError("ListByUser", err)
	}

	result := make([]domain.TripWithItinerary, 0, len(trips))
	for _, trip := range trips {
		twi, err := s.assemble(ctx, r, trip)
		if err != nil {
			return nil, readError("ListByUser", err)
		}
		result = append(result, twi)
	}
	return result, nil
}

// assemble attaches the trip's itinerary in display order.
func (s *TripService) assemble(ctx context.Context, r repo.Repos, trip domain.Trip) (domain.TripWithItinerary, error) {
	entries, err := r.Itinerary.ListByTrip(ctx, trip.ID)
	if err != nil {
		return domain.TripWithItinerary{}, err
	}
	if entries == nil {
		entries = []domain.ItineraryEntry{}
	}
	domain.SortEntries(entries)
	return domain.TripWithItinerary{Trip: trip, Itinerary: entries}, nil
}

// bound applies the configured transaction timeout to ctx.
func (s *TripService) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.txTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.txTimeout)
}

// fail records a failed write and converts storage errors into
// domain.ErrPersistence. ErrNotFound and ErrConflict keep their kind;
// validation errors and deletes that match nothing are recorded as rejected.
func (s *TripService) fail(ctx context.Context, span trace.Span, op string, tripID uuid.UUID, start time.Time, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	name := "service.TripService." + opMethod(op)

	if errors.Is(err, domain.ErrValidation) {
		s.metrics.Observe(op, telemetry.OutcomeRejected, start)
		return err
	}

	if op == opDelete {
		// Delete is a single statement outside WithinTx: a miss is the
		// caller's mistake, not a rollback.
		if errors.Is(err, domain.ErrNotFound) {
			s.metrics.Observe(op, telemetry.OutcomeRejected, start)
			s.logger.DebugContext(ctx, "trip delete matched no trip", "trip_id", tripID)
			return fmt.Errorf("%s: %w", name, err)
		}
		s.metrics.Observe(op, telemetry.OutcomeRolledBack, start)
		s.logger.WarnContext(ctx, "trip delete failed", "trip_id", tripID, "error", err)
		return fmt.Errorf("%s: %w: %w", name, domain.ErrPersistence, err)
	}

	s.metrics.Observe(op, telemetry.OutcomeRolledBack, start)
	s.logger.WarnContext(ctx, "trip write rolled back",
		"operation", op,
		"trip_id", tripID,
		"error", err,
	)

	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict) {
		return fmt.Errorf("%s: %w", name, err)
	}
	return fmt.Errorf("%s: %w: %w", name, domain.ErrPersistence, err)
}

func opMethod(op string) string {
	switch op {
	case opCreate:
		return "Create"
	case opReplace:
		return "Replace"
	default:
		return "Delete"
	}
}

// readError wraps a read failure, keeping ErrNotFound distinguishable.
func readError(method string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("service.TripService.%s: %w", method, err)
	}
	return fmt.Errorf("service.TripService.%s: %w: %w", method, domain.ErrPersistence, err)
}

// prepareTrip validates the trip in place, fills in derived fields, and
// flattens the itinerary payload. It never touches storage.
//   - Name, Destination and StartDate are required; Days must be >= 1.
//   - An empty Status becomes planning.
//   - A missing EndDate is derived from StartDate and Days; a supplied one
//     must not be before StartDate.
//   - TotalBudget is recomputed from the six categories.
func prepareTrip(trip *domain.Trip, payload domain.ItineraryPayload) ([]domain.ItineraryEntry, error) {
	trip.Name = strings.TrimSpace(trip.Name)
	trip.Destination = strings.TrimSpace(trip.Destination)
	trip.Notes = strings.TrimSpace(trip.Notes)

	switch {
	case trip.Name == "":
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	case trip.Destination == "":
		return nil, fmt.Errorf("%w: destination is required", domain.ErrValidation)
	case trip.StartDate.IsZero():
		return nil, fmt.Errorf("%w: start_date is required", domain.ErrValidation)
	case trip.Days < 1:
		return nil, fmt.Errorf("%w: days must be at least 1", domain.ErrValidation)
	}

	if trip.Status == "" {
		trip.Status = domain.StatusPlanning
	}
	if !trip.Status.Valid() {
		return nil, fmt.Errorf("%w: status %q is not one of planning, confirmed, completed, cancelled", domain.ErrValidation, trip.Status)
	}

	if trip.EndDate == nil {
		end := domain.DeriveEndDate(trip.StartDate, trip.Days)
		trip.EndDate = &end
	} else if trip.EndDate.Before(trip.StartDate) {
		return nil, fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}

	total, err := trip.Budget.Total()
	if err != nil {
		return nil, err
	}
	trip.TotalBudget = total

	entries, err := payload.Entries()
	if err != nil {
		return nil, err
	}
	return entries, nil
}
