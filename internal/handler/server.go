// Package handler implements the HTTP handlers for the TravelMate API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, etc.) but share the same Server struct so they
// can access its dependencies.
package handler

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Mitali-Laddha/travelmate-smart-travel-api/internal/domain"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip, payload domain.ItineraryPayload) (domain.TripWithItinerary, error)
	Replace(ctx context.Context, trip domain.Trip, payload domain.ItineraryPayload) (domain.TripWithItinerary, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.TripWithItinerary, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.TripWithItinerary, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// SavedDestinationServicer defines the bookmark operations.
type SavedDestinationServicer interface {
	Save(ctx context.Context, userID, destinationID uuid.UUID) (domain.SavedDestination, error)
	List(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.SavedDestination, int64, error)
	Remove(ctx context.Context, userID, destinationID uuid.UUID) error
}

// ExportServicer defines the business operation the export handler depends on.
type ExportServicer interface {
	Export(ctx context.Context, userID uuid.UUID) ([]domain.ExportRow, error)
}

// Server holds the services behind every authenticated endpoint.
type Server struct {
	trips  TripServicer
	saved  SavedDestinationServicer
	export ExportServicer
	logger *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger falls back to slog.Default.
func NewServer(trips TripServicer, saved SavedDestinationServicer, export ExportServicer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{trips: trips, saved: saved, export: export, logger: logger}
}

// RegisterRoutes adds the resource routes to r. They expect the caller's user
// id in the request context, so register them behind middleware.NewAuthHandler.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Route("/trips", func(r chi.Router) {
		r.Post("/", s.CreateTrip)
		r.Get("/", s.ListTrips)
		r.Get("/export", s.ExportTrips)
		r.Get("/{id}", s.GetTrip)
		r.Put("/{id}", s.ReplaceTrip)
		r.Delete("/{id}", s.DeleteTrip)
	})

	r.Route("/saved-destinations", func(r chi.Router) {
		r.Get("/", s.ListSavedDestinations)
		r.Post("/", s.SaveDestination)
		r.Delete("/{destinationId}", s.RemoveSavedDestination)
	})
}
