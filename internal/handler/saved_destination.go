package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Mitali-Laddha/travelmate-smart-travel-api/internal/domain"
)

const destinationNotFound = "destination not found"

type saveDestinationRequest struct {
	DestinationID uuid.UUID `json:"destination_id"`
}

type savedDestinationResponse struct {
	DestinationID uuid.UUID `json:"destination_id"`
	Name          string    `json:"name"`
	Country       string    `json:"country,omitempty"`
	SavedAt       time.Time `json:"saved_at"`
}

type pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

type savedDestinationPage struct {
	Data       []savedDestinationResponse `json:"data"`
	Pagination pagination                 `json:"pagination"`
}

// ListSavedDestinations handles GET /saved-destinations.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListSavedDestinations(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	page, err := optionalInt(r, "page")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "page must be an integer")
		return
	}
	limit, err := optionalInt(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "limit must be an integer")
		return
	}
	params := domain.NewPaginationParams(page, limit)

	saved, total, err := s.saved.List(r.Context(), userID, params)
	if err != nil {
		s.respondError(w, r, err, destinationNotFound)
		return
	}

	data := make([]savedDestinationResponse, len(saved))
	for i, sd := range saved {
		data[i] = savedDestinationToResponse(sd)
	}
	writeJSON(w, http.StatusOK, savedDestinationPage{
		Data:       data,
		Pagination: pagination{Page: params.Page, Limit: params.Limit, Total: total},
	})
}

// SaveDestination handles POST /saved-destinations.
func (s *Server) SaveDestination(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	var body saveDestinationRequest
	if !decodeBody(w, r, &body) {
		return
	}

	saved, err := s.saved.Save(r.Context(), userID, body.DestinationID)
	if err != nil {
		s.respondError(w, r, err, destinationNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, savedDestinationToResponse(saved))
}

// RemoveSavedDestination handles DELETE /saved-destinations/{destinationId}.
func (s *Server) RemoveSavedDestination(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	destID, ok := pathUUID(w, r, "destinationId")
	if !ok {
		return
	}

	if err := s.saved.Remove(r.Context(), userID, destID); err != nil {
		s.respondError(w, r, err, "saved destination not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func savedDestinationToResponse(sd domain.SavedDestination) savedDestinationResponse {
	return savedDestinationResponse{
		DestinationID: sd.DestinationID,
		Name:          sd.Name,
		Country:       sd.Country,
		SavedAt:       sd.SavedAt,
	}
}

// optionalInt reads an integer query parameter; absent means nil.
func optionalInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
