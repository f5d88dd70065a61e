package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"

	"github.com/Mitali-Laddha/travelmate-smart-travel-api/internal/domain"
)

const tripNotFound = "trip not found"

// budgetBody carries the six budget categories. decimal.Decimal accepts both
// JSON numbers and numeric strings; an omitted category is zero.
type budgetBody struct {
	Flights    decimal.Decimal `json:"flights"`
	Hotel      decimal.Decimal `json:"hotel"`
	Food       decimal.Decimal `json:"food"`
	Activities decimal.Decimal `json:"activities"`
	Transport  decimal.Decimal `json:"transport"`
	Misc       decimal.Decimal `json:"misc"`
}

type activityBody struct {
	Name     string          `json:"name"`
	Time     string          `json:"time"`
	Notes    string          `json:"notes"`
	Cost     decimal.Decimal `json:"cost"`
	Location string          `json:"location"`
}

// tripRequest is the body of POST /trips and PUT /trips/{id}.
type tripRequest struct {
	Name          string                    `json:"name"`
	Destination   string                    `json:"destination"`
	DestinationID *uuid.UUID                `json:"destination_id"`
	StartDate     *openapi_types.Date       `json:"start_date"`
	EndDate       *openapi_types.Date       `json:"end_date"`
	Days          int                       `json:"days"`
	Status        string                    `json:"status"`
	Notes         string                    `json:"notes"`
	Budget        budgetBody                `json:"budget"`
	Itinerary     map[string][]activityBody `json:"itinerary"`
}

type budgetResponse struct {
	Flights    string `json:"flights"`
	Hotel      string `json:"hotel"`
	Food       string `json:"food"`
	Activities string `json:"activities"`
	Transport  string `json:"transport"`
	Misc       string `json:"misc"`
}

type destinationInfoResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Country string    `json:"country"`
}

type activityResponse struct {
	ID         uuid.UUID `json:"id"`
	OrderIndex int       `json:"order_index"`
	Name       string    `json:"name"`
	Time       string    `json:"time,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	Cost       string    `json:"cost"`
	Location   string    `json:"location,omitempty"`
}

type itineraryDayResponse struct {
	Day        int                `json:"day"`
	Activities []activityResponse `json:"activities"`
}

type tripResponse struct {
	ID              uuid.UUID                `json:"id"`
	UserID          uuid.UUID                `json:"user_id"`
	DestinationID   *uuid.UUID               `json:"destination_id,omitempty"`
	Name            string                   `json:"name"`
	Destination     string                   `json:"destination"`
	StartDate       openapi_types.Date       `json:"start_date"`
	EndDate         *openapi_types.Date      `json:"end_date,omitempty"`
	Days            int                      `json:"days"`
	Status          string                   `json:"status"`
	Budget          budgetResponse           `json:"budget"`
	TotalBudget     string                   `json:"total_budget"`
	Notes           string                   `json:"notes,omitempty"`
	DestinationInfo *destinationInfoResponse `json:"destination_info,omitempty"`
	Itinerary       []itineraryDayResponse   `json:"itinerary"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// CreateTrip handles POST /trips. The caller becomes the owner.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	var body tripRequest
	if !decodeBody(w, r, &body) {
		return
	}

	trip, payload := requestToTrip(body)
	trip.UserID = userID

	created, err := s.trips.Create(r.Context(), trip, payload)
	if err != nil {
		s.respondError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /trips. The response is always a JSON array.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	trips, err := s.trips.ListByUser(r.Context(), userID)
	if err != nil {
		s.respondError(w, r, err, tripNotFound)
		return
	}

	out := make([]tripResponse, 0, len(trips))
	for _, t := range trips {
		out = append(out, tripToResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetTrip handles GET /trips/{id}.
// A trip owned by someone else is reported as not found.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, tripNotFound)
		return
	}
	if trip.UserID != userID {
		writeError(w, http.StatusNotFound, codeNotFound, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// ReplaceTrip handles PUT /trips/{id}. Every mutable field and the whole
// itinerary are replaced by the body.
func (s *Server) ReplaceTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var body tripRequest
	if !decodeBody(w, r, &body) {
		return
	}

	trip, payload := requestToTrip(body)
	trip.ID = id
	trip.UserID = userID

	replaced, err := s.trips.Replace(r.Context(), trip, payload)
	if err != nil {
		s.respondError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(replaced))
}

// DeleteTrip handles DELETE /trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := s.trips.Delete(r.Context(), userID, id); err != nil {
		s.respondError(w, r, err, tripNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// requestToTrip converts a request body into a domain.Trip and the raw
// itinerary payload. Validation is left to the service.
func requestToTrip(body tripRequest) (domain.Trip, domain.ItineraryPayload) {
	t := domain.Trip{
		Name:          body.Name,
		Destination:   body.Destination,
		DestinationID: body.DestinationID,
		Days:          body.Days,
		Status:        domain.TripStatus(body.Status),
		Notes:         body.Notes,
		Budget: domain.Budget{
			Flights:    body.Budget.Flights,
			Hotel:      body.Budget.Hotel,
			Food:       body.Budget.Food,
			Activities: body.Budget.Activities,
			Transport:  body.Budget.Transport,
			Misc:       body.Budget.Misc,
		},
	}
	if body.StartDate != nil {
		t.StartDate = body.StartDate.Time
	}
	if body.EndDate != nil {
		ed := body.EndDate.Time
		t.EndDate = &ed
	}

	if body.Itinerary == nil {
		return t, nil
	}
	payload := make(domain.ItineraryPayload, len(body.Itinerary))
	for key, acts := range body.Itinerary {
		list := make([]domain.Activity, len(acts))
		for i, a := range acts {
			list[i] = domain.Activity{
				Name:     a.Name,
				Time:     a.Time,
				Notes:    a.Notes,
				Cost:     a.Cost,
				Location: a.Location,
			}
		}
		payload[key] = list
	}
	return t, payload
}

// tripToResponse converts a domain.TripWithItinerary into its JSON shape,
// grouping the itinerary by day.
func tripToResponse(t domain.TripWithItinerary) tripResponse {
	resp := tripResponse{
		ID:            t.ID,
		UserID:        t.UserID,
		DestinationID: t.DestinationID,
		Name:          t.Name,
		Destination:   t.Destination,
		StartDate:     openapi_types.Date{Time: t.StartDate},
		Days:          t.Days,
		Status:        string(t.Status),
		Budget: budgetResponse{
			Flights:    money(t.Budget.Flights),
			Hotel:      money(t.Budget.Hotel),
			Food:       money(t.Budget.Food),
			Activities: money(t.Budget.Activities),
			Transport:  money(t.Budget.Transport),
			Misc:       money(t.Budget.Misc),
		},
		TotalBudget: money(t.TotalBudget),
		Notes:       t.Notes,
		Itinerary:   []itineraryDayResponse{},
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.EndDate != nil {
		ed := openapi_types.Date{Time: *t.EndDate}
		resp.EndDate = &ed
	}
	if info := t.DestinationInfo; info != nil {
		resp.DestinationInfo = &destinationInfoResponse{ID: info.ID, Name: info.Name, Country: info.Country}
	}

	for _, day := range domain.GroupByDay(t.Itinerary) {
		acts := make([]activityResponse, len(day.Entries))
		for i, e := range day.Entries {
			acts[i] = activityResponse{
				ID:         e.ID,
				OrderIndex: e.OrderIndex,
				Name:       e.Name,
				Time:       e.Time,
				Notes:      e.Notes,
				Cost:       money(e.Cost),
				Location:   e.Location,
			}
		}
		resp.Itinerary = append(resp.Itinerary, itineraryDayResponse{Day: day.DayNumber, Activities: acts})
	}
	return resp
}

// money renders an amount with exactly two decimal places.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
