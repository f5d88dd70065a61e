package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mitali-Laddha/travelmate-smart-travel-api/internal/domain"
	"github.com/Mitali-Laddha/travelmate-smart-travel-api/internal/handler"
	"github.com/Mitali-Laddha/travelmate-smart-travel-api/internal/middleware"
)

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	create  func(ctx context.Context, trip domain.Trip, payload domain.ItineraryPayload) (domain.TripWithItinerary, error)
	replace func(ctx context.Context, trip domain.Trip, payload domain.ItineraryPayload) (domain.TripWithItinerary, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.TripWithItinerary, error)
	list    func(ctx context.Context, userID uuid.UUID) ([]domain.TripWithItinerary, error)
	delete  func(ctx context.Context, userID, id uuid.UUID) error
}

func (m *mockTripServicer) Create(ctx context.Context, t domain.Trip, p domain.ItineraryPayload) (domain.TripWithItinerary, error) {
	return m.create(ctx, t, p)
}
func (m *mockTripServicer) Replace(ctx context.Context, t domain.Trip, p domain.ItineraryPayload) (domain.TripWithItinerary, error) {
	return m.replace(ctx, t, p)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.TripWithItinerary, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.TripWithItinerary, error) {
	return m.list(ctx, userID)
}
func (m *mockTripServicer) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return m.delete(ctx, userID, id)
}

// compile-time check: mockTripServicer must satisfy handler.TripServicer.
var _ handler.TripServicer = (*mockTripServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// asUser wires srv's routes behind a middleware that authenticates every
// request as userID, skipping token handling.
func asUser(srv *handler.Server, userID uuid.UUID) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUserID(req.Context(), userID)))
		})
	})
	srv.RegisterRoutes(r)
	return r
}

func newTripHandler(svc handler.TripServicer, userID uuid.UUID) http.Handler {
	return asUser(handler.NewServer(svc, nil, nil, nil), userID)
}

func tripFixture(userID uuid.UUID) domain.TripWithItinerary {
	tripID := uuid.New()
	start := time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 19, 0, 0, 0, 0, time.UTC)
	return domain.TripWithItinerary{
		Trip: domain.Trip{
			ID:          tripID,
			UserID:      userID,
			Name:        "Winter in Kyoto",
			Destination: "Kyoto",
			StartDate:   start,
			EndDate:     &end,
			Days:        5,
			Status:      domain.StatusPlanning,
			Budget: domain.Budget{
				Flights: decimal.RequireFromString("310.40"),
				Hotel:   decimal.NewFromInt(520),
				Food:    decimal.RequireFromString("150.10"),
			},
			TotalBudget: decimal.RequireFromString("980.50"),
			CreatedAt:   time.Now().UTC(),
			UpdatedAt:   time.Now().UTC(),
		},
		Itinerary: []domain.ItineraryEntry{
			{ID: uuid.New(), TripID: tripID, DayNumber: 1, OrderIndex: 0, Name: "Fushimi Inari", Time: "08:00", Cost: decimal.Zero},
			{ID: uuid.New(), TripID: tripID, DayNumber: 1, OrderIndex: 1, Name: "Nishiki Market", Cost: decimal.NewFromInt(30)},
			{ID: uuid.New(), TripID: tripID, DayNumber: 2, OrderIndex: 0, Name: "Arashiyama", Location: "West Kyoto", Cost: decimal.Zero},
		},
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func validBody() map[string]any {
	return map[string]any{
		"name":        "Winter in Kyoto",
		"destination": "Kyoto",
		"start_date":  "2024-12-15",
		"days":        5,
		"budget":      map[string]any{"flights": 310.40, "hotel": "520", "food": "150.10"},
		"itinerary": map[string]any{
			"day2": []map[string]any{{"name": "Arashiyama"}},
			"day1": []map[string]any{{"name": "Fushimi Inari", "time": "08:00"}, {"name": "Nishiki Market", "cost": 30}},
		},
	}
}

// tripJSON mirrors the response shape for decoding in tests.
type tripJSON struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	Status      string    `json:"status"`
	TotalBudget string    `json:"total_budget"`
	Budget      struct {
		Flights string `json:"flights"`
		Misc    string `json:"misc"`
	} `json:"budget"`
	Itinerary []struct {
		Day        int `json:"day"`
		Activities []struct {
			Name       string `json:"name"`
			OrderIndex int    `json:"order_index"`
			Time       string `json:"time"`
			Cost       string `json:"cost"`
		} `json:"activities"`
	} `json:"itinerary"`
}

type errorJSON struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorJSON {
	t.Helper()
	var e errorJSON
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&e))
	return e
}

// ---- POST /trips -----------------------------------------------------------

func TestCreateTrip_201(t *testing.T) {
	userID := uuid.New()
	fixture := tripFixture(userID)

	var gotTrip domain.Trip
	var gotPayload domain.ItineraryPayload
	svc := &mockTripServicer{
		create: func(_ context.Context, trip domain.Trip, p domain.ItineraryPayload) (domain.TripWithItinerary, error) {
			gotTrip, gotPayload = trip, p
			return fixture, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/trips", jsonBody(t, validBody()))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	newTripHandler(svc, userID).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, userID, gotTrip.UserID, "owner comes from the token, not the body")
	assert.Equal(t, "2024-12-15", gotTrip.StartDate.Format(time.DateOnly))
	assert.Nil(t, gotTrip.EndDate)
	assert.True(t, decimal.RequireFromString("310.4").Equal(gotTrip.Budget.Flights), "numbers are accepted")
	assert.True(t, decimal.NewFromInt(520).Equal(gotTrip.Budget.Hotel), "numeric strings are accepted")
	require.Len(t, gotPayload["day1"], 2)
	assert.Equal(t, "Nishiki Market", gotPayload["day1"][1].Name)
	assert.True(t, decimal.NewFromInt(30).Equal(gotPayload["day1"][1].Cost))

	var resp tripJSON
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, fixture.ID, resp.ID)
	assert.Equal(t, "2024-12-19", resp.EndDate)
	assert.Equal(t, "980.50", resp.TotalBudget)
	assert.Equal(t, "310.40", resp.Budget.Flights)
	assert.Equal(t, "0.00", resp.Budget.Misc)
	require.Len(t, resp.Itinerary, 2)
	assert.Equal(t, 1, resp.Itinerary[0].Day)
	require.Len(t, resp.Itinerary[0].Activities, 2)
	assert.Equal(t, "Fushimi Inari", resp.Itinerary[0].Activities[0].Name)
	assert.Equal(t, "08:00", resp.Itinerary[0].Activities[0].Time)
	assert.Equal(t, 1, resp.Itinerary[0].Activities[1].OrderIndex)
	assert.Equal(t, "30.00", resp.Itinerary[0].Activities[1].Cost)
	assert.Equal(t, 2, resp.Itinerary[1].Day)
}

func TestCreateTrip_NoItineraryPassesNilPayload(t *testing.T) {
	userID := uuid.New()
	var called bool
	svc := &mockTripServicer{
		create: func(_ context.Context, trip domain.Trip, p domain.ItineraryPayload) (domain.TripWithItinerary, error) {
			called = true
			assert.Nil(t, p)
			return domain.TripWithItinerary{Trip: trip, Itinerary: []domain.ItineraryEntry{}}, nil
		},
	}
	body := validBody()
	delete(body, "itinerary")

	req := httptest.NewRequest(http.MethodPost, "/trips", jsonBody(t, body))
	rec := httptest.NewRecorder()
	newTripHandler(svc, userID).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, called)
	assert.Contains(t, rec.Body.String(), `"itinerary":[]`)
}

func TestCreateTrip_422_ValidationError(t *testing.T) {
	svc := &mockTripServicer{
		create: func(context.Context, domain.Trip, domain.ItineraryPayload) (domain.TripWithItinerary, error) {
			return domain.TripWithItinerary{}, fmt.Errorf("%w: days must be at least 1", domain.ErrValidation)
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/trips", jsonBody(t, validBody()))
	rec := httptest.NewRecorder()
	newTripHandler(svc, uuid.New()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, "validation_error", e.Error.Code)
	assert.Equal(t, "days must be at least 1", e.Error.Message)
}

func TestCreateTrip_400_MalformedBody(t *testing.T) {
	cases := map[string]string{
		"not json":       `{"name":`,
		"bad date":       `{"name":"x","start_date":"15/12/2024"}`,
		"bad budget":     `{"name":"x","budget":{"hotel":"lots"}}`,
		"bad dest id":    `{"name":"x","destination_id":"nope"}`,
		"itinerary list": `{"name":"x","itinerary":[1,2]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &mockTripServicer{
				create: func(context.Context, domain.Trip, domain.ItineraryPayload) (domain.TripWithItinerary, error) {
					t.Fatal("service must not be called")
					return domain.TripWithItinerary{}, nil
				},
			}
			req := httptest.NewRequest(http.MethodPost, "/trips", strings.NewReader(body))
			rec := httptest.NewRecorder()
			newTripHandler(svc, uuid.New()).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "bad_request", decodeError(t, rec).Error.Code)
		})
	}
}

// A storage failure must not leak its cause to the client.
func TestCreateTrip_500_HidesCause(t *testing.T) {
	svc := &mockTripServicer{
		create: func(context.Context, domain.Trip, domain.ItineraryPayload) (domain.TripWithItinerary, error) {
			return domain.TripWithItinerary{}, fmt.Errorf("%w: %w", domain.ErrPersistence, errors.New("pq: password authentication failed"))
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/trips", jsonBody(t, validBody()))
	rec := httptest.NewRecorder()
	newTripHandler(svc, uuid.New()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.Equal(t, "internal_error", decodeError(t, rec).Error.Code)
}

func TestCreateTrip_401_WithoutUser(t *testing.T) {
	srv := handler.NewServer(&mockTripServicer{}, nil, nil, nil)
	r := chi.NewRouter()
	srv.RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodPost, "/trips", jsonBody(t, validBody()))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// ---- GET /trips ------------------------------------------------------------

func TestListTrips_200(t *testing.T) {
	userID := uuid.New()
	svc := &mockTripServicer{
		list: func(_ context.Context, id uuid.UUID) ([]domain.TripWithItinerary, error) {
			assert.Equal(t, userID, id)
			return []domain.TripWithItinerary{tripFixture(userID), tripFixture(userID)}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	rec := httptest.NewRecorder()
	newTripHandler(svc, userID).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []tripJSON
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp, 2)
}

func TestListTrips_EmptyIsArrayNotNull(t *testing.T) {
	svc := &mockTripServicer{
		list: func(context.Context, uuid.UUID) ([]domain.TripWithItinerary, error) {
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	rec := httptest.NewRecorder()
	newTripHandler(svc, uuid.New()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

// ---- GET /trips/{id} -------------------------------------------------------

func TestGetTrip_200(t *testing.T) {
	userID := uuid.New()
	fixture := tripFixture(userID)
	svc := &mockTripServicer{
		getByID: func(_ context.Context, id uuid.UUID) (domain.TripWithItinerary, error) {
			assert.Equal(t, fixture.ID, id)
			return fixture, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/trips/"+fixture.ID.String(), nil)
	rec := httptest.NewRecorder()
	newTripHandler(svc, userID).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp tripJSON
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, fixture.ID, resp.ID)
	assert.Equal(t, "planning", resp.Status)
}

func TestGetTrip_404_OtherOwner(t *testing.T) {
	fixture := tripFixture(uuid.New())
	svc := &mockTripServicer{
		getByID: func(context.Context, uuid.UUID) (domain.TripWithItinerary, error) {
			return fixture, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/trips/"+fixture.ID.String(), nil)
	rec := httptest.NewRecorder()
	newTripHandler(svc, uuid.New()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, rec.Body.String(), fixture.Name)
}

func TestGetTrip_404_NotFound(t *testing.T) {
	svc := &mockTripServicer{
		getByID: func(context.Context, uuid.UUID) (domain.TripWithItinerary, error) {
			return domain.TripWithItinerary{}, fmt.Errorf("service.TripService.GetByID: %w", domain.ErrNotFound)
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/trips/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	newTripHandler(svc, uuid.New()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, "not_found", e.Error.Code)
	assert.Equal(t, "trip not found", e.Error.Message)
}

func TestGetTrip_400_BadID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/trips/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	newTripHandler(&mockTripServicer{}, uuid.New()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---- PUT /trips/{id} -------------------------------------------------------

func TestReplaceTrip_200(t *testing.T) {
	userID := uuid.New()
	fixture := tripFixture(userID)
	svc := &mockTripServicer{
		replace: func(_ context.Context, trip domain.Trip, p domain.ItineraryPayload) (domain.TripWithItinerary, error) {
			assert.Equal(t, fixture.ID, trip.ID, "id comes from the path")
			assert.Equal(t, userID, trip.UserID)
			assert.Len(t, p, 2)
			return fixture, nil
		},
	}

	req := httptest.NewRequest(http.MethodPut, "/trips/"+fixture.ID.String(), jsonBody(t, validBody()))
	rec := httptest.NewRecorder()
	newTripHandler(svc, userID).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp tripJSON
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, fixture.ID, resp.ID)
}

func TestReplaceTrip_404(t *testing.T) {
	svc := &mockTripServicer{
		replace: func(context.Context, domain.Trip, domain.ItineraryPayload) (domain.TripWithItinerary, error) {
			return domain.TripWithItinerary{}, fmt.Errorf("service.TripService.Replace: %w", domain.ErrNotFound)
		},
	}

	req := httptest.NewRequest(http.MethodPut, "/trips/"+uuid.NewString(), jsonBody(t, validBody()))
	rec := httptest.NewRecorder()
	newTripHandler(svc, uuid.New()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- DELETE /trips/{id} ----------------------------------------------------

func TestDeleteTrip_204(t *testing.T) {
	userID, tripID := uuid.New(), uuid.New()
	svc := &mockTripServicer{
		delete: func(_ context.Context, u, id uuid.UUID) error {
			assert.Equal(t, userID, u)
			assert.Equal(t, tripID, id)
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/trips/"+tripID.String(), nil)
	rec := httptest.NewRecorder()
	newTripHandler(svc, userID).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestDeleteTrip_404(t *testing.T) {
	svc := &mockTripServicer{
		delete: func(context.Context, uuid.UUID, uuid.UUID) error {
			return fmt.Errorf("service.TripService.Delete: %w", domain.ErrNotFound)
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/trips/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	newTripHandler(svc, uuid.New()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
