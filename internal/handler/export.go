package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/Mitali-Laddha/travelmate-smart-travel-api/internal/domain"
)

const (
	exportSheet    = "Itinerary"
	contentTypeCSV = "text/csv; charset=utf-8"
	contentTypeXLS = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// exportHeaders defines the column names written as the first row of CSV and
// XLSX exports.
var exportHeaders = []string{
	"trip_id", "trip_name", "destination", "start_date", "end_date", "status",
	"total_budget", "day", "order_index", "activity", "time", "location",
	"cost", "notes",
}

// exportRowResponse is the JSON form of one export row. Entry fields are
// omitted for trips without an itinerary.
type exportRowResponse struct {
	TripID      string `json:"trip_id"`
	TripName    string `json:"trip_name"`
	Destination string `json:"destination"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date,omitempty"`
	Status      string `json:"status"`
	TotalBudget string `json:"total_budget"`
	Day         *int   `json:"day,omitempty"`
	OrderIndex  *int   `json:"order_index,omitempty"`
	Activity    string `json:"activity,omitempty"`
	Time        string `json:"time,omitempty"`
	Location    string `json:"location,omitempty"`
	Cost        string `json:"cost,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// ExportTrips handles GET /trips/export.
// It returns one row per itinerary entry across the caller's trips.
// Use ?format=csv or ?format=xlsx for a file download; default is JSON.
func (s *Server) ExportTrips(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	switch format {
	case "", "json", "csv", "xlsx":
	default:
		writeError(w, http.StatusBadRequest, codeBadRequest, "format must be one of json, csv, xlsx")
		return
	}

	rows, err := s.export.Export(r.Context(), userID)
	if err != nil {
		s.respondError(w, r, err, tripNotFound)
		return
	}

	switch format {
	case "csv":
		writeDownload(w, contentTypeCSV, "itinerary.csv", buildCSV(rows))
	case "xlsx":
		body, err := buildXLSX(rows)
		if err != nil {
			s.respondError(w, r, err, tripNotFound)
			return
		}
		writeDownload(w, contentTypeXLS, "itinerary.xlsx", body)
	default:
		out := make([]exportRowResponse, 0, len(rows))
		for _, row := range rows {
			out = append(out, exportRowToResponse(row))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeDownload(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// buildCSV encodes rows as CSV with a header line.
func buildCSV(rows []domain.ExportRow) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	w.Write(exportHeaders)
	for _, r := range rows {
		//nolint:errcheck
		w.Write(exportRecord(r))
	}
	w.Flush()
	return buf.Bytes()
}

// buildXLSX writes rows to a single-sheet workbook.
func buildXLSX(rows []domain.ExportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}
	if err := setSheetRow(f, 1, exportHeaders); err != nil {
		return nil, err
	}
	for i, r := range rows {
		if err := setSheetRow(f, i+2, exportRecord(r)); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setSheetRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(exportSheet, cell, &cells)
}

// exportRecord flattens a row into exportHeaders order. Entry columns are
// empty for trips without an itinerary.
func exportRecord(r domain.ExportRow) []string {
	rec := []string{
		r.TripID, r.TripName, r.Destination, r.TripStartDate, r.TripEndDate,
		r.Status, money(r.TotalBudget),
		"", "", "", "", "", "", "",
	}
	if r.HasEntry {
		copy(rec[7:], []string{
			strconv.Itoa(r.DayNumber),
			strconv.Itoa(r.OrderIndex),
			r.Activity,
			r.Time,
			r.Location,
			money(r.Cost),
			r.Notes,
		})
	}
	return rec
}

func exportRowToResponse(r domain.ExportRow) exportRowResponse {
	out := exportRowResponse{
		TripID:      r.TripID,
		TripName:    r.TripName,
		Destination: r.Destination,
		StartDate:   r.TripStartDate,
		EndDate:     r.TripEndDate,
		Status:      r.Status,
		TotalBudget: money(r.TotalBudget),
	}
	if r.HasEntry {
		day, idx := r.DayNumber, r.OrderIndex
		out.Day = &day
		out.OrderIndex = &idx
		out.Activity = r.Activity
		out.Time = r.Time
		out.Location = r.Location
		out.Cost = money(r.Cost)
		out.Notes = r.Notes
	}
	return out
}
