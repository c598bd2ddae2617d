package handler

import (
	"encoding/json"
	"net/http"

	"github.com/pkordes/fleet-mileage/internal/domain"
)

// createRecordRequest mirrors the create payload. Odometer readings are
// pointers so a missing field is distinguishable from a zero reading; the
// presence checks themselves live in the service.
type createRecordRequest struct {
	Driver        string   `json:"driver"`
	Plate         string   `json:"plate"`
	Departure     string   `json:"departure"`
	Arrival       string   `json:"arrival"`
	OdometerStart *float64 `json:"odometer_start"`
	OdometerEnd   *float64 `json:"odometer_end"`
	Notes         string   `json:"notes"`
}

// updateRecordRequest mirrors the update payload: every field optional,
// omitted fields keep their current values.
type updateRecordRequest struct {
	Driver        *string  `json:"driver"`
	Plate         *string  `json:"plate"`
	Departure     *string  `json:"departure"`
	Arrival       *string  `json:"arrival"`
	OdometerStart *float64 `json:"odometer_start"`
	OdometerEnd   *float64 `json:"odometer_end"`
	Notes         *string  `json:"notes"`
	Actor         *string  `json:"actor"`
}

// CreateRecord handles POST /api/records.
func (s *Server) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var req createRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRequestError(w, "invalid request body: "+err.Error())
		return
	}

	created, err := s.records.Create(r.Context(), domain.RecordDraft{
		Driver:        req.Driver,
		Plate:         req.Plate,
		Departure:     req.Departure,
		Arrival:       req.Arrival,
		OdometerStart: req.OdometerStart,
		OdometerEnd:   req.OdometerEnd,
		Notes:         req.Notes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// ListRecords handles GET /api/records.
// Supports ?driver=, ?plate=, ?departure_from=, and ?arrival_to= query
// parameters, each optional and ANDed together.
func (s *Server) ListRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	recs, err := s.records.List(r.Context(), domain.ListFilter{
		Driver:        q.Get("driver"),
		Plate:         q.Get("plate"),
		DepartureFrom: q.Get("departure_from"),
		ArrivalTo:     q.Get("arrival_to"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, recs)
}

// GetRecord handles GET /api/records/{id}.
func (s *Server) GetRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	rec, err := s.records.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// UpdateRecord handles PUT /api/records/{id}.
func (s *Server) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	var req updateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRequestError(w, "invalid request body: "+err.Error())
		return
	}

	updated, err := s.records.Update(r.Context(), id, domain.RecordPatch{
		Driver:        req.Driver,
		Plate:         req.Plate,
		Departure:     req.Departure,
		Arrival:       req.Arrival,
		OdometerStart: req.OdometerStart,
		OdometerEnd:   req.OdometerEnd,
		Notes:         req.Notes,
		Actor:         req.Actor,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteRecord handles DELETE /api/records/{id}.
// Always returns 204 on success — deleting an unknown ID is a no-op.
func (s *Server) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := s.records.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetRecordHistory handles GET /api/records/{id}/history.
func (s *Server) GetRecordHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	entries, err := s.records.History(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}
