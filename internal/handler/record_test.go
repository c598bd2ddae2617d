package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/fleet-mileage/internal/domain"
	"github.com/pkordes/fleet-mileage/internal/handler"
)

// mockRecordServicer is a test double for handler.RecordServicer.
// Set only the method fields your test needs.
type mockRecordServicer struct {
	create  func(ctx context.Context, draft domain.RecordDraft) (domain.Record, error)
	get     func(ctx context.Context, id int64) (domain.Record, error)
	list    func(ctx context.Context, filter domain.ListFilter) ([]domain.Record, error)
	update  func(ctx context.Context, id int64, patch domain.RecordPatch) (domain.Record, error)
	delete  func(ctx context.Context, id int64) error
	history func(ctx context.Context, id int64) ([]domain.AuditEntry, error)
}

func (m *mockRecordServicer) Create(ctx context.Context, draft domain.RecordDraft) (domain.Record, error) {
	return m.create(ctx, draft)
}
func (m *mockRecordServicer) Get(ctx context.Context, id int64) (domain.Record, error) {
	return m.get(ctx, id)
}
func (m *mockRecordServicer) List(ctx context.Context, filter domain.ListFilter) ([]domain.Record, error) {
	return m.list(ctx, filter)
}
func (m *mockRecordServicer) Update(ctx context.Context, id int64, patch domain.RecordPatch) (domain.Record, error) {
	return m.update(ctx, id, patch)
}
func (m *mockRecordServicer) Delete(ctx context.Context, id int64) error {
	return m.delete(ctx, id)
}
func (m *mockRecordServicer) History(ctx context.Context, id int64) ([]domain.AuditEntry, error) {
	return m.history(ctx, id)
}

// compile-time check: mockRecordServicer must satisfy handler.RecordServicer.
var _ handler.RecordServicer = (*mockRecordServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with the given mock into the chi router,
// mirroring exactly how main.go wires it in production.
func newHTTPHandler(svc handler.RecordServicer) http.Handler {
	return handler.NewServer(svc, nil).Routes()
}

func recordFixture() domain.Record {
	return domain.Record{
		ID:            42,
		Driver:        "Ana",
		Plate:         "ABC-1234",
		Departure:     "2024-01-01T08:00",
		Arrival:       "2024-01-01T12:00",
		OdometerStart: 1000,
		OdometerEnd:   1150,
		Distance:      150,
		CreatedAt:     time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC),
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func doRequest(t *testing.T, h http.Handler, method, target string, body *bytes.Buffer) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// ---- POST /api/records -----------------------------------------------------

func TestCreateRecord_201(t *testing.T) {
	var gotDraft domain.RecordDraft
	svc := &mockRecordServicer{
		create: func(_ context.Context, draft domain.RecordDraft) (domain.Record, error) {
			gotDraft = draft
			return recordFixture(), nil
		},
	}

	body := jsonBody(t, map[string]any{
		"driver":         "Ana",
		"plate":          "ABC-1234",
		"departure":      "2024-01-01T08:00",
		"arrival":        "2024-01-01T12:00",
		"odometer_start": 1000,
		"odometer_end":   1150,
	})

	rec := doRequest(t, newHTTPHandler(svc), http.MethodPost, "/api/records", body)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, gotDraft.OdometerStart)
	assert.Equal(t, float64(1000), *gotDraft.OdometerStart)

	var resp domain.Record
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, float64(150), resp.Distance)
}

func TestCreateRecord_422_ValidationError(t *testing.T) {
	svc := &mockRecordServicer{
		create: func(_ context.Context, _ domain.RecordDraft) (domain.Record, error) {
			return domain.Record{}, fmt.Errorf("%w: driver is required", domain.ErrValidation)
		},
	}

	body := jsonBody(t, map[string]any{"plate": "ABC-1234"})

	rec := doRequest(t, newHTTPHandler(svc), http.MethodPost, "/api/records", body)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "driver is required")
}

func TestCreateRecord_422_NonNumericOdometer(t *testing.T) {
	svc := &mockRecordServicer{
		create: func(_ context.Context, _ domain.RecordDraft) (domain.Record, error) {
			t.Fatal("service must not be reached on a malformed body")
			return domain.Record{}, nil
		},
	}

	body := jsonBody(t, map[string]any{
		"driver":         "Ana",
		"plate":          "ABC-1234",
		"departure":      "2024-01-01T08:00",
		"arrival":        "2024-01-01T12:00",
		"odometer_start": "not a number",
		"odometer_end":   1150,
	})

	rec := doRequest(t, newHTTPHandler(svc), http.MethodPost, "/api/records", body)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// ---- GET /api/records ------------------------------------------------------

func TestListRecords_200_FilterFromQuery(t *testing.T) {
	var gotFilter domain.ListFilter
	svc := &mockRecordServicer{
		list: func(_ context.Context, filter domain.ListFilter) ([]domain.Record, error) {
			gotFilter = filter
			return []domain.Record{recordFixture()}, nil
		},
	}

	rec := doRequest(t, newHTTPHandler(svc), http.MethodGet,
		"/api/records?driver=ana&plate=abc&departure_from=2024-01-01&arrival_to=2024-12-31", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.ListFilter{
		Driver:        "ana",
		Plate:         "abc",
		DepartureFrom: "2024-01-01",
		ArrivalTo:     "2024-12-31",
	}, gotFilter)

	var resp []domain.Record
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp, 1)
}

func TestListRecords_200_Empty(t *testing.T) {
	svc := &mockRecordServicer{
		list: func(_ context.Context, _ domain.ListFilter) ([]domain.Record, error) {
			return []domain.Record{}, nil
		},
	}

	rec := doRequest(t, newHTTPHandler(svc), http.MethodGet, "/api/records", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

// ---- GET /api/records/{id} -------------------------------------------------

func TestGetRecord_200(t *testing.T) {
	svc := &mockRecordServicer{
		get: func(_ context.Context, id int64) (domain.Record, error) {
			assert.Equal(t, int64(42), id)
			return recordFixture(), nil
		},
	}

	rec := doRequest(t, newHTTPHandler(svc), http.MethodGet, "/api/records/42", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetRecord_404(t *testing.T) {
	svc := &mockRecordServicer{
		get: func(_ context.Context, _ int64) (domain.Record, error) {
			return domain.Record{}, domain.ErrNotFound
		},
	}

	rec := doRequest(t, newHTTPHandler(svc), http.MethodGet, "/api/records/99", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetRecord_404_NonNumericID(t *testing.T) {
	svc := &mockRecordServicer{}

	rec := doRequest(t, newHTTPHandler(svc), http.MethodGet, "/api/records/abc", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- PUT /api/records/{id} -------------------------------------------------

func TestUpdateRecord_200_OmittedFieldsAreNil(t *testing.T) {
	var gotPatch domain.RecordPatch
	svc := &mockRecordServicer{
		update: func(_ context.Context, id int64, patch domain.RecordPatch) (domain.Record, error) {
			assert.Equal(t, int64(42), id)
			gotPatch = patch
			updated := recordFixture()
			updated.OdometerEnd = 1200
			updated.Distance = 200
			return updated, nil
		},
	}

	body := jsonBody(t, map[string]any{"odometer_end": 1200, "actor": "Ana"})

	rec := doRequest(t, newHTTPHandler(svc), http.MethodPut, "/api/records/42", body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, gotPatch.Driver, "omitted fields must stay nil")
	assert.Nil(t, gotPatch.OdometerStart)
	require.NotNil(t, gotPatch.OdometerEnd)
	assert.Equal(t, float64(1200), *gotPatch.OdometerEnd)
	require.NotNil(t, gotPatch.Actor)
	assert.Equal(t, "Ana", *gotPatch.Actor)

	var resp domain.Record
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, float64(200), resp.Distance)
}

func TestUpdateRecord_404(t *testing.T) {
	svc := &mockRecordServicer{
		update: func(_ context.Context, _ int64, _ domain.RecordPatch) (domain.Record, error) {
			return domain.Record{}, domain.ErrNotFound
		},
	}

	rec := doRequest(t, newHTTPHandler(svc), http.MethodPut, "/api/records/99", jsonBody(t, map[string]any{}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateRecord_422(t *testing.T) {
	svc := &mockRecordServicer{
		update: func(_ context.Context, _ int64, _ domain.RecordPatch) (domain.Record, error) {
			return domain.Record{}, fmt.Errorf("%w: final odometer reading must not be less than initial", domain.ErrValidation)
		},
	}

	rec := doRequest(t, newHTTPHandler(svc), http.MethodPut, "/api/records/42",
		jsonBody(t, map[string]any{"odometer_end": 900}))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "final odometer reading must not be less than initial")
}

// ---- DELETE /api/records/{id} ----------------------------------------------

func TestDeleteRecord_204(t *testing.T) {
	deleted := false
	svc := &mockRecordServicer{
		delete: func(_ context.Context, id int64) error {
			assert.Equal(t, int64(42), id)
			deleted = true
			return nil
		},
	}

	rec := doRequest(t, newHTTPHandler(svc), http.MethodDelete, "/api/records/42", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, deleted)
}

func TestDeleteRecord_204_UnknownID(t *testing.T) {
	svc := &mockRecordServicer{
		delete: func(_ context.Context, _ int64) error { return nil },
	}

	rec := doRequest(t, newHTTPHandler(svc), http.MethodDelete, "/api/records/999999", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code, "delete is idempotent")
}

// ---- GET /api/records/{id}/history -----------------------------------------

func TestGetRecordHistory_200(t *testing.T) {
	entries := []domain.AuditEntry{
		{
			ID:        2,
			RecordID:  42,
			Field:     "End Odometer",
			OldValue:  "1150",
			NewValue:  "1200",
			Actor:     "Ana",
			ChangedAt: time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC),
		},
	}
	svc := &mockRecordServicer{
		history: func(_ context.Context, id int64) ([]domain.AuditEntry, error) {
			assert.Equal(t, int64(42), id)
			return entries, nil
		},
	}

	rec := doRequest(t, newHTTPHandler(svc), http.MethodGet, "/api/records/42/history", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []domain.AuditEntry
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "End Odometer", resp[0].Field)
}

func TestGetRecordHistory_200_Empty(t *testing.T) {
	svc := &mockRecordServicer{
		history: func(_ context.Context, _ int64) ([]domain.AuditEntry, error) {
			return []domain.AuditEntry{}, nil
		},
	}

	rec := doRequest(t, newHTTPHandler(svc), http.MethodGet, "/api/records/999999/history", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

// ---- internal error mapping ------------------------------------------------

func TestGetRecord_500_GenericMessage(t *testing.T) {
	svc := &mockRecordServicer{
		get: func(_ context.Context, _ int64) (domain.Record, error) {
			return domain.Record{}, fmt.Errorf("pq: connection refused")
		},
	}

	rec := doRequest(t, newHTTPHandler(svc), http.MethodGet, "/api/records/42", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
	assert.NotContains(t, rec.Body.String(), "connection refused", "internal details must not leak")
}
