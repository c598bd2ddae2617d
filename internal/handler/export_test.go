package handler_test

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/fleet-mileage/internal/domain"
	"github.com/pkordes/fleet-mileage/internal/handler"
)

// mockExportServicer is a test double for handler.ExportServicer.
type mockExportServicer struct {
	snapshot func(ctx context.Context) ([]domain.Record, error)
}

func (m *mockExportServicer) Snapshot(ctx context.Context) ([]domain.Record, error) {
	return m.snapshot(ctx)
}

var _ handler.ExportServicer = (*mockExportServicer)(nil)

func newExportHandler(svc handler.ExportServicer) http.Handler {
	return handler.NewServer(nil, svc).Routes()
}

func snapshotOf(recs ...domain.Record) *mockExportServicer {
	return &mockExportServicer{
		snapshot: func(_ context.Context) ([]domain.Record, error) { return recs, nil },
	}
}

func TestExportCSV_200(t *testing.T) {
	h := newExportHandler(snapshotOf(recordFixture()))

	rec := doRequest(t, h, http.MethodGet, "/api/export/csv", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="mileage.csv"`)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte{0xEF, 0xBB, 0xBF}))
	assert.Contains(t, rec.Body.String(), "Ana")
}

func TestExportXLSX_200(t *testing.T) {
	h := newExportHandler(snapshotOf(recordFixture()))

	rec := doRequest(t, h, http.MethodGet, "/api/export/xlsx", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	// XLSX files are zip archives.
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}

func TestExportPDF_200(t *testing.T) {
	h := newExportHandler(snapshotOf(recordFixture()))

	rec := doRequest(t, h, http.MethodGet, "/api/export/pdf", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))
}

func TestExport_500_OnSnapshotFailure(t *testing.T) {
	h := newExportHandler(&mockExportServicer{
		snapshot: func(_ context.Context) ([]domain.Record, error) {
			return nil, assert.AnError
		},
	})

	rec := doRequest(t, h, http.MethodGet, "/api/export/csv", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Disposition"), "no attachment on failure")
}

func TestGetQRCode_200_ExplicitURL(t *testing.T) {
	h := newExportHandler(snapshotOf())

	rec := doRequest(t, h, http.MethodGet, "/api/qrcode?url=https%3A%2F%2Fexample.com", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
}

func TestGetQRCode_200_DefaultsToHostURL(t *testing.T) {
	h := newExportHandler(snapshotOf())

	rec := doRequest(t, h, http.MethodGet, "/api/qrcode", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
}
