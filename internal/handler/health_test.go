package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/fleet-mileage/internal/handler"
)

func TestGetHealth_200(t *testing.T) {
	h := handler.NewServer(nil, nil).Routes()

	rec := doRequest(t, h, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
