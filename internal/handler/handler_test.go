package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"kart-checkout/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	var logs bytes.Buffer
	rec := httptest.NewRecorder()

	writeJSON(rec, http.StatusCreated, model.CheckoutResponse{TotalPrice: "22.45"}, zerolog.New(&logs))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp model.CheckoutResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "22.45", resp.TotalPrice)
	assert.Empty(t, logs.String())
}

func TestWriteJSON_EncodeFailureIsLogged(t *testing.T) {
	var logs bytes.Buffer
	rec := httptest.NewRecorder()

	writeJSON(rec, http.StatusOK, map[string]interface{}{"lines": make(chan int)}, zerolog.New(&logs))

	assert.Equal(t, http.StatusOK, rec.Code)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(logs.Bytes()), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "failed to encode response", entry["message"])
	assert.Equal(t, float64(http.StatusOK), entry["status"])
	assert.Contains(t, entry["error"], "unsupported type")
}
