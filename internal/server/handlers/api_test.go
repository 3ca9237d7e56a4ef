package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mherrera/rodeo/internal/record/memory"
	"github.com/mherrera/rodeo/internal/server/handlers"
	"github.com/mherrera/rodeo/internal/server/router"
	"github.com/mherrera/rodeo/internal/service/herd"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	container := herd.New(memory.New(), nil)
	api := handlers.NewAPI(container, nil)
	server := httptest.NewServer(router.New(api, nil))
	t.Cleanup(server.Close)
	return server
}

func do(t *testing.T, server *httptest.Server, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func TestAssignFlowOverHTTP(t *testing.T) {
	server := newTestServer(t)

	status, animal := do(t, server, http.MethodPost, "/api/v1/animals", map[string]any{
		"tag_number": "101",
		"tag_color":  "yellow",
		"category":   "steer",
	})
	require.Equal(t, http.StatusCreated, status)
	animalID := animal["id"].(string)

	status, lot := do(t, server, http.MethodPost, "/api/v1/lots", map[string]any{"name": "Corral Norte"})
	require.Equal(t, http.StatusCreated, status)
	lotID := lot["id"].(string)

	status, body := do(t, server, http.MethodPost, "/api/v1/lots/"+lotID+"/assign", map[string]any{
		"animal_ids": []string{animalID},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["moved"])

	status, body = do(t, server, http.MethodGet, "/api/v1/stock?lot="+lotID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["count"])

	status, body = do(t, server, http.MethodGet, "/api/v1/animals/"+animalID+"/lot", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["assigned"])
}

func TestAssignToMissingLotReturnsNotFound(t *testing.T) {
	server := newTestServer(t)

	status, animal := do(t, server, http.MethodPost, "/api/v1/animals", map[string]any{
		"tag_number": "101",
		"tag_color":  "yellow",
		"category":   "steer",
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := do(t, server, http.MethodPost, "/api/v1/lots/ghost/assign", map[string]any{
		"animal_ids": []string{animal["id"].(string)},
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
}

func TestValidationFailureShape(t *testing.T) {
	server := newTestServer(t)

	status, body := do(t, server, http.MethodPost, "/api/v1/animals", map[string]any{
		"tag_color": "yellow",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])

	status, body = do(t, server, http.MethodPost, "/api/v1/assignments/release", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
}

func TestDeleteLotReportsReleasedCount(t *testing.T) {
	server := newTestServer(t)

	ids := make([]string, 0, 2)
	for i := 1; i <= 2; i++ {
		status, animal := do(t, server, http.MethodPost, "/api/v1/animals", map[string]any{
			"tag_number": fmt.Sprintf("10%d", i),
			"tag_color":  "yellow",
			"category":   "steer",
		})
		require.Equal(t, http.StatusCreated, status)
		ids = append(ids, animal["id"].(string))
	}

	status, lot := do(t, server, http.MethodPost, "/api/v1/lots", map[string]any{"name": "Corral Sur"})
	require.Equal(t, http.StatusCreated, status)
	lotID := lot["id"].(string)

	status, _ = do(t, server, http.MethodPost, "/api/v1/lots/"+lotID+"/assign", map[string]any{"animal_ids": ids})
	require.Equal(t, http.StatusOK, status)

	status, body := do(t, server, http.MethodDelete, "/api/v1/lots/"+lotID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["released_animals"])

	status, body = do(t, server, http.MethodGet, "/api/v1/stock/unassigned", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["count"])
}

func TestSellRemovesAnimalFromStock(t *testing.T) {
	server := newTestServer(t)

	status, animal := do(t, server, http.MethodPost, "/api/v1/animals", map[string]any{
		"tag_number": "101",
		"tag_color":  "yellow",
		"category":   "steer",
	})
	require.Equal(t, http.StatusCreated, status)
	animalID := animal["id"].(string)

	status, body := do(t, server, http.MethodPost, "/api/v1/animals/"+animalID+"/sell", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])

	status, body = do(t, server, http.MethodGet, "/api/v1/stock", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["count"])

	status, body = do(t, server, http.MethodPost, "/api/v1/animals/"+animalID+"/sell", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
}

func TestWeighingEndpoints(t *testing.T) {
	server := newTestServer(t)

	status, animal := do(t, server, http.MethodPost, "/api/v1/animals", map[string]any{
		"tag_number": "101",
		"tag_color":  "yellow",
		"category":   "steer",
	})
	require.Equal(t, http.StatusCreated, status)
	animalID := animal["id"].(string)

	status, _ = do(t, server, http.MethodPost, "/api/v1/weighings", map[string]any{
		"animal_id": animalID,
		"date":      "2024-01-01T00:00:00Z",
		"weight_kg": 300,
	})
	require.Equal(t, http.StatusCreated, status)

	status, _ = do(t, server, http.MethodPost, "/api/v1/weighings", map[string]any{
		"animal_id": animalID,
		"date":      "2024-01-11T00:00:00Z",
		"weight_kg": 320,
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := do(t, server, http.MethodGet, "/api/v1/animals/"+animalID+"/weighings", nil)
	require.Equal(t, http.StatusOK, status)
	entries := body["weighings"].([]any)
	require.Len(t, entries, 2)
	second := entries[1].(map[string]any)
	assert.InDelta(t, 20.0, second["gain_kg"].(float64), 1e-9)

	status, summary := do(t, server, http.MethodGet, "/api/v1/stock/summary", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), summary["count"])
	assert.InDelta(t, 320.0, summary["mean_weight_kg"].(float64), 1e-9)
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t)

	status, body := do(t, server, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}
