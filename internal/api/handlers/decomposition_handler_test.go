// internal/api/handlers/decomposition_handler_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stratum-labs/stratum/internal/api/routes"
	"github.com/stratum-labs/stratum/internal/engine"
	"github.com/stratum-labs/stratum/internal/history"
	"github.com/stratum-labs/stratum/internal/models"
	"github.com/stratum-labs/stratum/internal/runner"
	"github.com/stratum-labs/stratum/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, history.Store) {
	t.Helper()
	hist := history.NewMemoryStore(16)
	dec := engine.NewDecomposer(2, 100, hist)
	run := runner.NewRunner(worker.NewRegistry(), nil)

	// No plan cache: handlers fall back to history
	srv := httptest.NewServer(routes.SetupRouter(dec, nil, hist, run))
	t.Cleanup(srv.Close)
	return srv, hist
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func TestCreateDecomposition(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/decompositions", map[string]any{
		"root": models.TaskDescriptor{ID: "d", Name: "aggregate", Dependencies: []string{"a", "b", "c"}},
		"subtasks": []models.TaskDescriptor{
			{ID: "a", Name: "fetch"},
			{ID: "b", Name: "fetch"},
			{ID: "c", Name: "fetch"},
		},
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result models.DecompositionResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}, {"d"}}, result.Levels)
}

func TestCreateDecompositionRejectsCycle(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/decompositions", map[string]any{
		"root": models.TaskDescriptor{ID: "root", Name: "root"},
		"subtasks": []models.TaskDescriptor{
			{ID: "a", Name: "x", Dependencies: []string{"b"}},
			{ID: "b", Name: "x", Dependencies: []string{"a"}},
		},
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, string(engine.CodeCircularDependency), body["code"])
}

func TestGetDecompositionFromHistory(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/decompositions", map[string]any{
		"root": models.TaskDescriptor{ID: "solo", Name: "solo"},
	})
	var result models.DecompositionResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	resp.Body.Close()

	getResp, err := http.Get(srv.URL + "/api/v1/decompositions/" + result.ID)
	require.NoError(t, err)
	defer getResp.Body.Close()

	require.Equal(t, http.StatusOK, getResp.StatusCode)
	var rec models.DecompositionRecord
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&rec))
	assert.Equal(t, result.ID, rec.ID)
	assert.Equal(t, 1, rec.NodeCount)
}

func TestGetDecompositionNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/decompositions/missing")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListDecompositions(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, id := range []string{"one", "two"} {
		resp := postJSON(t, srv.URL+"/api/v1/decompositions", map[string]any{
			"root": models.TaskDescriptor{ID: id, Name: id},
		})
		resp.Body.Close()
	}

	resp, err := http.Get(srv.URL + "/api/v1/decompositions?limit=1")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var records []models.DecompositionRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&records))
	require.Len(t, records, 1)
	assert.Equal(t, "two", records[0].RootTaskID)
}

func TestMergeEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/merge", map[string]any{
		"results":  []any{[]any{1, 2}, 3},
		"strategy": "concat",
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []any{1.0, 2.0, 3.0}, body["merged"])
}

func TestMergeEndpointRejectsCustom(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/merge", map[string]any{
		"results":  []any{1},
		"strategy": "custom",
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, string(engine.CodeMergeCombinerMissing), body["code"])
}
