// internal/api/handlers/decomposition_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/stratum-labs/stratum/internal/engine"
	"github.com/stratum-labs/stratum/internal/history"
	"github.com/stratum-labs/stratum/internal/models"
	"github.com/stratum-labs/stratum/internal/runner"
	"github.com/stratum-labs/stratum/internal/storage/leveldb"
)

// DecompositionRequest is the POST body for a decomposition
type DecompositionRequest struct {
	Root     models.TaskDescriptor   `json:"root"`
	Subtasks []models.TaskDescriptor `json:"subtasks"`
}

type errorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type DecompositionHandler struct {
	decomposer *engine.Decomposer
	cache      *leveldb.Client
	history    history.Store
	runner     *runner.Runner
}

func NewDecompositionHandler(dec *engine.Decomposer, cache *leveldb.Client, hist history.Store, run *runner.Runner) *DecompositionHandler {
	return &DecompositionHandler{
		decomposer: dec,
		cache:      cache,
		history:    hist,
		runner:     run,
	}
}

// Create decomposes a root task plus subtasks into an executable plan
func (h *DecompositionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req DecompositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "", "invalid request body")
		return
	}
	if req.Root.ID == "" {
		writeError(w, http.StatusBadRequest, "", "root task id is required")
		return
	}

	result, err := h.decomposer.Decompose(r.Context(), req.Root, req.Subtasks)
	if err != nil {
		var verr *engine.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, string(verr.Code), verr.Message)
			return
		}
		writeError(w, http.StatusInternalServerError, "", "decomposition failed")
		return
	}

	if h.cache != nil {
		if err := h.cache.PutResult(result); err != nil {
			log.Printf("Warning: failed to cache decomposition %s: %v", result.ID, err)
		}
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(result)
}

// Get returns a previously computed plan, falling back to the compact
// history record once the cached plan has aged out
func (h *DecompositionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if h.cache != nil {
		result, err := h.cache.GetResult(id)
		if err != nil {
			log.Printf("Warning: cache lookup for %s failed: %v", id, err)
		}
		if result != nil {
			json.NewEncoder(w).Encode(result)
			return
		}
	}

	rec, err := h.history.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "", "decomposition not found")
		return
	}
	json.NewEncoder(w).Encode(rec)
}

// List returns the most recent decomposition records
func (h *DecompositionHandler) List(w http.ResponseWriter, r *http.Request) {
	n := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			n = parsed
		}
	}

	records, err := h.history.Recent(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "", "failed to list decompositions")
		return
	}
	if records == nil {
		records = []models.DecompositionRecord{}
	}
	json.NewEncoder(w).Encode(records)
}

// Execute dispatches a cached plan to the runner. Execution proceeds in
// the background; the caller polls Get for node statuses.
func (h *DecompositionHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if h.cache == nil {
		writeError(w, http.StatusServiceUnavailable, "", "plan cache is not configured")
		return
	}

	result, err := h.cache.GetResult(id)
	if err != nil || result == nil {
		writeError(w, http.StatusNotFound, "", "decomposition not found")
		return
	}

	var data map[string]any
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		data = make(map[string]any)
	}

	// The request context dies with this response; execution gets its own
	go func() {
		if err := h.runner.ExecutePlan(context.Background(), result, data); err != nil {
			log.Printf("Error executing plan %s: %v", result.ID, err)
			return
		}
		// Re-cache so node statuses and results are visible via Get
		if err := h.cache.PutResult(result); err != nil {
			log.Printf("Warning: failed to cache executed plan %s: %v", result.ID, err)
		}
	}()

	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Plan execution started",
		"id":      result.ID,
	})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Code: code, Message: message})
}
