// internal/api/handlers/merge_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stratum-labs/stratum/internal/engine"
	"github.com/stratum-labs/stratum/internal/models"
)

// MergeRequest is the POST body for combining sibling task results
type MergeRequest struct {
	Results  []any                `json:"results"`
	Strategy models.MergeStrategy `json:"strategy"`
}

type MergeHandler struct{}

func NewMergeHandler() *MergeHandler {
	return &MergeHandler{}
}

// Merge combines a list of task results under the requested strategy.
// The custom strategy needs an in-process combiner and is not available
// over HTTP.
func (h *MergeHandler) Merge(w http.ResponseWriter, r *http.Request) {
	var req MergeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "", "invalid request body")
		return
	}

	merged, err := engine.Merge(req.Results, req.Strategy, nil)
	if err != nil {
		var verr *engine.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, string(verr.Code), verr.Message)
			return
		}
		writeError(w, http.StatusBadRequest, "", err.Error())
		return
	}

	json.NewEncoder(w).Encode(map[string]any{"merged": merged})
}
