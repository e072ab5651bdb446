// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// RatingsDependencies defines the interface for rating matrix operations.
type RatingsDependencies interface {
	GetRatings(ctx context.Context) Ratings
	SetRating(ctx context.Context, vendor, criterion string, value int) error
}

// RatingsHandler handles rating matrix requests.
type RatingsHandler struct {
	deps RatingsDependencies
}

// NewRatingsHandler creates a new ratings handler.
func NewRatingsHandler(deps RatingsDependencies) *RatingsHandler {
	return &RatingsHandler{deps: deps}
}

type ratingRequest struct {
	Vendor    string `json:"vendor"`
	Criterion string `json:"criterion"`
	Value     *int   `json:"value"`
}

// HandleRatings handles GET and PUT /api/ratings requests.
func (h *RatingsHandler) HandleRatings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.deps.GetRatings(r.Context()))
	case http.MethodPut:
		var req ratingRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil || strings.TrimSpace(req.Vendor) == "" ||
			strings.TrimSpace(req.Criterion) == "" || req.Value == nil {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		if err := h.deps.SetRating(r.Context(), req.Vendor, req.Criterion, *req.Value); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ackResponse{Status: "updated"})
	default:
		http.NotFound(w, r)
	}
}
