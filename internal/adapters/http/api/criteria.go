// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/mlindq/cpmd/internal/domain/report"
)

// CriteriaDependencies defines the interface for criteria operations.
type CriteriaDependencies interface {
	Criteria(ctx context.Context) []report.WeightedCriterion
	AddCriterion(ctx context.Context, name string) error
	RemoveCriterion(ctx context.Context, name string) error
	SetCriterionRank(ctx context.Context, name string, rank int) error
}

// CriteriaHandler handles criteria registry requests.
type CriteriaHandler struct {
	deps CriteriaDependencies
}

// NewCriteriaHandler creates a new criteria handler.
func NewCriteriaHandler(deps CriteriaDependencies) *CriteriaHandler {
	return &CriteriaHandler{deps: deps}
}

type nameRequest struct {
	Name string `json:"name"`
}

type rankRequest struct {
	Rank *int `json:"rank"`
}

// HandleCollection handles GET and POST /api/criteria requests.
func (h *CriteriaHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.deps.Criteria(r.Context()))
	case http.MethodPost:
		var req nameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		if err := h.deps.AddCriterion(r.Context(), req.Name); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, ackResponse{Status: "created"})
	default:
		http.NotFound(w, r)
	}
}

// HandleItem handles DELETE /api/criteria/{name} and
// PUT /api/criteria/{name}/rank requests.
func (h *CriteriaHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/criteria/")
	name, rest, _ := strings.Cut(path, "/")
	name, err := url.PathUnescape(name)
	if err != nil || name == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	switch {
	case r.Method == http.MethodDelete && rest == "":
		if err := h.deps.RemoveCriterion(r.Context(), name); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ackResponse{Status: "deleted"})
	case r.Method == http.MethodPut && rest == "rank":
		var req rankRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Rank == nil {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		if err := h.deps.SetCriterionRank(r.Context(), name, *req.Rank); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, h.deps.Criteria(r.Context()))
	default:
		http.NotFound(w, r)
	}
}
