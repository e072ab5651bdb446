// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

// VendorsDependencies defines the interface for vendor operations.
type VendorsDependencies interface {
	Vendors(ctx context.Context) []string
	AddVendor(ctx context.Context, name string) error
	RemoveVendor(ctx context.Context, name string) error
}

// VendorsHandler handles vendor registry requests.
type VendorsHandler struct {
	deps VendorsDependencies
}

// NewVendorsHandler creates a new vendors handler.
func NewVendorsHandler(deps VendorsDependencies) *VendorsHandler {
	return &VendorsHandler{deps: deps}
}

// HandleCollection handles GET and POST /api/vendors requests.
func (h *VendorsHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.deps.Vendors(r.Context()))
	case http.MethodPost:
		var req nameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		if err := h.deps.AddVendor(r.Context(), req.Name); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, ackResponse{Status: "created"})
	default:
		http.NotFound(w, r)
	}
}

// HandleItem handles DELETE /api/vendors/{name} requests.
func (h *VendorsHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	name, err := url.PathUnescape(strings.TrimPrefix(r.URL.Path, "/api/vendors/"))
	if err != nil || name == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := h.deps.RemoveVendor(r.Context(), name); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "deleted"})
}
