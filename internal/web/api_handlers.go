package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/evcraddock/condour/internal/scan"
)

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := map[string]string{"error": msg}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// handleAPIScan runs a scan from a JSON request body.
func (s *Server) handleAPIScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req scan.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		apiError(w, validationMessage(err), http.StatusBadRequest)
		return
	}

	result, err := s.runScan(r.Context(), req)
	if errors.Is(err, scan.ErrBlankInput) {
		apiError(w, "input is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		apiError(w, fmt.Sprintf("running scan: %v", err), http.StatusInternalServerError)
		return
	}

	apiJSON(w, result, http.StatusOK)
}

// handleAPILatest returns the most recent scan result.
func (s *Server) handleAPILatest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	latest := s.Latest()
	if latest == nil {
		apiError(w, "no scan has completed yet", http.StatusNotFound)
		return
	}
	apiJSON(w, latest, http.StatusOK)
}

// validationMessage turns validator errors into a short client message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return "input is required"
	case "max":
		return fmt.Sprintf("input must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("invalid %s", fe.Field())
	}
}
