package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/archgen/archgen/pkg/buildinfo"
	apperrors "github.com/archgen/archgen/pkg/errors"
	"github.com/archgen/archgen/pkg/pipeline"
	"github.com/archgen/archgen/pkg/plan"
	"github.com/archgen/archgen/pkg/validate"
)

// request size cap; plans are small, anything larger is abuse
const maxBodyBytes = 1 << 20

// generateRequest is the body of POST /api/generate.
type generateRequest struct {
	Goal    string    `json:"goal"`
	Plan    string    `json:"plan"` // raw plan text, possibly fenced or broken
	Mode    plan.Mode `json:"mode,omitempty"`
	Formats []string  `json:"formats,omitempty"`
	Refresh bool      `json:"refresh,omitempty"`
}

// generateResponse is the body of a successful generation.
type generateResponse struct {
	AttemptID string            `json:"attempt_id"`
	Plan      plan.Plan         `json:"plan"`
	PlanHash  string            `json:"plan_hash"`
	Artifacts map[string]string `json:"artifacts"` // format -> content
	Report    validate.Report   `json:"report"`
	CacheHits map[string]bool   `json:"cache_hits,omitempty"`
}

// renderRequest is the body of POST /api/render.
type renderRequest struct {
	Diagram string `json:"diagram"` // serialized document XML
}

// validateRequest is the body of POST /api/validate.
type validateRequest struct {
	Diagram string `json:"diagram"`
	Goal    string `json:"goal,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !readJSON(w, r, &req) {
		return
	}
	if req.Plan == "" {
		writeError(w, http.StatusBadRequest, "plan is required")
		return
	}

	opts := pipeline.Options{
		Goal:    req.Goal,
		Mode:    req.Mode,
		Formats: req.Formats,
		Refresh: req.Refresh,
		Theme:   s.theme,
		Logger:  s.logger,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		writeErrorFrom(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.runner.Generate(r.Context(), req.Plan, opts)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, plan.ErrUnparsable) {
			status = http.StatusUnprocessableEntity
		}
		writeErrorFrom(w, status, err)
		return
	}

	artifacts := make(map[string]string, len(result.Artifacts))
	for format, data := range result.Artifacts {
		artifacts[format] = string(data)
	}
	writeJSON(w, http.StatusOK, generateResponse{
		AttemptID: result.AttemptID,
		Plan:      result.Plan,
		PlanHash:  result.PlanHash,
		Artifacts: artifacts,
		Report:    result.Report,
		CacheHits: result.CacheInfo.Hits,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !readJSON(w, r, &req) {
		return
	}
	if req.Diagram == "" {
		writeError(w, http.StatusBadRequest, "diagram is required")
		return
	}

	svg := s.runner.Render([]byte(req.Diagram))
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if !readJSON(w, r, &req) {
		return
	}
	if req.Diagram == "" {
		writeError(w, http.StatusBadRequest, "diagram is required")
		return
	}
	writeJSON(w, http.StatusOK, s.runner.Validate([]byte(req.Diagram), req.Goal))
}

// readJSON decodes the request body, writing a 400 on failure.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeErrorFrom writes an error response carrying the machine-readable code
// when the error chain holds one.
func writeErrorFrom(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{
		Error: err.Error(),
		Code:  string(apperrors.GetCode(err)),
	})
}
