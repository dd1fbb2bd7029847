package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/reachly/reachly/internal/campaign"
)

// RunRequestBody is the request body for POST /api/v1/runs.
type RunRequestBody struct {
	Mode     string `json:"mode"`
	Email    string `json:"email,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Force    bool   `json:"force,omitempty"`
	MinDelay int    `json:"min_delay_seconds,omitempty"`
	MaxDelay int    `json:"max_delay_seconds,omitempty"`
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Uptime: time.Since(s.startTime).Round(time.Second).String(),
	})
}

func (s *Server) handleStartRun(w http.ResponseWriter, r *http.Request) {
	var body RunRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var mode campaign.Mode
	switch body.Mode {
	case "dry_run", string(campaign.ModeDryRun), "":
		mode = campaign.ModeDryRun
	case "send", string(campaign.ModeSend):
		mode = campaign.ModeSend
	default:
		s.sendError(w, http.StatusBadRequest, "mode must be DRY_RUN or SEND")
		return
	}

	// Omitted pacing bounds fall back to the configured sending delays, the
	// same defaults the CLI applies.
	minDelay := s.cfg.Sending.MinDelay
	maxDelay := s.cfg.Sending.MaxDelay
	if body.MinDelay > 0 {
		minDelay = time.Duration(body.MinDelay) * time.Second
	}
	if body.MaxDelay > 0 {
		maxDelay = time.Duration(body.MaxDelay) * time.Second
	}

	req := campaign.RunRequest{
		Mode: mode,
		Scope: campaign.Scope{
			Email: body.Email,
			Limit: body.Limit,
			Force: body.Force,
		},
		MinDelay: minDelay,
		MaxDelay: maxDelay,
	}

	// The run outlives the request: tie it to the server, not to r.Context().
	st, err := s.runner.Start(context.WithoutCancel(r.Context()), req)
	if err != nil {
		if errors.Is(err, ErrRunActive) {
			s.sendError(w, http.StatusConflict, err.Error())
			return
		}
		s.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.sendJSON(w, http.StatusAccepted, st)
}

func (s *Server) handleLastRun(w http.ResponseWriter, r *http.Request) {
	st := s.runner.Last()
	if st == nil {
		s.sendError(w, http.StatusNotFound, "no runs yet")
		return
	}
	s.sendJSON(w, http.StatusOK, st)
}

func (s *Server) handleCancelRun(w http.ResponseWriter, r *http.Request) {
	if !s.runner.Cancel() {
		s.sendError(w, http.StatusConflict, "no active run")
		return
	}
	s.sendJSON(w, http.StatusOK, map[string]string{"status": "cancelling"})
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	views, err := s.statuses.Reconciled(r.Context())
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.sendJSON(w, http.StatusOK, map[string]any{
		"contacts": views,
		"total":    len(views),
	})
}

func (s *Server) handleAddContact(w http.ResponseWriter, r *http.Request) {
	var contact campaign.Contact
	if err := json.NewDecoder(r.Body).Decode(&contact); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	contact.ID = ""
	if err := s.store.Add(&contact); err != nil {
		s.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.sendJSON(w, http.StatusCreated, contact)
}

func (s *Server) handleImportContacts(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	result, err := s.store.ImportCSV(r.Body)
	if err != nil {
		s.sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.sendJSON(w, http.StatusOK, result)
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	entries, err := s.log.ReadAll(r.Context())
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.sendJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"total":   len(entries),
	})
}

func (s *Server) sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) sendError(w http.ResponseWriter, status int, msg string) {
	s.sendJSON(w, status, ErrorResponse{Error: msg})
}
