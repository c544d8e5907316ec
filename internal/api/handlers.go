// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/ManuGH/rewardtv/internal/library"
	"github.com/ManuGH/rewardtv/internal/log"
	"github.com/ManuGH/rewardtv/internal/reward"
)

const (
	defaultRewardsLimit = 20
	maxRewardsLimit     = 500
)

type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger := log.WithComponentFromContext(r.Context(), "api")
		logger.Warn().Err(err).Str(log.FieldEvent, "api.encode_failed").Msg("failed to write response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, detail string) {
	writeJSON(w, r, status, errorBody{Error: code, Detail: detail})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.deps.Session == nil {
		writeError(w, r, http.StatusNotFound, "no_session", "")
		return
	}
	writeJSON(w, r, http.StatusOK, s.deps.Session.Snapshot())
}

type interruptResponse struct {
	Interrupted bool `json:"interrupted"`
}

func (s *Server) handleInterrupt(w http.ResponseWriter, r *http.Request) {
	if s.deps.Session == nil {
		writeError(w, r, http.StatusNotFound, "no_session", "")
		return
	}
	ok := s.deps.Session.Interrupt()
	logger := log.WithComponentFromContext(r.Context(), "api")
	logger.Info().
		Str(log.FieldEvent, "session.remote_interrupt").
		Bool("interrupted", ok).
		Msg("interrupt requested over HTTP")
	status := http.StatusOK
	if !ok {
		status = http.StatusConflict
	}
	writeJSON(w, r, status, interruptResponse{Interrupted: ok})
}

type libraryResponse struct {
	Regular []library.Item `json:"regular"`
	Premium []library.Item `json:"premium"`
	Count   int            `json:"count"`
}

func (s *Server) handleLibrary(w http.ResponseWriter, r *http.Request) {
	if s.deps.Catalog == nil {
		writeError(w, r, http.StatusNotFound, "no_library", "")
		return
	}
	cat := s.deps.Catalog.Catalog()
	writeJSON(w, r, http.StatusOK, libraryResponse{Regular: cat.Regular, Premium: cat.Premium, Count: cat.Len()})
}

type rewardView struct {
	ID         string    `json:"id"`
	Amount     int       `json:"amount"`
	Base       int       `json:"base"`
	Multiplier float64   `json:"multiplier"`
	Reason     string    `json:"reason"`
	Synced     bool      `json:"synced"`
	CreatedAt  time.Time `json:"created_at"`
}

type rewardsResponse struct {
	Credited int64        `json:"credited"`
	Unsynced int64        `json:"unsynced"`
	Events   []rewardView `json:"events"`
}

func (s *Server) handleRewards(w http.ResponseWriter, r *http.Request) {
	if s.deps.Journal == nil {
		writeError(w, r, http.StatusNotFound, "no_journal", "")
		return
	}
	limit := defaultRewardsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxRewardsLimit {
			writeError(w, r, http.StatusBadRequest, "invalid_limit", "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	totals, err := s.deps.Journal.Totals(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "journal_unavailable", "")
		return
	}
	events, err := s.deps.Journal.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "journal_unavailable", "")
		return
	}

	resp := rewardsResponse{Credited: totals.Credited, Unsynced: totals.Unsynced, Events: make([]rewardView, 0, len(events))}
	for _, e := range events {
		resp.Events = append(resp.Events, toRewardView(e))
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func toRewardView(e reward.Event) rewardView {
	return rewardView{
		ID:         e.ID,
		Amount:     e.Amount,
		Base:       e.Base,
		Multiplier: e.Multiplier,
		Reason:     e.Reason,
		Synced:     e.Synced,
		CreatedAt:  e.CreatedAt,
	}
}
