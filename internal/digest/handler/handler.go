// Package handler exposes digest subscriptions and previews over HTTP.
package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vetflow/internal/digest"
	"vetflow/internal/transport/http/shared"
	id "vetflow/pkg/domain"
)

// Handler handles digest endpoints.
type Handler struct {
	agg   *digest.Aggregator
	prefs digest.PreferencesStore
}

func New(agg *digest.Aggregator, prefs digest.PreferencesStore) *Handler {
	return &Handler{agg: agg, prefs: prefs}
}

// Register mounts the digest routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/digests/{userID}", func(r chi.Router) {
		r.Get("/preview", h.handlePreview)
		r.Put("/preferences", h.handlePutPreferences)
	})
}

// handlePreview builds the digest without touching send scheduling, so
// operators can inspect what a subscriber would receive.
func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	data, err := h.agg.Build(r.Context(), userID, time.Now())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if data == nil {
		shared.WriteJSON(w, http.StatusOK, map[string]bool{"enabled": false})
		return
	}
	shared.WriteJSON(w, http.StatusOK, toDigestResponse(*data))
}

type preferencesRequest struct {
	Frequency             string `json:"frequency"`
	Destination           string `json:"destination"`
	IncludeStatusChanges  bool   `json:"includeStatusChanges"`
	IncludePendingActions bool   `json:"includePendingActions"`
}

func (h *Handler) handlePutPreferences(w http.ResponseWriter, r *http.Request) {
	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req preferencesRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	freq, err := digest.ParseFrequency(req.Frequency)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	// Preserve lastSentAt across preference edits so changing frequency
	// does not trigger an immediate resend.
	var lastSent *time.Time
	if existing, err := h.prefs.Get(r.Context(), userID); err == nil && existing != nil {
		lastSent = existing.LastSentAt
	}

	p := digest.Preferences{
		UserID:                userID,
		Frequency:             freq,
		Destination:           req.Destination,
		IncludeStatusChanges:  req.IncludeStatusChanges,
		IncludePendingActions: req.IncludePendingActions,
		LastSentAt:            lastSent,
	}
	if err := h.prefs.Put(r.Context(), p); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, req)
}

type actionResponse struct {
	CheckID       string `json:"checkId"`
	CandidateName string `json:"candidateName"`
	Kind          string `json:"kind"`
	Description   string `json:"description"`
	DaysPending   int    `json:"daysPending"`
	Priority      string `json:"priority"`
}

type digestResponse struct {
	UserID         string           `json:"userId"`
	PeriodStart    time.Time        `json:"periodStart"`
	PeriodEnd      time.Time        `json:"periodEnd"`
	StatusChanges  int              `json:"statusChanges"`
	PendingActions []actionResponse `json:"pendingActions"`
	Summary        digest.Summary   `json:"summary"`
}

func toDigestResponse(d digest.Data) digestResponse {
	out := digestResponse{
		UserID:        d.UserID.String(),
		PeriodStart:   d.PeriodStart,
		PeriodEnd:     d.PeriodEnd,
		StatusChanges: len(d.StatusChanges),
		Summary:       d.Summary,
	}
	for _, a := range d.PendingActions {
		out.PendingActions = append(out.PendingActions, actionResponse{
			CheckID:       a.CheckID.String(),
			CandidateName: a.CandidateName,
			Kind:          string(a.Kind),
			Description:   a.Description,
			DaysPending:   a.DaysPending,
			Priority:      string(a.Priority),
		})
	}
	return out
}
