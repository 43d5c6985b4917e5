// Package handler exposes the escalation operator queue over HTTP.
package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vetflow/internal/escalation"
	"vetflow/internal/transport/http/shared"
	id "vetflow/pkg/domain"
)

// Handler handles escalation endpoints.
type Handler struct {
	service *escalation.Service
}

func New(svc *escalation.Service) *Handler {
	return &Handler{service: svc}
}

// Register mounts the escalation routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/escalations", func(r chi.Router) {
		r.Get("/", h.handleListOpen)
		r.Post("/{eventID}/ack", h.handleAcknowledge)
		r.Post("/{eventID}/resolve", h.handleResolve)
	})
}

func (h *Handler) handleListOpen(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.ListOpen(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}
	shared.WriteJSON(w, http.StatusOK, out)
}

type ackRequest struct {
	By string `json:"by"`
}

func (h *Handler) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	eventID, err := id.ParseEventID(chi.URLParam(r, "eventID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req ackRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	e, err := h.service.Acknowledge(r.Context(), eventID, req.By, time.Now())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toEventResponse(*e))
}

type resolveRequest struct {
	By    string `json:"by"`
	Notes string `json:"notes"`
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	eventID, err := id.ParseEventID(chi.URLParam(r, "eventID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req resolveRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	e, err := h.service.Resolve(r.Context(), eventID, req.By, req.Notes, time.Now())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toEventResponse(*e))
}

type eventResponse struct {
	ID             string     `json:"id"`
	RuleID         string     `json:"ruleId"`
	RuleName       string     `json:"ruleName"`
	CheckID        string     `json:"checkId"`
	CandidateName  string     `json:"candidateName"`
	Status         string     `json:"status"`
	DaysPending    int        `json:"daysPending"`
	EscalatedTo    []string   `json:"escalatedTo"`
	EscalatedAt    time.Time  `json:"escalatedAt"`
	Priority       string     `json:"priority"`
	Acknowledged   bool       `json:"acknowledged"`
	AcknowledgedBy string     `json:"acknowledgedBy,omitempty"`
	AcknowledgedAt *time.Time `json:"acknowledgedAt,omitempty"`
	Resolved       bool       `json:"resolved"`
	ResolvedBy     string     `json:"resolvedBy,omitempty"`
	ResolvedAt     *time.Time `json:"resolvedAt,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

func toEventResponse(e escalation.Event) eventResponse {
	return eventResponse{
		ID:             e.ID.String(),
		RuleID:         e.RuleID,
		RuleName:       e.RuleName,
		CheckID:        e.CheckID.String(),
		CandidateName:  e.CandidateName,
		Status:         string(e.Status),
		DaysPending:    e.DaysPending,
		EscalatedTo:    e.EscalatedTo,
		EscalatedAt:    e.EscalatedAt,
		Priority:       string(e.Priority),
		Acknowledged:   e.Acknowledged,
		AcknowledgedBy: e.AcknowledgedBy,
		AcknowledgedAt: e.AcknowledgedAt,
		Resolved:       e.Resolved,
		ResolvedBy:     e.ResolvedBy,
		ResolvedAt:     e.ResolvedAt,
		Notes:          e.Notes,
	}
}
