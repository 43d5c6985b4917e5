// Package handler exposes check lifecycle operations over HTTP. It is a
// thin layer: parsing, delegation to the service, and response shaping.
package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vetflow/internal/check"
	"vetflow/internal/check/service"
	"vetflow/internal/transport/http/shared"
	id "vetflow/pkg/domain"
)

// Handler handles check endpoints.
type Handler struct {
	service *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{service: svc}
}

// Register mounts the check routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/checks", func(r chi.Router) {
		r.Post("/", h.handleInitiate)
		r.Get("/", h.handleList)
		r.Get("/sla", h.handleSLADashboard)
		r.Route("/{checkID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Post("/consent", h.handleConsent)
			r.Post("/results", h.handleResult)
			r.Post("/cancel", h.handleCancel)
			r.Post("/reviewer", h.handleAssignReviewer)
			r.Get("/sla", h.handleSLA)
			r.Get("/history", h.handleHistory)
		})
	})
}

type initiateRequest struct {
	CandidateID   string   `json:"candidateId"`
	CandidateName string   `json:"candidateName"`
	RequiredTypes []string `json:"requiredTypes"`
	InitiatedBy   string   `json:"initiatedBy"`
}

func (h *Handler) handleInitiate(w http.ResponseWriter, r *http.Request) {
	var req initiateRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	candidateID, err := id.ParseCandidateID(req.CandidateID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	initiatedBy, err := id.ParseUserID(req.InitiatedBy)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	types := make([]check.Type, 0, len(req.RequiredTypes))
	for _, t := range req.RequiredTypes {
		parsed, err := check.ParseType(t)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		types = append(types, parsed)
	}

	c, err := h.service.Initiate(r.Context(), service.InitiateRequest{
		CandidateID:   candidateID,
		CandidateName: req.CandidateName,
		RequiredTypes: types,
		InitiatedBy:   initiatedBy,
	}, time.Now())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, toCheckResponse(*c))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	checkID, err := id.ParseCheckID(chi.URLParam(r, "checkID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	c, err := h.service.Get(r.Context(), checkID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toCheckResponse(*c))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	var f check.Filter
	if st := r.URL.Query().Get("status"); st != "" {
		status, err := check.ParseStatus(st)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		f.Status = status
	}
	if r.URL.Query().Get("active") == "true" {
		f.ActiveOnly = true
	}

	checks, err := h.service.List(r.Context(), f)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	out := make([]checkResponse, 0, len(checks))
	for _, c := range checks {
		out = append(out, toCheckResponse(c))
	}
	shared.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleConsent(w http.ResponseWriter, r *http.Request) {
	checkID, err := id.ParseCheckID(chi.URLParam(r, "checkID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	c, err := h.service.GrantConsent(r.Context(), checkID, time.Now())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toCheckResponse(*c))
}

type resultRequest struct {
	Type           string `json:"type"`
	Classification string `json:"classification"`
	Notes          string `json:"notes"`
}

func (h *Handler) handleResult(w http.ResponseWriter, r *http.Request) {
	checkID, err := id.ParseCheckID(chi.URLParam(r, "checkID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req resultRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	typ, err := check.ParseType(req.Type)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	classification, err := check.ParseClassification(req.Classification)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	c, err := h.service.RecordResult(r.Context(), checkID, check.Result{
		Type:           typ,
		Classification: classification,
		Notes:          req.Notes,
	}, time.Now())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toCheckResponse(*c))
}

type cancelRequest struct {
	By     string `json:"by"`
	ByName string `json:"byName"`
	Reason string `json:"reason"`
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	checkID, err := id.ParseCheckID(chi.URLParam(r, "checkID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req cancelRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	by, err := id.ParseUserID(req.By)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	c, err := h.service.Cancel(r.Context(), checkID, by, req.ByName, req.Reason, time.Now())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toCheckResponse(*c))
}

type reviewerRequest struct {
	ReviewerID string `json:"reviewerId"`
	Notes      string `json:"notes"`
}

func (h *Handler) handleAssignReviewer(w http.ResponseWriter, r *http.Request) {
	checkID, err := id.ParseCheckID(chi.URLParam(r, "checkID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	var req reviewerRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	reviewer, err := id.ParseUserID(req.ReviewerID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	c, err := h.service.AssignReviewer(r.Context(), checkID, reviewer, req.Notes)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toCheckResponse(*c))
}

func (h *Handler) handleSLA(w http.ResponseWriter, r *http.Request) {
	checkID, err := id.ParseCheckID(chi.URLParam(r, "checkID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	st, err := h.service.SLAFor(r.Context(), checkID, time.Now())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if st == nil {
		shared.WriteJSON(w, http.StatusOK, map[string]bool{"monitored": false})
		return
	}
	shared.WriteJSON(w, http.StatusOK, toSLAResponse(*st))
}

func (h *Handler) handleSLADashboard(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.service.SLADashboard(r.Context(), time.Now())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	out := make([]slaResponse, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, toSLAResponse(st))
	}
	shared.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	checkID, err := id.ParseCheckID(chi.URLParam(r, "checkID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	records, err := h.service.History(r.Context(), checkID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	out := make([]historyResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, historyResponse{
			PreviousStatus: string(rec.PreviousStatus),
			NewStatus:      string(rec.NewStatus),
			ChangedBy:      rec.ChangedBy,
			Reason:         rec.Reason,
			Timestamp:      rec.Timestamp,
			Automated:      rec.Automated,
		})
	}
	shared.WriteJSON(w, http.StatusOK, out)
}
