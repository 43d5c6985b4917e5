// Package admin exposes the configuration surface: SLA targets and
// escalation rules are administrator-editable data, not code. Validation
// failures are reported synchronously with a clear message.
package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"vetflow/internal/check"
	"vetflow/internal/escalation"
	"vetflow/internal/sla"
	"vetflow/internal/transport/http/shared"
)

// Handler handles the admin configuration endpoints.
type Handler struct {
	slaConfigs sla.ConfigStore
	rules      escalation.RuleStore
}

func New(slaConfigs sla.ConfigStore, rules escalation.RuleStore) *Handler {
	return &Handler{slaConfigs: slaConfigs, rules: rules}
}

// Register mounts the admin routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Get("/sla-configs", h.handleListSLAConfigs)
		r.Put("/sla-configs", h.handlePutSLAConfig)
		r.Get("/escalation-rules", h.handleListRules)
		r.Put("/escalation-rules", h.handlePutRule)
	})
}

type slaConfigBody struct {
	Status                   string `json:"status"`
	TargetDays               int    `json:"targetDays"`
	BusinessDaysOnly         bool   `json:"businessDaysOnly"`
	WarningThresholdPercent  int    `json:"warningThresholdPercent"`
	CriticalThresholdPercent int    `json:"criticalThresholdPercent"`
	NotifyInitiator          bool   `json:"notifyInitiator"`
	NotifyReviewer           bool   `json:"notifyReviewer"`
	NotifyAdmin              bool   `json:"notifyAdmin"`
	Enabled                  bool   `json:"enabled"`
}

func (h *Handler) handleListSLAConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := h.slaConfigs.List(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	out := make([]slaConfigBody, 0, len(configs))
	for _, cfg := range configs {
		out = append(out, slaConfigBody{
			Status:                   string(cfg.Status),
			TargetDays:               cfg.TargetDays,
			BusinessDaysOnly:         cfg.BusinessDaysOnly,
			WarningThresholdPercent:  cfg.WarningThresholdPercent,
			CriticalThresholdPercent: cfg.CriticalThresholdPercent,
			NotifyInitiator:          cfg.NotifyInitiator,
			NotifyReviewer:           cfg.NotifyReviewer,
			NotifyAdmin:              cfg.NotifyAdmin,
			Enabled:                  cfg.Enabled,
		})
	}
	shared.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handlePutSLAConfig(w http.ResponseWriter, r *http.Request) {
	var body slaConfigBody
	if err := shared.Decode(r, &body); err != nil {
		shared.WriteError(w, err)
		return
	}
	cfg := sla.Config{
		Status:                   check.Status(body.Status),
		TargetDays:               body.TargetDays,
		BusinessDaysOnly:         body.BusinessDaysOnly,
		WarningThresholdPercent:  body.WarningThresholdPercent,
		CriticalThresholdPercent: body.CriticalThresholdPercent,
		NotifyInitiator:          body.NotifyInitiator,
		NotifyReviewer:           body.NotifyReviewer,
		NotifyAdmin:              body.NotifyAdmin,
		Enabled:                  body.Enabled,
	}
	if err := h.slaConfigs.Put(r.Context(), cfg); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, body)
}

type ruleBody struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Status          string   `json:"status"`
	DaysThreshold   int      `json:"daysThreshold"`
	EscalateTo      []string `json:"escalateTo"`
	NotifyInitiator bool     `json:"notifyInitiator"`
	Priority        string   `json:"priority"`
	Enabled         bool     `json:"enabled"`
}

func (h *Handler) handleListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.rules.List(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	out := make([]ruleBody, 0, len(rules))
	for _, rule := range rules {
		out = append(out, ruleBody{
			ID:              rule.ID,
			Name:            rule.Name,
			Status:          string(rule.Status),
			DaysThreshold:   rule.DaysThreshold,
			EscalateTo:      rule.EscalateTo,
			NotifyInitiator: rule.NotifyInitiator,
			Priority:        string(rule.Priority),
			Enabled:         rule.Enabled,
		})
	}
	shared.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handlePutRule(w http.ResponseWriter, r *http.Request) {
	var body ruleBody
	if err := shared.Decode(r, &body); err != nil {
		shared.WriteError(w, err)
		return
	}
	rule := escalation.Rule{
		ID:              body.ID,
		Name:            body.Name,
		Status:          check.Status(body.Status),
		DaysThreshold:   body.DaysThreshold,
		EscalateTo:      body.EscalateTo,
		NotifyInitiator: body.NotifyInitiator,
		Priority:        escalation.Priority(body.Priority),
		Enabled:         body.Enabled,
	}
	if err := h.rules.Put(r.Context(), rule); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, body)
}
