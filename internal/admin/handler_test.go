package admin

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vetflow/internal/check"
	"vetflow/internal/escalation"
	"vetflow/internal/sla"
	"vetflow/pkg/testutil"
)

func setup(t *testing.T) (chi.Router, *sla.InMemoryConfigStore, *escalation.InMemoryRuleStore) {
	t.Helper()
	configs := sla.NewInMemoryConfigStore()
	rules := escalation.NewInMemoryRuleStore()
	router := chi.NewRouter()
	New(configs, rules).Register(router)
	return router, configs, rules
}

func TestListSLAConfigs(t *testing.T) {
	router, _, _ := setup(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/admin/sla-configs"))
	testutil.AssertStatus(t, rr, http.StatusOK)

	got := testutil.UnmarshalResponse[[]slaConfigBody](t, rr)
	require.Len(t, *got, len(sla.DefaultConfigs()))
	statuses := make(map[string]bool, len(*got))
	for _, cfg := range *got {
		statuses[cfg.Status] = true
	}
	assert.True(t, statuses["pending_consent"])
	assert.True(t, statuses["in_progress"])
}

func TestPutSLAConfig(t *testing.T) {
	router, configs, _ := setup(t)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPut, "/admin/sla-configs", map[string]any{
		"status":                   "in_progress",
		"targetDays":               15,
		"businessDaysOnly":         true,
		"warningThresholdPercent":  70,
		"criticalThresholdPercent": 95,
		"notifyInitiator":          true,
		"enabled":                  true,
	}))
	testutil.AssertStatus(t, rr, http.StatusOK)

	stored, err := configs.Get(context.Background(), check.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, 15, stored.TargetDays)
	assert.Equal(t, 70, stored.WarningThresholdPercent)
	assert.True(t, stored.BusinessDaysOnly)
}

func TestPutSLAConfig_Rejected(t *testing.T) {
	router, _, _ := setup(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{
			name: "unknown status",
			body: map[string]any{"status": "limbo", "targetDays": 5, "warningThresholdPercent": 50, "criticalThresholdPercent": 80},
		},
		{
			name: "zero target days",
			body: map[string]any{"status": "in_progress", "targetDays": 0, "warningThresholdPercent": 50, "criticalThresholdPercent": 80},
		},
		{
			name: "warning above critical",
			body: map[string]any{"status": "in_progress", "targetDays": 5, "warningThresholdPercent": 90, "criticalThresholdPercent": 80},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPut, "/admin/sla-configs", tt.body))
			testutil.AssertStatus(t, rr, http.StatusBadRequest)
			testutil.AssertErrorCode(t, rr, "invalid_input")
		})
	}
}

func TestListEscalationRules(t *testing.T) {
	router, _, _ := setup(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/admin/escalation-rules"))
	testutil.AssertStatus(t, rr, http.StatusOK)

	got := testutil.UnmarshalResponse[[]ruleBody](t, rr)
	require.Len(t, *got, len(escalation.DefaultRules()))
	assert.Equal(t, "consent-overdue", (*got)[0].ID)
}

func TestPutEscalationRule(t *testing.T) {
	router, _, rules := setup(t)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPut, "/admin/escalation-rules", map[string]any{
		"id":            "issues-stale",
		"name":          "Issues awaiting review",
		"status":        "issues_found",
		"daysThreshold": 2,
		"escalateTo":    []string{"compliance-team"},
		"priority":      "high",
		"enabled":       true,
	}))
	testutil.AssertStatus(t, rr, http.StatusOK)

	stored, err := rules.List(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, len(escalation.DefaultRules())+1)
	added := stored[len(stored)-1]
	assert.Equal(t, "issues-stale", added.ID)
	assert.Equal(t, 2, added.DaysThreshold)
	assert.Equal(t, escalation.PriorityHigh, added.Priority)
}

func TestPutEscalationRule_Rejected(t *testing.T) {
	router, _, _ := setup(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{
			name: "missing name",
			body: map[string]any{"id": "r1", "status": "in_progress", "daysThreshold": 3, "escalateTo": []string{"ops"}, "priority": "medium"},
		},
		{
			name: "no escalation target",
			body: map[string]any{"id": "r1", "name": "Stalled", "status": "in_progress", "daysThreshold": 3, "priority": "medium"},
		},
		{
			name: "bogus priority",
			body: map[string]any{"id": "r1", "name": "Stalled", "status": "in_progress", "daysThreshold": 3, "escalateTo": []string{"ops"}, "priority": "urgent"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPut, "/admin/escalation-rules", tt.body))
			testutil.AssertStatus(t, rr, http.StatusBadRequest)
			testutil.AssertErrorCode(t, rr, "invalid_input")
		})
	}
}
