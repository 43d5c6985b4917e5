// Package transition promotes check statuses based on accumulated evidence.
// The rule table is declarative data; the engine owns ordering, side
// effects, and persistence.
package transition

import "vetflow/internal/check"

// Rule is one automatic transition: when a check in status From satisfies
// When, it moves to status To. Rules never inspect anything beyond the
// check itself, which keeps them pure and testable in isolation.
type Rule struct {
	Name string
	From check.Status
	To   check.Status
	When func(c *check.Check) bool
}

// DefaultRules returns the transition table in priority order. The engine
// applies the first match only, so ordering is part of the semantics:
// issues_found is evaluated before completed so a not_clear result always
// wins ties.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name: "begin_consent_collection",
			From: check.StatusNotStarted,
			To:   check.StatusPendingConsent,
			When: func(c *check.Check) bool { return true },
		},
		{
			Name: "consent_granted",
			From: check.StatusPendingConsent,
			To:   check.StatusInProgress,
			When: func(c *check.Check) bool { return c.ConsentGiven },
		},
		{
			Name: "adverse_result",
			From: check.StatusInProgress,
			To:   check.StatusIssuesFound,
			When: func(c *check.Check) bool {
				return c.HasClassification(check.ClassificationNotClear)
			},
		},
		{
			Name: "all_results_clear",
			From: check.StatusInProgress,
			To:   check.StatusCompleted,
			When: func(c *check.Check) bool {
				return c.AllRequiredResolved() && !c.HasClassification(check.ClassificationNotClear)
			},
		},
	}
}

// ComputeVerdict aggregates per-type results into the overall verdict:
// any not_clear result dominates; review_required without not_clear is
// conditional; otherwise clear.
func ComputeVerdict(results []check.Result) check.Verdict {
	verdict := check.VerdictClear
	for _, r := range results {
		switch r.Classification {
		case check.ClassificationNotClear:
			return check.VerdictNotClear
		case check.ClassificationReviewRequired:
			verdict = check.VerdictConditional
		}
	}
	return verdict
}
