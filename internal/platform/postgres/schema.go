package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema is the full table layout. Statements are idempotent so startup
// migration is safe to run on every boot.
const Schema = `
CREATE TABLE IF NOT EXISTS checks (
	id UUID PRIMARY KEY,
	candidate_id UUID NOT NULL,
	candidate_name TEXT NOT NULL,
	status TEXT NOT NULL,
	status_entered_at TIMESTAMPTZ NOT NULL,
	required_types TEXT[] NOT NULL,
	consent_given BOOLEAN NOT NULL DEFAULT FALSE,
	consent_date TIMESTAMPTZ,
	initiated_date TIMESTAMPTZ NOT NULL,
	initiated_by UUID NOT NULL,
	completed_date TIMESTAMPTZ,
	overall_verdict TEXT,
	reviewer_id UUID,
	reviewer_notes TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_checks_status ON checks (status);
CREATE INDEX IF NOT EXISTS idx_checks_candidate ON checks (candidate_id);

CREATE TABLE IF NOT EXISTS check_results (
	check_id UUID NOT NULL REFERENCES checks (id) ON DELETE CASCADE,
	type TEXT NOT NULL,
	classification TEXT NOT NULL,
	completed_at TIMESTAMPTZ,
	notes TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (check_id, type)
);

CREATE TABLE IF NOT EXISTS status_changes (
	id UUID PRIMARY KEY,
	check_id UUID NOT NULL,
	candidate_id UUID NOT NULL,
	previous_status TEXT NOT NULL DEFAULT '',
	new_status TEXT NOT NULL,
	changed_by TEXT NOT NULL,
	changed_by_name TEXT NOT NULL DEFAULT '',
	reason TEXT NOT NULL DEFAULT '',
	timestamp TIMESTAMPTZ NOT NULL,
	automated BOOLEAN NOT NULL,
	metadata JSONB
);
CREATE INDEX IF NOT EXISTS idx_status_changes_check ON status_changes (check_id);
CREATE INDEX IF NOT EXISTS idx_status_changes_time ON status_changes (timestamp);

CREATE TABLE IF NOT EXISTS escalation_events (
	id UUID PRIMARY KEY,
	rule_id TEXT NOT NULL,
	rule_name TEXT NOT NULL,
	check_id UUID NOT NULL,
	candidate_name TEXT NOT NULL,
	status TEXT NOT NULL,
	days_pending INT NOT NULL,
	escalated_to TEXT[] NOT NULL DEFAULT '{}',
	escalated_at TIMESTAMPTZ NOT NULL,
	priority TEXT NOT NULL,
	acknowledged BOOLEAN NOT NULL DEFAULT FALSE,
	acknowledged_by TEXT NOT NULL DEFAULT '',
	acknowledged_at TIMESTAMPTZ,
	resolved BOOLEAN NOT NULL DEFAULT FALSE,
	resolved_by TEXT NOT NULL DEFAULT '',
	resolved_at TIMESTAMPTZ,
	notes TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_escalation_events_check ON escalation_events (check_id);
`

// Migrate applies the schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
