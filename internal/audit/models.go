// Package audit records status-change history. Records are append-only and
// are the sole source of truth for digests, exports, and compliance
// reporting; they are never mutated or deleted.
package audit

import (
	"time"

	"vetflow/internal/check"
	id "vetflow/pkg/domain"
)

// SystemActor marks records written by automated processing rather than a
// human operator.
const SystemActor = "system"

// Record captures one status change on one check. Keep it
// transport-agnostic so stores and sinks can fan out.
type Record struct {
	ID             id.EventID
	CheckID        id.CheckID
	CandidateID    id.CandidateID
	PreviousStatus check.Status
	NewStatus      check.Status
	// ChangedBy is a user id string or SystemActor.
	ChangedBy     string
	ChangedByName string
	Reason        string
	Timestamp     time.Time
	Automated     bool
	Metadata      map[string]string
}
