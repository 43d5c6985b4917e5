package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"vetflow/internal/check"
	id "vetflow/pkg/domain"
)

// PostgresStore persists status-change records in PostgreSQL. Metadata is
// stored as JSONB so free-form context survives round trips.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const recordColumns = `
	id, check_id, candidate_id, previous_status, new_status,
	changed_by, changed_by_name, reason, timestamp, automated, metadata
`

func (s *PostgresStore) Append(ctx context.Context, r Record) error {
	metadata, err := json.Marshal(r.Metadata)
	if err != nil {
		return fmt.Errorf("marshal audit metadata: %w", err)
	}
	query := `
		INSERT INTO status_changes (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = s.db.ExecContext(ctx, query,
		uuid.UUID(r.ID), uuid.UUID(r.CheckID), uuid.UUID(r.CandidateID),
		string(r.PreviousStatus), string(r.NewStatus),
		r.ChangedBy, r.ChangedByName, r.Reason, r.Timestamp, r.Automated, metadata,
	)
	if err != nil {
		return fmt.Errorf("append status change: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByCheck(ctx context.Context, checkID id.CheckID) ([]Record, error) {
	query := `SELECT ` + recordColumns + ` FROM status_changes WHERE check_id = $1 ORDER BY timestamp`
	return s.query(ctx, query, uuid.UUID(checkID))
}

func (s *PostgresStore) ListByCandidate(ctx context.Context, candidateID id.CandidateID) ([]Record, error) {
	query := `SELECT ` + recordColumns + ` FROM status_changes WHERE candidate_id = $1 ORDER BY timestamp`
	return s.query(ctx, query, uuid.UUID(candidateID))
}

func (s *PostgresStore) ListByTimeRange(ctx context.Context, from, to time.Time) ([]Record, error) {
	query := `SELECT ` + recordColumns + ` FROM status_changes WHERE timestamp >= $1 AND timestamp <= $2 ORDER BY timestamp`
	return s.query(ctx, query, from, to)
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list status changes: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var recordID, checkID, candidateID uuid.UUID
		var prev, next string
		var metadata []byte
		if err := rows.Scan(
			&recordID, &checkID, &candidateID, &prev, &next,
			&r.ChangedBy, &r.ChangedByName, &r.Reason, &r.Timestamp, &r.Automated, &metadata,
		); err != nil {
			return nil, fmt.Errorf("scan status change: %w", err)
		}
		r.ID = id.EventID(recordID)
		r.CheckID = id.CheckID(checkID)
		r.CandidateID = id.CandidateID(candidateID)
		r.PreviousStatus = check.Status(prev)
		r.NewStatus = check.Status(next)
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &r.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal audit metadata: %w", err)
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
