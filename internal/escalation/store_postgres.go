package escalation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"vetflow/internal/check"
	id "vetflow/pkg/domain"
	"vetflow/pkg/platform/sentinel"
)

// PostgresEventStore persists escalation events in PostgreSQL.
type PostgresEventStore struct {
	db *sql.DB
}

func NewPostgresEventStore(db *sql.DB) *PostgresEventStore {
	return &PostgresEventStore{db: db}
}

const eventColumns = `
	id, rule_id, rule_name, check_id, candidate_name, status, days_pending,
	escalated_to, escalated_at, priority,
	acknowledged, acknowledged_by, acknowledged_at,
	resolved, resolved_by, resolved_at, notes
`

func (s *PostgresEventStore) Append(ctx context.Context, e Event) error {
	query := `
		INSERT INTO escalation_events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := s.db.ExecContext(ctx, query, eventArgs(e)...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("append escalation event: %w", err)
	}
	return nil
}

func (s *PostgresEventStore) Get(ctx context.Context, eventID id.EventID) (*Event, error) {
	query := `SELECT ` + eventColumns + ` FROM escalation_events WHERE id = $1`
	e, err := scanEvent(s.db.QueryRowContext(ctx, query, uuid.UUID(eventID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get escalation event: %w", err)
	}
	return e, nil
}

func (s *PostgresEventStore) Update(ctx context.Context, e Event) error {
	query := `
		UPDATE escalation_events SET
			acknowledged = $2, acknowledged_by = $3, acknowledged_at = $4,
			resolved = $5, resolved_by = $6, resolved_at = $7, notes = $8
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		uuid.UUID(e.ID),
		e.Acknowledged, e.AcknowledgedBy, e.AcknowledgedAt,
		e.Resolved, e.ResolvedBy, e.ResolvedAt, e.Notes,
	)
	if err != nil {
		return fmt.Errorf("update escalation event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update escalation event rows: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresEventStore) ListByCheck(ctx context.Context, checkID id.CheckID) ([]Event, error) {
	query := `SELECT ` + eventColumns + ` FROM escalation_events WHERE check_id = $1 ORDER BY escalated_at DESC`
	return s.query(ctx, query, uuid.UUID(checkID))
}

func (s *PostgresEventStore) ListOpen(ctx context.Context) ([]Event, error) {
	query := `SELECT ` + eventColumns + ` FROM escalation_events WHERE NOT resolved ORDER BY escalated_at DESC`
	return s.query(ctx, query)
}

func (s *PostgresEventStore) query(ctx context.Context, query string, args ...any) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list escalation events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan escalation event: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func eventArgs(e Event) []any {
	return []any{
		uuid.UUID(e.ID), e.RuleID, e.RuleName, uuid.UUID(e.CheckID),
		e.CandidateName, string(e.Status), e.DaysPending,
		pq.Array(e.EscalatedTo), e.EscalatedAt, string(e.Priority),
		e.Acknowledged, e.AcknowledgedBy, e.AcknowledgedAt,
		e.Resolved, e.ResolvedBy, e.ResolvedAt, e.Notes,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*Event, error) {
	var e Event
	var eventID, checkID uuid.UUID
	var status, priority string
	var escalatedTo []string

	err := row.Scan(
		&eventID, &e.RuleID, &e.RuleName, &checkID,
		&e.CandidateName, &status, &e.DaysPending,
		pq.Array(&escalatedTo), &e.EscalatedAt, &priority,
		&e.Acknowledged, &e.AcknowledgedBy, &e.AcknowledgedAt,
		&e.Resolved, &e.ResolvedBy, &e.ResolvedAt, &e.Notes,
	)
	if err != nil {
		return nil, err
	}

	e.ID = id.EventID(eventID)
	e.CheckID = id.CheckID(checkID)
	e.Status = check.Status(status)
	e.Priority = Priority(priority)
	e.EscalatedTo = escalatedTo
	return &e, nil
}
