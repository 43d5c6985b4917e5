package check

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "vetflow/pkg/domain"
	"vetflow/pkg/platform/sentinel"
)

// PostgresStore persists checks in PostgreSQL. This store is pure I/O;
// all lifecycle logic belongs in the transition engine and service layer.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const checkColumns = `
	id, candidate_id, candidate_name, status, status_entered_at,
	required_types, consent_given, consent_date, initiated_date,
	initiated_by, completed_date, overall_verdict, reviewer_id, reviewer_notes
`

func (s *PostgresStore) Create(ctx context.Context, c Check) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create check: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO checks (` + checkColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	if _, err := tx.ExecContext(ctx, query, checkArgs(c)...); err != nil {
		if isPqUnique(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create check: %w", err)
	}
	if err := replaceResults(ctx, tx, c); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *PostgresStore) Get(ctx context.Context, checkID id.CheckID) (*Check, error) {
	query := `SELECT ` + checkColumns + ` FROM checks WHERE id = $1`
	c, err := scanCheck(s.db.QueryRowContext(ctx, query, uuid.UUID(checkID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get check: %w", err)
	}
	if err := s.loadResults(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *PostgresStore) Update(ctx context.Context, c Check) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update check: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE checks SET
			candidate_name = $3, status = $4, status_entered_at = $5,
			required_types = $6, consent_given = $7, consent_date = $8,
			initiated_date = $9, initiated_by = $10, completed_date = $11,
			overall_verdict = $12, reviewer_id = $13, reviewer_notes = $14
		WHERE id = $1 AND candidate_id = $2
	`
	res, err := tx.ExecContext(ctx, query, checkArgs(c)...)
	if err != nil {
		return fmt.Errorf("update check: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update check rows: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	if err := replaceResults(ctx, tx, c); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *PostgresStore) List(ctx context.Context, f Filter) ([]Check, error) {
	query := `SELECT ` + checkColumns + ` FROM checks WHERE 1=1`
	args := []any{}
	if f.Status != "" {
		args = append(args, string(f.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if !f.CandidateID.IsNil() {
		args = append(args, uuid.UUID(f.CandidateID))
		query += fmt.Sprintf(" AND candidate_id = $%d", len(args))
	}
	if f.ActiveOnly {
		query += ` AND status NOT IN ('completed', 'issues_found', 'cancelled')`
	}
	query += ` ORDER BY initiated_date`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list checks: %w", err)
	}
	defer rows.Close()

	var out []Check
	for rows.Next() {
		c, err := scanCheck(rows)
		if err != nil {
			return nil, fmt.Errorf("scan check: %w", err)
		}
		if err := s.loadResults(ctx, c); err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) loadResults(ctx context.Context, c *Check) error {
	query := `
		SELECT type, classification, completed_at, notes
		FROM check_results
		WHERE check_id = $1
		ORDER BY type
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(c.ID))
	if err != nil {
		return fmt.Errorf("load results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r Result
		var typ, classification string
		if err := rows.Scan(&typ, &classification, &r.CompletedAt, &r.Notes); err != nil {
			return fmt.Errorf("scan result: %w", err)
		}
		r.Type = Type(typ)
		r.Classification = Classification(classification)
		c.Results = append(c.Results, r)
	}
	return rows.Err()
}

func replaceResults(ctx context.Context, tx *sql.Tx, c Check) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM check_results WHERE check_id = $1`, uuid.UUID(c.ID)); err != nil {
		return fmt.Errorf("clear results: %w", err)
	}
	query := `
		INSERT INTO check_results (check_id, type, classification, completed_at, notes)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, r := range c.Results {
		if _, err := tx.ExecContext(ctx, query,
			uuid.UUID(c.ID), string(r.Type), string(r.Classification), r.CompletedAt, r.Notes,
		); err != nil {
			return fmt.Errorf("insert result: %w", err)
		}
	}
	return nil
}

func checkArgs(c Check) []any {
	var reviewerID any
	if c.ReviewerID != nil {
		reviewerID = uuid.UUID(*c.ReviewerID)
	}
	var verdict any
	if c.OverallVerdict != nil {
		verdict = string(*c.OverallVerdict)
	}
	types := make([]string, len(c.RequiredTypes))
	for i, t := range c.RequiredTypes {
		types[i] = string(t)
	}
	return []any{
		uuid.UUID(c.ID), uuid.UUID(c.CandidateID), c.CandidateName,
		string(c.Status), c.StatusEnteredAt, pq.Array(types),
		c.ConsentGiven, c.ConsentDate, c.InitiatedDate,
		uuid.UUID(c.InitiatedBy), c.CompletedDate, verdict,
		reviewerID, c.ReviewerNotes,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCheck(row rowScanner) (*Check, error) {
	var c Check
	var checkID, candidateID, initiatedBy uuid.UUID
	var reviewerID *uuid.UUID
	var status string
	var verdict *string
	var types []string

	err := row.Scan(
		&checkID, &candidateID, &c.CandidateName, &status, &c.StatusEnteredAt,
		pq.Array(&types), &c.ConsentGiven, &c.ConsentDate, &c.InitiatedDate,
		&initiatedBy, &c.CompletedDate, &verdict, &reviewerID, &c.ReviewerNotes,
	)
	if err != nil {
		return nil, err
	}

	c.ID = id.CheckID(checkID)
	c.CandidateID = id.CandidateID(candidateID)
	c.InitiatedBy = id.UserID(initiatedBy)
	c.Status = Status(status)
	if verdict != nil {
		v := Verdict(*verdict)
		c.OverallVerdict = &v
	}
	if reviewerID != nil {
		r := id.UserID(*reviewerID)
		c.ReviewerID = &r
	}
	c.RequiredTypes = make([]Type, len(types))
	for i, t := range types {
		c.RequiredTypes[i] = Type(t)
	}
	return &c, nil
}

func isPqUnique(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
