//go:build integration

package check_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"vetflow/internal/check"
	"vetflow/internal/platform/postgres"
	id "vetflow/pkg/domain"
	"vetflow/pkg/platform/sentinel"
	"vetflow/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *check.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.Require().NoError(s.postgres.Apply(context.Background(), postgres.Schema))
	s.store = check.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "check_results", "checks")
	s.Require().NoError(err)
}

func newPersistedCheck() check.Check {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	return check.Check{
		ID:              id.NewCheckID(),
		CandidateID:     id.CandidateID(uuid.New()),
		CandidateName:   "Priya Nair",
		Status:          check.StatusInProgress,
		StatusEnteredAt: now,
		RequiredTypes:   []check.Type{check.TypeCriminal, check.TypeEmployment},
		InitiatedDate:   now.AddDate(0, 0, -1),
		InitiatedBy:     id.UserID(uuid.New()),
		ConsentGiven:    true,
	}
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	c := newPersistedCheck()
	completed := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	c.Results = []check.Result{
		{Type: check.TypeCriminal, Classification: check.ClassificationClear, CompletedAt: &completed},
		{Type: check.TypeEmployment, Classification: check.ClassificationPending},
	}

	s.Require().NoError(s.store.Create(ctx, c))

	got, err := s.store.Get(ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(c.CandidateName, got.CandidateName)
	s.Equal(c.RequiredTypes, got.RequiredTypes)
	s.Require().Len(got.Results, 2)
	s.Equal(check.ClassificationClear, got.Results[0].Classification)
	s.True(got.ConsentGiven)
}

func (s *PostgresStoreSuite) TestCreateDuplicateConflicts() {
	ctx := context.Background()
	c := newPersistedCheck()
	s.Require().NoError(s.store.Create(ctx, c))
	s.ErrorIs(s.store.Create(ctx, c), sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestUpdateReplacesResults() {
	ctx := context.Background()
	c := newPersistedCheck()
	c.Results = []check.Result{
		{Type: check.TypeCriminal, Classification: check.ClassificationPending},
	}
	s.Require().NoError(s.store.Create(ctx, c))

	c.Status = check.StatusIssuesFound
	verdict := check.VerdictNotClear
	c.OverallVerdict = &verdict
	reviewer := id.UserID(uuid.New())
	c.ReviewerID = &reviewer
	c.Results[0].Classification = check.ClassificationNotClear
	s.Require().NoError(s.store.Update(ctx, c))

	got, err := s.store.Get(ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(check.StatusIssuesFound, got.Status)
	s.Require().NotNil(got.OverallVerdict)
	s.Equal(check.VerdictNotClear, *got.OverallVerdict)
	s.Require().NotNil(got.ReviewerID)
	s.Equal(reviewer, *got.ReviewerID)
	s.Require().Len(got.Results, 1)
	s.Equal(check.ClassificationNotClear, got.Results[0].Classification)
}

func (s *PostgresStoreSuite) TestUpdateMissingReturnsNotFound() {
	s.ErrorIs(s.store.Update(context.Background(), newPersistedCheck()), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListFilters() {
	ctx := context.Background()
	active := newPersistedCheck()
	s.Require().NoError(s.store.Create(ctx, active))

	done := newPersistedCheck()
	done.Status = check.StatusCompleted
	s.Require().NoError(s.store.Create(ctx, done))

	all, err := s.store.List(ctx, check.Filter{})
	s.Require().NoError(err)
	s.Len(all, 2)

	activeOnly, err := s.store.List(ctx, check.Filter{ActiveOnly: true})
	s.Require().NoError(err)
	s.Require().Len(activeOnly, 1)
	s.Equal(active.ID, activeOnly[0].ID)

	byCandidate, err := s.store.List(ctx, check.Filter{CandidateID: done.CandidateID})
	s.Require().NoError(err)
	s.Require().Len(byCandidate, 1)
	s.Equal(done.ID, byCandidate[0].ID)
}
