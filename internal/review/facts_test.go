package review_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgkit/orgkit/internal/advisory"
	"github.com/orgkit/orgkit/internal/policy"
	"github.com/orgkit/orgkit/internal/review"
	"github.com/orgkit/orgkit/internal/team"
)

// mockAdvisoryRepo implements advisory.Repository for loader tests. Only the
// lookup used by the loader is wired; the CRUD methods are never called.
type mockAdvisoryRepo struct {
	advisory.Repository
	existsFn func(ctx context.Context, userID, projectID uuid.UUID) (bool, error)
}

func (m *mockAdvisoryRepo) ExistsForUserAndProject(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	return m.existsFn(ctx, userID, projectID)
}

type mockTeamRepo struct {
	team.Repository
	listManagedByFn func(ctx context.Context, managerID uuid.UUID) ([]team.Graph, error)
	listForMemberFn func(ctx context.Context, userID uuid.UUID) ([]team.Graph, error)
}

func (m *mockTeamRepo) ListManagedBy(ctx context.Context, managerID uuid.UUID) ([]team.Graph, error) {
	if m.listManagedByFn == nil {
		return nil, errors.New("unexpected ListManagedBy call")
	}
	return m.listManagedByFn(ctx, managerID)
}

func (m *mockTeamRepo) ListForMember(ctx context.Context, userID uuid.UUID) ([]team.Graph, error) {
	if m.listForMemberFn == nil {
		return nil, errors.New("unexpected ListForMember call")
	}
	return m.listForMemberFn(ctx, userID)
}

func noAdvisory() *mockAdvisoryRepo {
	return &mockAdvisoryRepo{
		existsFn: func(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
			return false, nil
		},
	}
}

// --- Facts Loader Tests ---

func TestFactsLoader_AdvisoryLinkChecksExistenceOnly(t *testing.T) {
	actor := policy.Actor{ID: uuid.New(), Role: policy.RoleExecutive}
	rev := policy.ReviewRef{ReviewerID: uuid.New(), ProjectID: uuid.New()}

	var gotUser, gotProject uuid.UUID
	advisories := &mockAdvisoryRepo{
		existsFn: func(_ context.Context, userID, projectID uuid.UUID) (bool, error) {
			gotUser, gotProject = userID, projectID
			return true, nil
		},
	}

	loader := review.NewFactsLoader(advisories, &mockTeamRepo{})
	facts, err := loader.Load(context.Background(), actor, rev)

	require.NoError(t, err)
	assert.True(t, facts.AdvisorOnProject)
	assert.Equal(t, actor.ID, gotUser)
	assert.Equal(t, rev.ProjectID, gotProject)
}

func TestFactsLoader_ManagerLoadsManagedTeamsOnly(t *testing.T) {
	actor := policy.Actor{ID: uuid.New(), Role: policy.RoleManager}
	rev := policy.ReviewRef{ReviewerID: uuid.New(), ProjectID: uuid.New()}
	memberID := uuid.New()

	teams := &mockTeamRepo{
		listManagedByFn: func(_ context.Context, managerID uuid.UUID) ([]team.Graph, error) {
			assert.Equal(t, actor.ID, managerID)
			return []team.Graph{{
				MemberIDs:  []uuid.UUID{memberID},
				ProjectIDs: []uuid.UUID{rev.ProjectID},
			}}, nil
		},
	}

	loader := review.NewFactsLoader(noAdvisory(), teams)
	facts, err := loader.Load(context.Background(), actor, rev)

	require.NoError(t, err)
	require.Len(t, facts.ManagedTeams, 1)
	assert.Empty(t, facts.MemberTeams)
	assert.True(t, facts.ManagedTeams[0].HasMember(memberID))
	assert.True(t, facts.ManagedTeams[0].HasProject(rev.ProjectID))
	assert.False(t, facts.ManagedTeams[0].HasMember(uuid.New()))
}

func TestFactsLoader_AssociateLoadsMemberTeamsOnly(t *testing.T) {
	actor := policy.Actor{ID: uuid.New(), Role: policy.RoleAssociate}
	rev := policy.ReviewRef{ReviewerID: uuid.New(), ProjectID: uuid.New()}

	teams := &mockTeamRepo{
		listForMemberFn: func(_ context.Context, userID uuid.UUID) ([]team.Graph, error) {
			assert.Equal(t, actor.ID, userID)
			return []team.Graph{{ProjectIDs: []uuid.UUID{rev.ProjectID}}}, nil
		},
	}

	loader := review.NewFactsLoader(noAdvisory(), teams)
	facts, err := loader.Load(context.Background(), actor, rev)

	require.NoError(t, err)
	require.Len(t, facts.MemberTeams, 1)
	assert.Empty(t, facts.ManagedTeams)
	assert.True(t, facts.MemberTeams[0].HasProject(rev.ProjectID))
}

func TestFactsLoader_ExecutiveSkipsTeamGraphs(t *testing.T) {
	actor := policy.Actor{ID: uuid.New(), Role: policy.RoleExecutive}
	rev := policy.ReviewRef{ReviewerID: uuid.New(), ProjectID: uuid.New()}

	// The mock team repo errors on any call, so loading succeeds only if the
	// loader never consults team graphs for executives.
	loader := review.NewFactsLoader(noAdvisory(), &mockTeamRepo{})
	facts, err := loader.Load(context.Background(), actor, rev)

	require.NoError(t, err)
	assert.Empty(t, facts.ManagedTeams)
	assert.Empty(t, facts.MemberTeams)
}

func TestFactsLoader_AdvisoryErrorPropagates(t *testing.T) {
	actor := policy.Actor{ID: uuid.New(), Role: policy.RoleAssociate}
	rev := policy.ReviewRef{ReviewerID: uuid.New(), ProjectID: uuid.New()}

	boom := errors.New("connection reset")
	advisories := &mockAdvisoryRepo{
		existsFn: func(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
			return false, boom
		},
	}

	loader := review.NewFactsLoader(advisories, &mockTeamRepo{})
	_, err := loader.Load(context.Background(), actor, rev)

	assert.ErrorIs(t, err, boom)
}

func TestFactsLoader_TeamGraphErrorPropagates(t *testing.T) {
	actor := policy.Actor{ID: uuid.New(), Role: policy.RoleManager}
	rev := policy.ReviewRef{ReviewerID: uuid.New(), ProjectID: uuid.New()}

	boom := errors.New("query timeout")
	teams := &mockTeamRepo{
		listManagedByFn: func(context.Context, uuid.UUID) ([]team.Graph, error) {
			return nil, boom
		},
	}

	loader := review.NewFactsLoader(noAdvisory(), teams)
	_, err := loader.Load(context.Background(), actor, rev)

	assert.ErrorIs(t, err, boom)
}
