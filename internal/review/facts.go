package review

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/orgkit/orgkit/internal/advisory"
	"github.com/orgkit/orgkit/internal/policy"
	"github.com/orgkit/orgkit/internal/team"
)

// FactsLoader assembles the relationship snapshot a review visibility
// decision needs. It loads everything up front so the policy itself never
// touches the store; any load error propagates to the caller, which must
// treat it as a denial.
type FactsLoader struct {
	advisories advisory.Repository
	teams      team.Repository
}

// NewFactsLoader creates a FactsLoader over the given repositories.
func NewFactsLoader(advisories advisory.Repository, teams team.Repository) *FactsLoader {
	return &FactsLoader{advisories: advisories, teams: teams}
}

// Load builds the ReviewFacts for one actor and one review. Team graphs are
// only fetched for the roles whose rules consult them.
func (l *FactsLoader) Load(ctx context.Context, actor policy.Actor, rev policy.ReviewRef) (policy.ReviewFacts, error) {
	var facts policy.ReviewFacts

	advisor, err := l.advisories.ExistsForUserAndProject(ctx, actor.ID, rev.ProjectID)
	if err != nil {
		return policy.ReviewFacts{}, fmt.Errorf("loading advisory link: %w", err)
	}
	facts.AdvisorOnProject = advisor

	if actor.IsManager() {
		graphs, err := l.teams.ListManagedBy(ctx, actor.ID)
		if err != nil {
			return policy.ReviewFacts{}, fmt.Errorf("loading managed teams: %w", err)
		}
		facts.ManagedTeams = teamFacts(graphs)
	}

	if actor.IsAssociate() {
		graphs, err := l.teams.ListForMember(ctx, actor.ID)
		if err != nil {
			return policy.ReviewFacts{}, fmt.Errorf("loading member teams: %w", err)
		}
		facts.MemberTeams = teamFacts(graphs)
	}

	return facts, nil
}

func teamFacts(graphs []team.Graph) []policy.TeamFacts {
	facts := make([]policy.TeamFacts, 0, len(graphs))
	for _, g := range graphs {
		facts = append(facts, policy.TeamFacts{
			MemberIDs:  idSet(g.MemberIDs),
			ProjectIDs: idSet(g.ProjectIDs),
		})
	}
	return facts
}

func idSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
