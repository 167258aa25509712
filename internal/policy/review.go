package policy

import "github.com/google/uuid"

// ReviewRef is the engine's view of the review being decided on.
type ReviewRef struct {
	ReviewerID uuid.UUID
	RevieweeID *uuid.UUID // nil for a project review
	ProjectID  uuid.UUID
}

// TeamFacts is a point-in-time index of one team's relationships: the IDs of
// its members and of the projects assigned to it. Lookups only, no
// back-pointers into other entities.
type TeamFacts struct {
	MemberIDs  map[uuid.UUID]struct{}
	ProjectIDs map[uuid.UUID]struct{}
}

// HasMember reports whether the user is a member of the team.
func (t TeamFacts) HasMember(id uuid.UUID) bool {
	_, ok := t.MemberIDs[id]
	return ok
}

// HasProject reports whether the project is assigned to the team.
func (t TeamFacts) HasProject(id uuid.UUID) bool {
	_, ok := t.ProjectIDs[id]
	return ok
}

// ReviewFacts carries the relationship snapshot needed for one review
// visibility decision. The caller loads it in full before evaluating; the
// policy never fetches anything itself.
type ReviewFacts struct {
	// AdvisorOnProject is true when the actor holds an advisory assignment
	// on the review's project. Existence only: the assignment's start/end
	// window is not consulted here, it only gates the serialized is_active
	// field.
	AdvisorOnProject bool

	// ManagedTeams are the teams whose manager is the actor.
	ManagedTeams []TeamFacts

	// MemberTeams are the teams the actor belongs to.
	MemberTeams []TeamFacts
}

// ReviewPolicy decides access to reviews. View is the one combinatorial rule
// in the system; everything else is ownership or role checks.
type ReviewPolicy struct{}

// ViewAny always allows: list endpoints filter per review with View instead.
func (ReviewPolicy) ViewAny(Actor) Decision { return Allow }

// View evaluates the visibility rules as a disjunction of independent
// predicates. Each clause stands alone so it can be tested in isolation;
// none has side effects, so evaluation order cannot change the result.
func (ReviewPolicy) View(actor Actor, rev ReviewRef, facts ReviewFacts) Decision {
	allowed := actorIsExecutive(actor) ||
		actorWroteReview(actor, rev) ||
		actorIsSubject(actor, rev) ||
		actorAdvisesProject(facts) ||
		managerOverseesReview(actor, rev, facts) ||
		associateOnProjectTeam(actor, rev, facts)
	return decisionOf(allowed)
}

// Create allows any authenticated actor to author a review.
func (ReviewPolicy) Create(Actor) Decision { return Allow }

// Update allows only the review's author.
func (ReviewPolicy) Update(actor Actor, rev ReviewRef) Decision {
	return decisionOf(actorWroteReview(actor, rev))
}

// Delete allows the review's author and any executive.
func (ReviewPolicy) Delete(actor Actor, rev ReviewRef) Decision {
	return decisionOf(actorWroteReview(actor, rev) || actorIsExecutive(actor))
}

func (ReviewPolicy) Restore(Actor, ReviewRef) Decision     { return Deny }
func (ReviewPolicy) ForceDelete(Actor, ReviewRef) Decision { return Deny }

// Executives see every review.
func actorIsExecutive(actor Actor) bool {
	return actor.IsExecutive()
}

// Authors always see their own reviews.
func actorWroteReview(actor Actor, rev ReviewRef) bool {
	return actor.ID == rev.ReviewerID
}

// Subjects always see reviews about themselves.
func actorIsSubject(actor Actor, rev ReviewRef) bool {
	return rev.RevieweeID != nil && *rev.RevieweeID == actor.ID
}

// Advisors see reviews on the project they advise.
func actorAdvisesProject(facts ReviewFacts) bool {
	return facts.AdvisorOnProject
}

// Managers see reviews about their team members and reviews on their teams'
// projects.
func managerOverseesReview(actor Actor, rev ReviewRef, facts ReviewFacts) bool {
	if !actor.IsManager() {
		return false
	}
	for _, team := range facts.ManagedTeams {
		if rev.RevieweeID != nil && team.HasMember(*rev.RevieweeID) {
			return true
		}
		if team.HasProject(rev.ProjectID) {
			return true
		}
	}
	return false
}

// Associates see reviews on projects assigned to their teams.
func associateOnProjectTeam(actor Actor, rev ReviewRef, facts ReviewFacts) bool {
	if !actor.IsAssociate() {
		return false
	}
	for _, team := range facts.MemberTeams {
		if team.HasProject(rev.ProjectID) {
			return true
		}
	}
	return false
}
