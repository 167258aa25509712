// Package policy centralizes authorization decisions for every resource the
// API exposes. Handlers and middleware call these policies instead of
// performing ad-hoc role checks.
//
// Every decision is a pure function of an actor snapshot, a subject snapshot,
// and relationship facts loaded by the caller. Policies never touch the
// store: the caller supplies one consistent snapshot per decision and maps
// Deny to a fixed forbidden response.
package policy

import "github.com/google/uuid"

// Decision is the outcome of a policy check. There is no third state: a
// missing subject or an unloadable fact is the caller's failure and must be
// treated as Deny, never Allow.
type Decision int

const (
	Deny Decision = iota
	Allow
)

// Allowed reports whether the decision permits the action.
func (d Decision) Allowed() bool { return d == Allow }

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// decisionOf converts a boolean rule result to a Decision.
func decisionOf(ok bool) Decision {
	if ok {
		return Allow
	}
	return Deny
}

// Actor is the engine's view of the user performing an action.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// IsExecutive reports whether the actor holds the executive role.
func (a Actor) IsExecutive() bool { return a.Role == RoleExecutive }

// IsManager reports whether the actor holds the manager role.
func (a Actor) IsManager() bool { return a.Role == RoleManager }

// IsAssociate reports whether the actor holds the associate role.
func (a Actor) IsAssociate() bool { return a.Role == RoleAssociate }

// resourcePolicy is the rule table shared by Organization, User, Team,
// Project, and AdvisoryAssignment: every authenticated actor may read,
// only executives may write, and soft-delete operations are unsupported.
type resourcePolicy struct{}

func (resourcePolicy) ViewAny(Actor) Decision          { return Allow }
func (resourcePolicy) View(Actor) Decision             { return Allow }
func (resourcePolicy) Create(a Actor) Decision         { return decisionOf(a.IsExecutive()) }
func (resourcePolicy) Update(a Actor) Decision         { return decisionOf(a.IsExecutive()) }
func (resourcePolicy) Delete(a Actor) Decision         { return decisionOf(a.IsExecutive()) }
func (resourcePolicy) Restore(Actor) Decision          { return Deny }
func (resourcePolicy) ForceDelete(Actor) Decision      { return Deny }

// OrganizationPolicy decides access to organizations.
type OrganizationPolicy struct{ resourcePolicy }

// UserPolicy decides access to users.
type UserPolicy struct{ resourcePolicy }

// AdvisoryAssignmentPolicy decides access to advisory assignments.
type AdvisoryAssignmentPolicy struct{ resourcePolicy }

// TeamPolicy decides access to teams, including membership mutations.
type TeamPolicy struct{ resourcePolicy }

// AddMember follows the update rule: executives only.
func (p TeamPolicy) AddMember(a Actor) Decision { return p.Update(a) }

// RemoveMember follows the update rule: executives only.
func (p TeamPolicy) RemoveMember(a Actor) Decision { return p.Update(a) }

// ProjectPolicy decides access to projects, including team assignments.
type ProjectPolicy struct{ resourcePolicy }

// AssignTeam follows the update rule: executives only.
func (p ProjectPolicy) AssignTeam(a Actor) Decision { return p.Update(a) }

// RemoveTeam follows the update rule: executives only.
func (p ProjectPolicy) RemoveTeam(a Actor) Decision { return p.Update(a) }
