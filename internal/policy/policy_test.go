package policy_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgkit/orgkit/internal/policy"
)

func executive() policy.Actor {
	return policy.Actor{ID: uuid.New(), Role: policy.RoleExecutive}
}

func manager() policy.Actor {
	return policy.Actor{ID: uuid.New(), Role: policy.RoleManager}
}

func associate() policy.Actor {
	return policy.Actor{ID: uuid.New(), Role: policy.RoleAssociate}
}

// --- Role Tests ---

func TestParseRole_KnownValues(t *testing.T) {
	cases := map[string]policy.Role{
		"executive": policy.RoleExecutive,
		"manager":   policy.RoleManager,
		"associate": policy.RoleAssociate,
	}

	for s, want := range cases {
		role, err := policy.ParseRole(s)
		require.NoError(t, err)
		assert.Equal(t, want, role)
		assert.Equal(t, s, role.String())
	}
}

func TestParseRole_Unknown(t *testing.T) {
	_, err := policy.ParseRole("superuser")
	assert.Error(t, err)

	_, err = policy.ParseRole("")
	assert.Error(t, err)
}

// --- Shared Rule Table Tests ---

// writeChecks covers every resource policy that shares the uniform table.
type writeChecks struct {
	name   string
	create func(policy.Actor) policy.Decision
	update func(policy.Actor) policy.Decision
	delete func(policy.Actor) policy.Decision
	view   func(policy.Actor) policy.Decision
}

func uniformPolicies() []writeChecks {
	var (
		org      policy.OrganizationPolicy
		usr      policy.UserPolicy
		tm       policy.TeamPolicy
		proj     policy.ProjectPolicy
		advisory policy.AdvisoryAssignmentPolicy
	)
	return []writeChecks{
		{"organization", org.Create, org.Update, org.Delete, org.View},
		{"user", usr.Create, usr.Update, usr.Delete, usr.View},
		{"team", tm.Create, tm.Update, tm.Delete, tm.View},
		{"project", proj.Create, proj.Update, proj.Delete, proj.View},
		{"advisory-assignment", advisory.Create, advisory.Update, advisory.Delete, advisory.View},
	}
}

func TestUniformPolicies_ReadsOpenToAllRoles(t *testing.T) {
	for _, p := range uniformPolicies() {
		for _, actor := range []policy.Actor{executive(), manager(), associate()} {
			assert.Equal(t, policy.Allow, p.view(actor), "%s view for %s", p.name, actor.Role)
		}
	}
}

func TestUniformPolicies_WritesExecutiveOnly(t *testing.T) {
	for _, p := range uniformPolicies() {
		assert.Equal(t, policy.Allow, p.create(executive()), "%s create", p.name)
		assert.Equal(t, policy.Allow, p.update(executive()), "%s update", p.name)
		assert.Equal(t, policy.Allow, p.delete(executive()), "%s delete", p.name)

		for _, actor := range []policy.Actor{manager(), associate()} {
			assert.Equal(t, policy.Deny, p.create(actor), "%s create for %s", p.name, actor.Role)
			assert.Equal(t, policy.Deny, p.update(actor), "%s update for %s", p.name, actor.Role)
			assert.Equal(t, policy.Deny, p.delete(actor), "%s delete for %s", p.name, actor.Role)
		}
	}
}

func TestUniformPolicies_SoftDeleteUnsupported(t *testing.T) {
	var org policy.OrganizationPolicy

	assert.Equal(t, policy.Deny, org.Restore(executive()))
	assert.Equal(t, policy.Deny, org.ForceDelete(executive()))
}

// --- Team Membership Mutation Tests ---

func TestTeamPolicy_MembershipMutationsFollowUpdateRule(t *testing.T) {
	var tm policy.TeamPolicy

	assert.Equal(t, policy.Allow, tm.AddMember(executive()))
	assert.Equal(t, policy.Allow, tm.RemoveMember(executive()))

	for _, actor := range []policy.Actor{manager(), associate()} {
		assert.Equal(t, policy.Deny, tm.AddMember(actor), "addMember for %s", actor.Role)
		assert.Equal(t, policy.Deny, tm.RemoveMember(actor), "removeMember for %s", actor.Role)
	}
}

func TestProjectPolicy_TeamAssignmentsFollowUpdateRule(t *testing.T) {
	var proj policy.ProjectPolicy

	assert.Equal(t, policy.Allow, proj.AssignTeam(executive()))
	assert.Equal(t, policy.Allow, proj.RemoveTeam(executive()))
	assert.Equal(t, policy.Deny, proj.AssignTeam(manager()))
	assert.Equal(t, policy.Deny, proj.RemoveTeam(associate()))
}

// --- Decision Tests ---

func TestDecision_Allowed(t *testing.T) {
	assert.True(t, policy.Allow.Allowed())
	assert.False(t, policy.Deny.Allowed())
	assert.Equal(t, "allow", policy.Allow.String())
	assert.Equal(t, "deny", policy.Deny.String())
}
