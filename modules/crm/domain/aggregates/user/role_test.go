package user_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/aggregates/user"
)

func TestParseRole(t *testing.T) {
	require.Equal(t, user.RoleOwner, user.ParseRole("owner"))
	require.Equal(t, user.RoleTeamLead, user.ParseRole("team_lead"))

	// Unknown roles degrade to the least-privileged one.
	require.Equal(t, user.RoleFieldCrew, user.ParseRole("superuser"))
	require.Equal(t, user.RoleFieldCrew, user.ParseRole(""))
}

func TestRoleValid(t *testing.T) {
	for _, role := range []user.Role{
		user.RoleOwner, user.RoleAdmin, user.RoleOffice,
		user.RoleTeamLead, user.RoleSalesRep, user.RoleFieldCrew,
	} {
		require.True(t, role.Valid(), role)
	}
	require.False(t, user.Role("superuser").Valid())
}

func TestNewDefaultsInvalidRole(t *testing.T) {
	u := user.New(user.Role("intern"), "X")
	require.Equal(t, user.RoleFieldCrew, u.Role())
	require.True(t, u.IsActive())
}
