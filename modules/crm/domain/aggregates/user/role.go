package user

// Role is the closed set of roles the pipeline recognizes. Authorization is
// derived from the role alone; there is no per-user permission storage.
type Role string

const (
	RoleOwner     Role = "owner"
	RoleAdmin     Role = "admin"
	RoleOffice    Role = "office"
	RoleTeamLead  Role = "team_lead"
	RoleSalesRep  Role = "sales_rep"
	RoleFieldCrew Role = "field_crew"
)

var allRoles = []Role{
	RoleOwner,
	RoleAdmin,
	RoleOffice,
	RoleTeamLead,
	RoleSalesRep,
	RoleFieldCrew,
}

func Roles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

// ParseRole maps arbitrary input to a known role. Unknown input degrades to
// field_crew, the most restrictive role, so a bad row can never widen access.
func ParseRole(v string) Role {
	for _, r := range allRoles {
		if string(r) == v {
			return r
		}
	}
	return RoleFieldCrew
}

func (r Role) Valid() bool {
	for _, known := range allRoles {
		if r == known {
			return true
		}
	}
	return false
}
