package rbac

// Role names. Keep these stable; they are part of auth/RBAC contracts.
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleTelecaller = "telecaller"
	RoleAnalyst    = "analyst"
	RoleSuperAdmin = "super_admin"
)

func IsSuperAdmin(role string) bool { return role == RoleSuperAdmin }

// IsScopedRole reports whether the role sees only its own managed subset of
// interviewers. Supervisors never see the whole campaign.
func IsScopedRole(role string) bool { return role == RoleSupervisor }
