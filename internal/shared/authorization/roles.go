package authorization

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// ParseUserRole falls back to RoleUser for unknown values.
func ParseUserRole(s string) UserRole {
	role := UserRole(s)
	if role.IsValid() {
		return role
	}
	return RoleUser
}

// Principal is the authenticated caller threaded through use cases.
type Principal struct {
	UserID uint
	Role   UserRole
}

func NewPrincipal(userID uint, role UserRole) Principal {
	return Principal{UserID: userID, Role: role}
}

func (p Principal) IsAdmin() bool {
	return p.Role.IsAdmin()
}

// Subject is the casbin subject for this principal.
func (p Principal) Subject() string {
	return p.Role.String()
}
