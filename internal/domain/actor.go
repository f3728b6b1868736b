package domain

// Role of an authenticated staff member
type Role string

const (
	RoleStaff Role = "staff"
	RoleAdmin Role = "admin"
)

// IsValid returns true for known roles
func (r Role) IsValid() bool {
	return r == RoleStaff || r == RoleAdmin
}

// Actor is the caller of a lifecycle or back-office operation.
// Admins act on every location; staff only on LocationIDs.
type Actor struct {
	UserID      string
	Role        Role
	LocationIDs []int64
}

// IsAdmin reports whether the actor holds the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanAccessLocation reports whether the actor may touch bookings of the location
func (a Actor) CanAccessLocation(locationID int64) bool {
	if a.IsAdmin() {
		return true
	}
	for _, id := range a.LocationIDs {
		if id == locationID {
			return true
		}
	}
	return false
}

// CanApply reports whether the actor's role permits the lifecycle event
func (a Actor) CanApply(ev Event) bool {
	return !RequiresAdmin(ev) || a.IsAdmin()
}
