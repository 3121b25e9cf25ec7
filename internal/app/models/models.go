package models

// AppRole is the application role enum. Part of the durable contract:
// any client integrating against the API relies on exactly these values.
type AppRole string

const (
	RoleStudent AppRole = "student"
	RoleTeacher AppRole = "teacher"
	RoleAdmin   AppRole = "admin"
	RoleGuest   AppRole = "guest"
)

// ValidRole reports whether the given value is a declared application role.
func ValidRole(r AppRole) bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin, RoleGuest:
		return true
	}
	return false
}
