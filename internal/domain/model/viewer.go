package model

// Role identifies the kind of client watching orders.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether role is known.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Viewer is the identity a client asserts for scoping orders.
type Viewer struct {
	Role      Role
	UserID    string
	UserEmail string
}

// Admin reports whether viewer sees every order.
func (v Viewer) Admin() bool {
	return v.Role == RoleAdmin
}

// Sees reports whether order is visible to the viewer.
func (v Viewer) Sees(o Order) bool {
	if v.Admin() {
		return true
	}
	return o.BelongsTo(v.UserID, v.UserEmail)
}
