package constants

// Role names carried in JWT claims and checked by the auth middleware.
const (
	RoleOwner  = "owner"
	RoleWalker = "walker"

	// RoleAny only requires a valid token.
	RoleAny = "any"
)
