package auth

// IsAuthenticated is the gate for every non-public route.
func IsAuthenticated(id Identity) bool {
	return id.Authenticated()
}

// IsAdmin holds only for an authenticated Owner.
func IsAdmin(id Identity) bool {
	return id.Authenticated() && id.Role == RoleOwner
}

func IsOwnerOrOperator(id Identity) bool {
	return id.Authenticated() && id.Role.Privileged()
}

// CanAccess decides instance-level access to a record owned by owner. It is
// evaluated after the record has been fetched.
func CanAccess(id Identity, owner string) bool {
	if !id.Authenticated() {
		return false
	}
	return id.Username == owner || IsOwnerOrOperator(id)
}

// RequireSelf guards self-scoped creates. Privileged roles get no override.
func RequireSelf(id Identity, claimedOwner string) bool {
	return id.Authenticated() && id.Username == claimedOwner
}
