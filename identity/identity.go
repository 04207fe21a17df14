package identity

// Role names as issued by the NewNow backend.
const (
	RoleAdmin   = "ROLE_ADMIN"
	RoleManager = "ROLE_MANAGER"
	RoleUser    = "ROLE_USER"
)

// Identity is the cached public profile fragment of the signed-in
// principal, recomputed from each login/refresh response.
type Identity struct {
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

// HasRole reports whether the identity carries the given role.
// Safe to call on a nil identity.
func (id *Identity) HasRole(role string) bool {
	if id == nil {
		return false
	}
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Clone returns an independent copy so callers cannot mutate the
// session's cached identity through the returned pointer.
func (id *Identity) Clone() *Identity {
	if id == nil {
		return nil
	}
	clone := *id
	clone.Roles = append([]string(nil), id.Roles...)
	return &clone
}
