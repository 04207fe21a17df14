package credentials

import "github.com/newnow-platform/newnow-web/identity"

// Logical storage keys. These match the names the backend documentation
// uses for the persisted client-side session state.
const (
	KeyAccessToken  = "auth_token"
	KeyRefreshToken = "refresh_token"
	KeyUserData     = "user_data"
)

// Credentials is the persisted session snapshot: both tokens plus the
// cached identity of the signed-in user. Zero value means no session.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	Identity     *identity.Identity
}

// Store is durable key-value persistence for the session credentials.
// Save overwrites all three fields at once; Load returns absent fields
// as zero values and never fails on a malformed stored identity.
type Store interface {
	Save(accessToken, refreshToken string, id *identity.Identity) error
	Load() (Credentials, error)
	Clear() error
}
