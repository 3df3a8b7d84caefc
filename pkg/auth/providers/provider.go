package providers

import "context"

// AuthProvider verifies ID tokens issued by an external identity service.
type AuthProvider interface {
	VerifyToken(ctx context.Context, idToken string) (*TokenClaims, error)
}

type TokenClaims struct {
	UID string `json:"uid"`
	// Name is the display name carried by the token, if any.
	Name string `json:"name,omitempty"`
}
