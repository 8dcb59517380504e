package memory

import (
	"context"

	"github.com/google/uuid"
)

// AuthProvider hands out opaque subject ids, one per sign-in, the way the
// external identity provider does for anonymous sessions.
type AuthProvider struct{}

func NewAuthProvider() *AuthProvider {
	return &AuthProvider{}
}

func (*AuthProvider) SignInAnonymously(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
