package auth

import (
	"context"

	"github.com/google/uuid"
)

var _ Checker = (*LoginChecker)(nil)

// Checker resolves a login session token into the owning user.
type Checker interface {
	UserIDForToken(ctx context.Context, token string) (uuid.UUID, error)
}
