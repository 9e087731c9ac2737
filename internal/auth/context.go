package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/2beens/workouttracker/internal/apperr"
)

type ctxKey struct{}

func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserIDFromContext returns apperr.ErrNotAuthenticated when no identity has
// been resolved for the request.
func UserIDFromContext(ctx context.Context) (uuid.UUID, error) {
	userID, ok := ctx.Value(ctxKey{}).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, apperr.ErrNotAuthenticated
	}
	return userID, nil
}
