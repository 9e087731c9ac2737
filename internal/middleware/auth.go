package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/workouttracker/internal/apperr"
	"github.com/2beens/workouttracker/internal/auth"
	"github.com/2beens/workouttracker/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=middleware_test

type loginChecker interface {
	UserIDForToken(ctx context.Context, token string) (uuid.UUID, error)
}

type AuthMiddlewareHandler struct {
	loginChecker         loginChecker
	allowedPaths         map[string]bool
	allowedPathsPrefixes []string
}

func NewAuthMiddlewareHandler(loginChecker loginChecker) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		loginChecker: loginChecker,
		allowedPaths: map[string]bool{
			"/":        true,
			"/version": true,

			"/a/register":        true,
			"/a/login":           true,
			"/a/logout":          true,
			"/a/password/forgot": true,
			"/a/password/reset":  true,

			"/auth/confirm": true,
			"/auth/error":   true,
		},
		allowedPathsPrefixes: []string{},
	}
}

func (h *AuthMiddlewareHandler) pathIsAlwaysAllowed(path string) bool {
	if h.allowedPaths[path] {
		return true
	}
	for _, prefix := range h.allowedPathsPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// AuthCheck resolves the caller identity and stores it in the request
// context. Requests to non public paths without a valid identity get a 401.
func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			authToken := auth.TokenFromRequest(r)
			public := h.pathIsAlwaysAllowed(r.URL.Path)

			if authToken == "" {
				if public {
					span.SetStatus(codes.Ok, "ok")
					next.ServeHTTP(w, r)
					return
				}
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				apperr.WriteError(w, apperr.ErrNotAuthenticated)
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			userID, err := h.loginChecker.UserIDForToken(ctx, authToken)
			if err != nil {
				if public {
					// a stale cookie must not lock anyone out of login
					span.SetStatus(codes.Ok, "ok")
					next.ServeHTTP(w, r)
					return
				}
				if !errors.Is(err, apperr.ErrNotAuthenticated) {
					log.Errorf("[failed login check] => %s: %s", r.URL.Path, err)
					span.RecordError(err)
				}
				apperr.WriteError(w, apperr.ErrNotAuthenticated)
				span.SetStatus(codes.Error, "not-logged")
				return
			}

			span.SetAttributes(attribute.String("user.id", userID.String()))
			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
		})
	}
}
