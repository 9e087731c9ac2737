package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/workouttracker/internal/apperr"
	"github.com/2beens/workouttracker/internal/telemetry/metrics"
	"github.com/2beens/workouttracker/internal/telemetry/tracing"
	"github.com/2beens/workouttracker/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=auth_test

const (
	TokenHeader       = "X-WT-TOKEN"
	SessionCookieName = "wt_session"

	confirmErrorPath = "/auth/error"
)

type accountsService interface {
	Register(ctx context.Context, input RegisterInput) (*User, error)
	Authenticate(ctx context.Context, creds Credentials) (*User, error)
	ConfirmEmail(ctx context.Context, tokenHash string, typ VerificationType) error
	ResendVerification(ctx context.Context, userID uuid.UUID) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, tokenHash, newPassword string) error
}

type loginSessions interface {
	Login(ctx context.Context, userID uuid.UUID, createdAt time.Time) (string, error)
	Logout(ctx context.Context, token string) (bool, error)
}

type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

type Handler struct {
	accounts       accountsService
	sessions       loginSessions
	metricsManager *metrics.Manager
	sessionTTL     time.Duration
}

func NewHandler(
	accounts accountsService,
	sessions loginSessions,
	metricsManager *metrics.Manager,
	sessionTTL time.Duration,
) *Handler {
	return &Handler{
		accounts:       accounts,
		sessions:       sessions,
		metricsManager: metricsManager,
		sessionTTL:     sessionTTL,
	}
}

// SetupRoutes registers the account endpoints. The given middlewares (rate
// limiting) are applied to the /a subrouter only.
func (h *Handler) SetupRoutes(mainRouter *mux.Router, loginMiddlewares ...mux.MiddlewareFunc) {
	mainRouter.HandleFunc("/auth/confirm", h.HandleConfirm).Methods("GET").Name("auth-confirm")

	loginSubrouter := mainRouter.PathPrefix("/a").Subrouter()
	loginSubrouter.HandleFunc("/register", h.HandleRegister).Methods("POST", "OPTIONS").Name("register")
	loginSubrouter.HandleFunc("/login", h.HandleLogin).Methods("POST", "OPTIONS").Name("login")
	loginSubrouter.HandleFunc("/logout", h.HandleLogout).Methods("GET", "POST", "OPTIONS").Name("logout")
	loginSubrouter.HandleFunc("/verify/resend", h.HandleResendVerification).Methods("POST", "OPTIONS").Name("verify-resend")
	loginSubrouter.HandleFunc("/password/forgot", h.HandleForgotPassword).Methods("POST", "OPTIONS").Name("password-forgot")
	loginSubrouter.HandleFunc("/password/reset", h.HandleResetPassword).Methods("POST", "OPTIONS").Name("password-reset")
	loginSubrouter.Use(loginMiddlewares...)
}

// TokenFromRequest reads the login session token from the header, falling
// back to the session cookie.
func TokenFromRequest(r *http.Request) string {
	if token := r.Header.Get(TokenHeader); token != "" {
		return token
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.register")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var input RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Tracef("register, unmarshal json params: %s", err)
		http.Error(w, "register failed", http.StatusBadRequest)
		return
	}

	user, err := h.accounts.Register(ctx, input)
	if err != nil {
		if apperr.HTTPStatus(err) == http.StatusInternalServerError {
			log.Errorf("register [%s]: %s", input.Email, err)
		}
		apperr.WriteError(w, err)
		return
	}

	h.metricsManager.CounterRegistrations.Inc()
	log.Debugf("new user registered: %s", user.ID)
	pkg.WriteJSON(w, http.StatusCreated, user)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.login")
	defer span.End()

	var creds Credentials
	if r.Header.Get("Content-Type") == pkg.ContentType.JSON {
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			log.Tracef("login, unmarshal json params: %s", err)
			http.Error(w, "login failed", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Tracef("login failed, parse form error: %s", err)
			http.Error(w, "parse form error", http.StatusBadRequest)
			return
		}
		creds = Credentials{
			Email:    r.Form.Get("email"),
			Password: r.Form.Get("password"),
		}
	}

	user, err := h.accounts.Authenticate(ctx, creds)
	if err != nil {
		h.metricsManager.CounterLogins.WithLabelValues("rejected").Inc()
		if !errors.Is(err, apperr.ErrNotAuthenticated) {
			log.Errorf("login [%s]: %s", creds.Email, err)
		}
		apperr.WriteError(w, err)
		return
	}

	token, err := h.sessions.Login(ctx, user.ID, time.Now())
	if err != nil {
		h.metricsManager.CounterLogins.WithLabelValues("error").Inc()
		log.Errorf("login failed, generate token error: %s", err)
		apperr.WriteError(w, err)
		return
	}

	h.metricsManager.CounterLogins.WithLabelValues("ok").Inc()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	pkg.WriteJSON(w, http.StatusOK, LoginResponse{
		Token:  token,
		UserID: user.ID.String(),
	})
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.logout")
	defer span.End()

	authToken := TokenFromRequest(r)
	if authToken == "" {
		apperr.WriteError(w, apperr.ErrNotAuthenticated)
		return
	}

	loggedOut, err := h.sessions.Logout(ctx, authToken)
	if err != nil {
		log.Errorf("logout: %s", err)
		apperr.WriteError(w, err)
		return
	}
	if !loggedOut {
		apperr.WriteError(w, apperr.ErrNotAuthenticated)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:   SessionCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	pkg.WriteTextResponseOK(w, "logged-out")
}

func (h *Handler) HandleResendVerification(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.resendverification")
	defer span.End()

	userID, err := UserIDFromContext(ctx)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}

	if err := h.accounts.ResendVerification(ctx, userID); err != nil {
		if apperr.HTTPStatus(err) == http.StatusInternalServerError {
			log.Errorf("resend verification [%s]: %s", userID, err)
		}
		apperr.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.forgotpassword")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req PasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("forgot password, unmarshal json params: %s", err)
		http.Error(w, "password reset failed", http.StatusBadRequest)
		return
	}

	if err := h.accounts.RequestPasswordReset(ctx, req.Email); err != nil {
		if apperr.HTTPStatus(err) == http.StatusInternalServerError {
			log.Errorf("forgot password: %s", err)
		}
		apperr.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.resetpassword")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req PasswordReset
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("reset password, unmarshal json params: %s", err)
		http.Error(w, "password reset failed", http.StatusBadRequest)
		return
	}

	if err := h.accounts.ResetPassword(ctx, req.TokenHash, req.Password); err != nil {
		if apperr.HTTPStatus(err) == http.StatusInternalServerError {
			log.Errorf("reset password: %s", err)
		}
		apperr.WriteError(w, err)
		return
	}

	pkg.WriteTextResponseOK(w, "password-reset")
}

// HandleConfirm is the link target of verification emails:
// /auth/confirm?token_hash=...&type=signup&next=/workouts
func (h *Handler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.confirm")
	defer span.End()

	query := r.URL.Query()
	tokenHash := query.Get("token_hash")
	typ, typOK := ParseVerificationType(query.Get("type"))
	next := safeRedirectPath(query.Get("next"))

	if tokenHash == "" || !typOK {
		http.Redirect(w, r, confirmErrorPath, http.StatusSeeOther)
		return
	}

	if err := h.accounts.ConfirmEmail(ctx, tokenHash, typ); err != nil {
		log.Debugf("confirm email failed: %s", err)
		http.Redirect(w, r, confirmErrorPath, http.StatusSeeOther)
		return
	}

	// the reset form posts the token back to /a/password/reset
	if typ == VerificationTypeRecovery {
		next = withQueryParam(next, "token_hash", tokenHash)
	}

	http.Redirect(w, r, next, http.StatusSeeOther)
}

func withQueryParam(path, key, value string) string {
	u, err := url.Parse(path)
	if err != nil {
		return path
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}

// safeRedirectPath only allows local absolute paths, defaulting to "/".
func safeRedirectPath(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return "/"
	}
	return next
}
