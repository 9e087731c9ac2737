package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/workouttracker/internal/apperr"
	"github.com/2beens/workouttracker/internal/telemetry/tracing"
	"github.com/2beens/workouttracker/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=accounts_mocks_test.go -package=auth_test

const minPasswordLength = 8

var ErrWrongCredentials = fmt.Errorf("%w: wrong credentials", apperr.ErrNotAuthenticated)

type usersRepo interface {
	Add(ctx context.Context, user User) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Get(ctx context.Context, id uuid.UUID) (*User, error)
	MarkEmailVerified(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error
}

type verificationPublisher interface {
	Publish(ctx context.Context, msg VerificationMessage) error
}

// Accounts handles registration, credential checks, email confirmation and
// password recovery.
type Accounts struct {
	repo             usersRepo
	tokens           *VerificationTokens
	publisher        verificationPublisher
	passwordHashCost int
}

func NewAccounts(
	repo usersRepo,
	tokens *VerificationTokens,
	publisher verificationPublisher,
	passwordHashCost int,
) *Accounts {
	return &Accounts{
		repo:             repo,
		tokens:           tokens,
		publisher:        publisher,
		passwordHashCost: passwordHashCost,
	}
}

func (a *Accounts) Register(ctx context.Context, input RegisterInput) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.accounts.register")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	input.Email = strings.TrimSpace(input.Email)
	input.Name = strings.TrimSpace(input.Name)
	if err := validateRegisterInput(input); err != nil {
		return nil, err
	}

	passwordHash, err := pkg.HashPasswordWithCost(input.Password, a.passwordHashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := a.repo.Add(ctx, User{
		ID:           uuid.New(),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: passwordHash,
	})
	if err != nil {
		return nil, fmt.Errorf("add user: %w", err)
	}

	// a failed publish leaves the user registered but unverified
	if err := a.sendVerification(ctx, user, VerificationTypeSignup); err != nil {
		log.Errorf("register [%s]: send verification: %s", user.ID, err)
	}

	return user, nil
}

func (a *Accounts) sendVerification(ctx context.Context, user *User, typ VerificationType) error {
	tokenHash, err := a.tokens.Issue(user.ID, typ)
	if err != nil {
		return fmt.Errorf("issue verification token: %w", err)
	}
	return a.publisher.Publish(ctx, VerificationMessage{
		Email:     user.Email,
		Name:      user.Name,
		TokenHash: tokenHash,
		Type:      typ,
	})
}

func validateRegisterInput(input RegisterInput) error {
	if input.Email == "" {
		return apperr.NewValidationError("email", "required")
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return apperr.NewValidationError("email", "invalid email address")
	}
	if err := validatePassword(input.Password); err != nil {
		return err
	}
	if input.Name == "" {
		return apperr.NewValidationError("name", "required")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperr.NewValidationError("password", "must be at least %d characters", minPasswordLength)
	}
	return nil
}

// Authenticate checks the credentials and returns the matching user.
func (a *Accounts) Authenticate(ctx context.Context, creds Credentials) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.accounts.authenticate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if creds.Email == "" || creds.Password == "" {
		return nil, ErrWrongCredentials
	}

	user, err := a.repo.GetByEmail(ctx, strings.TrimSpace(creds.Email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrWrongCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !pkg.CheckPasswordHash(creds.Password, user.PasswordHash) {
		return nil, ErrWrongCredentials
	}

	return user, nil
}

func (a *Accounts) ConfirmEmail(ctx context.Context, tokenHash string, typ VerificationType) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.accounts.confirmemail")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	userID, err := a.tokens.Verify(tokenHash, typ)
	if err != nil {
		return err
	}

	return a.repo.MarkEmailVerified(ctx, userID, time.Now())
}

// ResendVerification issues a fresh signup token for a not yet verified user.
func (a *Accounts) ResendVerification(ctx context.Context, userID uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.accounts.resendverification")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	user, err := a.repo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if user.EmailVerified() {
		return apperr.Conflict("email already verified")
	}
	return a.sendVerification(ctx, user, VerificationTypeSignup)
}

// RequestPasswordReset publishes a recovery link for the account. Unknown
// emails are not reported, so callers cannot tell which accounts exist.
func (a *Accounts) RequestPasswordReset(ctx context.Context, email string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.accounts.requestpasswordreset")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	email = strings.TrimSpace(email)
	if email == "" {
		return apperr.NewValidationError("email", "required")
	}

	user, err := a.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			log.Debug("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("get user: %w", err)
	}

	return a.sendVerification(ctx, user, VerificationTypeRecovery)
}

// ResetPassword sets a new password for the user the recovery token was
// issued for. Following a recovery link proves ownership of the mailbox, so
// the email is marked verified as well.
func (a *Accounts) ResetPassword(ctx context.Context, tokenHash, newPassword string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.accounts.resetpassword")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := validatePassword(newPassword); err != nil {
		return err
	}

	userID, err := a.tokens.Verify(tokenHash, VerificationTypeRecovery)
	if err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrNotAuthenticated, err)
	}

	passwordHash, err := pkg.HashPasswordWithCost(newPassword, a.passwordHashCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := a.repo.UpdatePasswordHash(ctx, userID, passwordHash); err != nil {
		return err
	}

	return a.repo.MarkEmailVerified(ctx, userID, time.Now())
}
