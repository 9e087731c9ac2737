package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/workouttracker/internal/apperr"
	"github.com/2beens/workouttracker/internal/telemetry/tracing"
	"github.com/2beens/workouttracker/pkg"
)

var (
	ErrUserNotFound = apperr.NotFound("user")
	ErrEmailTaken   = apperr.Conflict("email already registered")
)

type UsersRepo struct {
	db *pgxpool.Pool
}

func NewUsersRepo(db *pgxpool.Pool) *UsersRepo {
	return &UsersRepo{
		db: db,
	}
}

func (r *UsersRepo) Add(ctx context.Context, user User) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	span.SetAttributes(attribute.String("user.id", user.ID.String()))

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO app_user (id, email, name, password_hash)
			VALUES ($1, $2, $3, $4)
		RETURNING created_at;`,
		user.ID, user.Email, user.Name, user.PasswordHash,
	).Scan(&user.CreatedAt)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return &user, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getbyemail")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.getOne(ctx, `WHERE lower(email) = lower($1)`, email)
}

func (r *UsersRepo) Get(ctx context.Context, id uuid.UUID) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", id.String()))

	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *UsersRepo) getOne(ctx context.Context, where string, arg any) (*User, error) {
	var u User
	err := r.db.QueryRow(
		ctx,
		`SELECT id, email, name, password_hash, email_verified_at, created_at
			FROM app_user `+where,
		arg,
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.EmailVerifiedAt, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UsersRepo) MarkEmailVerified(ctx context.Context, id uuid.UUID, at time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.markemailverified")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", id.String()))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE app_user SET email_verified_at = COALESCE(email_verified_at, $1) WHERE id = $2;`,
		at, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UsersRepo) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.updatepasswordhash")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", id.String()))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE app_user SET password_hash = $1 WHERE id = $2;`,
		passwordHash, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
