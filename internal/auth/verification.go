package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const VerificationChannel = "workouttracker:email-verification"

type VerificationType string

const (
	VerificationTypeSignup   VerificationType = "signup"
	VerificationTypeEmail    VerificationType = "email"
	VerificationTypeRecovery VerificationType = "recovery"
)

var ErrInvalidVerificationToken = errors.New("invalid verification token")

func ParseVerificationType(s string) (VerificationType, bool) {
	switch VerificationType(s) {
	case VerificationTypeSignup, VerificationTypeEmail, VerificationTypeRecovery:
		return VerificationType(s), true
	default:
		return "", false
	}
}

type verificationClaims struct {
	jwt.RegisteredClaims
	Type VerificationType `json:"typ"`
}

// VerificationTokens issues and checks signed email verification tokens.
type VerificationTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewVerificationTokens(secret string, ttl time.Duration) *VerificationTokens {
	return &VerificationTokens{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (v *VerificationTokens) Issue(userID uuid.UUID, typ VerificationType) (string, error) {
	now := v.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, verificationClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.ttl)),
			ID:        uuid.NewString(),
		},
		Type: typ,
	})
	return token.SignedString(v.secret)
}

// Verify returns the user the token was issued for. The token must be
// valid, unexpired and issued for typ.
func (v *VerificationTokens) Verify(tokenString string, typ VerificationType) (uuid.UUID, error) {
	claims := &verificationClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			return v.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrInvalidVerificationToken, err)
	}
	if !token.Valid {
		return uuid.Nil, ErrInvalidVerificationToken
	}
	if claims.Type != typ {
		return uuid.Nil, fmt.Errorf("%w: type mismatch", ErrInvalidVerificationToken)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: subject: %s", ErrInvalidVerificationToken, err)
	}
	return userID, nil
}

// VerificationMessage is consumed by the mailer which sends the confirm link.
type VerificationMessage struct {
	Email     string           `json:"email"`
	Name      string           `json:"name"`
	TokenHash string           `json:"tokenHash"`
	Type      VerificationType `json:"type"`
}

type RedisVerificationPublisher struct {
	redisClient *redis.Client
}

func NewRedisVerificationPublisher(redisClient *redis.Client) *RedisVerificationPublisher {
	return &RedisVerificationPublisher{
		redisClient: redisClient,
	}
}

func (p *RedisVerificationPublisher) Publish(ctx context.Context, msg VerificationMessage) error {
	msgBytes, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal verification message: %w", err)
	}
	if err := p.redisClient.Publish(ctx, VerificationChannel, msgBytes).Err(); err != nil {
		return fmt.Errorf("publish verification message: %w", err)
	}
	return nil
}
