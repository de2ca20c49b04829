package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/ShivanshKaul/ai-task-backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenTTL = time.Hour

var (
	ErrInvalidToken = errors.New("invalid token")

	ErrMalformed    = fmt.Errorf("%w: malformed", ErrInvalidToken)
	ErrBadSignature = fmt.Errorf("%w: bad signature", ErrInvalidToken)
	ErrExpired      = fmt.Errorf("%w: expired", ErrInvalidToken)

	ErrEmptySecret = errors.New("token signing secret is empty")
)

// Claims are the signed contents of an identity token.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Authority issues and verifies HS256 identity tokens. It keeps no state
// beyond the secret; a token is valid while its signature checks out and
// its expiry has not passed.
type Authority struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthority(secret []byte, ttl time.Duration, now func() time.Time) (*Authority, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Authority{secret: secret, ttl: ttl, now: now}, nil
}

func (a *Authority) Issue(username string) (string, error) {
	issued := a.now()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(a.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// Verify checks the token and returns its identity. Failures wrap
// ErrInvalidToken and are one of ErrMalformed, ErrBadSignature or ErrExpired.
func (a *Authority) Verify(tokenStr string) (model.Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return model.Identity{}, classify(err)
	}

	id := model.Identity{Username: claims.Username}
	if claims.IssuedAt != nil {
		id.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrSignatureInvalid):
		return ErrBadSignature
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
