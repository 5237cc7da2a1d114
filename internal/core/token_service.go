package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"summercamp-backend-go/internal/models"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 10 * time.Hour

type tokenClaims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type jwtTokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates an HS256 token service using the wall clock.
func NewTokenService(secret string, ttl time.Duration) TokenService {
	return NewTokenServiceWithClock(secret, ttl, time.Now)
}

// NewTokenServiceWithClock is NewTokenService with an injectable clock.
func NewTokenServiceWithClock(secret string, ttl time.Duration, now func() time.Time) TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &jwtTokenService{secret: []byte(secret), ttl: ttl, now: now}
}

func (s *jwtTokenService) Sign(identity models.Identity) (string, error) {
	if identity.Email == "" {
		return "", fmt.Errorf("%w: identity email is required", ErrValidation)
	}
	issued := s.now()
	claims := tokenClaims{
		Email: identity.Email,
		Name:  identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("%w: signing token: %v", ErrInternal, err)
	}
	return token, nil
}

func (s *jwtTokenService) Verify(tokenStr string) (*models.Identity, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token expired", ErrForbidden)
		}
		return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: token has no email claim", ErrForbidden)
	}
	return &models.Identity{Email: claims.Email, Name: claims.Name}, nil
}
