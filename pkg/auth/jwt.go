package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jwalitptl/mediconsult-api/internal/model"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrEmptySecret  = errors.New("jwt secret must not be empty")
)

const issuer = "mediconsult-api"

type JWTService interface {
	GenerateToken(claims model.TokenClaims) (string, time.Time, error)
	ValidateToken(token string) (*model.TokenClaims, error)
}

type sessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
	Name      string `json:"name"`
	Admin     bool   `json:"admin"`
}

type jwtService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTService signs HS256 tokens valid for ttl.
func NewJWTService(secret string, ttl time.Duration) (JWTService, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &jwtService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (s *jwtService) GenerateToken(claims model.TokenClaims) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   claims.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		SessionID: claims.SessionID,
		Name:      claims.Name,
		Admin:     claims.IsAdmin,
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *jwtService) ValidateToken(token string) (*model.TokenClaims, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.SessionID == "" || claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing session claims", ErrInvalidToken)
	}
	return &model.TokenClaims{
		SessionID: claims.SessionID,
		UserID:    claims.Subject,
		Name:      claims.Name,
		IsAdmin:   claims.Admin,
	}, nil
}
