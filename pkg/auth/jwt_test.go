package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/mediconsult-api/internal/model"
)

func TestTokenRoundTrip(t *testing.T) {
	svc, err := NewJWTService("secret", time.Hour)
	require.NoError(t, err)

	in := model.TokenClaims{SessionID: "s1", UserID: "482913", Name: "Rahim"}
	token, expires, err := svc.GenerateToken(in)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	out, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, in, *out)
}

func TestValidateRejects(t *testing.T) {
	svc, err := NewJWTService("secret", time.Hour)
	require.NoError(t, err)
	other, err := NewJWTService("other", time.Hour)
	require.NoError(t, err)

	foreign, _, err := other.GenerateToken(model.TokenClaims{SessionID: "s1", UserID: "1"})
	require.NoError(t, err)

	expired := &jwtService{secret: []byte("secret"), ttl: time.Minute, now: func() time.Time {
		return time.Now().Add(-time.Hour)
	}}
	stale, _, err := expired.GenerateToken(model.TokenClaims{SessionID: "s1", UserID: "1"})
	require.NoError(t, err)

	noSession, _, err := svc.GenerateToken(model.TokenClaims{UserID: "1"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", foreign},
		{"expired", stale},
		{"missing session", noSession},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	_, err = NewJWTService("", time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)
}
