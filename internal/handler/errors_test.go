package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/mediconsult-api/internal/generation"
	"github.com/jwalitptl/mediconsult-api/internal/intake"
	"github.com/jwalitptl/mediconsult-api/internal/navigation"
	"github.com/jwalitptl/mediconsult-api/internal/repository"
	authsvc "github.com/jwalitptl/mediconsult-api/internal/service/auth"
	intakesvc "github.com/jwalitptl/mediconsult-api/internal/service/intake"
	"github.com/jwalitptl/mediconsult-api/internal/service/settings"
	apperrors "github.com/jwalitptl/mediconsult-api/pkg/errors"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{authsvc.ErrInvalidCredentials, http.StatusUnauthorized},
		{authsvc.ErrDuplicateID, http.StatusConflict},
		{authsvc.ErrSessionExpired, http.StatusUnauthorized},
		{navigation.ErrForbiddenView, http.StatusForbidden},
		{navigation.ErrInvalidView, http.StatusBadRequest},
		{intake.ErrProfileIncomplete, http.StatusBadRequest},
		{intakesvc.ErrBusy, http.StatusConflict},
		{intakesvc.ErrAdminSession, http.StatusForbidden},
		{settings.ErrDuplicateItem, http.StatusConflict},
		{repository.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: prescription: timeout", generation.ErrRemoteGeneration), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			appErr, ok := apperrors.As(Translate(fmt.Errorf("wrapped: %w", tt.err)))
			if assert.True(t, ok) {
				assert.Equal(t, tt.want, appErr.StatusCode())
				assert.ErrorIs(t, appErr, tt.err)
			}
		})
	}
}

func TestTranslateKeepsUnknownErrors(t *testing.T) {
	err := errors.New("disk on fire")
	assert.Same(t, err, Translate(err))

	appErr := apperrors.Forbidden("nope", nil)
	assert.Same(t, appErr, Translate(appErr))
}
