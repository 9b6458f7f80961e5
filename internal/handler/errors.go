// Package handler holds what the HTTP handlers under it share: turning
// service errors into API errors.
package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/mediconsult-api/internal/generation"
	"github.com/jwalitptl/mediconsult-api/internal/intake"
	"github.com/jwalitptl/mediconsult-api/internal/navigation"
	"github.com/jwalitptl/mediconsult-api/internal/repository"
	authsvc "github.com/jwalitptl/mediconsult-api/internal/service/auth"
	intakesvc "github.com/jwalitptl/mediconsult-api/internal/service/intake"
	"github.com/jwalitptl/mediconsult-api/internal/service/medicine"
	"github.com/jwalitptl/mediconsult-api/internal/service/order"
	"github.com/jwalitptl/mediconsult-api/internal/service/pricelist"
	"github.com/jwalitptl/mediconsult-api/internal/service/settings"
	"github.com/jwalitptl/mediconsult-api/internal/store"
	jwtauth "github.com/jwalitptl/mediconsult-api/pkg/auth"
	apperrors "github.com/jwalitptl/mediconsult-api/pkg/errors"
	"github.com/jwalitptl/mediconsult-api/pkg/httputil"
)

var validationErrors = []error{
	authsvc.ErrMissingFields,
	navigation.ErrInvalidView,
	intake.ErrProfileIncomplete,
	intake.ErrInvalidStep,
	intake.ErrInvalidIntensity,
	intake.ErrNotSelected,
	intake.ErrOutOfRange,
	intake.ErrEmptyName,
	order.ErrMissingFields,
	order.ErrEmptyMessage,
	order.ErrInvalidStatus,
	settings.ErrUnknownTheme,
	settings.ErrInvalidSlot,
	settings.ErrInvalidList,
	settings.ErrEmptyItem,
	pricelist.ErrMissingFields,
	medicine.ErrEmptyQuery,
}

// Translate maps a service error onto an *errors.AppError. Errors it does
// not recognise are returned unchanged and end up as a 500.
func Translate(err error) error {
	if _, ok := apperrors.As(err); ok {
		return err
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return apperrors.Validation(target.Error(), err)
		}
	}

	switch {
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		return apperrors.InvalidCredentials(err)
	case errors.Is(err, authsvc.ErrDuplicateID):
		return apperrors.DuplicateID(err)
	case errors.Is(err, authsvc.ErrSessionNotFound),
		errors.Is(err, authsvc.ErrSessionExpired),
		errors.Is(err, jwtauth.ErrInvalidToken),
		errors.Is(err, navigation.ErrUnauthenticated):
		return apperrors.Unauthorized(err)
	case errors.Is(err, navigation.ErrForbiddenView):
		return apperrors.Forbidden(navigation.ErrForbiddenView.Error(), err)
	case errors.Is(err, intakesvc.ErrAdminSession):
		return apperrors.Forbidden(intakesvc.ErrAdminSession.Error(), err)
	case errors.Is(err, intakesvc.ErrBusy):
		return apperrors.Busy(intakesvc.ErrBusy.Error(), err)
	case errors.Is(err, settings.ErrDuplicateItem):
		return apperrors.Conflict(settings.ErrDuplicateItem.Error(), err)
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.Conflict("record already exists", err)
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, store.ErrNotFound):
		return apperrors.NotFound("record", err)
	case errors.Is(err, generation.ErrRemoteGeneration):
		return apperrors.RemoteGeneration(err)
	}
	return err
}

// RespondWithError translates err and writes the error envelope.
func RespondWithError(c *gin.Context, err error) {
	httputil.RespondWithError(c, Translate(err))
}
