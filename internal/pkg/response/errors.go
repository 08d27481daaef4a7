package response

import (
	"errors"
	"net/http"

	xerrors "automate-service/internal/pkg/errors"

	"github.com/gin-gonic/gin"
)

// StatusFor maps an application error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, xerrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, xerrors.ErrForbidden), errors.Is(err, xerrors.ErrNotDriver):
		return http.StatusForbidden
	case errors.Is(err, xerrors.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, xerrors.ErrDriverOnTrip), errors.Is(err, xerrors.ErrVehicleUnavailable):
		return http.StatusConflict
	case errors.Is(err, xerrors.ErrInvalidInput), errors.Is(err, xerrors.ErrPasswordRequired):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// FromError sends err with the status StatusFor picks.
func FromError(c *gin.Context, message string, err error) {
	Error(c, StatusFor(err), message, err)
}
