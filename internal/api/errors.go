package api

import (
	"errors"
	"net/http"

	"tarim-admin/internal/dashboard"
	"tarim-admin/internal/logger"
	"tarim-admin/internal/menu"
	"tarim-admin/internal/order"
	"tarim-admin/internal/profile"
	"tarim-admin/internal/user"
	"tarim-admin/internal/utils"

	"go.uber.org/zap"
)

var errUnauthenticated = errors.New("unauthorized")

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadBody),
		order.IsValidation(err),
		menu.IsValidation(err),
		errors.Is(err, profile.ErrEmailImmutable),
		errors.Is(err, profile.ErrNoFields),
		errors.Is(err, dashboard.ErrUnknownWindow),
		errors.Is(err, user.ErrInvalidEmail),
		errors.Is(err, user.ErrWeakPassword):
		return http.StatusBadRequest
	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, menu.ErrItemNotFound),
		errors.Is(err, profile.ErrProfileNotFound),
		errors.Is(err, user.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, user.ErrEmailExists):
		return http.StatusConflict
	case errors.Is(err, user.ErrInvalidCredentials),
		errors.Is(err, user.ErrNotRegistered),
		errors.Is(err, errUnauthenticated):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps domain errors to a status and writes {"error": msg}.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		logger.FromCtx(r.Context()).Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	utils.WriteJSONError(w, err.Error(), code)
}
