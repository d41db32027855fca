// Package controllers adapts HTTP requests to the application services.
package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/kasir/app/services"
	"github.com/shashiranjanraj/kasir/pkg/ctx"
	"github.com/shashiranjanraj/kasir/pkg/logger"
	"github.com/shashiranjanraj/kasir/pkg/validate"
)

// fail maps a service error onto a response. message is used for errors
// that have no more specific answer.
func fail(c *ctx.Context, message string, err error) {
	var (
		errs    validate.Errors
		unknown *services.UnknownProductsError
	)

	switch {
	case errors.As(err, &errs):
		c.ValidationError(errs)
	case errors.Is(err, services.ErrInvalidCredentials):
		c.Error(http.StatusUnauthorized, "Incorrect username or password")
	case errors.As(err, &unknown):
		c.Fail(http.StatusUnprocessableEntity, message, unknown)
	case errors.Is(err, services.ErrEmptyCart), errors.Is(err, services.ErrUnknownCategory):
		c.Fail(http.StatusUnprocessableEntity, message, err)
	case errors.Is(err, services.ErrNotFound):
		c.Fail(http.StatusNotFound, "Not found", err)
	case errors.Is(err, services.ErrDuplicate),
		errors.Is(err, services.ErrProductLocked),
		errors.Is(err, services.ErrCategoryInUse):
		c.Fail(http.StatusConflict, message, err)
	default:
		logger.WithCtx(c.Context()).Error(message, "error", err)
		c.Fail(http.StatusInternalServerError, message, err)
	}
}
