package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classpad/classpad/internal/dto"
	"github.com/classpad/classpad/internal/model"
)

// StatusFromError maps the model error taxonomy onto HTTP statuses.
// Anything outside the taxonomy is a 500.
func StatusFromError(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, model.ErrInvalidState),
		errors.Is(err, model.ErrExpired),
		errors.Is(err, model.ErrMismatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// JSONError writes the mapped status with the error text as payload.
func JSONError(ctx *gin.Context, err error) {
	ctx.JSON(StatusFromError(err), dto.ErrorResponse{Error: err.Error()})
}

// Health is the unauthenticated liveness endpoint.
func Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.OKResponse{OK: true})
}
