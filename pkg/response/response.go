package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nathantkn/restockd/pkg/apperrors"
)

// Response is the unified API response envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success sends a 200 OK response with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "ok",
		Data:    data,
	})
}

// Created sends a 201 Created response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "created",
		Data:    data,
	})
}

// Error maps a service error onto the wire. The apperrors taxonomy decides
// the status code; anything unclassified is a 500.
func Error(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	var (
		ve *apperrors.ValidationError
		ce *apperrors.ConflictError
		de *apperrors.DependencyError
		ne *apperrors.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		status = http.StatusBadRequest
	case errors.As(err, &ce):
		status = http.StatusConflict
	case errors.As(err, &de):
		status = http.StatusBadGateway
	case errors.As(err, &ne):
		status = http.StatusNotFound
	}

	c.JSON(status, Response{
		Code:    status,
		Message: err.Error(),
	})
}

// Convenience error response functions for transport-level failures that
// never reach the services.

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Code: 400, Message: msg})
}

func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, Response{Code: 401, Message: msg})
}

func Forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, Response{Code: 403, Message: msg})
}

func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, Response{Code: 404, Message: msg})
}

func ServerError(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, Response{Code: 500, Message: msg})
}
