// Package responses writes the JSON envelopes shared by every task API endpoint.
package responses

import (
	"net/http"

	"github.com/Aidin1998/taskapi/pkg/errors"
	"github.com/gin-gonic/gin"
)

// StandardResponse represents the envelope used for every task API response
type StandardResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ValidationResponse is the envelope for 422 responses
type ValidationResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// Success sends a 200 response carrying data
func Success(c *gin.Context, data interface{}, message ...string) {
	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Message: firstOr(message, ""),
		Data:    data,
	})
}

// Created sends a 201 Created response
func Created(c *gin.Context, data interface{}, message ...string) {
	c.JSON(http.StatusCreated, StandardResponse{
		Success: true,
		Message: firstOr(message, "Resource created successfully"),
		Data:    data,
	})
}

// Message sends a 200 response with no data
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: message})
}

// Fail sends a failure envelope with the given status
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, StandardResponse{Success: false, Message: message})
}

// BadRequest sends a 400 Bad Request response
func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, message)
}

// NotFound sends a 404 Not Found response
func NotFound(c *gin.Context, message string) {
	Fail(c, http.StatusNotFound, message)
}

// UnprocessableEntity sends a 422 response with messages grouped by field
func UnprocessableEntity(c *gin.Context, message string, fields map[string][]string) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ValidationResponse{
		Success: false,
		Message: message,
		Errors:  fields,
	})
}

// InternalServerError sends a 500 Internal Server Error response
func InternalServerError(c *gin.Context) {
	Fail(c, http.StatusInternalServerError, "Internal server error")
}

// Error maps err onto the envelope by its status. notFound is the message used for 404s.
// Errors without a known status become opaque 500s and are attached to the context for logging.
func Error(c *gin.Context, err error, notFound string) {
	var e *errors.Error
	switch status := errors.StatusOf(err); status {
	case http.StatusNotFound:
		NotFound(c, notFound)
	case http.StatusUnprocessableEntity:
		fields := map[string][]string{}
		message := "Validation failed"
		if errors.As(err, &e) {
			fields = e.FieldMessages()
			if e.Message != "" {
				message = e.Message
			}
		}
		UnprocessableEntity(c, message, fields)
	case http.StatusBadRequest, http.StatusConflict, http.StatusServiceUnavailable:
		message := http.StatusText(status)
		if errors.As(err, &e) && e.Message != "" {
			message = e.Message
		}
		Fail(c, status, message)
	default:
		_ = c.Error(err)
		InternalServerError(c)
	}
}

func firstOr(values []string, fallback string) string {
	if len(values) > 0 && values[0] != "" {
		return values[0]
	}
	return fallback
}
