package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medisched/appointment-api/internal/model"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// StatusForError maps a domain error kind onto an HTTP status. Anything
// outside the closed kind set is an internal error.
func StatusForError(err error) int {
	var domainErr *model.Error
	if errors.As(err, &domainErr) {
		switch domainErr.Kind {
		case model.ErrKindValidation:
			return http.StatusBadRequest
		case model.ErrKindConflict:
			return http.StatusConflict
		case model.ErrKindNotFound:
			return http.StatusNotFound
		case model.ErrKindUnauthorized:
			return http.StatusUnauthorized
		case model.ErrKindForbidden:
			return http.StatusForbidden
		}
	}
	return http.StatusInternalServerError
}

// RespondError renders a service-layer error with its mapped status.
func RespondError(c *gin.Context, err error) {
	status := StatusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	c.JSON(status, NewErrorResponse(message))
}
