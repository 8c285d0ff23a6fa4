package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope for every JSON reply
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *AppError   `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type Meta struct {
	Total int `json:"total,omitempty"`
	TopK  int `json:"top_k,omitempty"`
}

func respond(c *gin.Context, status int, body Response) {
	body.Success = status < http.StatusBadRequest
	c.JSON(status, body)
}

func SendSuccess(c *gin.Context, data interface{}) {
	respond(c, http.StatusOK, Response{Data: data})
}

func SendSuccessWithMeta(c *gin.Context, data interface{}, meta *Meta) {
	respond(c, http.StatusOK, Response{Data: data, Meta: meta})
}

func SendError(c *gin.Context, statusCode int, err *AppError) {
	respond(c, statusCode, Response{Error: err})
}

func SendValidationError(c *gin.Context, message string, details string) {
	SendError(c, http.StatusBadRequest, NewAppError(ErrCodeValidation, message, details))
}

func SendServiceUnavailable(c *gin.Context, code string, message string) {
	SendError(c, http.StatusServiceUnavailable, NewAppError(code, message))
}

func SendTooManyRequests(c *gin.Context, message string) {
	SendError(c, http.StatusTooManyRequests, NewAppError(ErrCodeRateLimited, message))
}

// StatusFor maps a wrapped sentinel error to an HTTP status and error code.
// Unknown errors are internal.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidConfig):
		return http.StatusBadRequest, ErrCodeValidation
	case errors.Is(err, ErrInvalidInput):
		return http.StatusUnprocessableEntity, ErrCodeData
	case errors.Is(err, ErrPoolUnavailable), errors.Is(err, ErrPoolExhausted):
		return http.StatusServiceUnavailable, ErrCodePoolUnavailable
	case errors.Is(err, ErrSimulationFailed):
		return http.StatusInternalServerError, ErrCodeSimulation
	default:
		return http.StatusInternalServerError, ErrCodeInternal
	}
}

// SendFailure answers with the status StatusFor picks for err
func SendFailure(c *gin.Context, message string, err error) *AppError {
	status, code := StatusFor(err)
	appErr := NewAppError(code, message, err.Error())
	SendError(c, status, appErr)
	return appErr
}
