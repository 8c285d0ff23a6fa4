package utils

import (
	"errors"
	"fmt"
)

// Sentinels wrapped by every package so callers can classify failures
// with errors.Is.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrSimulationFailed = errors.New("simulation failed")
	ErrPoolExhausted    = errors.New("player pool exhausted")
	ErrPoolUnavailable  = errors.New("player pool not loaded")
)

// Error codes carried in API error bodies
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeData            = "DATA_ERROR"
	ErrCodeSimulation      = "SIMULATION_ERROR"
	ErrCodePoolUnavailable = "POOL_UNAVAILABLE"
	ErrCodeRateLimited     = "RATE_LIMITED"
)

// AppError is the client-facing error body
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func NewAppError(code string, message string, details ...string) *AppError {
	e := &AppError{Code: code, Message: message}
	if len(details) > 0 {
		e.Details = details[0]
	}
	return e
}

func (e *AppError) Error() string {
	msg := e.Code + ": " + e.Message
	if e.Details != "" {
		msg = fmt.Sprintf("%s - %s", msg, e.Details)
	}
	return msg
}
