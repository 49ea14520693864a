package http

import (
	"fmt"
	"net/http"
)

// AppError is an error that maps onto a single HTTP status and error code.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ServiceUnavailableError is returned while the dashboard has nothing to serve yet.
func ServiceUnavailableError(message string) *AppError {
	return &AppError{Code: "ERR_UNAVAILABLE", Message: message, Status: http.StatusServiceUnavailable}
}
