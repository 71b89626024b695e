package aiprovider

import (
	"errors"
	"net/http"
)

const (
	ErrCodeTimeout       = "TIMEOUT"
	ErrCodeNetworkError  = "NETWORK_ERROR"
	ErrCodeServerError   = "SERVER_ERROR"
	ErrCodeBadRequest    = "BAD_REQUEST"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeEmptyResponse = "EMPTY_RESPONSE"
	ErrCodeCircuitOpen   = "CIRCUIT_OPEN"
)

var (
	ErrTimeout       = errors.New(ErrCodeTimeout)
	ErrNetworkError  = errors.New(ErrCodeNetworkError)
	ErrServerError   = errors.New(ErrCodeServerError)
	ErrBadRequest    = errors.New(ErrCodeBadRequest)
	ErrUnauthorized  = errors.New(ErrCodeUnauthorized)
	ErrEmptyResponse = errors.New(ErrCodeEmptyResponse)
	ErrCircuitOpen   = errors.New(ErrCodeCircuitOpen)
)

var statusErrorMap = map[int]error{
	http.StatusBadRequest:          ErrBadRequest,
	http.StatusUnprocessableEntity: ErrBadRequest,
	http.StatusNotFound:            ErrBadRequest,
	http.StatusUnauthorized:        ErrUnauthorized,
	http.StatusForbidden:           ErrUnauthorized,
}

func MapStatusToError(statusCode int) error {
	if err, exists := statusErrorMap[statusCode]; exists {
		return err
	}

	return ErrServerError
}

// IsClientError reports failures caused by the request itself. They do not
// count against the circuit breaker.
func IsClientError(err error) bool {
	return errors.Is(err, ErrBadRequest) || errors.Is(err, ErrUnauthorized)
}
