package mq

import "errors"

var ErrConnectionClosed = errors.New("mq: connection is closed")

// RetryableError marks a handler failure that should be redelivered.
type RetryableError struct {
	Err error
}

func (e RetryableError) Error() string { return e.Err.Error() }

func (e RetryableError) Unwrap() error { return e.Err }

func Retryable(err error) error {
	return RetryableError{Err: err}
}

func IsRetryable(err error) bool {
	var re RetryableError
	return errors.As(err, &re)
}
