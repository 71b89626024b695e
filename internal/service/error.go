package service

import (
	"errors"

	"github.com/kaixxz/MediNote/internal/constants"
	"github.com/kaixxz/MediNote/internal/ledger"
)

var ErrUnknownPackage = errors.New("UNKNOWN_PACKAGE")

type Error struct {
	Code  string
	Cause error
}

func NewServiceError(code string, cause error) error {
	return Error{Code: code, Cause: cause}
}

func (e Error) Error() string {
	return e.Cause.Error()
}

func (e Error) Unwrap() error {
	return e.Cause
}

// ledgerError maps a ledger failure onto the matching error code. Anything
// unrecognised is reported as an operation failure.
func ledgerError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrInsufficientCredits):
		return NewServiceError(constants.ErrCodeInsufficientCredits, err)
	case errors.Is(err, ledger.ErrAccountNotFound):
		return NewServiceError(constants.ErrCodeAccountNotFound, err)
	case errors.Is(err, ledger.ErrInvalidAmount):
		return NewServiceError(constants.ErrCodeInvalidAmount, err)
	default:
		return NewServiceError(constants.ErrCodeOperationFailed, err)
	}
}
