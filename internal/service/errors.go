package service

import (
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/mmynk/dues/internal/calculator"
	"github.com/mmynk/dues/internal/storage"
)

var (
	errMemberExists = errors.New("a member with this name already exists")
	errTypeExists   = errors.New("an expense type with this name already exists")
	errBalances     = errors.New("unable to compute balances")
)

// toConnectError maps storage and calculator errors onto Connect codes.
func toConnectError(err error) *connect.Error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrAlreadyExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, calculator.ErrInvalidInput):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, calculator.ErrInvariantViolation):
		return connect.NewError(connect.CodeInternal, errBalances)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// balancesError reports any failure to simplify stored expenses as an
// internal error. Stored expenses were validated on the way in, so bad
// input at this point is our fault, not the caller's.
func balancesError(err error) *connect.Error {
	if errors.Is(err, calculator.ErrInvalidInput) || errors.Is(err, calculator.ErrInvariantViolation) {
		return connect.NewError(connect.CodeInternal, errBalances)
	}
	return toConnectError(err)
}

func invalidArgument(format string, args ...any) *connect.Error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}
