package calculator

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when a raw debt cannot be aggregated:
	// a non-positive amount, a missing member ID, or a debtor equal to the creditor.
	ErrInvalidInput = errors.New("calculator: invalid input")

	// ErrInvariantViolation is returned when balances do not sum to zero or the
	// settlement loop cannot retire every member. No partial result is ever
	// returned alongside it.
	ErrInvariantViolation = errors.New("calculator: invariant violation")
)

// DebtError describes a rejected raw debt.
type DebtError struct {
	Index  int
	Debt   RawDebt
	Reason string
}

func (e *DebtError) Error() string {
	return fmt.Sprintf("calculator: debt %d (%s -> %s, %s): %s",
		e.Index, e.Debt.From, e.Debt.To, e.Debt.Amount.String(), e.Reason)
}

func (e *DebtError) Unwrap() error {
	return ErrInvalidInput
}

func invariantf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
}
