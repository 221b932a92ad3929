package calculator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// SplitRemaining computes how much each member owes for an expense.
//
// Members listed in fixed keep their amount. Whatever is left of total is
// divided evenly among the remaining members at the given precision; minor
// units that do not divide evenly go one each to members in ascending ID
// order. The returned shares always sum exactly to total, and every member
// without a fixed amount gets at least one minor unit; a remainder too small
// for that is rejected.
func SplitRemaining(total decimal.Decimal, memberIDs []string, fixed map[string]decimal.Decimal, places int32) (map[string]decimal.Decimal, error) {
	if !total.IsPositive() {
		return nil, fmt.Errorf("%w: total must be positive", ErrInvalidInput)
	}
	if len(memberIDs) == 0 {
		return nil, fmt.Errorf("%w: must have at least one member", ErrInvalidInput)
	}
	if !fitsPrecision(total, places) {
		return nil, fmt.Errorf("%w: total %s has more than %d decimal places", ErrInvalidInput, total.String(), places)
	}

	shares := make(map[string]decimal.Decimal, len(memberIDs))
	var free []string
	for _, id := range memberIDs {
		if _, dup := shares[id]; dup {
			return nil, fmt.Errorf("%w: member %s listed twice", ErrInvalidInput, id)
		}
		shares[id] = decimal.Zero
		if _, ok := fixed[id]; !ok {
			free = append(free, id)
		}
	}

	remainder := total
	for id, amount := range fixed {
		if _, ok := shares[id]; !ok {
			return nil, fmt.Errorf("%w: fixed share for unknown member %s", ErrInvalidInput, id)
		}
		if amount.IsNegative() {
			return nil, fmt.Errorf("%w: fixed share for %s is negative", ErrInvalidInput, id)
		}
		if !fitsPrecision(amount, places) {
			return nil, fmt.Errorf("%w: fixed share for %s has more than %d decimal places", ErrInvalidInput, id, places)
		}
		shares[id] = amount
		remainder = remainder.Sub(amount)
	}

	if remainder.IsNegative() {
		return nil, fmt.Errorf("%w: fixed shares exceed total by %s", ErrInvalidInput, remainder.Neg().String())
	}
	if len(free) == 0 {
		if !remainder.IsZero() {
			return nil, fmt.Errorf("%w: fixed shares leave %s unassigned", ErrInvalidInput, remainder.String())
		}
		return shares, nil
	}

	sort.Strings(free)
	units := remainder.Shift(places).IntPart()
	n := int64(len(free))
	if units < n {
		return nil, fmt.Errorf("%w: remaining %s cannot give each of %d members a share",
			ErrInvalidInput, remainder.String(), n)
	}
	each, extra := units/n, units%n
	for i, id := range free {
		u := each
		if int64(i) < extra {
			u++
		}
		shares[id] = decimal.New(u, -places)
	}
	return shares, nil
}

func fitsPrecision(d decimal.Decimal, places int32) bool {
	return d.Shift(places).IsInteger()
}
