package calculator

import (
	"sort"

	"github.com/shopspring/decimal"
)

// DefaultPlaces is the minor-unit precision used when none is configured.
const DefaultPlaces int32 = 2

// FormatSettlements rounds every amount to places decimals, drops transfers
// that round to zero and sorts the result by From, then To.
//
// When balances is non-nil the rounded transfers are re-validated against it:
// each member may be left with a residual of at most half a minor unit per
// input settlement, plus the sub-epsilon amounts settlement generation treats
// as settled. Anything larger is an invariant violation.
//
// Formatting an already formatted result is a no-op.
func FormatSettlements(settlements []Settlement, balances Balances, places int32) ([]Settlement, error) {
	out := make([]Settlement, 0, len(settlements))
	for _, s := range settlements {
		if s.From == s.To {
			return nil, invariantf("self settlement for member %s", s.From)
		}
		if !s.Amount.IsPositive() {
			return nil, invariantf("non-positive settlement %s -> %s: %s", s.From, s.To, s.Amount.String())
		}
		amount := s.Amount.Round(places)
		if amount.IsZero() {
			continue
		}
		out = append(out, Settlement{From: s.From, To: s.To, Amount: amount})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})

	if balances != nil {
		tolerance := halfUnit(places).Mul(decimal.NewFromInt(int64(len(settlements)))).
			Add(settledBound(len(balances)))
		residual := balances.Apply(out)
		for _, id := range residual.MemberIDs() {
			if v := residual[id]; v.Abs().GreaterThan(tolerance) {
				return nil, invariantf("member %s left with %s after rounding (tolerance %s)",
					id, v.String(), tolerance.String())
			}
		}
	}
	return out, nil
}

// halfUnit returns half of the smallest currency unit at the given precision,
// e.g. 0.005 for two places.
func halfUnit(places int32) decimal.Decimal {
	return decimal.New(5, -(places + 1))
}
