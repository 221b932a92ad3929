package calculator

import (
	"sort"

	"github.com/shopspring/decimal"
)

// epsilon is the magnitude below which a balance counts as settled.
var epsilon = decimal.New(1, -9)

// Epsilon returns the magnitude below which a balance counts as settled.
func Epsilon() decimal.Decimal {
	return epsilon
}

// Balances maps member ID to net position.
// Positive = is owed money, negative = owes money. An absent member is zero.
type Balances map[string]decimal.Decimal

// Get returns the balance of a member, zero when absent.
func (b Balances) Get(memberID string) decimal.Decimal {
	if v, ok := b[memberID]; ok {
		return v
	}
	return decimal.Zero
}

// Sum returns the sum of every balance. It is zero for balances built from
// valid debts.
func (b Balances) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, v := range b {
		sum = sum.Add(v)
	}
	return sum
}

// MemberIDs returns the member IDs in ascending order.
func (b Balances) MemberIDs() []string {
	ids := make([]string, 0, len(b))
	for id := range b {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Apply returns a copy of b with the settlements paid: each settlement moves
// its amount from the debtor's debt to the creditor's credit.
func (b Balances) Apply(settlements []Settlement) Balances {
	out := make(Balances, len(b))
	for id, v := range b {
		out[id] = v
	}
	for _, s := range settlements {
		out[s.From] = out.Get(s.From).Add(s.Amount)
		out[s.To] = out.Get(s.To).Sub(s.Amount)
	}
	return out
}

// AggregateBalances reduces raw debts to one net balance per member.
//
// Every debt is validated before it touches the map, so on error the caller
// gets no balances at all rather than partially corrupted ones.
func AggregateBalances(debts []RawDebt) (Balances, error) {
	balances := make(Balances)
	for i, debt := range debts {
		if err := validateDebt(i, debt); err != nil {
			return nil, err
		}
		balances[debt.From] = balances.Get(debt.From).Sub(debt.Amount)
		balances[debt.To] = balances.Get(debt.To).Add(debt.Amount)
	}

	if sum := balances.Sum(); sum.Abs().GreaterThan(epsilon) {
		return nil, invariantf("aggregated balances sum to %s", sum.String())
	}
	return balances, nil
}

func validateDebt(i int, debt RawDebt) error {
	switch {
	case debt.From == "" || debt.To == "":
		return &DebtError{Index: i, Debt: debt, Reason: "missing member id"}
	case debt.From == debt.To:
		return &DebtError{Index: i, Debt: debt, Reason: "debtor and creditor are the same member"}
	case !debt.Amount.IsPositive():
		return &DebtError{Index: i, Debt: debt, Reason: "amount must be positive"}
	}
	return nil
}
