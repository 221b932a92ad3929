package calculator

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Settlement is a single directed transfer: From pays To the given amount.
type Settlement struct {
	From   string
	To     string
	Amount decimal.Decimal
}

type position struct {
	memberID string
	amount   decimal.Decimal // always positive: remaining debt or credit
}

// GenerateSettlements converts net balances into transfers that drive every
// balance to zero.
//
// Algorithm (greedy matching):
//   - members within epsilon of zero are already settled and dropped
//   - repeatedly pair the largest debtor with the largest creditor, ties broken
//     by member ID ascending, and transfer min(debt, credit)
//   - whoever reaches zero leaves the pool
//
// Each step retires at least one member, so n unsettled members produce at
// most n-1 transfers. This is a heuristic: finding the true minimum number of
// transfers is NP-hard, but the output is deterministic for a given input.
func GenerateSettlements(balances Balances) ([]Settlement, error) {
	if sum := balances.Sum(); sum.Abs().GreaterThan(epsilon) {
		return nil, invariantf("balances sum to %s, not zero", sum.String())
	}

	var debtors, creditors []position
	negEpsilon := epsilon.Neg()
	for _, id := range balances.MemberIDs() {
		v := balances[id]
		switch {
		case v.LessThan(negEpsilon):
			debtors = append(debtors, position{memberID: id, amount: v.Neg()})
		case v.GreaterThan(epsilon):
			creditors = append(creditors, position{memberID: id, amount: v})
		}
	}

	settlements := make([]Settlement, 0, max(len(debtors), len(creditors)))
	limit := 2 * len(balances)
	for iter := 0; len(debtors) > 0 && len(creditors) > 0; iter++ {
		if iter >= limit {
			return nil, invariantf("settlement did not converge after %d iterations", limit)
		}

		di := largest(debtors)
		ci := largest(creditors)
		debtor, creditor := &debtors[di], &creditors[ci]

		amount := decimal.Min(debtor.amount, creditor.amount)
		settlements = append(settlements, Settlement{
			From:   debtor.memberID,
			To:     creditor.memberID,
			Amount: amount,
		})

		debtor.amount = debtor.amount.Sub(amount)
		creditor.amount = creditor.amount.Sub(amount)
		if debtor.amount.LessThanOrEqual(epsilon) {
			debtors = slices.Delete(debtors, di, di+1)
		}
		if creditor.amount.LessThanOrEqual(epsilon) {
			creditors = slices.Delete(creditors, ci, ci+1)
		}
	}

	// Members dropped as settled can together hold more than epsilon, which
	// leaves the other side with a remainder no one can match. Up to epsilon
	// per member, that remainder is settled too.
	if left := remaining(debtors).Add(remaining(creditors)); left.GreaterThan(settledBound(len(balances))) {
		return nil, invariantf("%d debtors and %d creditors left unmatched holding %s",
			len(debtors), len(creditors), left.String())
	}
	return settlements, nil
}

func remaining(positions []position) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range positions {
		sum = sum.Add(p.amount)
	}
	return sum
}

// settledBound is the most that members of a balance set can be left
// holding while still counting as settled.
func settledBound(members int) decimal.Decimal {
	return epsilon.Mul(decimal.NewFromInt(int64(max(members, 1))))
}

// largest returns the index of the position with the greatest amount,
// preferring the smaller member ID on ties.
func largest(positions []position) int {
	best := 0
	for i := 1; i < len(positions); i++ {
		switch positions[i].amount.Cmp(positions[best].amount) {
		case 1:
			best = i
		case 0:
			if positions[i].memberID < positions[best].memberID {
				best = i
			}
		}
	}
	return best
}
