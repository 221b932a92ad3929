package calculator

import "github.com/shopspring/decimal"

// ExpenseForBalance is the minimal view of an expense needed to derive debts.
type ExpenseForBalance struct {
	PayerID string
	Splits  []SplitShare
}

// SplitShare is one member's owed portion of an expense.
type SplitShare struct {
	MemberID string
	Amount   decimal.Decimal
}

// RawDebt is a single directed obligation: From owes To the given amount.
type RawDebt struct {
	From   string
	To     string
	Amount decimal.Decimal
}

// ExtractDebts turns expenses into raw debts, one per split whose member is not
// the payer. Order follows the input.
func ExtractDebts(expenses []ExpenseForBalance) []RawDebt {
	var debts []RawDebt
	for _, expense := range expenses {
		for _, split := range expense.Splits {
			// The payer's own share settles itself.
			if split.MemberID == expense.PayerID {
				continue
			}
			debts = append(debts, RawDebt{
				From:   split.MemberID,
				To:     expense.PayerID,
				Amount: split.Amount,
			})
		}
	}
	return debts
}
