package models

import "github.com/shopspring/decimal"

// Expense is a single payment made by one member and shared among others.
// The split amounts always sum exactly to TotalAmount.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// Type is the expense category name (e.g., "Groceries", "Settle Due").
	Type string

	// OtherInfo is a free-form note.
	OtherInfo string

	// TotalAmount is the full amount paid.
	TotalAmount decimal.Decimal

	// PaidBy is the member who paid.
	PaidBy MemberRef

	// PaidThrough is the payment channel (e.g., "UPI", "Cash", "Card").
	PaidThrough string

	// Date is the Unix timestamp the expense happened on.
	Date int64

	// Splits lists who owes what. The payer may appear here too; their own
	// share produces no debt.
	Splits []Split

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// Split is one member's owed portion of an expense.
type Split struct {
	Member MemberRef
	Amount decimal.Decimal
}

// Involves reports whether the member paid for or shares in the expense.
func (e *Expense) Involves(memberID string) bool {
	if e.PaidBy.ID == memberID {
		return true
	}
	for _, s := range e.Splits {
		if s.Member.ID == memberID {
			return true
		}
	}
	return false
}

// SplitTotal returns the sum of all split amounts.
func (e *Expense) SplitTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, s := range e.Splits {
		sum = sum.Add(s.Amount)
	}
	return sum
}

// ExpenseFilter narrows an expense listing. Zero values mean "no constraint".
type ExpenseFilter struct {
	// StartDate and EndDate bound Expense.Date, both inclusive.
	StartDate int64
	EndDate   int64

	// PaidBy matches the payer's member ID exactly.
	PaidBy string

	// Type matches expense types containing this text, case-insensitively.
	Type string

	// PaidThrough matches the payment channel exactly.
	PaidThrough string

	// Offset and Limit page through results ordered by date, newest first.
	// A Limit of zero returns everything after Offset.
	Offset int
	Limit  int
}
