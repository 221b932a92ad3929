package api

import "github.com/shopspring/decimal"

// Split is one member's share of an expense. MemberName is filled in on
// responses and ignored on requests.
type Split struct {
	MemberID   string          `json:"memberId"`
	MemberName string          `json:"memberName,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
}

type Expense struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	OtherInfo   string          `json:"otherInfo,omitempty"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	PaidByID    string          `json:"paidById"`
	PaidByName  string          `json:"paidByName"`
	PaidThrough string          `json:"paidThrough"`
	Date        int64           `json:"date"`
	Splits      []*Split        `json:"splits"`
	CreatedAt   int64           `json:"createdAt"`
}

type AddExpenseRequest struct {
	Type        string          `json:"type"`
	OtherInfo   string          `json:"otherInfo,omitempty"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	PaidByID    string          `json:"paidById"`
	PaidThrough string          `json:"paidThrough"`
	// Date is a Unix timestamp; zero means now.
	Date   int64    `json:"date,omitempty"`
	Splits []*Split `json:"splits"`
}

type AddExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expenseId"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expenseId"`
}

type DeleteExpenseResponse struct{}

// ExpenseFilter narrows listings and insights. Empty fields are ignored.
type ExpenseFilter struct {
	StartDate   int64  `json:"startDate,omitempty"`
	EndDate     int64  `json:"endDate,omitempty"`
	PaidByID    string `json:"paidById,omitempty"`
	Type        string `json:"type,omitempty"`
	PaidThrough string `json:"paidThrough,omitempty"`
}

type ListExpensesRequest struct {
	Filter *ExpenseFilter `json:"filter,omitempty"`
	// Page is 1-based; zero means the first page.
	Page int32 `json:"page,omitempty"`
	// PageSize zero uses the server default; negative returns every match.
	PageSize int32 `json:"pageSize,omitempty"`
}

type ListExpensesResponse struct {
	Expenses   []*Expense `json:"expenses"`
	Page       int32      `json:"page"`
	PageSize   int32      `json:"pageSize"`
	TotalCount int64      `json:"totalCount"`
	TotalPages int32      `json:"totalPages"`
}

type CalculateSplitRequest struct {
	TotalAmount decimal.Decimal `json:"totalAmount"`
	MemberIDs   []string        `json:"memberIds"`
	// FixedShares pins the share of some members; the rest is split evenly.
	FixedShares map[string]decimal.Decimal `json:"fixedShares,omitempty"`
}

type CalculateSplitResponse struct {
	// Splits are ordered by member name.
	Splits []*Split `json:"splits"`
}

// Total is an amount aggregated under a label (a type, payer or channel).
type Total struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

type GetInsightsRequest struct {
	Filter *ExpenseFilter `json:"filter,omitempty"`
}

// GetInsightsResponse breaks spending down by type, payer and channel.
// Settlement payments are excluded. Each breakdown is ordered by amount,
// largest first.
type GetInsightsResponse struct {
	Count     int64           `json:"count"`
	Total     decimal.Decimal `json:"total"`
	ByType    []*Total        `json:"byType"`
	ByPayer   []*Total        `json:"byPayer"`
	ByChannel []*Total        `json:"byChannel"`
}
