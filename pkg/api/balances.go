package api

import "github.com/shopspring/decimal"

// Due is a simplified transfer: From pays To.
type Due struct {
	FromID   string          `json:"fromId"`
	FromName string          `json:"fromName"`
	ToID     string          `json:"toId"`
	ToName   string          `json:"toName"`
	Amount   decimal.Decimal `json:"amount"`
}

type MemberBalance struct {
	MemberID   string          `json:"memberId"`
	MemberName string          `json:"memberName"`
	Net        decimal.Decimal `json:"net"`
	ToPay      decimal.Decimal `json:"toPay"`
	ToReceive  decimal.Decimal `json:"toReceive"`
}

type GetDuesRequest struct{}

type GetDuesResponse struct {
	Dues     []*Due           `json:"dues"`
	Balances []*MemberBalance `json:"balances"`
}

type SettleDueRequest struct {
	FromID      string          `json:"fromId"`
	ToID        string          `json:"toId"`
	Amount      decimal.Decimal `json:"amount"`
	PaidThrough string          `json:"paidThrough"`
	Date        int64           `json:"date,omitempty"`
}

type SettleDueResponse struct {
	// Expense is the recorded settlement payment.
	Expense *Expense `json:"expense"`
}
