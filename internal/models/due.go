package models

import "github.com/shopspring/decimal"

// Due is a simplified transfer: From should pay To the given amount.
// Dues are derived from expenses on demand and never stored.
type Due struct {
	From   MemberRef
	To     MemberRef
	Amount decimal.Decimal
}

// MemberBalance summarizes one member's position across all dues.
type MemberBalance struct {
	Member MemberRef

	// Net is positive when the member is owed money overall.
	Net decimal.Decimal

	// ToPay and ToReceive total the member's outgoing and incoming dues.
	ToPay     decimal.Decimal
	ToReceive decimal.Decimal
}
