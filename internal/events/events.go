// Package events publishes expense lifecycle notifications.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Kind names what happened to an expense.
type Kind string

const (
	KindExpenseAdded   Kind = "added"
	KindExpenseDeleted Kind = "deleted"
	KindDueSettled     Kind = "settled"
)

// ExpenseEvent is published after an expense is recorded or removed.
type ExpenseEvent struct {
	Kind        Kind            `json:"kind"`
	ExpenseID   string          `json:"expenseId"`
	Type        string          `json:"type,omitempty"`
	PaidBy      string          `json:"paidBy,omitempty"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	OccurredAt  time.Time       `json:"occurredAt"`
}

// RoutingKey is the topic the event is published under, e.g. "expense.added".
func (e ExpenseEvent) RoutingKey() string {
	return "expense." + string(e.Kind)
}

// ToJSON converts the event to JSON bytes
func (e ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON parses an event published by ToJSON.
func FromJSON(data []byte) (ExpenseEvent, error) {
	var e ExpenseEvent
	err := json.Unmarshal(data, &e)
	return e, err
}

// Publisher delivers expense events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event ExpenseEvent) error
	Close() error
}

// Nop discards every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, ExpenseEvent) error { return nil }
func (Nop) Close() error                                { return nil }
