package events

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenseEvent_RoutingKey(t *testing.T) {
	assert.Equal(t, "expense.added", ExpenseEvent{Kind: KindExpenseAdded}.RoutingKey())
	assert.Equal(t, "expense.settled", ExpenseEvent{Kind: KindDueSettled}.RoutingKey())
}

func TestExpenseEvent_JSON(t *testing.T) {
	in := ExpenseEvent{
		Kind:        KindExpenseDeleted,
		ExpenseID:   "e1",
		Type:        "Rent",
		PaidBy:      "m1",
		TotalAmount: decimal.RequireFromString("1200.50"),
		OccurredAt:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}

	data, err := in.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"totalAmount":"1200.5"`)

	out, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, in.Kind, out.Kind)
	assert.Equal(t, in.ExpenseID, out.ExpenseID)
	assert.True(t, in.TotalAmount.Equal(out.TotalAmount))
	assert.True(t, in.OccurredAt.Equal(out.OccurredAt))
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), ExpenseEvent{Kind: KindExpenseAdded}))
	assert.NoError(t, p.Close())
}
