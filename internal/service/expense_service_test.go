package service

import (
	"context"
	"errors"
	"testing"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/dues/internal/events"
	"github.com/mmynk/dues/internal/models"
	"github.com/mmynk/dues/pkg/api"
)

func TestAddExpense(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	alice := c.addMember(t, "Alice")
	bob := c.addMember(t, "Bob")

	resp, err := c.expenses.AddExpense(ctx, connect.NewRequest(&api.AddExpenseRequest{
		Type:        " Groceries ",
		OtherInfo:   "weekly shop",
		TotalAmount: dec("90.50"),
		PaidByID:    alice.ID,
		PaidThrough: "Card",
		Date:        1700000000,
		Splits: []*api.Split{
			{MemberID: alice.ID, Amount: dec("45.25")},
			{MemberID: bob.ID, Amount: dec("45.25")},
		},
	}))
	require.NoError(t, err)

	expense := resp.Msg.Expense
	assert.NotEmpty(t, expense.ID)
	assert.Equal(t, "Groceries", expense.Type)
	assert.Equal(t, "Alice", expense.PaidByName)
	assert.Equal(t, int64(1700000000), expense.Date)
	require.Len(t, expense.Splits, 2)
	assert.Equal(t, "Bob", expense.Splits[1].MemberName)

	got, err := c.expenses.GetExpense(ctx, connect.NewRequest(&api.GetExpenseRequest{ExpenseID: expense.ID}))
	require.NoError(t, err)
	assert.True(t, got.Msg.Expense.TotalAmount.Equal(dec("90.5")))
	assert.Equal(t, "weekly shop", got.Msg.Expense.OtherInfo)

	assert.Equal(t, []events.Kind{events.KindExpenseAdded}, c.publisher.kinds())
}

func TestAddExpense_DefaultsDateToNow(t *testing.T) {
	c := setupTestServer(t)
	alice := c.addMember(t, "Alice")

	expense := c.addExpense(t, "Food", alice, 0, map[*api.Member]string{alice: "5"})
	assert.NotZero(t, expense.Date)
}

func TestAddExpense_PublishFailureDoesNotFail(t *testing.T) {
	c := setupTestServer(t)
	c.publisher.err = errors.New("broker down")
	alice := c.addMember(t, "Alice")

	expense := c.addExpense(t, "Food", alice, 10, map[*api.Member]string{alice: "5"})
	assert.NotEmpty(t, expense.ID)
}

func TestAddExpense_Validation(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	alice := c.addMember(t, "Alice")
	bob := c.addMember(t, "Bob")

	valid := func() *api.AddExpenseRequest {
		return &api.AddExpenseRequest{
			Type:        "Rent",
			TotalAmount: dec("100"),
			PaidByID:    alice.ID,
			PaidThrough: "Bank",
			Splits: []*api.Split{
				{MemberID: alice.ID, Amount: dec("50")},
				{MemberID: bob.ID, Amount: dec("50")},
			},
		}
	}

	tests := []struct {
		name   string
		mutate func(r *api.AddExpenseRequest)
		code   connect.Code
	}{
		{"missing type", func(r *api.AddExpenseRequest) { r.Type = " " }, connect.CodeInvalidArgument},
		{"missing paid through", func(r *api.AddExpenseRequest) { r.PaidThrough = "" }, connect.CodeInvalidArgument},
		{"zero total", func(r *api.AddExpenseRequest) { r.TotalAmount = decimal.Zero }, connect.CodeInvalidArgument},
		{"sub-cent total", func(r *api.AddExpenseRequest) {
			r.TotalAmount = dec("100.001")
			r.Splits[0].Amount = dec("50.001")
		}, connect.CodeInvalidArgument},
		{"no splits", func(r *api.AddExpenseRequest) { r.Splits = nil }, connect.CodeInvalidArgument},
		{"splits do not add up", func(r *api.AddExpenseRequest) { r.Splits[1].Amount = dec("49.99") }, connect.CodeInvalidArgument},
		{"negative split", func(r *api.AddExpenseRequest) {
			r.Splits[0].Amount = dec("150")
			r.Splits[1].Amount = dec("-50")
		}, connect.CodeInvalidArgument},
		{"duplicate split member", func(r *api.AddExpenseRequest) { r.Splits[1].MemberID = alice.ID }, connect.CodeInvalidArgument},
		{"unknown payer", func(r *api.AddExpenseRequest) { r.PaidByID = "missing" }, connect.CodeNotFound},
		{"unknown split member", func(r *api.AddExpenseRequest) { r.Splits[1].MemberID = "missing" }, connect.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(req)
			_, err := c.expenses.AddExpense(ctx, connect.NewRequest(req))
			requireCode(t, err, tt.code)
		})
	}

	assert.Empty(t, c.publisher.kinds())
}

func TestDeleteExpense(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	alice := c.addMember(t, "Alice")
	expense := c.addExpense(t, "Food", alice, 10, map[*api.Member]string{alice: "5"})

	_, err := c.expenses.DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{ExpenseID: expense.ID}))
	require.NoError(t, err)

	_, err = c.expenses.GetExpense(ctx, connect.NewRequest(&api.GetExpenseRequest{ExpenseID: expense.ID}))
	requireCode(t, err, connect.CodeNotFound)

	_, err = c.expenses.DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{ExpenseID: expense.ID}))
	requireCode(t, err, connect.CodeNotFound)

	assert.Equal(t, []events.Kind{events.KindExpenseAdded, events.KindExpenseDeleted}, c.publisher.kinds())
}

func TestListExpenses_Pagination(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	alice := c.addMember(t, "Alice")
	for date := int64(1); date <= 3; date++ {
		c.addExpense(t, "Food", alice, date, map[*api.Member]string{alice: "1"})
	}

	list := func(page, size int32) *api.ListExpensesResponse {
		t.Helper()
		resp, err := c.expenses.ListExpenses(ctx, connect.NewRequest(&api.ListExpensesRequest{Page: page, PageSize: size}))
		require.NoError(t, err)
		return resp.Msg
	}

	first := list(1, 2)
	require.Len(t, first.Expenses, 2)
	assert.Equal(t, int64(3), first.Expenses[0].Date)
	assert.Equal(t, int64(2), first.Expenses[1].Date)
	assert.Equal(t, int64(3), first.TotalCount)
	assert.Equal(t, int32(2), first.TotalPages)

	second := list(2, 2)
	require.Len(t, second.Expenses, 1)
	assert.Equal(t, int64(1), second.Expenses[0].Date)
	assert.Equal(t, int32(2), second.Page)

	defaulted := list(0, 0)
	assert.Len(t, defaulted.Expenses, 3)
	assert.Equal(t, int32(1), defaulted.Page)
	assert.Equal(t, int32(10), defaulted.PageSize)
	assert.Equal(t, int32(1), defaulted.TotalPages)

	all := list(5, -1)
	assert.Len(t, all.Expenses, 3)
	assert.Equal(t, int32(1), all.Page)
	assert.Equal(t, int32(1), all.TotalPages)

	beyond := list(9, 2)
	assert.Empty(t, beyond.Expenses)
	assert.Equal(t, int64(3), beyond.TotalCount)
}

func TestListExpenses_Filter(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	alice := c.addMember(t, "Alice")
	bob := c.addMember(t, "Bob")
	c.addExpense(t, "Groceries", alice, 10, map[*api.Member]string{bob: "10"})
	c.addExpense(t, "Rent", bob, 20, map[*api.Member]string{alice: "500"})
	c.addExpense(t, "Grocery run", bob, 30, map[*api.Member]string{alice: "7"})

	list := func(filter *api.ExpenseFilter) []*api.Expense {
		t.Helper()
		resp, err := c.expenses.ListExpenses(ctx, connect.NewRequest(&api.ListExpensesRequest{Filter: filter, PageSize: -1}))
		require.NoError(t, err)
		return resp.Msg.Expenses
	}

	assert.Len(t, list(&api.ExpenseFilter{Type: "GROCER"}), 2)
	assert.Len(t, list(&api.ExpenseFilter{PaidByID: bob.ID}), 2)
	assert.Len(t, list(&api.ExpenseFilter{StartDate: 20, EndDate: 30}), 2)

	only := list(&api.ExpenseFilter{PaidByID: bob.ID, Type: "rent"})
	require.Len(t, only, 1)
	assert.Equal(t, "Rent", only[0].Type)
}

func TestCalculateSplit(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	alice := c.addMember(t, "Alice")
	bob := c.addMember(t, "Bob")
	carol := c.addMember(t, "Carol")

	t.Run("even with leftover cent", func(t *testing.T) {
		resp, err := c.expenses.CalculateSplit(ctx, connect.NewRequest(&api.CalculateSplitRequest{
			TotalAmount: dec("100"),
			MemberIDs:   []string{carol.ID, alice.ID, bob.ID},
		}))
		require.NoError(t, err)

		splits := resp.Msg.Splits
		require.Len(t, splits, 3)
		assert.Equal(t, "Alice", splits[0].MemberName)
		assert.Equal(t, "Carol", splits[2].MemberName)

		sum := decimal.Zero
		bigger := 0
		for _, s := range splits {
			sum = sum.Add(s.Amount)
			if s.Amount.Equal(dec("33.34")) {
				bigger++
			} else {
				assert.True(t, s.Amount.Equal(dec("33.33")), "unexpected share %s", s.Amount)
			}
		}
		assert.True(t, sum.Equal(dec("100")))
		assert.Equal(t, 1, bigger)
	})

	t.Run("fixed share", func(t *testing.T) {
		resp, err := c.expenses.CalculateSplit(ctx, connect.NewRequest(&api.CalculateSplitRequest{
			TotalAmount: dec("100"),
			MemberIDs:   []string{alice.ID, bob.ID, carol.ID},
			FixedShares: map[string]decimal.Decimal{alice.ID: dec("40")},
		}))
		require.NoError(t, err)

		for _, s := range resp.Msg.Splits {
			want := dec("30")
			if s.MemberID == alice.ID {
				want = dec("40")
			}
			assert.True(t, s.Amount.Equal(want), "%s: %s", s.MemberName, s.Amount)
		}
	})

	t.Run("fixed shares exceed total", func(t *testing.T) {
		_, err := c.expenses.CalculateSplit(ctx, connect.NewRequest(&api.CalculateSplitRequest{
			TotalAmount: dec("10"),
			MemberIDs:   []string{alice.ID, bob.ID},
			FixedShares: map[string]decimal.Decimal{alice.ID: dec("11")},
		}))
		requireCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("too little to share", func(t *testing.T) {
		_, err := c.expenses.CalculateSplit(ctx, connect.NewRequest(&api.CalculateSplitRequest{
			TotalAmount: dec("0.02"),
			MemberIDs:   []string{alice.ID, bob.ID, carol.ID},
		}))
		requireCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("unknown member", func(t *testing.T) {
		_, err := c.expenses.CalculateSplit(ctx, connect.NewRequest(&api.CalculateSplitRequest{
			TotalAmount: dec("10"),
			MemberIDs:   []string{alice.ID, "missing"},
		}))
		requireCode(t, err, connect.CodeNotFound)
	})
}

func TestGetInsights(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	alice := c.addMember(t, "Alice")
	bob := c.addMember(t, "Bob")
	c.addExpense(t, "Food", alice, 10, map[*api.Member]string{alice: "30", bob: "30"})
	c.addExpense(t, "Rent", bob, 20, map[*api.Member]string{alice: "100", bob: "100"})
	c.addExpense(t, "Food", bob, 30, map[*api.Member]string{alice: "15"})

	_, err := c.balances.SettleDue(ctx, connect.NewRequest(&api.SettleDueRequest{
		FromID: alice.ID, ToID: bob.ID, Amount: dec("85"), PaidThrough: "Cash",
	}))
	require.NoError(t, err)

	resp, err := c.expenses.GetInsights(ctx, connect.NewRequest(&api.GetInsightsRequest{}))
	require.NoError(t, err)

	insights := resp.Msg
	assert.Equal(t, int64(3), insights.Count)
	assert.True(t, insights.Total.Equal(dec("275")), "total %s", insights.Total)

	require.Len(t, insights.ByType, 2)
	assert.Equal(t, "Rent", insights.ByType[0].Label)
	assert.True(t, insights.ByType[0].Amount.Equal(dec("200")))
	assert.Equal(t, "Food", insights.ByType[1].Label)
	assert.True(t, insights.ByType[1].Amount.Equal(dec("75")))

	require.Len(t, insights.ByPayer, 2)
	assert.Equal(t, "Bob", insights.ByPayer[0].Label)
	assert.True(t, insights.ByPayer[0].Amount.Equal(dec("215")))

	require.Len(t, insights.ByChannel, 1)
	assert.Equal(t, "UPI", insights.ByChannel[0].Label)

	for _, total := range insights.ByType {
		assert.NotEqual(t, models.SettleDueType, total.Label)
	}

	filtered, err := c.expenses.GetInsights(ctx, connect.NewRequest(&api.GetInsightsRequest{
		Filter: &api.ExpenseFilter{Type: "food"},
	}))
	require.NoError(t, err)
	assert.Equal(t, int64(2), filtered.Msg.Count)
}
