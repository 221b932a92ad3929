// Package storagetest holds a behavioural test suite shared by every
// storage.Store implementation.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/dues/internal/models"
	"github.com/mmynk/dues/internal/storage"
)

// Factory returns an empty store. The suite closes it when the test ends.
type Factory func(t *testing.T) storage.Store

// Run exercises the full storage.Store contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("Members", func(t *testing.T) { testMembers(t, newStore) })
	t.Run("ExpenseTypes", func(t *testing.T) { testExpenseTypes(t, newStore) })
	t.Run("Expenses", func(t *testing.T) { testExpenses(t, newStore) })
	t.Run("ListExpenses", func(t *testing.T) { testListExpenses(t, newStore) })
}

func open(t *testing.T, newStore Factory) storage.Store {
	t.Helper()
	store := newStore(t)
	t.Cleanup(func() { store.Close() })
	return store
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// AddMember creates a member and fails the test on error.
func AddMember(t *testing.T, store storage.Store, name string) *models.Member {
	t.Helper()
	m := &models.Member{Name: name}
	require.NoError(t, store.CreateMember(context.Background(), m))
	return m
}

// AddExpense records an expense of the given type paid by payer and split
// evenly in whole units among members.
func AddExpense(t *testing.T, store storage.Store, payer *models.Member, typ string, date int64, shares map[*models.Member]string) *models.Expense {
	t.Helper()
	e := &models.Expense{
		Type:        typ,
		PaidBy:      payer.Ref(),
		PaidThrough: "UPI",
		Date:        date,
		TotalAmount: decimal.Zero,
	}
	for m, amount := range shares {
		e.Splits = append(e.Splits, models.Split{Member: m.Ref(), Amount: dec(amount)})
		e.TotalAmount = e.TotalAmount.Add(dec(amount))
	}
	require.NoError(t, store.CreateExpense(context.Background(), e))
	return e
}

func testMembers(t *testing.T, newStore Factory) {
	ctx := context.Background()

	t.Run("create generates ID and CreatedAt", func(t *testing.T) {
		store := open(t, newStore)
		m := &models.Member{Name: "Alice"}
		require.NoError(t, store.CreateMember(ctx, m))
		assert.NotEmpty(t, m.ID)
		assert.NotZero(t, m.CreatedAt)

		got, err := store.GetMember(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", got.Name)
		assert.Equal(t, m.CreatedAt, got.CreatedAt)
	})

	t.Run("names are unique case-insensitively", func(t *testing.T) {
		store := open(t, newStore)
		AddMember(t, store, "Alice")
		err := store.CreateMember(ctx, &models.Member{Name: "aLiCe"})
		assert.ErrorIs(t, err, storage.ErrAlreadyExists)
	})

	t.Run("get unknown member", func(t *testing.T) {
		store := open(t, newStore)
		_, err := store.GetMember(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("list is sorted by name", func(t *testing.T) {
		store := open(t, newStore)
		AddMember(t, store, "carol")
		AddMember(t, store, "Bob")
		AddMember(t, store, "alice")

		members, err := store.ListMembers(ctx)
		require.NoError(t, err)
		require.Len(t, members, 3)
		assert.Equal(t, "alice", members[0].Name)
		assert.Equal(t, "Bob", members[1].Name)
		assert.Equal(t, "carol", members[2].Name)
	})

	t.Run("delete", func(t *testing.T) {
		store := open(t, newStore)
		m := AddMember(t, store, "Alice")
		require.NoError(t, store.DeleteMember(ctx, m.ID))

		_, err := store.GetMember(ctx, m.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, store.DeleteMember(ctx, m.ID), storage.ErrNotFound)
	})

	t.Run("count expenses as payer or split member", func(t *testing.T) {
		store := open(t, newStore)
		alice := AddMember(t, store, "Alice")
		bob := AddMember(t, store, "Bob")
		carol := AddMember(t, store, "Carol")
		dave := AddMember(t, store, "Dave")

		AddExpense(t, store, alice, "Food", 100, map[*models.Member]string{alice: "10", bob: "10"})
		AddExpense(t, store, bob, "Food", 200, map[*models.Member]string{carol: "5"})

		for member, want := range map[*models.Member]int{alice: 1, bob: 2, carol: 1, dave: 0} {
			got, err := store.CountMemberExpenses(ctx, member.ID)
			require.NoError(t, err)
			assert.Equal(t, want, got, member.Name)
		}
	})
}

func testExpenseTypes(t *testing.T, newStore Factory) {
	ctx := context.Background()

	t.Run("create, list and delete", func(t *testing.T) {
		store := open(t, newStore)
		rent := &models.ExpenseType{Name: "Rent"}
		require.NoError(t, store.CreateExpenseType(ctx, rent))
		require.NoError(t, store.CreateExpenseType(ctx, &models.ExpenseType{Name: "groceries"}))
		assert.NotEmpty(t, rent.ID)

		types, err := store.ListExpenseTypes(ctx)
		require.NoError(t, err)
		require.Len(t, types, 2)
		assert.Equal(t, "groceries", types[0].Name)
		assert.Equal(t, "Rent", types[1].Name)

		got, err := store.GetExpenseType(ctx, rent.ID)
		require.NoError(t, err)
		assert.Equal(t, "Rent", got.Name)

		require.NoError(t, store.DeleteExpenseType(ctx, rent.ID))
		_, err = store.GetExpenseType(ctx, rent.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, store.DeleteExpenseType(ctx, rent.ID), storage.ErrNotFound)
	})

	t.Run("names are unique case-insensitively", func(t *testing.T) {
		store := open(t, newStore)
		require.NoError(t, store.CreateExpenseType(ctx, &models.ExpenseType{Name: "Rent"}))
		err := store.CreateExpenseType(ctx, &models.ExpenseType{Name: "RENT"})
		assert.ErrorIs(t, err, storage.ErrAlreadyExists)
	})

	t.Run("count expenses by type", func(t *testing.T) {
		store := open(t, newStore)
		alice := AddMember(t, store, "Alice")
		bob := AddMember(t, store, "Bob")
		AddExpense(t, store, alice, "Rent", 100, map[*models.Member]string{bob: "10"})
		AddExpense(t, store, alice, "rent", 200, map[*models.Member]string{bob: "10"})
		AddExpense(t, store, alice, "Rental car", 300, map[*models.Member]string{bob: "10"})

		n, err := store.CountExpensesByType(ctx, "RENT")
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})
}

func testExpenses(t *testing.T, newStore Factory) {
	ctx := context.Background()

	t.Run("round trip keeps splits and names", func(t *testing.T) {
		store := open(t, newStore)
		alice := AddMember(t, store, "Alice")
		bob := AddMember(t, store, "Bob")
		carol := AddMember(t, store, "Carol")

		e := &models.Expense{
			Type:        "Groceries",
			OtherInfo:   "weekly shop",
			TotalAmount: dec("100.01"),
			PaidBy:      alice.Ref(),
			PaidThrough: "Card",
			Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).Unix(),
			Splits: []models.Split{
				{Member: carol.Ref(), Amount: dec("33.33")},
				{Member: alice.Ref(), Amount: dec("33.34")},
				{Member: bob.Ref(), Amount: dec("33.34")},
			},
		}
		require.NoError(t, store.CreateExpense(ctx, e))
		assert.NotEmpty(t, e.ID)
		assert.NotZero(t, e.CreatedAt)

		got, err := store.GetExpense(ctx, e.ID)
		require.NoError(t, err)
		assert.Equal(t, "Groceries", got.Type)
		assert.Equal(t, "weekly shop", got.OtherInfo)
		assert.True(t, got.TotalAmount.Equal(dec("100.01")), "total %s", got.TotalAmount)
		assert.Equal(t, alice.Ref(), got.PaidBy)
		assert.Equal(t, "Card", got.PaidThrough)
		assert.Equal(t, e.Date, got.Date)

		require.Len(t, got.Splits, 3)
		assert.Equal(t, carol.Ref(), got.Splits[0].Member)
		assert.True(t, got.Splits[0].Amount.Equal(dec("33.33")))
		assert.Equal(t, alice.Ref(), got.Splits[1].Member)
		assert.Equal(t, bob.Ref(), got.Splits[2].Member)
	})

	t.Run("delete", func(t *testing.T) {
		store := open(t, newStore)
		alice := AddMember(t, store, "Alice")
		bob := AddMember(t, store, "Bob")
		e := AddExpense(t, store, alice, "Food", 100, map[*models.Member]string{bob: "10"})

		require.NoError(t, store.DeleteExpense(ctx, e.ID))
		_, err := store.GetExpense(ctx, e.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, store.DeleteExpense(ctx, e.ID), storage.ErrNotFound)

		n, err := store.CountMemberExpenses(ctx, bob.ID)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func testListExpenses(t *testing.T, newStore Factory) {
	ctx := context.Background()
	store := open(t, newStore)

	alice := AddMember(t, store, "Alice")
	bob := AddMember(t, store, "Bob")

	day := func(d int) int64 { return time.Date(2024, 1, d, 12, 0, 0, 0, time.UTC).Unix() }
	AddExpense(t, store, alice, "Groceries", day(1), map[*models.Member]string{bob: "10"})
	AddExpense(t, store, bob, "Rent", day(2), map[*models.Member]string{alice: "500"})
	AddExpense(t, store, alice, "Online groceries", day(3), map[*models.Member]string{bob: "20"})
	cash := &models.Expense{
		Type:        "Fuel",
		TotalAmount: dec("40"),
		PaidBy:      bob.Ref(),
		PaidThrough: "Cash",
		Date:        day(4),
		Splits:      []models.Split{{Member: alice.Ref(), Amount: dec("40")}},
	}
	require.NoError(t, store.CreateExpense(ctx, cash))

	types := func(expenses []*models.Expense) []string {
		out := make([]string, len(expenses))
		for i, e := range expenses {
			out[i] = e.Type
		}
		return out
	}

	tests := []struct {
		name      string
		filter    models.ExpenseFilter
		wantTypes []string
		wantTotal int
	}{
		{
			name:      "all, newest first",
			wantTypes: []string{"Fuel", "Online groceries", "Rent", "Groceries"},
			wantTotal: 4,
		},
		{
			name:      "inclusive date range",
			filter:    models.ExpenseFilter{StartDate: day(2), EndDate: day(3)},
			wantTypes: []string{"Online groceries", "Rent"},
			wantTotal: 2,
		},
		{
			name:      "paid by",
			filter:    models.ExpenseFilter{PaidBy: alice.ID},
			wantTypes: []string{"Online groceries", "Groceries"},
			wantTotal: 2,
		},
		{
			name:      "type substring ignores case",
			filter:    models.ExpenseFilter{Type: "GROCER"},
			wantTypes: []string{"Online groceries", "Groceries"},
			wantTotal: 2,
		},
		{
			name:      "paid through",
			filter:    models.ExpenseFilter{PaidThrough: "Cash"},
			wantTypes: []string{"Fuel"},
			wantTotal: 1,
		},
		{
			name:      "first page",
			filter:    models.ExpenseFilter{Limit: 3},
			wantTypes: []string{"Fuel", "Online groceries", "Rent"},
			wantTotal: 4,
		},
		{
			name:      "second page",
			filter:    models.ExpenseFilter{Offset: 3, Limit: 3},
			wantTypes: []string{"Groceries"},
			wantTotal: 4,
		},
		{
			name:      "no match",
			filter:    models.ExpenseFilter{Type: "travel"},
			wantTypes: []string{},
			wantTotal: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := store.ListExpenses(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)
			assert.Equal(t, tt.wantTypes, types(got))
			for _, e := range got {
				assert.NotEmpty(t, e.Splits, "expense %s has no splits", e.ID)
				assert.NotEmpty(t, e.PaidBy.Name)
			}
		})
	}
}
