package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/dues/internal/calculator"
	"github.com/mmynk/dues/internal/metrics"
	"github.com/mmynk/dues/internal/models"
	"github.com/mmynk/dues/internal/storage"
)

// Dues is the simplified state of every outstanding obligation.
type Dues struct {
	// Dues are ordered by payer ID, then payee ID.
	Dues []models.Due

	// Balances holds one entry per member, ordered by name.
	Balances []models.MemberBalance

	// Settlements are the raw calculator transfers behind Dues.
	Settlements []calculator.Settlement
}

// ComputeDues loads every expense and simplifies the resulting debts into
// the fewest transfers the greedy settlement finds.
func ComputeDues(ctx context.Context, store storage.Store, places int32) (*Dues, error) {
	members, err := store.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	expenses, _, err := store.ListExpenses(ctx, models.ExpenseFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	res, err := calculator.SimplifyExpenses(forBalance(expenses), places)
	if err != nil {
		switch {
		case errors.Is(err, calculator.ErrInvalidInput):
			metrics.SimplifyErrors.WithLabelValues("invalid_input").Inc()
		case errors.Is(err, calculator.ErrInvariantViolation):
			metrics.SimplifyErrors.WithLabelValues("invariant_violation").Inc()
		}
		return nil, fmt.Errorf("failed to simplify debts: %w", err)
	}
	metrics.SettlementsGenerated.Observe(float64(len(res.Settlements)))

	refs := make(map[string]models.MemberRef, len(members))
	for _, m := range members {
		refs[m.ID] = m.Ref()
	}
	ref := func(id string) models.MemberRef {
		if r, ok := refs[id]; ok {
			return r
		}
		return models.MemberRef{ID: id}
	}

	out := &Dues{
		Dues:        make([]models.Due, 0, len(res.Settlements)),
		Balances:    make([]models.MemberBalance, 0, len(members)),
		Settlements: res.Settlements,
	}
	for _, s := range res.Settlements {
		out.Dues = append(out.Dues, models.Due{From: ref(s.From), To: ref(s.To), Amount: s.Amount})
	}

	toPay, toReceive := calculator.Totals(res.Settlements)
	for _, m := range members {
		out.Balances = append(out.Balances, models.MemberBalance{
			Member:    m.Ref(),
			Net:       res.Balances.Get(m.ID).Round(places),
			ToPay:     orZero(toPay, m.ID),
			ToReceive: orZero(toReceive, m.ID),
		})
	}
	return out, nil
}

func forBalance(expenses []*models.Expense) []calculator.ExpenseForBalance {
	out := make([]calculator.ExpenseForBalance, len(expenses))
	for i, e := range expenses {
		shares := make([]calculator.SplitShare, len(e.Splits))
		for j, s := range e.Splits {
			shares[j] = calculator.SplitShare{MemberID: s.Member.ID, Amount: s.Amount}
		}
		out[i] = calculator.ExpenseForBalance{PayerID: e.PaidBy.ID, Splits: shares}
	}
	return out
}

func orZero(m map[string]decimal.Decimal, key string) decimal.Decimal {
	if v, ok := m[key]; ok {
		return v
	}
	return decimal.Zero
}
