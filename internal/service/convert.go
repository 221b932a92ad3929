package service

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/dues/internal/models"
	"github.com/mmynk/dues/pkg/api"
)

func toAPIMember(m *models.Member) *api.Member {
	return &api.Member{ID: m.ID, Name: m.Name, CreatedAt: m.CreatedAt}
}

func toAPIExpenseType(t *models.ExpenseType) *api.ExpenseType {
	return &api.ExpenseType{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt}
}

func toAPIExpense(e *models.Expense) *api.Expense {
	splits := make([]*api.Split, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = &api.Split{MemberID: s.Member.ID, MemberName: s.Member.Name, Amount: s.Amount}
	}
	return &api.Expense{
		ID:          e.ID,
		Type:        e.Type,
		OtherInfo:   e.OtherInfo,
		TotalAmount: e.TotalAmount,
		PaidByID:    e.PaidBy.ID,
		PaidByName:  e.PaidBy.Name,
		PaidThrough: e.PaidThrough,
		Date:        e.Date,
		Splits:      splits,
		CreatedAt:   e.CreatedAt,
	}
}

func toAPIDue(d models.Due) *api.Due {
	return &api.Due{
		FromID:   d.From.ID,
		FromName: d.From.Name,
		ToID:     d.To.ID,
		ToName:   d.To.Name,
		Amount:   d.Amount,
	}
}

func toAPIBalance(b models.MemberBalance) *api.MemberBalance {
	return &api.MemberBalance{
		MemberID:   b.Member.ID,
		MemberName: b.Member.Name,
		Net:        b.Net,
		ToPay:      b.ToPay,
		ToReceive:  b.ToReceive,
	}
}

func toModelFilter(f *api.ExpenseFilter) models.ExpenseFilter {
	if f == nil {
		return models.ExpenseFilter{}
	}
	return models.ExpenseFilter{
		StartDate:   f.StartDate,
		EndDate:     f.EndDate,
		PaidBy:      f.PaidByID,
		Type:        f.Type,
		PaidThrough: f.PaidThrough,
	}
}

// toTotals orders totals by amount, largest first, then label. label maps
// keys to display labels; keys without an entry are shown as is.
func toTotals(amounts map[string]decimal.Decimal, label map[string]string) []*api.Total {
	out := make([]*api.Total, 0, len(amounts))
	for key, amount := range amounts {
		name := key
		if l, ok := label[key]; ok {
			name = l
		}
		out = append(out, &api.Total{Label: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Label < out[j].Label
	})
	return out
}
