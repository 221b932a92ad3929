package calculator

import "github.com/shopspring/decimal"

// Involves reports whether the member pays or receives in any settlement.
// A member that is not involved has nothing outstanding and is safe to remove.
func Involves(settlements []Settlement, memberID string) bool {
	for _, s := range settlements {
		if s.From == memberID || s.To == memberID {
			return true
		}
	}
	return false
}

// Totals sums, per member, what they have to pay and what they will receive.
func Totals(settlements []Settlement) (toPay, toReceive map[string]decimal.Decimal) {
	toPay = make(map[string]decimal.Decimal)
	toReceive = make(map[string]decimal.Decimal)
	for _, s := range settlements {
		toPay[s.From] = toPay[s.From].Add(s.Amount)
		toReceive[s.To] = toReceive[s.To].Add(s.Amount)
	}
	return toPay, toReceive
}

// GroupByDebtor groups settlements by the paying member, keeping input order
// within each group.
func GroupByDebtor(settlements []Settlement) map[string][]Settlement {
	grouped := make(map[string][]Settlement)
	for _, s := range settlements {
		grouped[s.From] = append(grouped[s.From], s)
	}
	return grouped
}

// ExpenseForInsight is the minimal view of an expense needed for spending totals.
type ExpenseForInsight struct {
	Type        string
	PayerID     string
	PaidThrough string
	Amount      decimal.Decimal
}

// Insights aggregates spending across a set of expenses.
type Insights struct {
	Count     int
	Total     decimal.Decimal
	ByType    map[string]decimal.Decimal
	ByPayer   map[string]decimal.Decimal
	ByChannel map[string]decimal.Decimal
}

// Summarize totals expenses by type, payer and payment channel, skipping any
// expense whose type is listed in exclude.
func Summarize(expenses []ExpenseForInsight, exclude ...string) Insights {
	skip := make(map[string]bool, len(exclude))
	for _, t := range exclude {
		skip[t] = true
	}

	out := Insights{
		Total:     decimal.Zero,
		ByType:    make(map[string]decimal.Decimal),
		ByPayer:   make(map[string]decimal.Decimal),
		ByChannel: make(map[string]decimal.Decimal),
	}
	for _, e := range expenses {
		if skip[e.Type] {
			continue
		}
		out.Count++
		out.Total = out.Total.Add(e.Amount)
		out.ByType[e.Type] = out.ByType[e.Type].Add(e.Amount)
		out.ByPayer[e.PayerID] = out.ByPayer[e.PayerID].Add(e.Amount)
		out.ByChannel[e.PaidThrough] = out.ByChannel[e.PaidThrough].Add(e.Amount)
	}
	return out
}
