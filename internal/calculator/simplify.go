package calculator

// Result is the outcome of a full simplification: the net balances the
// settlements were derived from, and the formatted settlements themselves.
type Result struct {
	Balances    Balances
	Settlements []Settlement
}

// SimplifyDebts collapses raw debts into the formatted set of net transfers
// at DefaultPlaces precision.
func SimplifyDebts(debts []RawDebt) ([]Settlement, error) {
	res, err := simplify(debts, DefaultPlaces)
	if err != nil {
		return nil, err
	}
	return res.Settlements, nil
}

// SimplifyDebtsWithPrecision is SimplifyDebts with an explicit minor-unit precision.
func SimplifyDebtsWithPrecision(debts []RawDebt, places int32) ([]Settlement, error) {
	res, err := simplify(debts, places)
	if err != nil {
		return nil, err
	}
	return res.Settlements, nil
}

// SimplifyExpenses runs the whole pipeline: extract, aggregate, generate, format.
func SimplifyExpenses(expenses []ExpenseForBalance, places int32) (*Result, error) {
	return simplify(ExtractDebts(expenses), places)
}

func simplify(debts []RawDebt, places int32) (*Result, error) {
	balances, err := AggregateBalances(debts)
	if err != nil {
		return nil, err
	}

	generated, err := GenerateSettlements(balances)
	if err != nil {
		return nil, err
	}

	settlements, err := FormatSettlements(generated, balances, places)
	if err != nil {
		return nil, err
	}

	return &Result{Balances: balances, Settlements: settlements}, nil
}
