package api

type ExpenseType struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"`
}

type ListExpenseTypesRequest struct{}

type ListExpenseTypesResponse struct {
	Types []*ExpenseType `json:"types"`
}

type AddExpenseTypeRequest struct {
	Name string `json:"name"`
}

type AddExpenseTypeResponse struct {
	Type *ExpenseType `json:"type"`
}

type DeleteExpenseTypeRequest struct {
	TypeID string `json:"typeId"`
}

type DeleteExpenseTypeResponse struct{}
