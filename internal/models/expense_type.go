package models

// SettleDueType is the reserved expense type used to record a payment that
// settles a due. Expenses of this type are excluded from spending insights.
const SettleDueType = "Settle Due"

// ExpenseType is a user-defined expense category.
type ExpenseType struct {
	// ID is the unique identifier for the type (UUID format).
	ID string

	// Name is unique case-insensitively.
	Name string

	// CreatedAt is the Unix timestamp when the type was created.
	CreatedAt int64
}
