// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/dues/internal/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("storage: not found")

	// ErrAlreadyExists is returned when a record with the same unique key
	// (e.g. a case-insensitive member name) already exists.
	ErrAlreadyExists = errors.New("storage: already exists")
)

// MemberStore persists members.
type MemberStore interface {
	// CreateMember persists a new member. The member.ID and member.CreatedAt
	// fields are populated by the store when empty.
	CreateMember(ctx context.Context, member *models.Member) error

	// GetMember returns ErrNotFound when no member has the ID.
	GetMember(ctx context.Context, memberID string) (*models.Member, error)

	// ListMembers returns all members ordered by name, case-insensitively.
	ListMembers(ctx context.Context) ([]*models.Member, error)

	// DeleteMember removes a member. It does not check expense references;
	// callers use CountMemberExpenses first.
	DeleteMember(ctx context.Context, memberID string) error

	// CountMemberExpenses counts expenses the member paid for or shares in.
	CountMemberExpenses(ctx context.Context, memberID string) (int, error)
}

// ExpenseTypeStore persists expense types.
type ExpenseTypeStore interface {
	CreateExpenseType(ctx context.Context, expenseType *models.ExpenseType) error
	GetExpenseType(ctx context.Context, typeID string) (*models.ExpenseType, error)

	// ListExpenseTypes returns all types ordered by name, case-insensitively.
	ListExpenseTypes(ctx context.Context) ([]*models.ExpenseType, error)
	DeleteExpenseType(ctx context.Context, typeID string) error

	// CountExpensesByType counts expenses whose type equals name,
	// case-insensitively.
	CountExpensesByType(ctx context.Context, name string) (int, error)
}

// ExpenseStore persists expenses and their splits.
type ExpenseStore interface {
	// CreateExpense persists an expense with all of its splits atomically.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense returns the expense with member names resolved.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	DeleteExpense(ctx context.Context, expenseID string) error

	// ListExpenses returns one page of expenses matching the filter, newest
	// first, along with the total number of matches ignoring Offset and Limit.
	ListExpenses(ctx context.Context, filter models.ExpenseFilter) ([]*models.Expense, int, error)
}

// Store defines the interface for all dues storage operations.
// This abstraction allows swapping storage backends (SQLite, MongoDB, memory)
// without changing the service layer.
type Store interface {
	MemberStore
	ExpenseTypeStore
	ExpenseStore

	// Close releases any resources held by the store.
	Close() error
}
