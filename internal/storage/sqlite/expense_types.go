package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/dues/internal/models"
	"github.com/mmynk/dues/internal/storage"
)

// CreateExpenseType inserts a new expense type.
func (s *SQLiteStore) CreateExpenseType(ctx context.Context, expenseType *models.ExpenseType) error {
	if expenseType.ID == "" {
		expenseType.ID = uuid.New().String()
	}
	if expenseType.CreatedAt == 0 {
		expenseType.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO expense_types (id, name, created_at) VALUES (?, ?, ?)",
		expenseType.ID, expenseType.Name, expenseType.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("expense type %q: %w", expenseType.Name, storage.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("failed to insert expense type: %w", err)
	}
	return nil
}

// GetExpenseType retrieves an expense type by ID.
func (s *SQLiteStore) GetExpenseType(ctx context.Context, typeID string) (*models.ExpenseType, error) {
	t := &models.ExpenseType{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM expense_types WHERE id = ?",
		typeID,
	).Scan(&t.ID, &t.Name, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense type %s: %w", typeID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense type: %w", err)
	}
	return t, nil
}

// ListExpenseTypes retrieves all expense types ordered by name.
func (s *SQLiteStore) ListExpenseTypes(ctx context.Context) ([]*models.ExpenseType, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM expense_types ORDER BY name COLLATE NOCASE, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense types: %w", err)
	}
	defer rows.Close()

	var types []*models.ExpenseType
	for rows.Next() {
		t := &models.ExpenseType{}
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense type: %w", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense types: %w", err)
	}
	return types, nil
}

// DeleteExpenseType removes an expense type by ID.
func (s *SQLiteStore) DeleteExpenseType(ctx context.Context, typeID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expense_types WHERE id = ?", typeID)
	if err != nil {
		return fmt.Errorf("failed to delete expense type: %w", err)
	}
	return requireAffected(res, "expense type", typeID)
}

// CountExpensesByType counts expenses recorded under the type name.
func (s *SQLiteStore) CountExpensesByType(ctx context.Context, name string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM expenses WHERE type = ? COLLATE NOCASE",
		name,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count expenses by type: %w", err)
	}
	return count, nil
}
