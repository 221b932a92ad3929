package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/dues/internal/models"
	"github.com/mmynk/dues/internal/storage"
)

const expenseColumns = `e.id, e.type, e.other_info, e.total_amount, e.paid_by, m.name,
	e.paid_through, e.date, e.created_at`

// CreateExpense persists an expense and its splits in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, type, other_info, total_amount, paid_by, paid_through, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Type, expense.OtherInfo, expense.TotalAmount.String(),
		expense.PaidBy.ID, expense.PaidThrough, expense.Date, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, split := range expense.Splits {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_splits (expense_id, member_id, amount, position) VALUES (?, ?, ?, ?)",
			expense.ID, split.Member.ID, split.Amount.String(), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense by ID, including its splits.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses e JOIN members m ON m.id = e.paid_by WHERE e.id = ?",
		expenseID,
	)
	expense, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := s.loadSplits(ctx, []*models.Expense{expense}); err != nil {
		return nil, err
	}
	return expense, nil
}

// DeleteExpense removes an expense; its splits cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return requireAffected(res, "expense", expenseID)
}

// ListExpenses retrieves a page of expenses matching the filter, newest first.
func (s *SQLiteStore) ListExpenses(ctx context.Context, filter models.ExpenseFilter) ([]*models.Expense, int, error) {
	where, args := filterClause(filter)

	var total int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM expenses e"+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	// SQLite treats a negative LIMIT as unbounded.
	limit := -1
	if filter.Limit > 0 {
		limit = filter.Limit
	}
	query := "SELECT " + expenseColumns + " FROM expenses e JOIN members m ON m.id = e.paid_by" + where +
		" ORDER BY e.date DESC, e.created_at DESC, e.id DESC LIMIT ? OFFSET ?"
	rows, err := s.db.QueryContext(ctx, query, append(args, limit, filter.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	if err := s.loadSplits(ctx, expenses); err != nil {
		return nil, 0, err
	}
	return expenses, total, nil
}

// filterClause builds the WHERE clause for an expense filter. Columns are
// qualified with the "e" alias.
func filterClause(filter models.ExpenseFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.StartDate != 0 {
		conds = append(conds, "e.date >= ?")
		args = append(args, filter.StartDate)
	}
	if filter.EndDate != 0 {
		conds = append(conds, "e.date <= ?")
		args = append(args, filter.EndDate)
	}
	if filter.PaidBy != "" {
		conds = append(conds, "e.paid_by = ?")
		args = append(args, filter.PaidBy)
	}
	if filter.Type != "" {
		conds = append(conds, "instr(lower(e.type), lower(?)) > 0")
		args = append(args, filter.Type)
	}
	if filter.PaidThrough != "" {
		conds = append(conds, "e.paid_through = ?")
		args = append(args, filter.PaidThrough)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner) (*models.Expense, error) {
	expense := &models.Expense{}
	err := row.Scan(
		&expense.ID,
		&expense.Type,
		&expense.OtherInfo,
		&expense.TotalAmount,
		&expense.PaidBy.ID,
		&expense.PaidBy.Name,
		&expense.PaidThrough,
		&expense.Date,
		&expense.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// splitBatchSize bounds the IN list of one splits query, well under
// SQLite's limit on bound variables per statement.
var splitBatchSize = 500

// loadSplits fills in the splits of every expense, one query per batch of
// splitBatchSize expenses.
func (s *SQLiteStore) loadSplits(ctx context.Context, expenses []*models.Expense) error {
	byID := make(map[string]*models.Expense, len(expenses))
	for _, e := range expenses {
		byID[e.ID] = e
	}

	for start := 0; start < len(expenses); start += splitBatchSize {
		batch := expenses[start:min(start+splitBatchSize, len(expenses))]
		if err := s.loadSplitBatch(ctx, batch, byID); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) loadSplitBatch(ctx context.Context, batch []*models.Expense, byID map[string]*models.Expense) error {
	args := make([]any, len(batch))
	for i, e := range batch {
		args[i] = e.ID
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT s.expense_id, s.member_id, m.name, s.amount
		 FROM expense_splits s JOIN members m ON m.id = s.member_id
		 WHERE s.expense_id IN (`+placeholders(len(args))+`)
		 ORDER BY s.expense_id, s.position`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var expenseID string
		var split models.Split
		if err := rows.Scan(&expenseID, &split.Member.ID, &split.Member.Name, &split.Amount); err != nil {
			return fmt.Errorf("failed to scan split: %w", err)
		}
		if e, ok := byID[expenseID]; ok {
			e.Splits = append(e.Splits, split)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate splits: %w", err)
	}
	return nil
}
