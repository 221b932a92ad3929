// Package memory provides an in-process storage.Store for tests and demos.
// Nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/dues/internal/models"
	"github.com/mmynk/dues/internal/storage"
)

var _ storage.Store = (*Store)(nil)

type Store struct {
	mu sync.RWMutex

	members  map[string]*models.Member
	types    map[string]*models.ExpenseType
	expenses map[string]*models.Expense
}

func New() *Store {
	return &Store{
		members:  make(map[string]*models.Member),
		types:    make(map[string]*models.ExpenseType),
		expenses: make(map[string]*models.Expense),
	}
}

func (s *Store) Close() error { return nil }

// Member Store implementation
func (s *Store) CreateMember(_ context.Context, member *models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.members {
		if strings.EqualFold(m.Name, member.Name) {
			return fmt.Errorf("member %q: %w", member.Name, storage.ErrAlreadyExists)
		}
	}
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if member.CreatedAt == 0 {
		member.CreatedAt = time.Now().Unix()
	}
	cp := *member
	s.members[member.ID] = &cp
	return nil
}

func (s *Store) GetMember(_ context.Context, memberID string) (*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if m, ok := s.members[memberID]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, fmt.Errorf("member %s: %w", memberID, storage.ErrNotFound)
}

func (s *Store) ListMembers(_ context.Context) ([]*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Member, 0, len(s.members))
	for _, m := range s.members {
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return byName(out[i].Name, out[i].ID, out[j].Name, out[j].ID) })
	return out, nil
}

func (s *Store) DeleteMember(_ context.Context, memberID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[memberID]; !ok {
		return fmt.Errorf("member %s: %w", memberID, storage.ErrNotFound)
	}
	delete(s.members, memberID)
	return nil
}

func (s *Store) CountMemberExpenses(_ context.Context, memberID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, e := range s.expenses {
		if e.Involves(memberID) {
			n++
		}
	}
	return n, nil
}

// Expense Type Store implementation
func (s *Store) CreateExpenseType(_ context.Context, expenseType *models.ExpenseType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.types {
		if strings.EqualFold(t.Name, expenseType.Name) {
			return fmt.Errorf("expense type %q: %w", expenseType.Name, storage.ErrAlreadyExists)
		}
	}
	if expenseType.ID == "" {
		expenseType.ID = uuid.New().String()
	}
	if expenseType.CreatedAt == 0 {
		expenseType.CreatedAt = time.Now().Unix()
	}
	cp := *expenseType
	s.types[expenseType.ID] = &cp
	return nil
}

func (s *Store) GetExpenseType(_ context.Context, typeID string) (*models.ExpenseType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if t, ok := s.types[typeID]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, fmt.Errorf("expense type %s: %w", typeID, storage.ErrNotFound)
}

func (s *Store) ListExpenseTypes(_ context.Context) ([]*models.ExpenseType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.ExpenseType, 0, len(s.types))
	for _, t := range s.types {
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return byName(out[i].Name, out[i].ID, out[j].Name, out[j].ID) })
	return out, nil
}

func (s *Store) DeleteExpenseType(_ context.Context, typeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.types[typeID]; !ok {
		return fmt.Errorf("expense type %s: %w", typeID, storage.ErrNotFound)
	}
	delete(s.types, typeID)
	return nil
}

func (s *Store) CountExpensesByType(_ context.Context, name string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, e := range s.expenses {
		if strings.EqualFold(e.Type, name) {
			n++
		}
	}
	return n, nil
}

// Expense Store implementation
func (s *Store) CreateExpense(_ context.Context, expense *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[expense.PaidBy.ID]; !ok {
		return fmt.Errorf("payer %s: %w", expense.PaidBy.ID, storage.ErrNotFound)
	}
	for _, split := range expense.Splits {
		if _, ok := s.members[split.Member.ID]; !ok {
			return fmt.Errorf("split member %s: %w", split.Member.ID, storage.ErrNotFound)
		}
	}
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	s.expenses[expense.ID] = cloneExpense(expense)
	return nil
}

func (s *Store) GetExpense(_ context.Context, expenseID string) (*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.expenses[expenseID]; ok {
		return s.resolve(e), nil
	}
	return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
}

func (s *Store) DeleteExpense(_ context.Context, expenseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.expenses[expenseID]; !ok {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	delete(s.expenses, expenseID)
	return nil
}

func (s *Store) ListExpenses(_ context.Context, filter models.ExpenseFilter) ([]*models.Expense, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*models.Expense
	for _, e := range s.expenses {
		if matches(e, filter) {
			matched = append(matched, e)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.Date != b.Date {
			return a.Date > b.Date
		}
		if a.CreatedAt != b.CreatedAt {
			return a.CreatedAt > b.CreatedAt
		}
		return a.ID > b.ID
	})

	total := len(matched)
	start := min(filter.Offset, total)
	end := total
	if filter.Limit > 0 {
		end = min(start+filter.Limit, total)
	}

	out := make([]*models.Expense, 0, end-start)
	for _, e := range matched[start:end] {
		out = append(out, s.resolve(e))
	}
	return out, total, nil
}

func matches(e *models.Expense, f models.ExpenseFilter) bool {
	switch {
	case f.StartDate != 0 && e.Date < f.StartDate:
		return false
	case f.EndDate != 0 && e.Date > f.EndDate:
		return false
	case f.PaidBy != "" && e.PaidBy.ID != f.PaidBy:
		return false
	case f.Type != "" && !strings.Contains(strings.ToLower(e.Type), strings.ToLower(f.Type)):
		return false
	case f.PaidThrough != "" && e.PaidThrough != f.PaidThrough:
		return false
	}
	return true
}

// resolve returns a copy of the expense with member names filled in from
// the member table. Callers must hold the read lock.
func (s *Store) resolve(e *models.Expense) *models.Expense {
	out := cloneExpense(e)
	if m, ok := s.members[out.PaidBy.ID]; ok {
		out.PaidBy.Name = m.Name
	}
	for i := range out.Splits {
		if m, ok := s.members[out.Splits[i].Member.ID]; ok {
			out.Splits[i].Member.Name = m.Name
		}
	}
	return out
}

func cloneExpense(e *models.Expense) *models.Expense {
	cp := *e
	cp.Splits = slices.Clone(e.Splits)
	return &cp
}

func byName(nameA, idA, nameB, idB string) bool {
	a, b := strings.ToLower(nameA), strings.ToLower(nameB)
	if a != b {
		return a < b
	}
	return idA < idB
}
