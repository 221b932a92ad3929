package mongo

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/dues/internal/models"
)

// ==================== Member models ====================

type memberModel struct {
	ID        string `bson:"_id"`
	Name      string `bson:"name"`
	NameKey   string `bson:"name_key"`
	CreatedAt int64  `bson:"created_at"`
}

func toMemberModel(m *models.Member) *memberModel {
	return &memberModel{
		ID:        m.ID,
		Name:      m.Name,
		NameKey:   strings.ToLower(m.Name),
		CreatedAt: m.CreatedAt,
	}
}

func fromMemberModel(m *memberModel) *models.Member {
	return &models.Member{ID: m.ID, Name: m.Name, CreatedAt: m.CreatedAt}
}

// ==================== Expense type models ====================

type expenseTypeModel struct {
	ID        string `bson:"_id"`
	Name      string `bson:"name"`
	NameKey   string `bson:"name_key"`
	CreatedAt int64  `bson:"created_at"`
}

func toExpenseTypeModel(t *models.ExpenseType) *expenseTypeModel {
	return &expenseTypeModel{
		ID:        t.ID,
		Name:      t.Name,
		NameKey:   strings.ToLower(t.Name),
		CreatedAt: t.CreatedAt,
	}
}

func fromExpenseTypeModel(t *expenseTypeModel) *models.ExpenseType {
	return &models.ExpenseType{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt}
}

// ==================== Expense models ====================

// Amounts are kept as decimal strings so they round-trip exactly.
type expenseModel struct {
	ID          string       `bson:"_id"`
	Type        string       `bson:"type"`
	TypeKey     string       `bson:"type_key"`
	OtherInfo   string       `bson:"other_info"`
	TotalAmount string       `bson:"total_amount"`
	PaidBy      string       `bson:"paid_by"`
	PaidThrough string       `bson:"paid_through"`
	Date        int64        `bson:"date"`
	Splits      []splitModel `bson:"splits"`
	CreatedAt   int64        `bson:"created_at"`
}

type splitModel struct {
	MemberID string `bson:"member_id"`
	Amount   string `bson:"amount"`
}

func toExpenseModel(e *models.Expense) *expenseModel {
	m := &expenseModel{
		ID:          e.ID,
		Type:        e.Type,
		TypeKey:     strings.ToLower(e.Type),
		OtherInfo:   e.OtherInfo,
		TotalAmount: e.TotalAmount.String(),
		PaidBy:      e.PaidBy.ID,
		PaidThrough: e.PaidThrough,
		Date:        e.Date,
		Splits:      make([]splitModel, len(e.Splits)),
		CreatedAt:   e.CreatedAt,
	}
	for i, s := range e.Splits {
		m.Splits[i] = splitModel{MemberID: s.Member.ID, Amount: s.Amount.String()}
	}
	return m
}

// fromExpenseModel converts a stored expense, resolving member names through
// names. Unknown IDs keep an empty name.
func fromExpenseModel(m *expenseModel, names map[string]string) (*models.Expense, error) {
	total, err := decimal.NewFromString(m.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("expense %s: bad total %q: %w", m.ID, m.TotalAmount, err)
	}

	e := &models.Expense{
		ID:          m.ID,
		Type:        m.Type,
		OtherInfo:   m.OtherInfo,
		TotalAmount: total,
		PaidBy:      models.MemberRef{ID: m.PaidBy, Name: names[m.PaidBy]},
		PaidThrough: m.PaidThrough,
		Date:        m.Date,
		Splits:      make([]models.Split, len(m.Splits)),
		CreatedAt:   m.CreatedAt,
	}
	for i, s := range m.Splits {
		amount, err := decimal.NewFromString(s.Amount)
		if err != nil {
			return nil, fmt.Errorf("expense %s: bad split amount %q: %w", m.ID, s.Amount, err)
		}
		e.Splits[i] = models.Split{
			Member: models.MemberRef{ID: s.MemberID, Name: names[s.MemberID]},
			Amount: amount,
		}
	}
	return e, nil
}
