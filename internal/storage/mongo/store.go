// Package mongo provides a MongoDB-backed implementation of the storage.Store interface.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/mmynk/dues/internal/models"
	"github.com/mmynk/dues/internal/storage"
)

// Collection name constants.
const (
	colMembers      = "members"
	colExpenseTypes = "expense_types"
	colExpenses     = "expenses"
)

// compile-time interface check
var _ storage.Store = (*Store)(nil)

// Store implements storage.Store using MongoDB.
type Store struct {
	db *mongo.Database

	// client is set only when the store owns the connection.
	client *mongo.Client
}

// New wraps an existing database handle. Close does not disconnect it.
func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

// Connect dials uri, ensures indexes on database and returns a store that
// owns the connection.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("dues/mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("dues/mongo: ping: %w", err)
	}

	s := &Store{db: client.Database(database), client: client}
	if err := s.Migrate(ctx); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// Migrate creates the indexes every collection relies on.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		colMembers: {
			{Keys: bson.D{{Key: "name_key", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colExpenseTypes: {
			{Keys: bson.D{{Key: "name_key", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colExpenses: {
			{Keys: bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "paid_by", Value: 1}}},
			{Keys: bson.D{{Key: "type_key", Value: 1}}},
			{Keys: bson.D{{Key: "splits.member_id", Value: 1}}},
		},
	}

	for col, idx := range indexes {
		if _, err := s.db.Collection(col).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("dues/mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// Close disconnects the client when the store owns it.
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(context.Background())
}

// ==================== Member Store ====================

func (s *Store) CreateMember(ctx context.Context, member *models.Member) error {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if member.CreatedAt == 0 {
		member.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.Collection(colMembers).InsertOne(ctx, toMemberModel(member))
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("member %q: %w", member.Name, storage.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("dues/mongo: create member: %w", err)
	}
	return nil
}

func (s *Store) GetMember(ctx context.Context, memberID string) (*models.Member, error) {
	var m memberModel
	err := s.db.Collection(colMembers).FindOne(ctx, bson.M{"_id": memberID}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("member %s: %w", memberID, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("dues/mongo: get member: %w", err)
	}
	return fromMemberModel(&m), nil
}

func (s *Store) ListMembers(ctx context.Context) ([]*models.Member, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_key", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.db.Collection(colMembers).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("dues/mongo: list members: %w", err)
	}

	var docs []memberModel
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("dues/mongo: decode members: %w", err)
	}

	members := make([]*models.Member, len(docs))
	for i := range docs {
		members[i] = fromMemberModel(&docs[i])
	}
	return members, nil
}

func (s *Store) DeleteMember(ctx context.Context, memberID string) error {
	res, err := s.db.Collection(colMembers).DeleteOne(ctx, bson.M{"_id": memberID})
	if err != nil {
		return fmt.Errorf("dues/mongo: delete member: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("member %s: %w", memberID, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) CountMemberExpenses(ctx context.Context, memberID string) (int, error) {
	n, err := s.db.Collection(colExpenses).CountDocuments(ctx, bson.M{
		"$or": bson.A{
			bson.M{"paid_by": memberID},
			bson.M{"splits.member_id": memberID},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("dues/mongo: count member expenses: %w", err)
	}
	return int(n), nil
}

// ==================== Expense Type Store ====================

func (s *Store) CreateExpenseType(ctx context.Context, expenseType *models.ExpenseType) error {
	if expenseType.ID == "" {
		expenseType.ID = uuid.New().String()
	}
	if expenseType.CreatedAt == 0 {
		expenseType.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.Collection(colExpenseTypes).InsertOne(ctx, toExpenseTypeModel(expenseType))
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("expense type %q: %w", expenseType.Name, storage.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("dues/mongo: create expense type: %w", err)
	}
	return nil
}

func (s *Store) GetExpenseType(ctx context.Context, typeID string) (*models.ExpenseType, error) {
	var m expenseTypeModel
	err := s.db.Collection(colExpenseTypes).FindOne(ctx, bson.M{"_id": typeID}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("expense type %s: %w", typeID, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("dues/mongo: get expense type: %w", err)
	}
	return fromExpenseTypeModel(&m), nil
}

func (s *Store) ListExpenseTypes(ctx context.Context) ([]*models.ExpenseType, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_key", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.db.Collection(colExpenseTypes).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("dues/mongo: list expense types: %w", err)
	}

	var docs []expenseTypeModel
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("dues/mongo: decode expense types: %w", err)
	}

	types := make([]*models.ExpenseType, len(docs))
	for i := range docs {
		types[i] = fromExpenseTypeModel(&docs[i])
	}
	return types, nil
}

func (s *Store) DeleteExpenseType(ctx context.Context, typeID string) error {
	res, err := s.db.Collection(colExpenseTypes).DeleteOne(ctx, bson.M{"_id": typeID})
	if err != nil {
		return fmt.Errorf("dues/mongo: delete expense type: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("expense type %s: %w", typeID, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) CountExpensesByType(ctx context.Context, name string) (int, error) {
	n, err := s.db.Collection(colExpenses).CountDocuments(ctx, bson.M{"type_key": strings.ToLower(name)})
	if err != nil {
		return 0, fmt.Errorf("dues/mongo: count expenses by type: %w", err)
	}
	return int(n), nil
}

// ==================== Expense Store ====================

func (s *Store) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	// A single document holds the expense and its splits, so the insert is atomic.
	if _, err := s.db.Collection(colExpenses).InsertOne(ctx, toExpenseModel(expense)); err != nil {
		return fmt.Errorf("dues/mongo: create expense: %w", err)
	}
	return nil
}

func (s *Store) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	var m expenseModel
	err := s.db.Collection(colExpenses).FindOne(ctx, bson.M{"_id": expenseID}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("dues/mongo: get expense: %w", err)
	}

	expenses, err := s.resolve(ctx, []expenseModel{m})
	if err != nil {
		return nil, err
	}
	return expenses[0], nil
}

func (s *Store) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.Collection(colExpenses).DeleteOne(ctx, bson.M{"_id": expenseID})
	if err != nil {
		return fmt.Errorf("dues/mongo: delete expense: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) ListExpenses(ctx context.Context, filter models.ExpenseFilter) ([]*models.Expense, int, error) {
	query := filterDocument(filter)
	col := s.db.Collection(colExpenses)

	total, err := col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("dues/mongo: count expenses: %w", err)
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "date", Value: -1},
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})
	if filter.Offset > 0 {
		opts = opts.SetSkip(int64(filter.Offset))
	}
	if filter.Limit > 0 {
		opts = opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("dues/mongo: list expenses: %w", err)
	}
	var docs []expenseModel
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("dues/mongo: decode expenses: %w", err)
	}

	expenses, err := s.resolve(ctx, docs)
	if err != nil {
		return nil, 0, err
	}
	return expenses, int(total), nil
}

func filterDocument(f models.ExpenseFilter) bson.M {
	query := bson.M{}

	date := bson.M{}
	if f.StartDate != 0 {
		date["$gte"] = f.StartDate
	}
	if f.EndDate != 0 {
		date["$lte"] = f.EndDate
	}
	if len(date) > 0 {
		query["date"] = date
	}
	if f.PaidBy != "" {
		query["paid_by"] = f.PaidBy
	}
	if f.Type != "" {
		query["type"] = bson.M{"$regex": regexp.QuoteMeta(f.Type), "$options": "i"}
	}
	if f.PaidThrough != "" {
		query["paid_through"] = f.PaidThrough
	}
	return query
}

// resolve converts stored expenses, looking up every referenced member name
// with one query.
func (s *Store) resolve(ctx context.Context, docs []expenseModel) ([]*models.Expense, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	seen := make(map[string]bool)
	var ids bson.A
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, d := range docs {
		add(d.PaidBy)
		for _, sp := range d.Splits {
			add(sp.MemberID)
		}
	}

	cursor, err := s.db.Collection(colMembers).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("dues/mongo: resolve members: %w", err)
	}
	var members []memberModel
	if err := cursor.All(ctx, &members); err != nil {
		return nil, fmt.Errorf("dues/mongo: decode members: %w", err)
	}
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Name
	}

	out := make([]*models.Expense, len(docs))
	for i := range docs {
		e, err := fromExpenseModel(&docs[i], names)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}
