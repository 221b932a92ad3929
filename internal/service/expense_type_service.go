package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/dues/internal/models"
	"github.com/mmynk/dues/internal/storage"
	"github.com/mmynk/dues/pkg/api"
	"github.com/mmynk/dues/pkg/api/apiconnect"
)

// ExpenseTypeService implements the Connect ExpenseTypeService
type ExpenseTypeService struct {
	apiconnect.UnimplementedExpenseTypeServiceHandler
	store storage.Store
}

func NewExpenseTypeService(store storage.Store) *ExpenseTypeService {
	return &ExpenseTypeService{store: store}
}

func (s *ExpenseTypeService) ListExpenseTypes(ctx context.Context, req *connect.Request[api.ListExpenseTypesRequest]) (*connect.Response[api.ListExpenseTypesResponse], error) {
	slog.Info("ListExpenseTypes request received")

	types, err := s.store.ListExpenseTypes(ctx)
	if err != nil {
		slog.Error("ListExpenseTypes failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*api.ExpenseType, len(types))
	for i, t := range types {
		out[i] = toAPIExpenseType(t)
	}

	return connect.NewResponse(&api.ListExpenseTypesResponse{Types: out}), nil
}

func (s *ExpenseTypeService) AddExpenseType(ctx context.Context, req *connect.Request[api.AddExpenseTypeRequest]) (*connect.Response[api.AddExpenseTypeResponse], error) {
	slog.Info("AddExpenseType request received", "name", req.Msg.Name)

	name := models.NormalizeName(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("name is required")
	}

	expenseType := &models.ExpenseType{Name: name}
	if err := s.store.CreateExpenseType(ctx, expenseType); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, connect.NewError(connect.CodeAlreadyExists, errTypeExists)
		}
		slog.Error("AddExpenseType failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Expense type created", "type_id", expenseType.ID)

	return connect.NewResponse(&api.AddExpenseTypeResponse{Type: toAPIExpenseType(expenseType)}), nil
}

// DeleteExpenseType removes a type no expense uses.
func (s *ExpenseTypeService) DeleteExpenseType(ctx context.Context, req *connect.Request[api.DeleteExpenseTypeRequest]) (*connect.Response[api.DeleteExpenseTypeResponse], error) {
	slog.Info("DeleteExpenseType request received", "type_id", req.Msg.TypeID)

	expenseType, err := s.store.GetExpenseType(ctx, req.Msg.TypeID)
	if err != nil {
		slog.Error("DeleteExpenseType failed", "type_id", req.Msg.TypeID, "error", err)
		return nil, toConnectError(err)
	}

	n, err := s.store.CountExpensesByType(ctx, expenseType.Name)
	if err != nil {
		slog.Error("DeleteExpenseType failed to count expenses", "type_id", expenseType.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if n > 0 {
		return nil, connect.NewError(connect.CodeFailedPrecondition,
			fmt.Errorf("cannot delete %s: type is used by %d expenses", expenseType.Name, n))
	}

	if err := s.store.DeleteExpenseType(ctx, expenseType.ID); err != nil {
		slog.Error("DeleteExpenseType failed", "type_id", expenseType.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense type deleted", "type_id", expenseType.ID)

	return connect.NewResponse(&api.DeleteExpenseTypeResponse{}), nil
}
