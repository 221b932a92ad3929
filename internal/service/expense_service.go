package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/dues/internal/calculator"
	"github.com/mmynk/dues/internal/events"
	"github.com/mmynk/dues/internal/models"
	"github.com/mmynk/dues/internal/storage"
	"github.com/mmynk/dues/pkg/api"
	"github.com/mmynk/dues/pkg/api/apiconnect"
)

// ExpenseService implements the Connect ExpenseService
type ExpenseService struct {
	apiconnect.UnimplementedExpenseServiceHandler
	store     storage.Store
	publisher events.Publisher
	settings  Settings
}

// NewExpenseService creates a new ExpenseService. A nil publisher discards events.
func NewExpenseService(store storage.Store, publisher events.Publisher, settings Settings) *ExpenseService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &ExpenseService{store: store, publisher: publisher, settings: settings.withDefaults()}
}

// AddExpense validates and records an expense. The split amounts must add up
// to the total exactly.
func (s *ExpenseService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	slog.Info("AddExpense request received",
		"type", req.Msg.Type,
		"paid_by", req.Msg.PaidByID,
		"total", req.Msg.TotalAmount.String(),
		"splits_count", len(req.Msg.Splits),
	)

	expense, cerr := s.buildExpense(ctx, req.Msg)
	if cerr != nil {
		slog.Warn("AddExpense validation failed", "error", cerr.Message())
		return nil, cerr
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("AddExpense failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense created", "expense_id", expense.ID)
	publish(ctx, s.publisher, events.KindExpenseAdded, expense)

	return connect.NewResponse(&api.AddExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

func (s *ExpenseService) buildExpense(ctx context.Context, msg *api.AddExpenseRequest) (*models.Expense, *connect.Error) {
	places := s.settings.CurrencyPlaces

	expenseType := models.NormalizeName(msg.Type)
	if expenseType == "" {
		return nil, invalidArgument("type is required")
	}
	paidThrough := strings.TrimSpace(msg.PaidThrough)
	if paidThrough == "" {
		return nil, invalidArgument("paid through is required")
	}
	if !msg.TotalAmount.IsPositive() {
		return nil, invalidArgument("total amount must be positive")
	}
	if !fitsPlaces(msg.TotalAmount, places) {
		return nil, invalidArgument("total amount %s has more than %d decimal places", msg.TotalAmount.String(), places)
	}
	if len(msg.Splits) == 0 {
		return nil, invalidArgument("at least one split is required")
	}

	payer, err := s.store.GetMember(ctx, msg.PaidByID)
	if err != nil {
		return nil, toConnectError(fmt.Errorf("payer: %w", err))
	}

	expense := &models.Expense{
		Type:        expenseType,
		OtherInfo:   strings.TrimSpace(msg.OtherInfo),
		TotalAmount: msg.TotalAmount,
		PaidBy:      payer.Ref(),
		PaidThrough: paidThrough,
		Date:        msg.Date,
		Splits:      make([]models.Split, 0, len(msg.Splits)),
	}
	if expense.Date == 0 {
		expense.Date = time.Now().Unix()
	}

	seen := make(map[string]bool, len(msg.Splits))
	for i, split := range msg.Splits {
		if split == nil || split.MemberID == "" {
			return nil, invalidArgument("split %d: member is required", i)
		}
		if seen[split.MemberID] {
			return nil, invalidArgument("split %d: member %s listed twice", i, split.MemberID)
		}
		seen[split.MemberID] = true

		if !split.Amount.IsPositive() {
			return nil, invalidArgument("split %d: amount must be positive", i)
		}
		if !fitsPlaces(split.Amount, places) {
			return nil, invalidArgument("split %d: amount %s has more than %d decimal places", i, split.Amount.String(), places)
		}

		member, err := s.store.GetMember(ctx, split.MemberID)
		if err != nil {
			return nil, toConnectError(fmt.Errorf("split %d: %w", i, err))
		}
		expense.Splits = append(expense.Splits, models.Split{Member: member.Ref(), Amount: split.Amount})
	}

	if sum := expense.SplitTotal(); !sum.Equal(expense.TotalAmount) {
		return nil, invalidArgument("splits add up to %s but the total is %s", sum.String(), expense.TotalAmount.String())
	}
	return expense, nil
}

// GetExpense retrieves an expense by ID.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	slog.Info("GetExpense request received", "expense_id", req.Msg.ExpenseID)

	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		slog.Error("GetExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// DeleteExpense removes an expense and its splits.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID)

	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		slog.Error("DeleteExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.store.DeleteExpense(ctx, expense.ID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", expense.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense deleted", "expense_id", expense.ID)
	publish(ctx, s.publisher, events.KindExpenseDeleted, expense)

	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// ListExpenses returns one page of matching expenses, newest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	slog.Info("ListExpenses request received", "page", req.Msg.Page, "page_size", req.Msg.PageSize)

	page := max(int(req.Msg.Page), 1)
	size := int(req.Msg.PageSize)
	if size == 0 {
		size = s.settings.DefaultPageSize
	}

	filter := toModelFilter(req.Msg.Filter)
	if size > 0 {
		filter.Offset = (page - 1) * size
		filter.Limit = size
	} else {
		page = 1
	}

	expenses, total, err := s.store.ListExpenses(ctx, filter)
	if err != nil {
		slog.Error("ListExpenses failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	resp := &api.ListExpensesResponse{
		Expenses:   make([]*api.Expense, len(expenses)),
		Page:       int32(page),
		TotalCount: int64(total),
	}
	for i, e := range expenses {
		resp.Expenses[i] = toAPIExpense(e)
	}
	switch {
	case size > 0:
		resp.PageSize = int32(size)
		resp.TotalPages = int32((total + size - 1) / size)
	case total > 0:
		resp.PageSize = int32(total)
		resp.TotalPages = 1
	}

	slog.Info("ListExpenses successful", "count", len(expenses), "total", total)

	return connect.NewResponse(resp), nil
}

// CalculateSplit suggests split amounts: fixed shares are kept and the rest
// of the total is divided evenly.
func (s *ExpenseService) CalculateSplit(ctx context.Context, req *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error) {
	slog.Debug("CalculateSplit request received",
		"total", req.Msg.TotalAmount.String(),
		"members", req.Msg.MemberIDs,
		"fixed_count", len(req.Msg.FixedShares),
	)

	shares, err := calculator.SplitRemaining(req.Msg.TotalAmount, req.Msg.MemberIDs, req.Msg.FixedShares, s.settings.CurrencyPlaces)
	if err != nil {
		slog.Error("CalculateSplit failed", "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	members, err := s.store.ListMembers(ctx)
	if err != nil {
		slog.Error("CalculateSplit failed to list members", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	splits := make([]*api.Split, 0, len(shares))
	for _, m := range members {
		if amount, ok := shares[m.ID]; ok {
			splits = append(splits, &api.Split{MemberID: m.ID, MemberName: m.Name, Amount: amount})
		}
	}
	if len(splits) != len(shares) {
		for _, id := range req.Msg.MemberIDs {
			if _, err := s.store.GetMember(ctx, id); err != nil {
				return nil, toConnectError(err)
			}
		}
	}

	return connect.NewResponse(&api.CalculateSplitResponse{Splits: splits}), nil
}

// GetInsights totals spending over the filtered expenses, leaving out
// payments that settle dues.
func (s *ExpenseService) GetInsights(ctx context.Context, req *connect.Request[api.GetInsightsRequest]) (*connect.Response[api.GetInsightsResponse], error) {
	slog.Info("GetInsights request received")

	expenses, _, err := s.store.ListExpenses(ctx, toModelFilter(req.Msg.Filter))
	if err != nil {
		slog.Error("GetInsights failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	views := make([]calculator.ExpenseForInsight, len(expenses))
	payers := make(map[string]string)
	for i, e := range expenses {
		views[i] = calculator.ExpenseForInsight{
			Type:        e.Type,
			PayerID:     e.PaidBy.ID,
			PaidThrough: e.PaidThrough,
			Amount:      e.TotalAmount,
		}
		payers[e.PaidBy.ID] = e.PaidBy.Name
	}
	insights := calculator.Summarize(views, models.SettleDueType)

	slog.Info("GetInsights successful", "count", insights.Count, "total", insights.Total.String())

	return connect.NewResponse(&api.GetInsightsResponse{
		Count:     int64(insights.Count),
		Total:     insights.Total,
		ByType:    toTotals(insights.ByType, nil),
		ByPayer:   toTotals(insights.ByPayer, payers),
		ByChannel: toTotals(insights.ByChannel, nil),
	}), nil
}

func fitsPlaces(d decimal.Decimal, places int32) bool {
	return d.Shift(places).IsInteger()
}

// publish sends an expense event. Delivery failures are logged and never
// fail the request that recorded the expense.
func publish(ctx context.Context, publisher events.Publisher, kind events.Kind, expense *models.Expense) {
	event := events.ExpenseEvent{
		Kind:        kind,
		ExpenseID:   expense.ID,
		Type:        expense.Type,
		PaidBy:      expense.PaidBy.ID,
		TotalAmount: expense.TotalAmount,
		OccurredAt:  time.Now().UTC(),
	}
	if err := publisher.Publish(ctx, event); err != nil {
		slog.Warn("Failed to publish expense event", "kind", kind, "expense_id", expense.ID, "error", err)
	}
}
