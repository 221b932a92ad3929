package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/dues/internal/events"
	"github.com/mmynk/dues/internal/models"
	"github.com/mmynk/dues/internal/storage"
	"github.com/mmynk/dues/pkg/api"
	"github.com/mmynk/dues/pkg/api/apiconnect"
)

// BalanceService implements the Connect BalanceService
type BalanceService struct {
	apiconnect.UnimplementedBalanceServiceHandler
	store     storage.Store
	publisher events.Publisher
	settings  Settings
}

// NewBalanceService creates a new BalanceService. A nil publisher discards events.
func NewBalanceService(store storage.Store, publisher events.Publisher, settings Settings) *BalanceService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &BalanceService{store: store, publisher: publisher, settings: settings.withDefaults()}
}

// GetDues simplifies every recorded expense into who pays whom.
func (s *BalanceService) GetDues(ctx context.Context, req *connect.Request[api.GetDuesRequest]) (*connect.Response[api.GetDuesResponse], error) {
	slog.Info("GetDues request received")

	dues, err := ComputeDues(ctx, s.store, s.settings.CurrencyPlaces)
	if err != nil {
		slog.Error("GetDues failed", "error", err)
		return nil, balancesError(err)
	}

	resp := &api.GetDuesResponse{
		Dues:     make([]*api.Due, len(dues.Dues)),
		Balances: make([]*api.MemberBalance, len(dues.Balances)),
	}
	for i, d := range dues.Dues {
		resp.Dues[i] = toAPIDue(d)
	}
	for i, b := range dues.Balances {
		resp.Balances[i] = toAPIBalance(b)
	}

	slog.Info("GetDues successful", "dues_count", len(resp.Dues))

	return connect.NewResponse(resp), nil
}

// SettleDue records a payment from one member to another as a "Settle Due"
// expense, which offsets what From owes To.
func (s *BalanceService) SettleDue(ctx context.Context, req *connect.Request[api.SettleDueRequest]) (*connect.Response[api.SettleDueResponse], error) {
	slog.Info("SettleDue request received",
		"from", req.Msg.FromID,
		"to", req.Msg.ToID,
		"amount", req.Msg.Amount.String(),
	)

	places := s.settings.CurrencyPlaces
	switch {
	case req.Msg.FromID == "" || req.Msg.ToID == "":
		return nil, invalidArgument("both members are required")
	case req.Msg.FromID == req.Msg.ToID:
		return nil, invalidArgument("a member cannot settle with themselves")
	case !req.Msg.Amount.IsPositive():
		return nil, invalidArgument("amount must be positive")
	case !fitsPlaces(req.Msg.Amount, places):
		return nil, invalidArgument("amount %s has more than %d decimal places", req.Msg.Amount.String(), places)
	}
	paidThrough := strings.TrimSpace(req.Msg.PaidThrough)
	if paidThrough == "" {
		return nil, invalidArgument("paid through is required")
	}

	from, err := s.store.GetMember(ctx, req.Msg.FromID)
	if err != nil {
		return nil, toConnectError(err)
	}
	to, err := s.store.GetMember(ctx, req.Msg.ToID)
	if err != nil {
		return nil, toConnectError(err)
	}

	err = s.store.CreateExpenseType(ctx, &models.ExpenseType{Name: models.SettleDueType})
	if err != nil && !errors.Is(err, storage.ErrAlreadyExists) {
		slog.Error("SettleDue failed to ensure expense type", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	expense := &models.Expense{
		Type:        models.SettleDueType,
		TotalAmount: req.Msg.Amount,
		PaidBy:      from.Ref(),
		PaidThrough: paidThrough,
		Date:        req.Msg.Date,
		Splits:      []models.Split{{Member: to.Ref(), Amount: req.Msg.Amount}},
	}
	if expense.Date == 0 {
		expense.Date = time.Now().Unix()
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("SettleDue failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Due settled", "expense_id", expense.ID, "from", from.ID, "to", to.ID)
	publish(ctx, s.publisher, events.KindDueSettled, expense)

	return connect.NewResponse(&api.SettleDueResponse{Expense: toAPIExpense(expense)}), nil
}
