package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/dues/internal/events"
	"github.com/mmynk/dues/internal/storage/sqlite"
	"github.com/mmynk/dues/pkg/api"
	"github.com/mmynk/dues/pkg/api/apiconnect"
)

// recordingPublisher keeps every published event in memory.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.ExpenseEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.ExpenseEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) kinds() []events.Kind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Kind, len(p.events))
	for i, e := range p.events {
		out[i] = e.Kind
	}
	return out
}

type testClients struct {
	members   apiconnect.MemberServiceClient
	types     apiconnect.ExpenseTypeServiceClient
	expenses  apiconnect.ExpenseServiceClient
	balances  apiconnect.BalanceServiceClient
	publisher *recordingPublisher
}

// setupTestServer serves every service over a temporary SQLite database.
func setupTestServer(t *testing.T) *testClients {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	publisher := &recordingPublisher{}
	settings := DefaultSettings()

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewMemberServiceHandler(NewMemberService(store, settings)))
	mux.Handle(apiconnect.NewExpenseTypeServiceHandler(NewExpenseTypeService(store)))
	mux.Handle(apiconnect.NewExpenseServiceHandler(NewExpenseService(store, publisher, settings)))
	mux.Handle(apiconnect.NewBalanceServiceHandler(NewBalanceService(store, publisher, settings)))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testClients{
		members:   apiconnect.NewMemberServiceClient(http.DefaultClient, server.URL),
		types:     apiconnect.NewExpenseTypeServiceClient(http.DefaultClient, server.URL),
		expenses:  apiconnect.NewExpenseServiceClient(http.DefaultClient, server.URL),
		balances:  apiconnect.NewBalanceServiceClient(http.DefaultClient, server.URL),
		publisher: publisher,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (c *testClients) addMember(t *testing.T, name string) *api.Member {
	t.Helper()
	resp, err := c.members.AddMember(context.Background(), connect.NewRequest(&api.AddMemberRequest{Name: name}))
	require.NoError(t, err)
	return resp.Msg.Member
}

// addExpense records an expense of total paid by payer, split per shares.
func (c *testClients) addExpense(t *testing.T, typ string, payer *api.Member, date int64, shares map[*api.Member]string) *api.Expense {
	t.Helper()
	req := &api.AddExpenseRequest{
		Type:        typ,
		PaidByID:    payer.ID,
		PaidThrough: "UPI",
		Date:        date,
		TotalAmount: decimal.Zero,
	}
	for m, amount := range shares {
		req.Splits = append(req.Splits, &api.Split{MemberID: m.ID, Amount: dec(amount)})
		req.TotalAmount = req.TotalAmount.Add(dec(amount))
	}
	resp, err := c.expenses.AddExpense(context.Background(), connect.NewRequest(req))
	require.NoError(t, err)
	return resp.Msg.Expense
}

func requireCode(t *testing.T, err error, code connect.Code) *connect.Error {
	t.Helper()
	require.Error(t, err)
	var connectErr *connect.Error
	require.True(t, errors.As(err, &connectErr), "not a connect error: %v", err)
	require.Equal(t, code, connectErr.Code(), "message: %s", connectErr.Message())
	return connectErr
}
