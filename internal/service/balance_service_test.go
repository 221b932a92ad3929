package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/dues/internal/events"
	"github.com/mmynk/dues/pkg/api"
)

// duesByName keys each due as "From->To" by member name.
func duesByName(dues []*api.Due) map[string]string {
	out := make(map[string]string, len(dues))
	for _, d := range dues {
		out[d.FromName+"->"+d.ToName] = d.Amount.String()
	}
	return out
}

func (c *testClients) getDues(t *testing.T) *api.GetDuesResponse {
	t.Helper()
	resp, err := c.balances.GetDues(context.Background(), connect.NewRequest(&api.GetDuesRequest{}))
	require.NoError(t, err)
	return resp.Msg
}

func TestGetDues_Empty(t *testing.T) {
	c := setupTestServer(t)
	c.addMember(t, "Alice")

	dues := c.getDues(t)
	assert.Empty(t, dues.Dues)
	require.Len(t, dues.Balances, 1)
	assert.True(t, dues.Balances[0].Net.IsZero())
}

func TestGetDues_EvenSplit(t *testing.T) {
	c := setupTestServer(t)

	alice := c.addMember(t, "Alice")
	bob := c.addMember(t, "Bob")
	carol := c.addMember(t, "Carol")
	c.addExpense(t, "Dinner", alice, 1, map[*api.Member]string{alice: "30", bob: "30", carol: "30"})

	dues := c.getDues(t)
	assert.Equal(t, map[string]string{"Bob->Alice": "30", "Carol->Alice": "30"}, duesByName(dues.Dues))

	require.Len(t, dues.Balances, 3)
	byName := make(map[string]*api.MemberBalance)
	for _, b := range dues.Balances {
		byName[b.MemberName] = b
	}
	assert.Equal(t, "60", byName["Alice"].Net.String())
	assert.Equal(t, "60", byName["Alice"].ToReceive.String())
	assert.True(t, byName["Alice"].ToPay.IsZero())
	assert.Equal(t, "-30", byName["Bob"].Net.String())
	assert.Equal(t, "30", byName["Bob"].ToPay.String())
	assert.Equal(t, "Alice", dues.Balances[0].MemberName)
}

func TestGetDues_MiddlemanEliminated(t *testing.T) {
	c := setupTestServer(t)

	alice := c.addMember(t, "Alice")
	bob := c.addMember(t, "Bob")
	carol := c.addMember(t, "Carol")
	// Alice owes Bob 50 and Bob owes Carol 50.
	c.addExpense(t, "Tickets", bob, 1, map[*api.Member]string{alice: "50"})
	c.addExpense(t, "Taxi", carol, 2, map[*api.Member]string{bob: "50"})

	dues := c.getDues(t)
	assert.Equal(t, map[string]string{"Alice->Carol": "50"}, duesByName(dues.Dues))
}

func TestGetDues_CycleCancels(t *testing.T) {
	c := setupTestServer(t)

	alice := c.addMember(t, "Alice")
	bob := c.addMember(t, "Bob")
	carol := c.addMember(t, "Carol")
	c.addExpense(t, "A", bob, 1, map[*api.Member]string{alice: "20"})
	c.addExpense(t, "B", carol, 2, map[*api.Member]string{bob: "20"})
	c.addExpense(t, "C", alice, 3, map[*api.Member]string{carol: "20"})

	assert.Empty(t, c.getDues(t).Dues)
}

func TestSettleDue(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	alice := c.addMember(t, "Alice")
	bob := c.addMember(t, "Bob")
	carol := c.addMember(t, "Carol")
	c.addExpense(t, "Dinner", alice, 1, map[*api.Member]string{alice: "30", bob: "30", carol: "30"})

	resp, err := c.balances.SettleDue(ctx, connect.NewRequest(&api.SettleDueRequest{
		FromID:      bob.ID,
		ToID:        alice.ID,
		Amount:      dec("30"),
		PaidThrough: "Cash",
	}))
	require.NoError(t, err)

	settled := resp.Msg.Expense
	assert.Equal(t, "Settle Due", settled.Type)
	assert.Equal(t, bob.ID, settled.PaidByID)
	require.Len(t, settled.Splits, 1)
	assert.Equal(t, alice.ID, settled.Splits[0].MemberID)

	assert.Equal(t, map[string]string{"Carol->Alice": "30"}, duesByName(c.getDues(t).Dues))

	// A partial payment reduces the remaining due.
	_, err = c.balances.SettleDue(ctx, connect.NewRequest(&api.SettleDueRequest{
		FromID: carol.ID, ToID: alice.ID, Amount: dec("12.50"), PaidThrough: "UPI",
	}))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Carol->Alice": "17.5"}, duesByName(c.getDues(t).Dues))

	types, err := c.types.ListExpenseTypes(ctx, connect.NewRequest(&api.ListExpenseTypesRequest{}))
	require.NoError(t, err)
	require.Len(t, types.Msg.Types, 1)
	assert.Equal(t, "Settle Due", types.Msg.Types[0].Name)

	assert.Equal(t, []events.Kind{
		events.KindExpenseAdded,
		events.KindDueSettled,
		events.KindDueSettled,
	}, c.publisher.kinds())
}

func TestSettleDue_Validation(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	alice := c.addMember(t, "Alice")
	bob := c.addMember(t, "Bob")

	tests := []struct {
		name string
		req  *api.SettleDueRequest
		code connect.Code
	}{
		{"self", &api.SettleDueRequest{FromID: alice.ID, ToID: alice.ID, Amount: dec("1"), PaidThrough: "Cash"}, connect.CodeInvalidArgument},
		{"missing member", &api.SettleDueRequest{FromID: alice.ID, Amount: dec("1"), PaidThrough: "Cash"}, connect.CodeInvalidArgument},
		{"zero amount", &api.SettleDueRequest{FromID: alice.ID, ToID: bob.ID, Amount: dec("0"), PaidThrough: "Cash"}, connect.CodeInvalidArgument},
		{"sub-cent amount", &api.SettleDueRequest{FromID: alice.ID, ToID: bob.ID, Amount: dec("0.001"), PaidThrough: "Cash"}, connect.CodeInvalidArgument},
		{"missing paid through", &api.SettleDueRequest{FromID: alice.ID, ToID: bob.ID, Amount: dec("1")}, connect.CodeInvalidArgument},
		{"unknown member", &api.SettleDueRequest{FromID: alice.ID, ToID: "missing", Amount: dec("1"), PaidThrough: "Cash"}, connect.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.balances.SettleDue(ctx, connect.NewRequest(tt.req))
			requireCode(t, err, tt.code)
		})
	}
}
