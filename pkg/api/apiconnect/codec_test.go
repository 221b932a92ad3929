package apiconnect

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/dues/pkg/api"
)

func TestCodec_DecimalAmountsAreStrings(t *testing.T) {
	data, err := Codec{}.Marshal(&api.Split{MemberID: "m1", Amount: decimal.RequireFromString("10.50")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"memberId":"m1","amount":"10.5"}`, string(data))

	var split api.Split
	require.NoError(t, Codec{}.Unmarshal([]byte(`{"memberId":"m2","amount":3.25}`), &split))
	assert.Equal(t, "m2", split.MemberID)
	assert.True(t, split.Amount.Equal(decimal.RequireFromString("3.25")))
}

type partialBalanceService struct {
	UnimplementedBalanceServiceHandler
}

func (partialBalanceService) GetDues(context.Context, *connect.Request[api.GetDuesRequest]) (*connect.Response[api.GetDuesResponse], error) {
	return connect.NewResponse(&api.GetDuesResponse{
		Dues: []*api.Due{{FromID: "a", ToID: "b", Amount: decimal.NewFromInt(5)}},
	}), nil
}

func TestHandler_RoundTripAndUnimplemented(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle(NewBalanceServiceHandler(partialBalanceService{}))
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewBalanceServiceClient(http.DefaultClient, server.URL+"/")

	resp, err := client.GetDues(context.Background(), connect.NewRequest(&api.GetDuesRequest{}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Dues, 1)
	assert.True(t, resp.Msg.Dues[0].Amount.Equal(decimal.NewFromInt(5)))

	_, err = client.SettleDue(context.Background(), connect.NewRequest(&api.SettleDueRequest{}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeUnimplemented, connect.CodeOf(err))
}
