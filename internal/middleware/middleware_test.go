package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/dues/internal/metrics"
	"github.com/mmynk/dues/pkg/api"
	"github.com/mmynk/dues/pkg/api/apiconnect"
)

type typesService struct {
	apiconnect.UnimplementedExpenseTypeServiceHandler
}

func (typesService) ListExpenseTypes(context.Context, *connect.Request[api.ListExpenseTypesRequest]) (*connect.Response[api.ListExpenseTypesResponse], error) {
	return connect.NewResponse(&api.ListExpenseTypesResponse{}), nil
}

func (typesService) AddExpenseType(context.Context, *connect.Request[api.AddExpenseTypeRequest]) (*connect.Response[api.AddExpenseTypeResponse], error) {
	return nil, connect.NewError(connect.CodeAlreadyExists, errors.New("duplicate"))
}

func TestInterceptors(t *testing.T) {
	interceptors := connect.WithInterceptors(LoggingInterceptor(), MetricsInterceptor())
	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewExpenseTypeServiceHandler(typesService{}, interceptors))
	server := httptest.NewServer(Logging(CORS(mux)))
	defer server.Close()

	client := apiconnect.NewExpenseTypeServiceClient(http.DefaultClient, server.URL)
	ctx := context.Background()

	okCounter := metrics.RPCRequests.WithLabelValues(apiconnect.ExpenseTypeServiceListExpenseTypesProcedure, "ok")
	errCounter := metrics.RPCRequests.WithLabelValues(apiconnect.ExpenseTypeServiceAddExpenseTypeProcedure, "already_exists")
	okBefore, errBefore := testutil.ToFloat64(okCounter), testutil.ToFloat64(errCounter)

	_, err := client.ListExpenseTypes(ctx, connect.NewRequest(&api.ListExpenseTypesRequest{}))
	require.NoError(t, err)

	_, err = client.AddExpenseType(ctx, connect.NewRequest(&api.AddExpenseTypeRequest{Name: "Rent"}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeAlreadyExists, connect.CodeOf(err))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(okCounter))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(errCounter))
}

func TestCORS_Preflight(t *testing.T) {
	called := false
	handler := CORS(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/dues.v1.MemberService/ListMembers", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.False(t, called)
}

func TestLogging_RecordsStatus(t *testing.T) {
	handler := Logging(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
