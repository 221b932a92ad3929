package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/dues/pkg/api"
)

// BalanceServiceName is the fully-qualified name of the BalanceService service.
const BalanceServiceName = "dues.v1.BalanceService"

// Procedure paths for BalanceService.
const (
	BalanceServiceGetDuesProcedure   = "/dues.v1.BalanceService/GetDues"
	BalanceServiceSettleDueProcedure = "/dues.v1.BalanceService/SettleDue"
)

// BalanceServiceClient is a client for the dues.v1.BalanceService service.
type BalanceServiceClient interface {
	GetDues(context.Context, *connect.Request[api.GetDuesRequest]) (*connect.Response[api.GetDuesResponse], error)
	SettleDue(context.Context, *connect.Request[api.SettleDueRequest]) (*connect.Response[api.SettleDueResponse], error)
}

// NewBalanceServiceClient constructs a client for the dues.v1.BalanceService service.
func NewBalanceServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BalanceServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &balanceServiceClient{
		getDues:   connect.NewClient[api.GetDuesRequest, api.GetDuesResponse](httpClient, baseURL+BalanceServiceGetDuesProcedure, opts...),
		settleDue: connect.NewClient[api.SettleDueRequest, api.SettleDueResponse](httpClient, baseURL+BalanceServiceSettleDueProcedure, opts...),
	}
}

type balanceServiceClient struct {
	getDues   *connect.Client[api.GetDuesRequest, api.GetDuesResponse]
	settleDue *connect.Client[api.SettleDueRequest, api.SettleDueResponse]
}

func (c *balanceServiceClient) GetDues(ctx context.Context, req *connect.Request[api.GetDuesRequest]) (*connect.Response[api.GetDuesResponse], error) {
	return c.getDues.CallUnary(ctx, req)
}

func (c *balanceServiceClient) SettleDue(ctx context.Context, req *connect.Request[api.SettleDueRequest]) (*connect.Response[api.SettleDueResponse], error) {
	return c.settleDue.CallUnary(ctx, req)
}

// BalanceServiceHandler is an implementation of the dues.v1.BalanceService service.
type BalanceServiceHandler interface {
	GetDues(context.Context, *connect.Request[api.GetDuesRequest]) (*connect.Response[api.GetDuesResponse], error)
	SettleDue(context.Context, *connect.Request[api.SettleDueRequest]) (*connect.Response[api.SettleDueResponse], error)
}

// NewBalanceServiceHandler builds an HTTP handler from the service implementation.
func NewBalanceServiceHandler(svc BalanceServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	getDues := connect.NewUnaryHandler(BalanceServiceGetDuesProcedure, svc.GetDues, opts...)
	settleDue := connect.NewUnaryHandler(BalanceServiceSettleDueProcedure, svc.SettleDue, opts...)
	return "/" + BalanceServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case BalanceServiceGetDuesProcedure:
			getDues.ServeHTTP(w, r)
		case BalanceServiceSettleDueProcedure:
			settleDue.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedBalanceServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedBalanceServiceHandler struct{}

func (UnimplementedBalanceServiceHandler) GetDues(context.Context, *connect.Request[api.GetDuesRequest]) (*connect.Response[api.GetDuesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("dues.v1.BalanceService.GetDues is not implemented"))
}

func (UnimplementedBalanceServiceHandler) SettleDue(context.Context, *connect.Request[api.SettleDueRequest]) (*connect.Response[api.SettleDueResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("dues.v1.BalanceService.SettleDue is not implemented"))
}
