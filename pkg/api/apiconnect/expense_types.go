package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/dues/pkg/api"
)

// ExpenseTypeServiceName is the fully-qualified name of the ExpenseTypeService service.
const ExpenseTypeServiceName = "dues.v1.ExpenseTypeService"

// Procedure paths for ExpenseTypeService.
const (
	ExpenseTypeServiceListExpenseTypesProcedure  = "/dues.v1.ExpenseTypeService/ListExpenseTypes"
	ExpenseTypeServiceAddExpenseTypeProcedure    = "/dues.v1.ExpenseTypeService/AddExpenseType"
	ExpenseTypeServiceDeleteExpenseTypeProcedure = "/dues.v1.ExpenseTypeService/DeleteExpenseType"
)

// ExpenseTypeServiceClient is a client for the dues.v1.ExpenseTypeService service.
type ExpenseTypeServiceClient interface {
	ListExpenseTypes(context.Context, *connect.Request[api.ListExpenseTypesRequest]) (*connect.Response[api.ListExpenseTypesResponse], error)
	AddExpenseType(context.Context, *connect.Request[api.AddExpenseTypeRequest]) (*connect.Response[api.AddExpenseTypeResponse], error)
	DeleteExpenseType(context.Context, *connect.Request[api.DeleteExpenseTypeRequest]) (*connect.Response[api.DeleteExpenseTypeResponse], error)
}

// NewExpenseTypeServiceClient constructs a client for the
// dues.v1.ExpenseTypeService service.
func NewExpenseTypeServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ExpenseTypeServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &expenseTypeServiceClient{
		listExpenseTypes:  connect.NewClient[api.ListExpenseTypesRequest, api.ListExpenseTypesResponse](httpClient, baseURL+ExpenseTypeServiceListExpenseTypesProcedure, opts...),
		addExpenseType:    connect.NewClient[api.AddExpenseTypeRequest, api.AddExpenseTypeResponse](httpClient, baseURL+ExpenseTypeServiceAddExpenseTypeProcedure, opts...),
		deleteExpenseType: connect.NewClient[api.DeleteExpenseTypeRequest, api.DeleteExpenseTypeResponse](httpClient, baseURL+ExpenseTypeServiceDeleteExpenseTypeProcedure, opts...),
	}
}

type expenseTypeServiceClient struct {
	listExpenseTypes  *connect.Client[api.ListExpenseTypesRequest, api.ListExpenseTypesResponse]
	addExpenseType    *connect.Client[api.AddExpenseTypeRequest, api.AddExpenseTypeResponse]
	deleteExpenseType *connect.Client[api.DeleteExpenseTypeRequest, api.DeleteExpenseTypeResponse]
}

func (c *expenseTypeServiceClient) ListExpenseTypes(ctx context.Context, req *connect.Request[api.ListExpenseTypesRequest]) (*connect.Response[api.ListExpenseTypesResponse], error) {
	return c.listExpenseTypes.CallUnary(ctx, req)
}

func (c *expenseTypeServiceClient) AddExpenseType(ctx context.Context, req *connect.Request[api.AddExpenseTypeRequest]) (*connect.Response[api.AddExpenseTypeResponse], error) {
	return c.addExpenseType.CallUnary(ctx, req)
}

func (c *expenseTypeServiceClient) DeleteExpenseType(ctx context.Context, req *connect.Request[api.DeleteExpenseTypeRequest]) (*connect.Response[api.DeleteExpenseTypeResponse], error) {
	return c.deleteExpenseType.CallUnary(ctx, req)
}

// ExpenseTypeServiceHandler is an implementation of the
// dues.v1.ExpenseTypeService service.
type ExpenseTypeServiceHandler interface {
	ListExpenseTypes(context.Context, *connect.Request[api.ListExpenseTypesRequest]) (*connect.Response[api.ListExpenseTypesResponse], error)
	AddExpenseType(context.Context, *connect.Request[api.AddExpenseTypeRequest]) (*connect.Response[api.AddExpenseTypeResponse], error)
	DeleteExpenseType(context.Context, *connect.Request[api.DeleteExpenseTypeRequest]) (*connect.Response[api.DeleteExpenseTypeResponse], error)
}

// NewExpenseTypeServiceHandler builds an HTTP handler from the service implementation.
func NewExpenseTypeServiceHandler(svc ExpenseTypeServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	listExpenseTypes := connect.NewUnaryHandler(ExpenseTypeServiceListExpenseTypesProcedure, svc.ListExpenseTypes, opts...)
	addExpenseType := connect.NewUnaryHandler(ExpenseTypeServiceAddExpenseTypeProcedure, svc.AddExpenseType, opts...)
	deleteExpenseType := connect.NewUnaryHandler(ExpenseTypeServiceDeleteExpenseTypeProcedure, svc.DeleteExpenseType, opts...)
	return "/" + ExpenseTypeServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ExpenseTypeServiceListExpenseTypesProcedure:
			listExpenseTypes.ServeHTTP(w, r)
		case ExpenseTypeServiceAddExpenseTypeProcedure:
			addExpenseType.ServeHTTP(w, r)
		case ExpenseTypeServiceDeleteExpenseTypeProcedure:
			deleteExpenseType.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedExpenseTypeServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedExpenseTypeServiceHandler struct{}

func (UnimplementedExpenseTypeServiceHandler) ListExpenseTypes(context.Context, *connect.Request[api.ListExpenseTypesRequest]) (*connect.Response[api.ListExpenseTypesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("dues.v1.ExpenseTypeService.ListExpenseTypes is not implemented"))
}

func (UnimplementedExpenseTypeServiceHandler) AddExpenseType(context.Context, *connect.Request[api.AddExpenseTypeRequest]) (*connect.Response[api.AddExpenseTypeResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("dues.v1.ExpenseTypeService.AddExpenseType is not implemented"))
}

func (UnimplementedExpenseTypeServiceHandler) DeleteExpenseType(context.Context, *connect.Request[api.DeleteExpenseTypeRequest]) (*connect.Response[api.DeleteExpenseTypeResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("dues.v1.ExpenseTypeService.DeleteExpenseType is not implemented"))
}
