package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/dues/pkg/api"
)

// MemberServiceName is the fully-qualified name of the MemberService service.
const MemberServiceName = "dues.v1.MemberService"

// Procedure paths for MemberService.
const (
	MemberServiceListMembersProcedure     = "/dues.v1.MemberService/ListMembers"
	MemberServiceAddMemberProcedure       = "/dues.v1.MemberService/AddMember"
	MemberServiceDeleteMemberProcedure    = "/dues.v1.MemberService/DeleteMember"
	MemberServiceCanDeleteMemberProcedure = "/dues.v1.MemberService/CanDeleteMember"
)

// MemberServiceClient is a client for the dues.v1.MemberService service.
type MemberServiceClient interface {
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	DeleteMember(context.Context, *connect.Request[api.DeleteMemberRequest]) (*connect.Response[api.DeleteMemberResponse], error)
	CanDeleteMember(context.Context, *connect.Request[api.CanDeleteMemberRequest]) (*connect.Response[api.CanDeleteMemberResponse], error)
}

// NewMemberServiceClient constructs a client for the dues.v1.MemberService
// service. baseURL is the server root, e.g. http://localhost:8080.
func NewMemberServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) MemberServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &memberServiceClient{
		listMembers:     connect.NewClient[api.ListMembersRequest, api.ListMembersResponse](httpClient, baseURL+MemberServiceListMembersProcedure, opts...),
		addMember:       connect.NewClient[api.AddMemberRequest, api.AddMemberResponse](httpClient, baseURL+MemberServiceAddMemberProcedure, opts...),
		deleteMember:    connect.NewClient[api.DeleteMemberRequest, api.DeleteMemberResponse](httpClient, baseURL+MemberServiceDeleteMemberProcedure, opts...),
		canDeleteMember: connect.NewClient[api.CanDeleteMemberRequest, api.CanDeleteMemberResponse](httpClient, baseURL+MemberServiceCanDeleteMemberProcedure, opts...),
	}
}

type memberServiceClient struct {
	listMembers     *connect.Client[api.ListMembersRequest, api.ListMembersResponse]
	addMember       *connect.Client[api.AddMemberRequest, api.AddMemberResponse]
	deleteMember    *connect.Client[api.DeleteMemberRequest, api.DeleteMemberResponse]
	canDeleteMember *connect.Client[api.CanDeleteMemberRequest, api.CanDeleteMemberResponse]
}

func (c *memberServiceClient) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	return c.listMembers.CallUnary(ctx, req)
}

func (c *memberServiceClient) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	return c.addMember.CallUnary(ctx, req)
}

func (c *memberServiceClient) DeleteMember(ctx context.Context, req *connect.Request[api.DeleteMemberRequest]) (*connect.Response[api.DeleteMemberResponse], error) {
	return c.deleteMember.CallUnary(ctx, req)
}

func (c *memberServiceClient) CanDeleteMember(ctx context.Context, req *connect.Request[api.CanDeleteMemberRequest]) (*connect.Response[api.CanDeleteMemberResponse], error) {
	return c.canDeleteMember.CallUnary(ctx, req)
}

// MemberServiceHandler is an implementation of the dues.v1.MemberService service.
type MemberServiceHandler interface {
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	DeleteMember(context.Context, *connect.Request[api.DeleteMemberRequest]) (*connect.Response[api.DeleteMemberResponse], error)
	CanDeleteMember(context.Context, *connect.Request[api.CanDeleteMemberRequest]) (*connect.Response[api.CanDeleteMemberResponse], error)
}

// NewMemberServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewMemberServiceHandler(svc MemberServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	listMembers := connect.NewUnaryHandler(MemberServiceListMembersProcedure, svc.ListMembers, opts...)
	addMember := connect.NewUnaryHandler(MemberServiceAddMemberProcedure, svc.AddMember, opts...)
	deleteMember := connect.NewUnaryHandler(MemberServiceDeleteMemberProcedure, svc.DeleteMember, opts...)
	canDeleteMember := connect.NewUnaryHandler(MemberServiceCanDeleteMemberProcedure, svc.CanDeleteMember, opts...)
	return "/" + MemberServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case MemberServiceListMembersProcedure:
			listMembers.ServeHTTP(w, r)
		case MemberServiceAddMemberProcedure:
			addMember.ServeHTTP(w, r)
		case MemberServiceDeleteMemberProcedure:
			deleteMember.ServeHTTP(w, r)
		case MemberServiceCanDeleteMemberProcedure:
			canDeleteMember.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedMemberServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedMemberServiceHandler struct{}

func (UnimplementedMemberServiceHandler) ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("dues.v1.MemberService.ListMembers is not implemented"))
}

func (UnimplementedMemberServiceHandler) AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("dues.v1.MemberService.AddMember is not implemented"))
}

func (UnimplementedMemberServiceHandler) DeleteMember(context.Context, *connect.Request[api.DeleteMemberRequest]) (*connect.Response[api.DeleteMemberResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("dues.v1.MemberService.DeleteMember is not implemented"))
}

func (UnimplementedMemberServiceHandler) CanDeleteMember(context.Context, *connect.Request[api.CanDeleteMemberRequest]) (*connect.Response[api.CanDeleteMemberResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("dues.v1.MemberService.CanDeleteMember is not implemented"))
}
