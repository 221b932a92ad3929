package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/dues/internal/calculator"
	"github.com/mmynk/dues/internal/models"
	"github.com/mmynk/dues/internal/storage"
	"github.com/mmynk/dues/pkg/api"
	"github.com/mmynk/dues/pkg/api/apiconnect"
)

// MemberService implements the Connect MemberService
type MemberService struct {
	apiconnect.UnimplementedMemberServiceHandler
	store    storage.Store
	settings Settings
}

// NewMemberService creates a new MemberService with the given storage backend.
func NewMemberService(store storage.Store, settings Settings) *MemberService {
	return &MemberService{store: store, settings: settings.withDefaults()}
}

// ListMembers returns every member ordered by name.
func (s *MemberService) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	slog.Info("ListMembers request received")

	members, err := s.store.ListMembers(ctx)
	if err != nil {
		slog.Error("ListMembers failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*api.Member, len(members))
	for i, m := range members {
		out[i] = toAPIMember(m)
	}

	slog.Info("ListMembers successful", "count", len(members))

	return connect.NewResponse(&api.ListMembersResponse{Members: out}), nil
}

// AddMember creates a member. Names are unique regardless of case.
func (s *MemberService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	slog.Info("AddMember request received", "name", req.Msg.Name)

	name := models.NormalizeName(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("name is required")
	}

	member := &models.Member{Name: name}
	if err := s.store.CreateMember(ctx, member); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			slog.Warn("AddMember rejected duplicate", "name", name)
			return nil, connect.NewError(connect.CodeAlreadyExists, errMemberExists)
		}
		slog.Error("AddMember failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Member created", "member_id", member.ID)

	return connect.NewResponse(&api.AddMemberResponse{Member: toAPIMember(member)}), nil
}

// DeleteMember removes a member that has never paid for or shared in an expense.
func (s *MemberService) DeleteMember(ctx context.Context, req *connect.Request[api.DeleteMemberRequest]) (*connect.Response[api.DeleteMemberResponse], error) {
	slog.Info("DeleteMember request received", "member_id", req.Msg.MemberID)

	member, err := s.store.GetMember(ctx, req.Msg.MemberID)
	if err != nil {
		slog.Error("DeleteMember failed", "member_id", req.Msg.MemberID, "error", err)
		return nil, toConnectError(err)
	}

	n, err := s.store.CountMemberExpenses(ctx, member.ID)
	if err != nil {
		slog.Error("DeleteMember failed to count expenses", "member_id", member.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if n > 0 {
		return nil, connect.NewError(connect.CodeFailedPrecondition,
			fmt.Errorf("cannot delete %s: member has expenses or is part of expense splits", member.Name))
	}

	if err := s.store.DeleteMember(ctx, member.ID); err != nil {
		slog.Error("DeleteMember failed", "member_id", member.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Member deleted", "member_id", member.ID)

	return connect.NewResponse(&api.DeleteMemberResponse{}), nil
}

// CanDeleteMember reports whether the member is clear of every simplified due.
func (s *MemberService) CanDeleteMember(ctx context.Context, req *connect.Request[api.CanDeleteMemberRequest]) (*connect.Response[api.CanDeleteMemberResponse], error) {
	slog.Info("CanDeleteMember request received", "member_id", req.Msg.MemberID)

	if _, err := s.store.GetMember(ctx, req.Msg.MemberID); err != nil {
		slog.Error("CanDeleteMember failed", "member_id", req.Msg.MemberID, "error", err)
		return nil, toConnectError(err)
	}

	dues, err := ComputeDues(ctx, s.store, s.settings.CurrencyPlaces)
	if err != nil {
		slog.Error("CanDeleteMember failed to compute dues", "error", err)
		return nil, balancesError(err)
	}

	resp := &api.CanDeleteMemberResponse{CanDelete: true}
	if calculator.Involves(dues.Settlements, req.Msg.MemberID) {
		resp.CanDelete = false
		resp.Reason = "member has outstanding dues"
	}

	slog.Info("CanDeleteMember successful", "member_id", req.Msg.MemberID, "can_delete", resp.CanDelete)

	return connect.NewResponse(resp), nil
}
