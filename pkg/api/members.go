package api

// Member is a person taking part in shared expenses.
type Member struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"`
}

type ListMembersRequest struct{}

type ListMembersResponse struct {
	Members []*Member `json:"members"`
}

type AddMemberRequest struct {
	Name string `json:"name"`
}

type AddMemberResponse struct {
	Member *Member `json:"member"`
}

type DeleteMemberRequest struct {
	MemberID string `json:"memberId"`
}

type DeleteMemberResponse struct{}

type CanDeleteMemberRequest struct {
	MemberID string `json:"memberId"`
}

// CanDeleteMemberResponse reports whether the member has no outstanding dues.
type CanDeleteMemberResponse struct {
	CanDelete bool `json:"canDelete"`
	// Reason explains a refusal; empty when CanDelete is true.
	Reason string `json:"reason,omitempty"`
}
