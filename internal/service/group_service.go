package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/metrics"
	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/money"
	"github.com/mmynk/groupledger/internal/storage"
	"github.com/mmynk/groupledger/pkg/api"
	"github.com/mmynk/groupledger/pkg/api/apiconnect"
)

// Ensure GroupService implements the Connect handler interface
var _ apiconnect.GroupServiceHandler = (*GroupService)(nil)

// GroupService implements the Connect GroupService
type GroupService struct {
	store     storage.Store
	formatter *money.Formatter
	metrics   *metrics.Metrics
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, formatter *money.Formatter, m *metrics.Metrics) *GroupService {
	return &GroupService{store: store, formatter: formatter, metrics: m}
}

// CreateGroup creates a new group.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	group := &models.Group{
		Name:    strings.TrimSpace(req.Msg.Name),
		Members: make([]models.Member, len(req.Msg.Members)),
	}
	for i, m := range req.Msg.Members {
		if strings.TrimSpace(m.Name) == "" {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("member %d: name required", i))
		}
		group.Members[i] = models.Member{ID: m.ID, Name: strings.TrimSpace(m.Name), Email: m.Email}
	}

	// Save to storage (generates IDs and CreatedAt)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		logFailure("CreateGroup failed", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group created", "group_id", group.ID)

	return connect.NewResponse(&api.CreateGroupResponse{
		Group: toAPIGroup(group),
	}), nil
}

// GetGroup retrieves a group and its expenses by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	group, err := loadGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	slog.Info("GetGroup successful", "group_id", group.ID, "name", group.Name)

	return connect.NewResponse(&api.GetGroupResponse{
		Group:    toAPIGroup(group),
		Expenses: toAPIExpenses(group.Expenses),
	}), nil
}

// ListGroups retrieves all groups.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	slog.Info("ListGroups request received")

	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		logFailure("ListGroups failed", err)
		return nil, toConnectError(err)
	}

	apiGroups := make([]api.Group, len(groups))
	for i, group := range groups {
		apiGroups[i] = *toAPIGroup(group)
	}

	slog.Info("ListGroups successful", "count", len(groups))

	return connect.NewResponse(&api.ListGroupsResponse{
		Groups: apiGroups,
	}), nil
}

// AddMember adds a member to an existing group.
func (s *GroupService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	slog.Info("AddMember request received", "group_id", req.Msg.GroupID, "name", req.Msg.Member.Name)

	if req.Msg.GroupID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("group_id required"))
	}
	name := strings.TrimSpace(req.Msg.Member.Name)
	if name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("member name required"))
	}

	member := &models.Member{ID: req.Msg.Member.ID, Name: name, Email: req.Msg.Member.Email}
	if err := s.store.AddMember(ctx, req.Msg.GroupID, member); err != nil {
		logFailure("AddMember failed", err, "group_id", req.Msg.GroupID)
		return nil, toConnectError(err)
	}

	slog.Info("Member added", "group_id", req.Msg.GroupID, "member_id", member.ID)

	apiMember := toAPIMember(*member)
	return connect.NewResponse(&api.AddMemberResponse{Member: &apiMember}), nil
}

// DeleteGroup removes a group once every balance in it is settled.
// An unsettled group is refused with FailedPrecondition and a message that
// lists who still owes or is owed.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	if req.Msg.GroupID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("group_id required"))
	}

	if err := s.store.DeleteGroupIf(ctx, req.Msg.GroupID, calculator.CheckSettled); err != nil {
		logFailure("DeleteGroup failed", err, "group_id", req.Msg.GroupID)
		return nil, toConnectError(err)
	}

	slog.Info("Group deleted", "group_id", req.Msg.GroupID)

	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// GetGroupBalances calculates balances across all expenses in a group.
func (s *GroupService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	groupID := req.Msg.GroupID
	viewerID := req.Msg.ViewerID
	slog.Info("GetGroupBalances request received", "group_id", groupID, "viewer_id", viewerID)

	group, err := loadGroup(ctx, s.store, groupID)
	if err != nil {
		return nil, err
	}
	if viewerID != "" && !group.HasMember(viewerID) {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("viewer %s is not a member of group %s", viewerID, groupID))
	}

	summary, err := calculator.Summarize(group, viewerID)
	if err != nil {
		logFailure("GetGroupBalances failed - calculation error", err, "group_id", groupID)
		return nil, toConnectError(err)
	}
	balances, err := calculator.ComputeGroupBalances(group)
	if err != nil {
		logFailure("GetGroupBalances failed - calculation error", err, "group_id", groupID)
		return nil, toConnectError(err)
	}
	debtEdges := calculator.SuggestSettlements(group, balances)
	stats, err := calculator.ComputeStatistics(group)
	if err != nil {
		logFailure("GetGroupBalances failed - statistics error", err, "group_id", groupID)
		return nil, toConnectError(err)
	}

	apiBalances := make([]api.MemberBalance, len(summary))
	for i, bal := range summary {
		apiBalances[i] = api.MemberBalance{
			MemberID:   bal.MemberID,
			Name:       bal.Name,
			TotalPaid:  bal.TotalPaid,
			TotalShare: bal.TotalShare,
			NetBalance: bal.Net,
			Label:      balanceLabel(bal, s.formatter),
			Settled:    bal.Settled,
			IsViewer:   bal.IsViewer,
		}
	}

	apiDebts := toAPIDebtEdges(debtEdges, s.formatter)

	slog.Info("GetGroupBalances successful",
		"group_id", groupID,
		"expenses_count", len(group.Expenses),
		"members_count", len(summary),
		"debts_count", len(debtEdges),
	)

	return connect.NewResponse(&api.GetGroupBalancesResponse{
		Balances:    apiBalances,
		Suggestions: apiDebts,
		Settled:     balances.AllSettled(),
		Statistics: &api.Statistics{
			TotalSpent:         stats.TotalSpent,
			ExpenseCount:       stats.ExpenseCount,
			AverageExpense:     stats.AverageExpense,
			LargestExpenseID:   stats.LargestExpenseID,
			MostActivePayerID:  stats.MostActivePayerID,
			PendingSettlements: stats.PendingSettlements,
		},
	}), nil
}

// GetMonthlyAnalysis breaks a group's balances down by the month each
// obligation falls due, with settlement suggestions per month.
func (s *GroupService) GetMonthlyAnalysis(ctx context.Context, req *connect.Request[api.GetMonthlyAnalysisRequest]) (*connect.Response[api.GetMonthlyAnalysisResponse], error) {
	slog.Info("GetMonthlyAnalysis request received", "group_id", req.Msg.GroupID)

	group, err := loadGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	months, err := calculator.MonthlyAnalysis(group)
	if err != nil {
		logFailure("GetMonthlyAnalysis failed - calculation error", err, "group_id", group.ID)
		return nil, toConnectError(err)
	}

	slog.Info("GetMonthlyAnalysis successful", "group_id", group.ID, "months", len(months))

	return connect.NewResponse(&api.GetMonthlyAnalysisResponse{
		Months: toAPIMonthlyBalances(group, months, s.formatter),
	}), nil
}

// RecordSettlement records a repayment from one member to another as an
// expense, so it offsets their balances.
func (s *GroupService) RecordSettlement(ctx context.Context, req *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error) {
	msg := req.Msg
	slog.Info("RecordSettlement request received",
		"group_id", msg.GroupID,
		"from_id", msg.FromID,
		"to_id", msg.ToID,
		"amount", msg.Amount.String(),
	)

	if msg.FromID == msg.ToID {
		err := &calculator.ExpenseError{Field: "to_id", Reason: "a member cannot settle with themselves"}
		return nil, toConnectError(err)
	}

	group, err := loadGroup(ctx, s.store, msg.GroupID)
	if err != nil {
		return nil, err
	}

	expense := calculator.RepaymentExpense(group.ID, msg.FromID, msg.ToID, msg.Amount, strings.TrimSpace(msg.Note))
	if err := calculator.ValidateExpense(group, &expense); err != nil {
		logFailure("RecordSettlement validation failed", err, "group_id", group.ID)
		return nil, toConnectError(err)
	}

	if err := s.store.AddExpense(ctx, &expense); err != nil {
		logFailure("RecordSettlement failed", err, "group_id", group.ID)
		return nil, toConnectError(err)
	}
	s.metrics.SettlementsRecorded.Inc()

	slog.Info("Settlement recorded", "group_id", group.ID, "expense_id", expense.ID)

	apiExpense := toAPIExpense(&expense)
	return connect.NewResponse(&api.RecordSettlementResponse{Expense: &apiExpense}), nil
}

// loadGroup fetches a group snapshot and maps failures to Connect errors.
func loadGroup(ctx context.Context, store storage.Store, groupID string) (*models.Group, error) {
	if groupID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("group_id required"))
	}
	group, err := store.GetGroup(ctx, groupID)
	if err != nil {
		logFailure("Failed to load group", err, "group_id", groupID)
		return nil, toConnectError(err)
	}
	return group, nil
}
