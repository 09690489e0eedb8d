package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/metrics"
	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/money"
	"github.com/mmynk/groupledger/internal/storage"
	"github.com/mmynk/groupledger/pkg/api"
	"github.com/mmynk/groupledger/pkg/api/apiconnect"
)

// Ensure ExpenseService implements the Connect handler interface
var _ apiconnect.ExpenseServiceHandler = (*ExpenseService)(nil)

// ExpenseService implements the Connect ExpenseService
type ExpenseService struct {
	store     storage.Store
	formatter *money.Formatter
	metrics   *metrics.Metrics
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store, formatter *money.Formatter, m *metrics.Metrics) *ExpenseService {
	return &ExpenseService{store: store, formatter: formatter, metrics: m}
}

// CreateExpense validates an expense against its group and appends it.
// Nothing is persisted when validation fails.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	expense := fromAPIExpense(req.Msg.Expense)
	slog.Info("CreateExpense request received",
		"group_id", expense.GroupID,
		"paid_by", expense.PaidBy,
		"split_type", expense.SplitType,
		"participants_count", len(expense.SplitAmong),
	)

	group, err := loadGroup(ctx, s.store, expense.GroupID)
	if err != nil {
		return nil, err
	}

	if err := calculator.ValidateExpense(group, expense); err != nil {
		s.metrics.ExpensesRejected.WithLabelValues(rejectionReason(err)).Inc()
		logFailure("CreateExpense validation failed", err, "group_id", group.ID)
		return nil, toConnectError(err)
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.AddExpense(ctx, expense); err != nil {
		logFailure("CreateExpense failed", err, "group_id", group.ID)
		return nil, toConnectError(err)
	}
	s.metrics.ExpensesCreated.WithLabelValues(string(expense.SplitType)).Inc()

	slog.Info("Expense created", "group_id", group.ID, "expense_id", expense.ID)

	apiExpense := toAPIExpense(expense)
	return connect.NewResponse(&api.CreateExpenseResponse{Expense: &apiExpense}), nil
}

// ListExpenses retrieves a group's expenses in the order they were added.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	slog.Info("ListExpenses request received", "group_id", req.Msg.GroupID)

	if req.Msg.GroupID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("group_id required"))
	}

	expenses, err := s.store.ListExpenses(ctx, req.Msg.GroupID)
	if err != nil {
		logFailure("ListExpenses failed", err, "group_id", req.Msg.GroupID)
		return nil, toConnectError(err)
	}

	slog.Info("ListExpenses successful", "group_id", req.Msg.GroupID, "count", len(expenses))

	return connect.NewResponse(&api.ListExpensesResponse{
		Expenses: toAPIExpenses(expenses),
	}), nil
}

// PreviewSplit computes the shares of an expense without recording it.
// When the expense names a group it is also checked against the group's members.
func (s *ExpenseService) PreviewSplit(ctx context.Context, req *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error) {
	expense := fromAPIExpense(req.Msg.Expense)
	slog.Debug("PreviewSplit request received",
		"group_id", expense.GroupID,
		"split_type", expense.SplitType,
		"amount", expense.Amount.String(),
	)

	if expense.GroupID != "" {
		group, err := loadGroup(ctx, s.store, expense.GroupID)
		if err != nil {
			return nil, err
		}
		if err := calculator.ValidateExpense(group, expense); err != nil {
			logFailure("PreviewSplit validation failed", err, "group_id", group.ID)
			return nil, toConnectError(err)
		}
	}

	shares, err := calculator.Shares(expense)
	if err != nil {
		logFailure("PreviewSplit failed", err)
		return nil, toConnectError(err)
	}

	apiShares := make([]api.Share, len(shares))
	for i, share := range shares {
		slog.Debug("Member share", "member_id", share.MemberID, "amount", share.Amount.String())
		apiShares[i] = api.Share{
			MemberID: share.MemberID,
			Amount:   share.Amount,
			Label:    s.formatter.Format(share.Amount),
		}
	}

	return connect.NewResponse(&api.PreviewSplitResponse{Shares: apiShares}), nil
}

// GetInstallmentPlan returns the monthly schedule of an expense, or of one
// member's share of it when member_id is set. Schedules are informational;
// balances always count the full amount.
func (s *ExpenseService) GetInstallmentPlan(ctx context.Context, req *connect.Request[api.GetInstallmentPlanRequest]) (*connect.Response[api.GetInstallmentPlanResponse], error) {
	msg := req.Msg
	slog.Info("GetInstallmentPlan request received",
		"group_id", msg.GroupID,
		"expense_id", msg.ExpenseID,
		"member_id", msg.MemberID,
	)

	group, err := loadGroup(ctx, s.store, msg.GroupID)
	if err != nil {
		return nil, err
	}
	expense, ok := group.FindExpense(msg.ExpenseID)
	if !ok {
		return nil, connect.NewError(connect.CodeNotFound,
			fmt.Errorf("expense %s: %w", msg.ExpenseID, storage.ErrNotFound))
	}

	var plan []models.Installment
	if msg.MemberID != "" {
		plan, err = calculator.ShareSchedule(&expense, msg.MemberID)
	} else {
		plan, err = calculator.InstallmentSchedule(&expense)
	}
	if err != nil {
		logFailure("GetInstallmentPlan failed", err, "expense_id", expense.ID)
		return nil, toConnectError(err)
	}

	slog.Info("GetInstallmentPlan successful", "expense_id", expense.ID, "installments", len(plan))

	return connect.NewResponse(&api.GetInstallmentPlanResponse{
		Installments: toAPIInstallments(plan, s.formatter),
	}), nil
}

// PayInstallment marks one installment of an expense as paid. Payments are
// tracked for display and reminders only; balances are unaffected.
func (s *ExpenseService) PayInstallment(ctx context.Context, req *connect.Request[api.PayInstallmentRequest]) (*connect.Response[api.PayInstallmentResponse], error) {
	msg := req.Msg
	slog.Info("PayInstallment request received",
		"group_id", msg.GroupID,
		"expense_id", msg.ExpenseID,
		"number", msg.Number,
	)

	group, err := loadGroup(ctx, s.store, msg.GroupID)
	if err != nil {
		return nil, err
	}
	expense, ok := group.FindExpense(msg.ExpenseID)
	if !ok {
		return nil, connect.NewError(connect.CodeNotFound,
			fmt.Errorf("expense %s: %w", msg.ExpenseID, storage.ErrNotFound))
	}
	if err := calculator.CheckInstallment(&expense, msg.Number); err != nil {
		logFailure("PayInstallment validation failed", err, "expense_id", expense.ID)
		return nil, toConnectError(err)
	}

	paidAt := msg.PaidAt
	if paidAt == 0 {
		paidAt = time.Now().Unix()
	}
	if err := s.store.PayInstallment(ctx, group.ID, expense.ID, msg.Number, paidAt); err != nil {
		logFailure("PayInstallment failed", err, "expense_id", expense.ID)
		return nil, toConnectError(err)
	}
	s.metrics.InstallmentsPaid.Inc()

	if expense.PaidInstallments == nil {
		expense.PaidInstallments = make(map[int]int64, 1)
	}
	expense.PaidInstallments[msg.Number] = paidAt
	plan, err := calculator.InstallmentSchedule(&expense)
	if err != nil {
		logFailure("PayInstallment failed", err, "expense_id", expense.ID)
		return nil, toConnectError(err)
	}

	slog.Info("Installment paid", "expense_id", expense.ID, "number", msg.Number)

	installment := toAPIInstallment(plan[msg.Number-1], s.formatter)
	return connect.NewResponse(&api.PayInstallmentResponse{Installment: &installment}), nil
}

// ListDueInstallments returns the unpaid installments of a group that are
// overdue or due within the next days_ahead days, one entry per participant
// who owes the payer.
func (s *ExpenseService) ListDueInstallments(ctx context.Context, req *connect.Request[api.ListDueInstallmentsRequest]) (*connect.Response[api.ListDueInstallmentsResponse], error) {
	msg := req.Msg
	slog.Info("ListDueInstallments request received",
		"group_id", msg.GroupID,
		"member_id", msg.MemberID,
		"days_ahead", msg.DaysAhead,
	)

	if msg.DaysAhead < 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("days_ahead cannot be negative"))
	}
	daysAhead := msg.DaysAhead
	if daysAhead == 0 {
		daysAhead = calculator.DefaultDaysAhead
	}
	now := time.Now()
	if msg.AsOf != 0 {
		now = time.Unix(msg.AsOf, 0)
	}

	group, err := loadGroup(ctx, s.store, msg.GroupID)
	if err != nil {
		return nil, err
	}
	if msg.MemberID != "" && !group.HasMember(msg.MemberID) {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("member %s is not a member of group %s", msg.MemberID, group.ID))
	}

	overdue, err := calculator.OverdueInstallments(group, now)
	if err != nil {
		logFailure("ListDueInstallments failed", err, "group_id", group.ID)
		return nil, toConnectError(err)
	}
	upcoming, err := calculator.UpcomingInstallments(group, now, daysAhead)
	if err != nil {
		logFailure("ListDueInstallments failed", err, "group_id", group.ID)
		return nil, toConnectError(err)
	}

	resp := &api.ListDueInstallmentsResponse{
		Overdue:  toAPIDueInstallments(overdue, msg.MemberID, s.formatter),
		Upcoming: toAPIDueInstallments(upcoming, msg.MemberID, s.formatter),
	}

	slog.Info("ListDueInstallments successful",
		"group_id", group.ID,
		"overdue", len(resp.Overdue),
		"upcoming", len(resp.Upcoming),
	)

	return connect.NewResponse(resp), nil
}
