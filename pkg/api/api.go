// Package api defines the request and response messages of the
// groupledger.v1 services. Messages travel as JSON; money amounts are
// decimal strings (e.g. "33.34") so they never pass through float64.
package api

import "github.com/shopspring/decimal"

// Member is a participant of a group.
type Member struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Group is a group snapshot without its expenses.
type Group struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Members      []Member `json:"members"`
	ExpenseCount int      `json:"expense_count"`
	CreatedAt    int64    `json:"created_at"`
}

// Expense is a recorded expense.
type Expense struct {
	ID                string                     `json:"id,omitempty"`
	GroupID           string                     `json:"group_id"`
	Description       string                     `json:"description"`
	Category          string                     `json:"category,omitempty"`
	Amount            decimal.Decimal            `json:"amount"`
	PaidBy            string                     `json:"paid_by"`
	SplitType         string                     `json:"split_type"`
	SplitAmong        []string                   `json:"split_among"`
	SplitValues       map[string]decimal.Decimal `json:"split_values,omitempty"`
	InstallmentsCount int                        `json:"installments_count,omitempty"`
	FirstDueDate      int64                      `json:"first_due_date,omitempty"`
	CreatedAt         int64                      `json:"created_at,omitempty"`
}

// Share is one participant's part of an expense.
type Share struct {
	MemberID string          `json:"member_id"`
	Amount   decimal.Decimal `json:"amount"`
	Label    string          `json:"label"`
}

// MemberBalance is a member's position within a group.
// A positive NetBalance means the member is owed money.
type MemberBalance struct {
	MemberID   string          `json:"member_id"`
	Name       string          `json:"name"`
	TotalPaid  decimal.Decimal `json:"total_paid"`
	TotalShare decimal.Decimal `json:"total_share"`
	NetBalance decimal.Decimal `json:"net_balance"`
	Label      string          `json:"label"`
	Settled    bool            `json:"settled"`
	IsViewer   bool            `json:"is_viewer,omitempty"`
}

// DebtEdge is a suggested payment from one member to another.
type DebtEdge struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
	Label  string          `json:"label"`
}

// Statistics summarizes spending in a group.
type Statistics struct {
	TotalSpent         decimal.Decimal `json:"total_spent"`
	ExpenseCount       int             `json:"expense_count"`
	AverageExpense     decimal.Decimal `json:"average_expense"`
	LargestExpenseID   string          `json:"largest_expense_id,omitempty"`
	MostActivePayerID  string          `json:"most_active_payer_id,omitempty"`
	PendingSettlements int             `json:"pending_settlements"`
}

// Installment is one entry of a display-only payment schedule.
type Installment struct {
	Number  int             `json:"number"`
	DueDate int64           `json:"due_date"`
	Amount  decimal.Decimal `json:"amount"`
	Label   string          `json:"label"`
	Paid    bool            `json:"paid"`
	PaidAt  int64           `json:"paid_at,omitempty"`
}

// DueInstallment is a participant's part of an unpaid installment.
// DaysOverdue is negative for installments not yet due.
type DueInstallment struct {
	GroupID     string      `json:"group_id"`
	ExpenseID   string      `json:"expense_id"`
	Description string      `json:"description"`
	MemberID    string      `json:"member_id"`
	PaidBy      string      `json:"paid_by"`
	Installment Installment `json:"installment"`
	DaysOverdue int         `json:"days_overdue"`
}

// MonthlyMemberBalance is a member's net position within one month.
type MonthlyMemberBalance struct {
	MemberID   string          `json:"member_id"`
	NetBalance decimal.Decimal `json:"net_balance"`
	Label      string          `json:"label"`
}

// MonthlyBalance is the breakdown of one month, keyed "YYYY-MM".
type MonthlyBalance struct {
	Month       string                 `json:"month"`
	Balances    []MonthlyMemberBalance `json:"balances"`
	Suggestions []DebtEdge             `json:"suggestions"`
}

type CreateGroupRequest struct {
	Name    string   `json:"name"`
	Members []Member `json:"members"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group    *Group    `json:"group"`
	Expenses []Expense `json:"expenses"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []Group `json:"groups"`
}

type AddMemberRequest struct {
	GroupID string `json:"group_id"`
	Member  Member `json:"member"`
}

type AddMemberResponse struct {
	Member *Member `json:"member"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"group_id"`
}

type DeleteGroupResponse struct{}

// GetGroupBalancesRequest asks for a group's balances as seen by ViewerID.
// ViewerID is optional; it only marks the viewer's own row.
type GetGroupBalancesRequest struct {
	GroupID  string `json:"group_id"`
	ViewerID string `json:"viewer_id,omitempty"`
}

type GetGroupBalancesResponse struct {
	Balances    []MemberBalance `json:"balances"`
	Suggestions []DebtEdge      `json:"suggestions"`
	Settled     bool            `json:"settled"`
	Statistics  *Statistics     `json:"statistics"`
}

// RecordSettlementRequest records that FromID paid Amount back to ToID.
type RecordSettlementRequest struct {
	GroupID string          `json:"group_id"`
	FromID  string          `json:"from_id"`
	ToID    string          `json:"to_id"`
	Amount  decimal.Decimal `json:"amount"`
	Note    string          `json:"note,omitempty"`
}

type RecordSettlementResponse struct {
	Expense *Expense `json:"expense"`
}

// GetMonthlyAnalysisRequest asks for a group's balances broken down by the
// month obligations fall due.
type GetMonthlyAnalysisRequest struct {
	GroupID string `json:"group_id"`
}

type GetMonthlyAnalysisResponse struct {
	Months []MonthlyBalance `json:"months"`
}

type CreateExpenseRequest struct {
	Expense Expense `json:"expense"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupID string `json:"group_id"`
}

type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

// PreviewSplitRequest computes shares for an expense without recording it.
type PreviewSplitRequest struct {
	Expense Expense `json:"expense"`
}

type PreviewSplitResponse struct {
	Shares []Share `json:"shares"`
}

// GetInstallmentPlanRequest asks for the schedule of an expense. When
// MemberID is set the plan covers only that member's share.
type GetInstallmentPlanRequest struct {
	GroupID   string `json:"group_id"`
	ExpenseID string `json:"expense_id"`
	MemberID  string `json:"member_id,omitempty"`
}

type GetInstallmentPlanResponse struct {
	Installments []Installment `json:"installments"`
}

// PayInstallmentRequest marks installment Number of an expense as paid.
// PaidAt defaults to now.
type PayInstallmentRequest struct {
	GroupID   string `json:"group_id"`
	ExpenseID string `json:"expense_id"`
	Number    int    `json:"number"`
	PaidAt    int64  `json:"paid_at,omitempty"`
}

type PayInstallmentResponse struct {
	Installment *Installment `json:"installment"`
}

// ListDueInstallmentsRequest asks for the overdue and upcoming installments
// of a group. MemberID narrows the result to one participant. DaysAhead
// defaults to 3 and AsOf (a Unix timestamp) to now.
type ListDueInstallmentsRequest struct {
	GroupID   string `json:"group_id"`
	MemberID  string `json:"member_id,omitempty"`
	DaysAhead int    `json:"days_ahead,omitempty"`
	AsOf      int64  `json:"as_of,omitempty"`
}

type ListDueInstallmentsResponse struct {
	Overdue  []DueInstallment `json:"overdue"`
	Upcoming []DueInstallment `json:"upcoming"`
}
