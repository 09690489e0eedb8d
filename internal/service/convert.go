package service

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/money"
	"github.com/mmynk/groupledger/pkg/api"
)

func toAPIGroup(group *models.Group) *api.Group {
	members := make([]api.Member, len(group.Members))
	for i, m := range group.Members {
		members[i] = toAPIMember(m)
	}
	return &api.Group{
		ID:           group.ID,
		Name:         group.Name,
		Members:      members,
		ExpenseCount: len(group.Expenses),
		CreatedAt:    group.CreatedAt,
	}
}

func toAPIMember(m models.Member) api.Member {
	return api.Member{ID: m.ID, Name: m.Name, Email: m.Email}
}

func toAPIExpense(e *models.Expense) api.Expense {
	return api.Expense{
		ID:                e.ID,
		GroupID:           e.GroupID,
		Description:       e.Description,
		Category:          e.Category,
		Amount:            e.Amount,
		PaidBy:            e.PaidBy,
		SplitType:         string(e.SplitType),
		SplitAmong:        e.SplitAmong,
		SplitValues:       e.SplitValues,
		InstallmentsCount: e.InstallmentsCount,
		FirstDueDate:      e.FirstDueDate,
		CreatedAt:         e.CreatedAt,
	}
}

func toAPIExpenses(expenses []models.Expense) []api.Expense {
	out := make([]api.Expense, len(expenses))
	for i := range expenses {
		out[i] = toAPIExpense(&expenses[i])
	}
	return out
}

// fromAPIExpense builds a model expense from a client message. IDs and
// timestamps are left for the store to assign.
func fromAPIExpense(e api.Expense) *models.Expense {
	expense := &models.Expense{
		GroupID:           e.GroupID,
		Description:       strings.TrimSpace(e.Description),
		Category:          strings.TrimSpace(e.Category),
		Amount:            e.Amount,
		PaidBy:            e.PaidBy,
		SplitType:         models.SplitType(strings.ToUpper(e.SplitType)),
		SplitAmong:        e.SplitAmong,
		InstallmentsCount: e.InstallmentsCount,
		FirstDueDate:      e.FirstDueDate,
	}
	if expense.SplitType != models.SplitEqual && len(e.SplitValues) > 0 {
		expense.SplitValues = make(map[string]decimal.Decimal, len(e.SplitValues))
		for id, v := range e.SplitValues {
			expense.SplitValues[id] = v
		}
	}
	return expense
}

func toAPIInstallment(inst models.Installment, f *money.Formatter) api.Installment {
	return api.Installment{
		Number:  inst.Number,
		DueDate: inst.DueDate,
		Amount:  inst.Amount,
		Label:   f.Format(inst.Amount),
		Paid:    inst.Paid,
		PaidAt:  inst.PaidAt,
	}
}

func toAPIInstallments(plan []models.Installment, f *money.Formatter) []api.Installment {
	out := make([]api.Installment, len(plan))
	for i, inst := range plan {
		out[i] = toAPIInstallment(inst, f)
	}
	return out
}

// toAPIDueInstallments converts due installments, keeping only memberID's
// when it is set.
func toAPIDueInstallments(due []calculator.DueInstallment, memberID string, f *money.Formatter) []api.DueInstallment {
	out := make([]api.DueInstallment, 0, len(due))
	for _, d := range due {
		if memberID != "" && d.MemberID != memberID {
			continue
		}
		out = append(out, api.DueInstallment{
			GroupID:     d.GroupID,
			ExpenseID:   d.ExpenseID,
			Description: d.Description,
			MemberID:    d.MemberID,
			PaidBy:      d.PaidBy,
			Installment: toAPIInstallment(d.Installment, f),
			DaysOverdue: d.DaysOverdue,
		})
	}
	return out
}

func toAPIDebtEdges(edges []calculator.DebtEdge, f *money.Formatter) []api.DebtEdge {
	out := make([]api.DebtEdge, len(edges))
	for i, e := range edges {
		out[i] = api.DebtEdge{
			From:   e.From,
			To:     e.To,
			Amount: e.Amount,
			Label:  f.Format(e.Amount),
		}
	}
	return out
}

// toAPIMonthlyBalances lists each month's balances in group member order.
func toAPIMonthlyBalances(group *models.Group, months []calculator.MonthlyBalance, f *money.Formatter) []api.MonthlyBalance {
	out := make([]api.MonthlyBalance, len(months))
	for i, month := range months {
		balances := make([]api.MonthlyMemberBalance, 0, len(month.Balances))
		for _, m := range group.Members {
			net, ok := month.Balances[m.ID]
			if !ok {
				continue
			}
			balances = append(balances, api.MonthlyMemberBalance{
				MemberID:   m.ID,
				NetBalance: net,
				Label:      f.Format(net),
			})
		}
		out[i] = api.MonthlyBalance{
			Month:       month.Month,
			Balances:    balances,
			Suggestions: toAPIDebtEdges(month.Suggestions, f),
		}
	}
	return out
}

// balanceLabel describes a net balance for display.
func balanceLabel(b calculator.MemberBalance, f *money.Formatter) string {
	switch {
	case b.Settled:
		return "settled up"
	case b.Net.IsPositive():
		return "is owed " + f.Format(b.Net)
	default:
		return "owes " + f.Format(b.Net.Neg())
	}
}
