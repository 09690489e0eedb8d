package calculator

import (
	"slices"
	"time"

	"github.com/mmynk/groupledger/internal/models"
)

// MonthLayout formats the month keys of MonthlyAnalysis.
const MonthLayout = "2006-01"

// MonthlyBalance is the net position of the members involved in one month.
type MonthlyBalance struct {
	Month       string   // Month in MonthLayout form
	Balances    Balances // Members without activity that month are absent
	Suggestions []DebtEdge
}

// MonthlyAnalysis breaks group balances down by the month each obligation
// falls due. Every participant other than the payer owes its share, spread
// over the installment months of the expense; expenses paid at once fall in
// the month of their single due date. A payer's own share nets to zero and is
// left out.
//
// Months are returned oldest first. Each month's balances sum to zero and
// carry their own settlement suggestions. Paid installments still count in
// their due month: the analysis is about when money was committed, not when
// it moved.
func MonthlyAnalysis(group *models.Group) ([]MonthlyBalance, error) {
	months := make(map[string]Balances)

	for i := range group.Expenses {
		expense := &group.Expenses[i]
		for _, p := range expense.SplitAmong {
			if p == expense.PaidBy {
				continue
			}
			plan, err := ShareSchedule(expense, p)
			if err != nil {
				return nil, err
			}
			for _, inst := range plan {
				key := time.Unix(inst.DueDate, 0).UTC().Format(MonthLayout)
				b, ok := months[key]
				if !ok {
					b = make(Balances)
					months[key] = b
				}
				b[expense.PaidBy] = b[expense.PaidBy].Add(inst.Amount)
				b[p] = b[p].Sub(inst.Amount)
			}
		}
	}

	keys := make([]string, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	analysis := make([]MonthlyBalance, len(keys))
	for i, k := range keys {
		analysis[i] = MonthlyBalance{
			Month:       k,
			Balances:    months[k],
			Suggestions: SuggestSettlements(group, months[k]),
		}
	}
	return analysis, nil
}
