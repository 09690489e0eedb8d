package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/groupledger/internal/models"
)

// Statistics summarizes a group's spending.
type Statistics struct {
	TotalSpent         decimal.Decimal
	ExpenseCount       int
	AverageExpense     decimal.Decimal // Rounded to cents; zero without expenses
	LargestExpenseID   string
	MostActivePayerID  string // Member who paid the most expenses; first in member order on ties
	PendingSettlements int    // Number of suggested payments still needed
}

// ComputeStatistics aggregates spending figures for group.
func ComputeStatistics(group *models.Group) (Statistics, error) {
	stats := Statistics{
		TotalSpent:     decimal.Zero,
		AverageExpense: decimal.Zero,
		ExpenseCount:   len(group.Expenses),
	}
	if len(group.Expenses) == 0 {
		return stats, nil
	}

	balances, err := ComputeGroupBalances(group)
	if err != nil {
		return Statistics{}, err
	}

	largest := decimal.Zero
	payCounts := make(map[string]int)
	for _, e := range group.Expenses {
		stats.TotalSpent = stats.TotalSpent.Add(e.Amount)
		if e.Amount.GreaterThan(largest) {
			largest = e.Amount
			stats.LargestExpenseID = e.ID
		}
		payCounts[e.PaidBy]++
	}

	best := 0
	for _, m := range group.Members {
		if payCounts[m.ID] > best {
			best = payCounts[m.ID]
			stats.MostActivePayerID = m.ID
		}
	}

	stats.AverageExpense = stats.TotalSpent.DivRound(decimal.NewFromInt(int64(len(group.Expenses))), 2)
	stats.PendingSettlements = len(SuggestSettlements(group, balances))
	return stats, nil
}
