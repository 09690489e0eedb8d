package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/groupledger/internal/models"
)

func TestComputeStatistics(t *testing.T) {
	group := &models.Group{
		ID:      "g",
		Members: threeMembers(),
		Expenses: []models.Expense{
			{ID: "e1", Amount: d("100"), PaidBy: "a", SplitType: models.SplitEqual, SplitAmong: []string{"a", "b", "c"}},
			{ID: "e2", Amount: d("20"), PaidBy: "b", SplitType: models.SplitEqual, SplitAmong: []string{"a", "b"}},
			{ID: "e3", Amount: d("10"), PaidBy: "b", SplitType: models.SplitEqual, SplitAmong: []string{"b", "c"}},
		},
	}

	stats, err := ComputeStatistics(group)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.ExpenseCount)
	assertDecimal(t, "130", stats.TotalSpent)
	assertDecimal(t, "43.33", stats.AverageExpense)
	assert.Equal(t, "e1", stats.LargestExpenseID)
	assert.Equal(t, "b", stats.MostActivePayerID)
	assert.NotZero(t, stats.PendingSettlements)
}

func TestComputeStatistics_Empty(t *testing.T) {
	stats, err := ComputeStatistics(&models.Group{ID: "g", Members: threeMembers()})
	require.NoError(t, err)

	assert.Zero(t, stats.ExpenseCount)
	assert.True(t, stats.TotalSpent.IsZero())
	assert.Empty(t, stats.LargestExpenseID)
	assert.Zero(t, stats.PendingSettlements)
}

func TestComputeStatistics_SubCentBalancesNeedNoPayment(t *testing.T) {
	stats, err := ComputeStatistics(subCentGroup())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.ExpenseCount)
	assert.Zero(t, stats.PendingSettlements)
}
