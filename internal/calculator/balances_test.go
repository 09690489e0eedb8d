package calculator

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/money"
)

func threeMembers() []models.Member {
	return []models.Member{
		{ID: "a", Name: "Alice", Email: "alice@example.com"},
		{ID: "b", Name: "Bob", Email: "bob@example.com"},
		{ID: "c", Name: "Carol", Email: "carol@example.com"},
	}
}

// subCentGroup leaves a owed half a cent by b.
func subCentGroup() *models.Group {
	return &models.Group{
		ID:      "g",
		Members: threeMembers(),
		Expenses: []models.Expense{
			{
				ID: "e1", Amount: d("0.01"), PaidBy: "a", SplitType: models.SplitPercentage,
				SplitAmong:  []string{"b"},
				SplitValues: map[string]decimal.Decimal{"b": d("100")},
			},
			{
				ID: "e2", Amount: d("0.005"), PaidBy: "b", SplitType: models.SplitExact,
				SplitAmong:  []string{"a"},
				SplitValues: map[string]decimal.Decimal{"a": d("0.005")},
			},
		},
	}
}

func TestComputeGroupBalances(t *testing.T) {
	tests := []struct {
		name     string
		expenses []models.Expense
		want     map[string]string
	}{
		{
			name: "no expenses leaves everyone at zero",
			want: map[string]string{"a": "0", "b": "0", "c": "0"},
		},
		{
			name: "equal split paid by a participant",
			expenses: []models.Expense{
				{ID: "e1", Amount: d("100.00"), PaidBy: "a", SplitType: models.SplitEqual, SplitAmong: []string{"a", "b", "c"}},
			},
			want: map[string]string{"a": "66.67", "b": "-33.33", "c": "-33.34"},
		},
		{
			name: "exact split",
			expenses: []models.Expense{
				{
					ID: "e1", Amount: d("100.00"), PaidBy: "a", SplitType: models.SplitExact,
					SplitAmong:  []string{"a", "b"},
					SplitValues: map[string]decimal.Decimal{"a": d("40"), "b": d("60")},
				},
			},
			want: map[string]string{"a": "60", "b": "-60", "c": "0"},
		},
		{
			name: "percentage split within tolerance nets to zero",
			expenses: []models.Expense{
				{
					ID: "e1", Amount: d("10000"), PaidBy: "c", SplitType: models.SplitPercentage,
					SplitAmong:  []string{"a", "b"},
					SplitValues: map[string]decimal.Decimal{"a": d("50"), "b": d("50.01")},
				},
			},
			want: map[string]string{"a": "-5000", "b": "-5000", "c": "10000"},
		},
		{
			name: "payer outside the split is credited the full amount",
			expenses: []models.Expense{
				{ID: "e1", Amount: d("50"), PaidBy: "c", SplitType: models.SplitEqual, SplitAmong: []string{"a", "b"}},
			},
			want: map[string]string{"a": "-25", "b": "-25", "c": "50"},
		},
		{
			name: "installment expense counts at full amount",
			expenses: []models.Expense{
				{ID: "e1", Amount: d("120"), PaidBy: "a", SplitType: models.SplitEqual, SplitAmong: []string{"a", "b"}, InstallmentsCount: 12},
			},
			want: map[string]string{"a": "60", "b": "-60", "c": "0"},
		},
		{
			name: "multiple expenses cancel out",
			expenses: []models.Expense{
				{ID: "e1", Amount: d("30"), PaidBy: "a", SplitType: models.SplitEqual, SplitAmong: []string{"a", "b", "c"}},
				{ID: "e2", Amount: d("30"), PaidBy: "b", SplitType: models.SplitEqual, SplitAmong: []string{"a", "b", "c"}},
				{ID: "e3", Amount: d("30"), PaidBy: "c", SplitType: models.SplitEqual, SplitAmong: []string{"a", "b", "c"}},
			},
			want: map[string]string{"a": "0", "b": "0", "c": "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			group := &models.Group{ID: "g", Members: threeMembers(), Expenses: tt.expenses}
			balances, err := ComputeGroupBalances(group)
			require.NoError(t, err)
			assert.Len(t, balances, len(tt.want))
			for id, want := range tt.want {
				assertDecimal(t, want, balances[id], "balance of", id)
			}
			assert.True(t, money.IsSettled(balances.Sum()), "balances sum = %s, want 0", balances.Sum())
		})
	}
}

func TestComputeGroupBalances_SumsToZero(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	members := []models.Member{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}, {ID: "e"}}

	for round := 0; round < 50; round++ {
		group := &models.Group{ID: "g", Members: members}
		for i := 0; i < 20; i++ {
			n := 1 + rng.Intn(len(members))
			perm := rng.Perm(len(members))[:n]
			among := make([]string, n)
			for k, idx := range perm {
				among[k] = members[idx].ID
			}
			amount := decimal.New(int64(1+rng.Intn(100000)), -2)
			expense := models.Expense{
				ID:         fmt.Sprintf("e%d", i),
				Amount:     amount,
				PaidBy:     members[rng.Intn(len(members))].ID,
				SplitAmong: among,
			}

			switch rng.Intn(3) {
			case 0:
				expense.SplitType = models.SplitEqual
			case 1:
				expense.SplitType = models.SplitExact
				parts, _ := money.SplitEvenly(amount, n)
				expense.SplitValues = make(map[string]decimal.Decimal, n)
				for k, p := range among {
					expense.SplitValues[p] = parts[k]
				}
			default:
				expense.SplitType = models.SplitPercentage
				parts, _ := money.SplitEvenly(money.Hundred, n)
				expense.SplitValues = make(map[string]decimal.Decimal, n)
				for k, p := range among {
					expense.SplitValues[p] = parts[k]
				}
			}
			group.Expenses = append(group.Expenses, expense)
		}

		balances, err := ComputeGroupBalances(group)
		require.NoError(t, err, "round %d", round)
		assert.True(t, balances.Sum().IsZero(), "round %d: balances sum = %s, want 0", round, balances.Sum())
	}
}

func TestComputeGroupBalances_UnknownPayer(t *testing.T) {
	group := &models.Group{
		ID:      "g",
		Members: threeMembers(),
		Expenses: []models.Expense{
			{ID: "e1", Amount: d("10"), PaidBy: "z", SplitType: models.SplitEqual, SplitAmong: []string{"a"}},
		},
	}

	_, err := ComputeGroupBalances(group)
	assert.ErrorIs(t, err, ErrInvalidParticipant)
}

func TestComputeGroupBalances_InvalidStoredSplit(t *testing.T) {
	group := &models.Group{
		ID:      "g",
		Members: threeMembers(),
		Expenses: []models.Expense{
			{
				ID: "e1", Amount: d("10"), PaidBy: "a", SplitType: models.SplitExact,
				SplitAmong:  []string{"a", "b"},
				SplitValues: map[string]decimal.Decimal{"a": d("1"), "b": d("1")},
			},
		},
	}

	_, err := ComputeGroupBalances(group)
	assert.ErrorIs(t, err, ErrSplitMismatch)
}

func TestSummarize(t *testing.T) {
	group := &models.Group{
		ID:      "g",
		Members: threeMembers(),
		Expenses: []models.Expense{
			{ID: "e1", Amount: d("90"), PaidBy: "a", SplitType: models.SplitEqual, SplitAmong: []string{"a", "b", "c"}},
			{ID: "e2", Amount: d("30"), PaidBy: "b", SplitType: models.SplitEqual, SplitAmong: []string{"b", "c"}},
		},
	}

	summaries, err := Summarize(group, "b")
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	// a paid 90, owes 30; b paid 30, owes 45; c paid 0, owes 45
	want := []struct {
		id, paid, share, net string
		viewer               bool
	}{
		{"a", "90", "30", "60", false},
		{"b", "30", "45", "-15", true},
		{"c", "0", "45", "-45", false},
	}
	for i, w := range want {
		s := summaries[i]
		assert.Equal(t, w.id, s.MemberID)
		assertDecimal(t, w.paid, s.TotalPaid, w.id, "paid")
		assertDecimal(t, w.share, s.TotalShare, w.id, "share")
		assertDecimal(t, w.net, s.Net, w.id, "net")
		assert.Equal(t, w.viewer, s.IsViewer, w.id)
		assert.False(t, s.Settled, w.id)
	}
	assert.Equal(t, "Alice", summaries[0].Name)
}

func TestCheckSettled(t *testing.T) {
	t.Run("unsettled group reports outstanding balances", func(t *testing.T) {
		group := &models.Group{
			ID:      "g",
			Members: threeMembers(),
			Expenses: []models.Expense{
				{ID: "e1", Amount: d("100"), PaidBy: "a", SplitType: models.SplitEqual, SplitAmong: []string{"a", "b", "c"}},
			},
		}

		err := CheckSettled(group)
		require.ErrorIs(t, err, ErrOutstandingBalance)

		var oErr *OutstandingBalanceError
		require.ErrorAs(t, err, &oErr)
		assert.Len(t, oErr.Unsettled, 3)
		for _, part := range []string{"Alice is owed 66.67", "Bob owes 33.33", "Carol owes 33.34"} {
			assert.Contains(t, err.Error(), part)
		}
	})

	t.Run("repayments settle the group", func(t *testing.T) {
		group := &models.Group{
			ID:      "g",
			Members: threeMembers(),
			Expenses: []models.Expense{
				{ID: "e1", Amount: d("100"), PaidBy: "a", SplitType: models.SplitEqual, SplitAmong: []string{"a", "b", "c"}},
			},
		}
		group.Expenses = append(group.Expenses,
			RepaymentExpense("g", "b", "a", d("33.33"), ""),
			RepaymentExpense("g", "c", "a", d("33.34"), "cash"),
		)

		assert.NoError(t, CheckSettled(group))
	})

	t.Run("sub-cent residue counts as settled", func(t *testing.T) {
		assert.NoError(t, CheckSettled(subCentGroup()))
	})
}

func TestSuggestSettlements(t *testing.T) {
	group := &models.Group{
		ID:      "g",
		Members: []models.Member{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}},
	}
	balances := Balances{
		"a": d("50"),
		"b": d("-20"),
		"c": d("-30"),
		"d": d("0"),
	}

	edges := SuggestSettlements(group, balances)
	require.Len(t, edges, 2)

	// Largest debtor pays first.
	assert.Equal(t, "c", edges[0].From)
	assert.Equal(t, "a", edges[0].To)
	assertDecimal(t, "30", edges[0].Amount)
	assert.Equal(t, "b", edges[1].From)
	assert.Equal(t, "a", edges[1].To)
	assertDecimal(t, "20", edges[1].Amount)
}

func TestSuggestSettlements_SettlesEveryone(t *testing.T) {
	group := &models.Group{
		ID:      "g",
		Members: threeMembers(),
		Expenses: []models.Expense{
			{ID: "e1", Amount: d("100"), PaidBy: "a", SplitType: models.SplitEqual, SplitAmong: []string{"a", "b", "c"}},
			{ID: "e2", Amount: d("45.50"), PaidBy: "b", SplitType: models.SplitEqual, SplitAmong: []string{"a", "b", "c"}},
		},
	}

	balances, err := ComputeGroupBalances(group)
	require.NoError(t, err)

	for _, e := range SuggestSettlements(group, balances) {
		group.Expenses = append(group.Expenses, RepaymentExpense(group.ID, e.From, e.To, e.Amount, ""))
	}

	assert.NoError(t, CheckSettled(group), "group not settled after suggested payments")
}

func TestSuggestSettlements_AlreadySettled(t *testing.T) {
	group := &models.Group{ID: "g", Members: threeMembers()}
	assert.Empty(t, SuggestSettlements(group, Balances{"a": d("0.004"), "b": d("-0.004")}))
}

func TestSuggestSettlements_HalfCentIsSettled(t *testing.T) {
	group := subCentGroup()

	balances, err := ComputeGroupBalances(group)
	require.NoError(t, err)
	assertDecimal(t, "0.005", balances["a"])
	assertDecimal(t, "-0.005", balances["b"])

	// Rounding 0.005 to the cent would suggest a payment of 0.01.
	assert.Empty(t, SuggestSettlements(group, balances))
	assert.Empty(t, SuggestSettlements(group, Balances{"a": d("0.005"), "b": d("-0.005")}))
	assert.Empty(t, SuggestSettlements(group, Balances{"a": d("-0.009"), "b": d("0.009")}))
}
