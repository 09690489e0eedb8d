package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/groupledger/internal/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sharesByMember(shares []Share) map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(shares))
	for _, s := range shares {
		m[s.MemberID] = s.Amount
	}
	return m
}

// assertDecimal fails when got is not numerically equal to want.
func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "got %s, want %s %v", got, want, msgAndArgs)
}

func sumShares(shares []Share) decimal.Decimal {
	total := decimal.Zero
	for _, s := range shares {
		total = total.Add(s.Amount)
	}
	return total
}

func TestShares(t *testing.T) {
	tests := []struct {
		name    string
		expense models.Expense
		wantErr error
		want    map[string]string
	}{
		{
			name: "equal split divides evenly",
			expense: models.Expense{
				ID: "e1", Amount: d("90"), PaidBy: "a", SplitType: models.SplitEqual,
				SplitAmong: []string{"a", "b", "c"},
			},
			want: map[string]string{"a": "30", "b": "30", "c": "30"},
		},
		{
			name: "equal split leftover cent goes to last non-payer",
			expense: models.Expense{
				ID: "e2", Amount: d("100"), PaidBy: "a", SplitType: models.SplitEqual,
				SplitAmong: []string{"a", "b", "c"},
			},
			want: map[string]string{"a": "33.33", "b": "33.33", "c": "33.34"},
		},
		{
			name: "equal split leftover skips a trailing payer",
			expense: models.Expense{
				ID: "e3", Amount: d("100"), PaidBy: "c", SplitType: models.SplitEqual,
				SplitAmong: []string{"a", "b", "c"},
			},
			want: map[string]string{"a": "33.33", "b": "33.34", "c": "33.33"},
		},
		{
			name: "equal split with two leftover cents",
			expense: models.Expense{
				ID: "e4", Amount: d("200"), PaidBy: "a", SplitType: models.SplitEqual,
				SplitAmong: []string{"a", "b", "c"},
			},
			want: map[string]string{"a": "66.66", "b": "66.67", "c": "66.67"},
		},
		{
			name: "equal split ignores split values",
			expense: models.Expense{
				ID: "e5", Amount: d("10"), PaidBy: "a", SplitType: models.SplitEqual,
				SplitAmong:  []string{"a", "b"},
				SplitValues: map[string]decimal.Decimal{"a": d("9")},
			},
			want: map[string]string{"a": "5", "b": "5"},
		},
		{
			name: "exact split returns the given amounts",
			expense: models.Expense{
				ID: "e6", Amount: d("100.00"), PaidBy: "a", SplitType: models.SplitExact,
				SplitAmong:  []string{"a", "b"},
				SplitValues: map[string]decimal.Decimal{"a": d("40"), "b": d("60")},
			},
			want: map[string]string{"a": "40", "b": "60"},
		},
		{
			name: "exact split within one cent is accepted",
			expense: models.Expense{
				ID: "e7", Amount: d("100.00"), PaidBy: "a", SplitType: models.SplitExact,
				SplitAmong:  []string{"a", "b"},
				SplitValues: map[string]decimal.Decimal{"a": d("40"), "b": d("60.01")},
			},
			want: map[string]string{"a": "40", "b": "60.01"},
		},
		{
			name: "exact split that does not add up",
			expense: models.Expense{
				ID: "e8", Amount: d("100.00"), PaidBy: "a", SplitType: models.SplitExact,
				SplitAmong:  []string{"a", "b"},
				SplitValues: map[string]decimal.Decimal{"a": d("40"), "b": d("50")},
			},
			wantErr: ErrSplitMismatch,
		},
		{
			name: "exact split with a missing value",
			expense: models.Expense{
				ID: "e9", Amount: d("100.00"), PaidBy: "a", SplitType: models.SplitExact,
				SplitAmong:  []string{"a", "b"},
				SplitValues: map[string]decimal.Decimal{"a": d("100")},
			},
			want: map[string]string{"a": "100", "b": "0"},
		},
		{
			name: "exact split with a negative value",
			expense: models.Expense{
				ID: "e10", Amount: d("10"), PaidBy: "a", SplitType: models.SplitExact,
				SplitAmong:  []string{"a", "b"},
				SplitValues: map[string]decimal.Decimal{"a": d("20"), "b": d("-10")},
			},
			wantErr: ErrSplitMismatch,
		},
		{
			name: "percentage split is not rounded",
			expense: models.Expense{
				ID: "e11", Amount: d("90.00"), PaidBy: "a", SplitType: models.SplitPercentage,
				SplitAmong: []string{"a", "b", "c"},
				SplitValues: map[string]decimal.Decimal{
					"a": d("33.34"), "b": d("33.33"), "c": d("33.33"),
				},
			},
			want: map[string]string{"a": "30.006", "b": "29.997", "c": "29.997"},
		},
		{
			name: "percentages over 100 within tolerance are reconciled on the last non-payer",
			expense: models.Expense{
				ID: "e12", Amount: d("10000"), PaidBy: "c", SplitType: models.SplitPercentage,
				SplitAmong:  []string{"a", "b"},
				SplitValues: map[string]decimal.Decimal{"a": d("50"), "b": d("50.01")},
			},
			want: map[string]string{"a": "5000", "b": "5000"},
		},
		{
			name: "percentages under 100 within tolerance are reconciled on the last non-payer",
			expense: models.Expense{
				ID: "e13", Amount: d("10000"), PaidBy: "b", SplitType: models.SplitPercentage,
				SplitAmong:  []string{"a", "b", "c"},
				SplitValues: map[string]decimal.Decimal{"a": d("33.33"), "b": d("33.33"), "c": d("33.33")},
			},
			want: map[string]string{"a": "3333", "b": "3333", "c": "3334"},
		},
		{
			name: "residue skips a share that would turn negative",
			expense: models.Expense{
				ID: "e14", Amount: d("10000"), PaidBy: "a", SplitType: models.SplitPercentage,
				SplitAmong:  []string{"a", "b", "c"},
				SplitValues: map[string]decimal.Decimal{"a": d("50"), "b": d("50.01"), "c": d("0")},
			},
			want: map[string]string{"a": "5000", "b": "5000", "c": "0"},
		},
		{
			name: "percentages that do not reach 100",
			expense: models.Expense{
				ID: "e15", Amount: d("90"), PaidBy: "a", SplitType: models.SplitPercentage,
				SplitAmong:  []string{"a", "b"},
				SplitValues: map[string]decimal.Decimal{"a": d("50"), "b": d("49")},
			},
			wantErr: ErrSplitMismatch,
		},
		{
			name: "zero amount",
			expense: models.Expense{
				ID: "e16", Amount: decimal.Zero, PaidBy: "a", SplitType: models.SplitEqual,
				SplitAmong: []string{"a"},
			},
			wantErr: ErrInvalidExpense,
		},
		{
			name: "no participants",
			expense: models.Expense{
				ID: "e17", Amount: d("10"), PaidBy: "a", SplitType: models.SplitEqual,
			},
			wantErr: ErrInvalidExpense,
		},
		{
			name: "duplicate participants",
			expense: models.Expense{
				ID: "e18", Amount: d("10"), PaidBy: "a", SplitType: models.SplitEqual,
				SplitAmong: []string{"a", "a"},
			},
			wantErr: ErrInvalidExpense,
		},
		{
			name: "unknown split type",
			expense: models.Expense{
				ID: "e19", Amount: d("10"), PaidBy: "a", SplitType: "SHARES",
				SplitAmong: []string{"a"},
			},
			wantErr: ErrInvalidExpense,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := Shares(&tt.expense)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Len(t, shares, len(tt.expense.SplitAmong))

			for i, s := range shares {
				assert.Equal(t, tt.expense.SplitAmong[i], s.MemberID, "share %d", i)
			}
			got := sharesByMember(shares)
			for id, want := range tt.want {
				assertDecimal(t, want, got[id], "share of", id)
			}
		})
	}
}

func TestShares_EqualAlwaysAddsUpToAmount(t *testing.T) {
	amounts := []string{"0.01", "0.05", "1", "10", "99.99", "100", "123.45", "1000.01", "33.33"}
	members := []string{"a", "b", "c", "d", "e", "f", "g"}

	for _, amount := range amounts {
		for n := 1; n <= len(members); n++ {
			expense := models.Expense{
				ID: "e", Amount: d(amount), PaidBy: "a", SplitType: models.SplitEqual,
				SplitAmong: members[:n],
			}
			shares, err := Shares(&expense)
			require.NoError(t, err, "Shares(%s / %d)", amount, n)

			for _, s := range shares {
				assert.False(t, s.Amount.IsNegative(), "Shares(%s / %d): negative share %s for %s", amount, n, s.Amount, s.MemberID)
			}
			assertDecimal(t, amount, sumShares(shares), "sum of", amount, "over", n)
		}
	}
}

func TestShares_PercentageAlwaysAddsUpToAmount(t *testing.T) {
	splits := []map[string]decimal.Decimal{
		{"a": d("33.33"), "b": d("33.33"), "c": d("33.33")},
		{"a": d("33.34"), "b": d("33.34"), "c": d("33.33")},
		{"a": d("50.005"), "b": d("50.005"), "c": d("0")},
		{"a": d("12.5"), "b": d("37.5"), "c": d("50")},
	}
	amounts := []string{"0.01", "9.99", "100", "10000", "987654.32"}

	for _, values := range splits {
		for _, amount := range amounts {
			for _, payer := range []string{"a", "c", "z"} {
				expense := models.Expense{
					ID: "e", Amount: d(amount), PaidBy: payer, SplitType: models.SplitPercentage,
					SplitAmong:  []string{"a", "b", "c"},
					SplitValues: values,
				}
				shares, err := Shares(&expense)
				require.NoError(t, err)

				for _, s := range shares {
					assert.False(t, s.Amount.IsNegative(), "negative share %s for %s of %s", s.Amount, s.MemberID, amount)
				}
				assertDecimal(t, amount, sumShares(shares), "sum of", amount, values)
			}
		}
	}
}

func TestComputeShare(t *testing.T) {
	expense := models.Expense{
		ID: "dinner", Amount: d("100.00"), PaidBy: "a", SplitType: models.SplitExact,
		SplitAmong:  []string{"a", "b"},
		SplitValues: map[string]decimal.Decimal{"a": d("40"), "b": d("60")},
	}

	share, err := ComputeShare(&expense, "a")
	require.NoError(t, err)
	assertDecimal(t, "40", share)

	share, err = ComputeShare(&expense, "b")
	require.NoError(t, err)
	assertDecimal(t, "60", share)
}

func TestComputeShare_InvalidParticipant(t *testing.T) {
	expense := models.Expense{
		ID: "dinner", Amount: d("30"), PaidBy: "a", SplitType: models.SplitEqual,
		SplitAmong: []string{"a", "b"},
	}

	_, err := ComputeShare(&expense, "z")
	require.ErrorIs(t, err, ErrInvalidParticipant)

	var pErr *ParticipantError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, "dinner", pErr.ExpenseID)
	assert.Equal(t, "z", pErr.MemberID)
}

func TestComputeShare_SplitMismatchDetails(t *testing.T) {
	expense := models.Expense{
		ID: "rent", Amount: d("100"), PaidBy: "a", SplitType: models.SplitExact,
		SplitAmong:  []string{"a", "b"},
		SplitValues: map[string]decimal.Decimal{"a": d("30"), "b": d("30")},
	}

	_, err := ComputeShare(&expense, "a")
	var mErr *SplitMismatchError
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, "rent", mErr.ExpenseID)
	assertDecimal(t, "100", mErr.Expected)
	assertDecimal(t, "60", mErr.Actual)
}

func TestValidateExpense(t *testing.T) {
	group := &models.Group{
		ID:      "g1",
		Members: []models.Member{{ID: "a", Name: "Alice"}, {ID: "b", Name: "Bob"}, {ID: "c", Name: "Carol"}},
	}

	tests := []struct {
		name    string
		expense models.Expense
		wantErr error
	}{
		{
			name: "valid equal expense",
			expense: models.Expense{
				Amount: d("30"), PaidBy: "a", SplitType: models.SplitEqual, SplitAmong: []string{"a", "b", "c"},
			},
		},
		{
			name: "payer outside the split is allowed",
			expense: models.Expense{
				Amount: d("30"), PaidBy: "c", SplitType: models.SplitEqual, SplitAmong: []string{"a", "b"},
			},
		},
		{
			name: "payer not a member",
			expense: models.Expense{
				Amount: d("30"), PaidBy: "z", SplitType: models.SplitEqual, SplitAmong: []string{"a"},
			},
			wantErr: ErrInvalidParticipant,
		},
		{
			name: "participant not a member",
			expense: models.Expense{
				Amount: d("30"), PaidBy: "a", SplitType: models.SplitEqual, SplitAmong: []string{"a", "z"},
			},
			wantErr: ErrInvalidParticipant,
		},
		{
			name: "split value for a non-participant",
			expense: models.Expense{
				Amount: d("30"), PaidBy: "a", SplitType: models.SplitExact, SplitAmong: []string{"a"},
				SplitValues: map[string]decimal.Decimal{"a": d("30"), "b": d("0")},
			},
			wantErr: ErrInvalidParticipant,
		},
		{
			name: "exact mismatch",
			expense: models.Expense{
				Amount: d("30"), PaidBy: "a", SplitType: models.SplitExact, SplitAmong: []string{"a", "b"},
				SplitValues: map[string]decimal.Decimal{"a": d("10"), "b": d("10")},
			},
			wantErr: ErrSplitMismatch,
		},
		{
			name: "negative installments",
			expense: models.Expense{
				Amount: d("30"), PaidBy: "a", SplitType: models.SplitEqual, SplitAmong: []string{"a"},
				InstallmentsCount: -2,
			},
			wantErr: ErrInvalidExpense,
		},
		{
			name: "longest installment plan",
			expense: models.Expense{
				Amount: d("30"), PaidBy: "a", SplitType: models.SplitEqual, SplitAmong: []string{"a", "b"},
				InstallmentsCount: MaxInstallments,
			},
		},
		{
			name: "installments beyond the longest plan",
			expense: models.Expense{
				Amount: d("30"), PaidBy: "a", SplitType: models.SplitEqual, SplitAmong: []string{"a", "b"},
				InstallmentsCount: MaxInstallments + 1,
			},
			wantErr: ErrInvalidExpense,
		},
		{
			name: "absurd installment count",
			expense: models.Expense{
				Amount: d("30"), PaidBy: "a", SplitType: models.SplitEqual, SplitAmong: []string{"a", "b"},
				InstallmentsCount: 1 << 62,
			},
			wantErr: ErrInvalidExpense,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExpense(group, &tt.expense)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateExpense_InstallmentLimitNamesTheField(t *testing.T) {
	group := &models.Group{ID: "g1", Members: []models.Member{{ID: "a"}, {ID: "b"}}}
	expense := models.Expense{
		ID: "tv", Amount: d("1200"), PaidBy: "a", SplitType: models.SplitEqual, SplitAmong: []string{"a", "b"},
		InstallmentsCount: 1 << 40,
	}

	var eErr *ExpenseError
	require.ErrorAs(t, ValidateExpense(group, &expense), &eErr)
	assert.Equal(t, "installments_count", eErr.Field)
}
