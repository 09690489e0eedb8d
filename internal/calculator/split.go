package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/money"
)

// MaxInstallments is the longest installment plan an expense may carry, in months.
const MaxInstallments = 120

// Share is one participant's portion of an expense.
type Share struct {
	MemberID string
	Amount   decimal.Decimal
}

// ComputeShare returns how much memberID owes for expense.
// It fails with ErrInvalidParticipant when memberID is not in SplitAmong and
// with ErrSplitMismatch when EXACT or PERCENTAGE values do not reconcile.
func ComputeShare(expense *models.Expense, memberID string) (decimal.Decimal, error) {
	if !expense.HasParticipant(memberID) {
		return decimal.Zero, &ParticipantError{
			ExpenseID: expense.ID,
			MemberID:  memberID,
			Reason:    "not among the expense participants",
		}
	}

	shares, err := Shares(expense)
	if err != nil {
		return decimal.Zero, err
	}
	for _, s := range shares {
		if s.MemberID == memberID {
			return s.Amount, nil
		}
	}
	return decimal.Zero, nil
}

// Shares computes every participant's share of expense, in SplitAmong order.
//
// EQUAL splits are truncated to cents and the leftover cents go, one each, to
// the last participants in SplitAmong order who are not the payer. The payer
// only ever absorbs a cent when they are the sole participant, which cannot
// leave a remainder. The shares of an EQUAL split add up to Amount exactly.
//
// EXACT shares are the split values themselves. PERCENTAGE shares are
// Amount × value / 100 and are not rounded; percentages that miss 100 within
// tolerance leave a residue against Amount, which is moved onto the last share
// in the EQUAL order that can absorb it. The shares of a PERCENTAGE split add
// up to Amount exactly.
func Shares(expense *models.Expense) ([]Share, error) {
	if err := checkStructure(expense); err != nil {
		return nil, err
	}

	switch expense.SplitType {
	case models.SplitEqual:
		return equalShares(expense)
	case models.SplitExact:
		return exactShares(expense)
	default:
		return percentageShares(expense)
	}
}

// ValidateExpense checks that expense can be appended to group: the structure
// is sound, the payer and every participant are group members, split values
// only name participants, and the split reconciles.
func ValidateExpense(group *models.Group, expense *models.Expense) error {
	if err := checkStructure(expense); err != nil {
		return err
	}

	if !group.HasMember(expense.PaidBy) {
		return &ParticipantError{
			ExpenseID: expense.ID,
			MemberID:  expense.PaidBy,
			Reason:    "payer is not a member of the group",
		}
	}
	for _, p := range expense.SplitAmong {
		if !group.HasMember(p) {
			return &ParticipantError{
				ExpenseID: expense.ID,
				MemberID:  p,
				Reason:    "participant is not a member of the group",
			}
		}
	}
	if expense.SplitType != models.SplitEqual {
		for memberID := range expense.SplitValues {
			if !expense.HasParticipant(memberID) {
				return &ParticipantError{
					ExpenseID: expense.ID,
					MemberID:  memberID,
					Reason:    "split value given for a member outside split_among",
				}
			}
		}
	}

	_, err := Shares(expense)
	return err
}

func checkStructure(expense *models.Expense) error {
	if !expense.Amount.IsPositive() {
		return &ExpenseError{ExpenseID: expense.ID, Field: "amount", Reason: "must be greater than zero"}
	}
	if !expense.SplitType.Valid() {
		return &ExpenseError{ExpenseID: expense.ID, Field: "split_type", Reason: "unknown split type " + string(expense.SplitType)}
	}
	if len(expense.SplitAmong) == 0 {
		return &ExpenseError{ExpenseID: expense.ID, Field: "split_among", Reason: "at least one participant is required"}
	}
	if expense.InstallmentsCount < 0 {
		return &ExpenseError{ExpenseID: expense.ID, Field: "installments_count", Reason: "cannot be negative"}
	}
	if expense.InstallmentsCount > MaxInstallments {
		return &ExpenseError{
			ExpenseID: expense.ID,
			Field:     "installments_count",
			Reason:    fmt.Sprintf("cannot exceed %d months", MaxInstallments),
		}
	}

	seen := make(map[string]bool, len(expense.SplitAmong))
	for _, p := range expense.SplitAmong {
		if p == "" {
			return &ExpenseError{ExpenseID: expense.ID, Field: "split_among", Reason: "participant ID cannot be empty"}
		}
		if seen[p] {
			return &ExpenseError{ExpenseID: expense.ID, Field: "split_among", Reason: "duplicate participant " + p}
		}
		seen[p] = true
	}
	return nil
}

// payerFirst returns the indexes of SplitAmong with the payer moved to the
// front. Rounding leftovers are assigned from the end of this order.
func payerFirst(expense *models.Expense) []int {
	order := make([]int, 0, len(expense.SplitAmong))
	for i, p := range expense.SplitAmong {
		if p == expense.PaidBy {
			order = append(order, i)
		}
	}
	for i, p := range expense.SplitAmong {
		if p != expense.PaidBy {
			order = append(order, i)
		}
	}
	return order
}

func equalShares(expense *models.Expense) ([]Share, error) {
	parts, err := money.SplitEvenly(expense.Amount, len(expense.SplitAmong))
	if err != nil {
		return nil, err
	}

	shares := make([]Share, len(expense.SplitAmong))
	for k, i := range payerFirst(expense) {
		shares[i] = Share{MemberID: expense.SplitAmong[i], Amount: parts[k]}
	}
	return shares, nil
}

func exactShares(expense *models.Expense) ([]Share, error) {
	shares := make([]Share, len(expense.SplitAmong))
	sum := decimal.Zero
	for i, p := range expense.SplitAmong {
		value := expense.SplitValues[p]
		if value.IsNegative() {
			return nil, &SplitMismatchError{
				ExpenseID: expense.ID,
				SplitType: expense.SplitType,
				Reason:    "negative amount for member " + p,
			}
		}
		shares[i] = Share{MemberID: p, Amount: value}
		sum = sum.Add(value)
	}

	if !money.WithinTolerance(sum, expense.Amount) {
		return nil, &SplitMismatchError{
			ExpenseID: expense.ID,
			SplitType: expense.SplitType,
			Expected:  expense.Amount,
			Actual:    sum,
		}
	}
	return shares, nil
}

func percentageShares(expense *models.Expense) ([]Share, error) {
	shares := make([]Share, len(expense.SplitAmong))
	sum := decimal.Zero
	for i, p := range expense.SplitAmong {
		pct := expense.SplitValues[p]
		if pct.IsNegative() {
			return nil, &SplitMismatchError{
				ExpenseID: expense.ID,
				SplitType: expense.SplitType,
				Reason:    "negative percentage for member " + p,
			}
		}
		shares[i] = Share{MemberID: p, Amount: expense.Amount.Mul(pct).Div(money.Hundred)}
		sum = sum.Add(pct)
	}

	if !money.WithinTolerance(sum, money.Hundred) {
		return nil, &SplitMismatchError{
			ExpenseID: expense.ID,
			SplitType: expense.SplitType,
			Expected:  money.Hundred,
			Actual:    sum,
		}
	}

	total := decimal.Zero
	for _, s := range shares {
		total = total.Add(s.Amount)
	}
	residue := expense.Amount.Sub(total)
	if residue.IsZero() {
		return shares, nil
	}

	order := payerFirst(expense)
	target := order[len(order)-1]
	for k := len(order) - 1; k >= 0; k-- {
		if !shares[order[k]].Amount.Add(residue).IsNegative() {
			target = order[k]
			break
		}
	}
	shares[target].Amount = shares[target].Amount.Add(residue)
	return shares, nil
}
