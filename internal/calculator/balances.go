package calculator

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/money"
)

// Balances maps member ID to net balance.
// Positive = owed money, Negative = owes money.
type Balances map[string]decimal.Decimal

// Sum adds every balance. For a consistent group it is zero within tolerance.
func (b Balances) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, v := range b {
		total = total.Add(v)
	}
	return total
}

// IsSettled reports whether memberID's balance is below the settled threshold.
// Unknown members have no balance and are settled.
func (b Balances) IsSettled(memberID string) bool {
	return money.IsSettled(b[memberID])
}

// AllSettled reports whether every member is settled.
func (b Balances) AllSettled() bool {
	for _, v := range b {
		if !money.IsSettled(v) {
			return false
		}
	}
	return true
}

// MemberBalance represents the balance information for one group member.
type MemberBalance struct {
	MemberID   string
	Name       string
	TotalPaid  decimal.Decimal // Total amount paid across all expenses
	TotalShare decimal.Decimal // Total of this member's shares
	Net        decimal.Decimal // TotalPaid - TotalShare
	Settled    bool
	IsViewer   bool // Set for the member the caller asked to label
}

// DebtEdge represents a suggested payment from one member to another.
type DebtEdge struct {
	From   string // Member who owes
	To     string // Member who is owed
	Amount decimal.Decimal
}

// ComputeGroupBalances computes each member's net balance from the group's
// expenses. Every member starts at zero; for each expense the payer is
// credited the full amount and every participant is debited its share.
// A payer who also participates gets both effects.
//
// Expenses with installments count at their full amount: installment plans
// are display-only and never change balances.
func ComputeGroupBalances(group *models.Group) (Balances, error) {
	paid, owed, err := accumulate(group)
	if err != nil {
		return nil, err
	}

	balances := make(Balances, len(paid))
	for id := range paid {
		balances[id] = paid[id].Sub(owed[id])
	}
	return balances, nil
}

// Summarize returns one MemberBalance per group member, in member order.
// viewerID marks the caller's own row and may be empty.
func Summarize(group *models.Group, viewerID string) ([]MemberBalance, error) {
	paid, owed, err := accumulate(group)
	if err != nil {
		return nil, err
	}

	summaries := make([]MemberBalance, len(group.Members))
	for i, m := range group.Members {
		net := paid[m.ID].Sub(owed[m.ID])
		summaries[i] = MemberBalance{
			MemberID:   m.ID,
			Name:       m.Name,
			TotalPaid:  paid[m.ID],
			TotalShare: owed[m.ID],
			Net:        net,
			Settled:    money.IsSettled(net),
			IsViewer:   viewerID != "" && m.ID == viewerID,
		}
	}
	return summaries, nil
}

// CheckSettled returns an OutstandingBalanceError when any member's balance is
// at least one cent away from zero.
func CheckSettled(group *models.Group) error {
	summaries, err := Summarize(group, "")
	if err != nil {
		return err
	}

	var unsettled []MemberBalance
	for _, s := range summaries {
		if !s.Settled {
			unsettled = append(unsettled, s)
		}
	}
	if len(unsettled) > 0 {
		return &OutstandingBalanceError{GroupID: group.ID, Unsettled: unsettled}
	}
	return nil
}

// SuggestSettlements returns payments that settle every balance, using
// greedy matching of the largest debts with the largest credits. Members whose
// balance is already settled are skipped; the rest are rounded to cents first.
// Ties keep group member order.
func SuggestSettlements(group *models.Group, balances Balances) []DebtEdge {
	type position struct {
		id     string
		amount decimal.Decimal
	}

	var creditors, debtors []position
	for _, m := range group.Members {
		if balances.IsSettled(m.ID) {
			continue
		}
		net := money.RoundCents(balances[m.ID])
		if net.IsPositive() {
			creditors = append(creditors, position{id: m.ID, amount: net})
		} else {
			debtors = append(debtors, position{id: m.ID, amount: net.Neg()})
		}
	}

	largestFirst := func(a, b position) int { return b.amount.Cmp(a.amount) }
	slices.SortStableFunc(creditors, largestFirst)
	slices.SortStableFunc(debtors, largestFirst)

	var edges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := decimal.Min(debtors[i].amount, creditors[j].amount)
		if !money.IsSettled(amount) {
			edges = append(edges, DebtEdge{From: debtors[i].id, To: creditors[j].id, Amount: amount})
		}

		debtors[i].amount = debtors[i].amount.Sub(amount)
		creditors[j].amount = creditors[j].amount.Sub(amount)

		if money.IsSettled(debtors[i].amount) {
			i++
		}
		if money.IsSettled(creditors[j].amount) {
			j++
		}
	}
	return edges
}

// accumulate returns per-member totals paid and owed. Members of the group
// always have an entry, even with no expenses.
func accumulate(group *models.Group) (paid, owed map[string]decimal.Decimal, err error) {
	paid = make(map[string]decimal.Decimal, len(group.Members))
	owed = make(map[string]decimal.Decimal, len(group.Members))
	for _, m := range group.Members {
		paid[m.ID] = decimal.Zero
		owed[m.ID] = decimal.Zero
	}

	for i := range group.Expenses {
		expense := &group.Expenses[i]

		if _, ok := paid[expense.PaidBy]; !ok {
			return nil, nil, &ParticipantError{
				ExpenseID: expense.ID,
				MemberID:  expense.PaidBy,
				Reason:    "payer is not a member of the group",
			}
		}

		shares, err := Shares(expense)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to calculate split: %w", err)
		}

		paid[expense.PaidBy] = paid[expense.PaidBy].Add(expense.Amount)
		for _, s := range shares {
			if _, ok := owed[s.MemberID]; !ok {
				return nil, nil, &ParticipantError{
					ExpenseID: expense.ID,
					MemberID:  s.MemberID,
					Reason:    "participant is not a member of the group",
				}
			}
			owed[s.MemberID] = owed[s.MemberID].Add(s.Amount)
		}
	}
	return paid, owed, nil
}
