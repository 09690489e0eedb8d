package calculator

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/money"
)

// DefaultDaysAhead is how far ahead UpcomingInstallments looks when the
// caller does not say.
const DefaultDaysAhead = 3

// DueInstallment is one participant's part of an unpaid installment.
type DueInstallment struct {
	GroupID     string
	ExpenseID   string
	Description string
	MemberID    string // Participant who owes the installment to the payer
	PaidBy      string
	Installment models.Installment // Amount is MemberID's part of the installment

	// DaysOverdue is positive for overdue installments and zero or negative
	// (days until due) for upcoming ones.
	DaysOverdue int
}

// InstallmentSchedule spreads the full expense amount over its installment
// months. An expense with InstallmentsCount <= 1 has a single installment.
//
// The schedule is for display only: ComputeGroupBalances always counts the
// full amount, whatever the schedule says.
func InstallmentSchedule(expense *models.Expense) ([]models.Installment, error) {
	if err := checkStructure(expense); err != nil {
		return nil, err
	}
	return schedule(expense, expense.Amount)
}

// ShareSchedule spreads memberID's share of expense over the installment months.
func ShareSchedule(expense *models.Expense, memberID string) ([]models.Installment, error) {
	share, err := ComputeShare(expense, memberID)
	if err != nil {
		return nil, err
	}
	return schedule(expense, share)
}

// CheckInstallment returns an ExpenseError unless number is an installment
// of expense.
func CheckInstallment(expense *models.Expense, number int) error {
	count := installmentCount(expense)
	if number < 1 || number > count {
		return &ExpenseError{
			ExpenseID: expense.ID,
			Field:     "installment_number",
			Reason:    fmt.Sprintf("must be between 1 and %d", count),
		}
	}
	return nil
}

// OverdueInstallments lists the unpaid installments of group due before
// the day of now, one entry per participant other than the payer.
func OverdueInstallments(group *models.Group, now time.Time) ([]DueInstallment, error) {
	return dueInstallments(group, now, func(days int) bool { return days > 0 })
}

// UpcomingInstallments lists the unpaid installments of group due from the
// day of now up to daysAhead days later.
func UpcomingInstallments(group *models.Group, now time.Time, daysAhead int) ([]DueInstallment, error) {
	return dueInstallments(group, now, func(days int) bool { return days <= 0 && -days <= daysAhead })
}

// dueInstallments walks the unpaid installments of every installment expense
// and keeps those whose day offset from now passes keep. Expenses paid at
// once have no installments to chase.
func dueInstallments(group *models.Group, now time.Time, keep func(days int) bool) ([]DueInstallment, error) {
	y, m, d := now.UTC().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	var due []DueInstallment
	for i := range group.Expenses {
		expense := &group.Expenses[i]
		if expense.InstallmentsCount <= 1 {
			continue
		}

		for _, p := range expense.SplitAmong {
			if p == expense.PaidBy {
				continue
			}
			plan, err := ShareSchedule(expense, p)
			if err != nil {
				return nil, err
			}
			for _, inst := range plan {
				if inst.Paid {
					continue
				}
				days := int(today.Sub(time.Unix(inst.DueDate, 0).UTC()).Hours() / 24)
				if !keep(days) {
					continue
				}
				due = append(due, DueInstallment{
					GroupID:     group.ID,
					ExpenseID:   expense.ID,
					Description: expense.Description,
					MemberID:    p,
					PaidBy:      expense.PaidBy,
					Installment: inst,
					DaysOverdue: days,
				})
			}
		}
	}
	return due, nil
}

func installmentCount(expense *models.Expense) int {
	if expense.InstallmentsCount < 1 {
		return 1
	}
	return expense.InstallmentsCount
}

func schedule(expense *models.Expense, total decimal.Decimal) ([]models.Installment, error) {
	count := installmentCount(expense)

	amounts, err := money.SplitEvenly(total, count)
	if err != nil {
		return nil, err
	}

	start := expense.FirstDueDate
	if start == 0 {
		start = expense.CreatedAt
	}
	y, m, d := time.Unix(start, 0).UTC().Date()

	installments := make([]models.Installment, count)
	for i := range installments {
		paidAt, paid := expense.PaidInstallments[i+1]
		installments[i] = models.Installment{
			Number:  i + 1,
			DueDate: addMonths(y, m, d, i).Unix(),
			Amount:  amounts[i],
			Paid:    paid,
			PaidAt:  paidAt,
		}
	}
	return installments, nil
}

// addMonths returns the date n months after y-m-d at UTC midnight, clamping
// the day to the end of shorter months (Jan 31 + 1 month = Feb 28/29).
func addMonths(y int, m time.Month, d, n int) time.Time {
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}
