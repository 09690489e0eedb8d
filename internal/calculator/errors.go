package calculator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/groupledger/internal/models"
)

var (
	// ErrInvalidParticipant is returned when a member is not where an expense
	// or group requires it to be.
	ErrInvalidParticipant = errors.New("invalid participant")

	// ErrSplitMismatch is returned when EXACT amounts or PERCENTAGE values do
	// not reconcile to the expense amount or to 100.
	ErrSplitMismatch = errors.New("split mismatch")

	// ErrOutstandingBalance is returned when a group with unsettled balances
	// is about to be deleted.
	ErrOutstandingBalance = errors.New("outstanding balance")

	// ErrInvalidExpense is returned for structurally invalid expenses
	// (non-positive amount, no participants, unknown split type).
	ErrInvalidExpense = errors.New("invalid expense")
)

// ParticipantError reports a member that is not a participant of an expense
// or not a member of the group.
type ParticipantError struct {
	ExpenseID string
	MemberID  string
	Reason    string
}

func (e *ParticipantError) Error() string {
	return fmt.Sprintf("invalid participant %q in expense %q: %s", e.MemberID, e.ExpenseID, e.Reason)
}

func (e *ParticipantError) Unwrap() error { return ErrInvalidParticipant }

// SplitMismatchError reports split values that do not add up.
// Expected is the expense amount (EXACT) or 100 (PERCENTAGE).
type SplitMismatchError struct {
	ExpenseID string
	SplitType models.SplitType
	Expected  decimal.Decimal
	Actual    decimal.Decimal
	Reason    string
}

func (e *SplitMismatchError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("split mismatch in expense %q (%s): %s", e.ExpenseID, e.SplitType, e.Reason)
	}
	return fmt.Sprintf("split mismatch in expense %q (%s): values sum to %s, expected %s",
		e.ExpenseID, e.SplitType, e.Actual.String(), e.Expected.String())
}

func (e *SplitMismatchError) Unwrap() error { return ErrSplitMismatch }

// ExpenseError reports a structurally invalid expense.
type ExpenseError struct {
	ExpenseID string
	Field     string
	Reason    string
}

func (e *ExpenseError) Error() string {
	return fmt.Sprintf("invalid expense %q: %s: %s", e.ExpenseID, e.Field, e.Reason)
}

func (e *ExpenseError) Unwrap() error { return ErrInvalidExpense }

// OutstandingBalanceError lists the members whose balances block deletion.
// Its message is meant to be shown to users as is.
type OutstandingBalanceError struct {
	GroupID   string
	Unsettled []MemberBalance
}

func (e *OutstandingBalanceError) Error() string {
	parts := make([]string, len(e.Unsettled))
	for i, b := range e.Unsettled {
		name := b.Name
		if name == "" {
			name = b.MemberID
		}
		if b.Net.IsNegative() {
			parts[i] = fmt.Sprintf("%s owes %s", name, b.Net.Neg().StringFixed(2))
		} else {
			parts[i] = fmt.Sprintf("%s is owed %s", name, b.Net.StringFixed(2))
		}
	}
	return fmt.Sprintf("group cannot be deleted until all balances are settled: %s", strings.Join(parts, ", "))
}

func (e *OutstandingBalanceError) Unwrap() error { return ErrOutstandingBalance }
