package models

import "github.com/shopspring/decimal"

// SplitType is the policy for dividing an expense amount among participants.
type SplitType string

const (
	// SplitEqual divides the amount evenly among participants.
	SplitEqual SplitType = "EQUAL"
	// SplitExact assigns each participant an explicit amount.
	SplitExact SplitType = "EXACT"
	// SplitPercentage assigns each participant a percentage of the amount.
	SplitPercentage SplitType = "PERCENTAGE"
)

// Valid reports whether t is one of the known split types.
func (t SplitType) Valid() bool {
	switch t {
	case SplitEqual, SplitExact, SplitPercentage:
		return true
	}
	return false
}

// Expense represents an amount paid by one member and split among several.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Description is a human-readable label (e.g., "Groceries").
	Description string

	// Category is an optional free-form tag (e.g., "food", "rent").
	Category string

	// Amount is the total paid. Must be positive.
	Amount decimal.Decimal

	// PaidBy is the member ID of the payer. The payer does not have to be
	// one of the participants.
	PaidBy string

	// SplitType selects how Amount is divided among SplitAmong.
	SplitType SplitType

	// SplitAmong is the ordered, non-empty list of participant member IDs.
	SplitAmong []string

	// SplitValues maps member ID to an amount (EXACT) or percentage (PERCENTAGE).
	// Ignored for EQUAL splits.
	SplitValues map[string]decimal.Decimal

	// InstallmentsCount is the number of monthly installments (1 = paid at once).
	// Installments only affect the display schedule, never balances.
	InstallmentsCount int

	// FirstDueDate is the Unix timestamp of the first installment.
	// Zero means the installment plan starts at CreatedAt.
	FirstDueDate int64

	// PaidInstallments maps installment number to the Unix timestamp it was
	// marked paid. Paying an installment never changes balances.
	PaidInstallments map[int]int64

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// HasParticipant reports whether memberID is in SplitAmong.
func (e *Expense) HasParticipant(memberID string) bool {
	for _, p := range e.SplitAmong {
		if p == memberID {
			return true
		}
	}
	return false
}

// Installment is one entry of a display-only monthly payment schedule.
type Installment struct {
	// Number is the 1-based position in the schedule.
	Number int

	// DueDate is the Unix timestamp (UTC midnight) when the installment is due.
	DueDate int64

	// Amount is the installment amount.
	Amount decimal.Decimal

	// Paid is set once the installment has been marked paid.
	Paid bool

	// PaidAt is the Unix timestamp of the payment, zero while unpaid.
	PaidAt int64
}
