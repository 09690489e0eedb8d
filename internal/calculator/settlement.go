package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/groupledger/internal/models"
)

// RepaymentDescription is the default description of recorded settlements.
const RepaymentDescription = "Settlement"

// RepaymentExpense builds the expense that records a payment of amount from
// one member to another. It is an EXACT expense paid by the debtor and owed
// entirely by the creditor, so the debtor's balance rises and the creditor's
// falls by amount while balances stay derived from the expense list alone.
func RepaymentExpense(groupID, fromID, toID string, amount decimal.Decimal, note string) models.Expense {
	description := RepaymentDescription
	if note != "" {
		description = RepaymentDescription + ": " + note
	}
	return models.Expense{
		GroupID:     groupID,
		Description: description,
		Amount:      amount,
		PaidBy:      fromID,
		SplitType:   models.SplitExact,
		SplitAmong:  []string{toID},
		SplitValues: map[string]decimal.Decimal{toID: amount},
	}
}
