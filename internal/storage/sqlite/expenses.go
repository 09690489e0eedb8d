package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/storage"
)

// AddExpense appends an expense to its group.
func (s *SQLiteStore) AddExpense(ctx context.Context, expense *models.Expense) error {
	// Generate ID if not set
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.InstallmentsCount == 0 {
		expense.InstallmentsCount = 1
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := groupExists(ctx, tx, expense.GroupID); err != nil {
		return err
	}

	var seq int64
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(seq) + 1, 0) FROM expenses WHERE group_id = ?",
		expense.GroupID,
	).Scan(&seq)
	if err != nil {
		return fmt.Errorf("failed to get expense sequence: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, seq, description, category, amount, paid_by, split_type,
		 installments_count, first_due_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, seq, expense.Description, expense.Category, expense.Amount.String(),
		expense.PaidBy, string(expense.SplitType), expense.InstallmentsCount,
		expense.FirstDueDate, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, memberID := range expense.SplitAmong {
		var value any
		if v, ok := expense.SplitValues[memberID]; ok && expense.SplitType != models.SplitEqual {
			value = v.String()
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_participants (expense_id, member_id, position, split_value) VALUES (?, ?, ?, ?)",
			expense.ID, memberID, i, value,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// PayInstallment records the payment of one installment of an expense.
func (s *SQLiteStore) PayInstallment(ctx context.Context, groupID, expenseID string, number int, paidAt int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM expenses WHERE id = ? AND group_id = ?",
		expenseID, groupID,
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check expense existence: %w", err)
	}

	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM installment_payments WHERE expense_id = ? AND number = ?",
		expenseID, number,
	).Scan(&exists)
	if err == nil {
		return fmt.Errorf("installment %d of expense %s: %w", number, expenseID, storage.ErrAlreadyExists)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check installment payment: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO installment_payments (expense_id, number, paid_at) VALUES (?, ?, ?)",
		expenseID, number, paidAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert installment payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListExpenses retrieves a group's expenses in append order.
func (s *SQLiteStore) ListExpenses(ctx context.Context, groupID string) ([]models.Expense, error) {
	if err := groupExists(ctx, s.db, groupID); err != nil {
		return nil, err
	}
	return loadExpenses(ctx, s.db, groupID)
}

// loadExpenses reads expenses, then participants, then installment payments,
// so that only one result set is open at a time.
func loadExpenses(ctx context.Context, q querier, groupID string) ([]models.Expense, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, group_id, description, category, amount, paid_by, split_type,
		 installments_count, first_due_date, created_at
		 FROM expenses WHERE group_id = ? ORDER BY seq`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}

	var expenses []models.Expense
	index := make(map[string]int)
	for rows.Next() {
		var e models.Expense
		var amount, splitType string
		if err := rows.Scan(&e.ID, &e.GroupID, &e.Description, &e.Category, &amount, &e.PaidBy, &splitType,
			&e.InstallmentsCount, &e.FirstDueDate, &e.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to parse amount of expense %s: %w", e.ID, err)
		}
		e.SplitType = models.SplitType(splitType)
		index[e.ID] = len(expenses)
		expenses = append(expenses, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	if len(expenses) == 0 {
		return expenses, nil
	}

	if err := loadParticipants(ctx, q, groupID, expenses, index); err != nil {
		return nil, err
	}
	if err := loadInstallmentPayments(ctx, q, groupID, expenses, index); err != nil {
		return nil, err
	}

	return expenses, nil
}

func loadParticipants(ctx context.Context, q querier, groupID string, expenses []models.Expense, index map[string]int) error {
	rows, err := q.QueryContext(ctx,
		`SELECT p.expense_id, p.member_id, p.split_value FROM expense_participants p
		 JOIN expenses e ON e.id = p.expense_id
		 WHERE e.group_id = ?
		 ORDER BY e.seq, p.position`,
		groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to get expense participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var expenseID, memberID string
		var value decimal.NullDecimal
		if err := rows.Scan(&expenseID, &memberID, &value); err != nil {
			return fmt.Errorf("failed to scan expense participant: %w", err)
		}

		e := &expenses[index[expenseID]]
		e.SplitAmong = append(e.SplitAmong, memberID)
		if value.Valid {
			if e.SplitValues == nil {
				e.SplitValues = make(map[string]decimal.Decimal)
			}
			e.SplitValues[memberID] = value.Decimal
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate expense participants: %w", err)
	}
	return nil
}

func loadInstallmentPayments(ctx context.Context, q querier, groupID string, expenses []models.Expense, index map[string]int) error {
	rows, err := q.QueryContext(ctx,
		`SELECT i.expense_id, i.number, i.paid_at FROM installment_payments i
		 JOIN expenses e ON e.id = i.expense_id
		 WHERE e.group_id = ?`,
		groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to get installment payments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var expenseID string
		var number int
		var paidAt int64
		if err := rows.Scan(&expenseID, &number, &paidAt); err != nil {
			return fmt.Errorf("failed to scan installment payment: %w", err)
		}

		e := &expenses[index[expenseID]]
		if e.PaidInstallments == nil {
			e.PaidInstallments = make(map[int]int64)
		}
		e.PaidInstallments[number] = paidAt
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate installment payments: %w", err)
	}
	return nil
}
