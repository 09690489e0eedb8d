// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/groupledger/internal/models"
)

var (
	// ErrNotFound is returned when a group or expense does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when a caller-supplied ID is already taken.
	ErrAlreadyExists = errors.New("already exists")
)

// Store defines the interface for group storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Implementations hand out snapshots: a *models.Group returned by the store
// is owned by the caller and never changes underneath it.
type Store interface {
	// CreateGroup persists a new group together with its initial members.
	// group.ID, group.CreatedAt and empty member IDs are populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves the full snapshot of a group: members in insertion
	// order and expenses in append order.
	// Returns ErrNotFound if the group does not exist.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups retrieves snapshots of all groups, oldest first.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// AddMember appends a member to an existing group.
	// member.ID is populated by the store when empty.
	AddMember(ctx context.Context, groupID string, member *models.Member) error

	// AddExpense appends an expense to expense.GroupID.
	// The expense must already be validated; the store does not recompute shares.
	AddExpense(ctx context.Context, expense *models.Expense) error

	// ListExpenses retrieves a group's expenses in append order.
	ListExpenses(ctx context.Context, groupID string) ([]models.Expense, error)

	// PayInstallment marks installment number of an expense as paid at paidAt.
	// The caller checks that number belongs to the expense's plan.
	// Returns ErrNotFound if the expense is not in the group and
	// ErrAlreadyExists if the installment is already paid.
	PayInstallment(ctx context.Context, groupID, expenseID string, number int, paidAt int64) error

	// DeleteGroupIf deletes a group when check accepts its current snapshot.
	// The check and the delete run in one transaction, so an expense appended
	// concurrently is either seen by check or rejected afterwards.
	// An error from check is returned unchanged.
	DeleteGroupIf(ctx context.Context, groupID string, check func(*models.Group) error) error

	// Close releases any resources held by the store.
	Close() error
}
