package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/storage"
)

// AddMember appends a member to the end of a group's member list.
func (s *SQLiteStore) AddMember(ctx context.Context, groupID string, member *models.Member) error {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := groupExists(ctx, tx, groupID); err != nil {
		return err
	}

	var position int
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position) + 1, 0) FROM members WHERE group_id = ?",
		groupID,
	).Scan(&position)
	if err != nil {
		return fmt.Errorf("failed to get member position: %w", err)
	}

	var exists int
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM members WHERE group_id = ? AND id = ?",
		groupID, member.ID,
	).Scan(&exists)
	if err == nil {
		return fmt.Errorf("member %s: %w", member.ID, storage.ErrAlreadyExists)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check member existence: %w", err)
	}

	if err := insertMember(ctx, tx, groupID, member, position); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func insertMember(ctx context.Context, q querier, groupID string, member *models.Member, position int) error {
	_, err := q.ExecContext(ctx,
		"INSERT INTO members (group_id, id, name, email, position) VALUES (?, ?, ?, ?, ?)",
		groupID, member.ID, member.Name, member.Email, position,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

// loadMembers retrieves a group's members in insertion order.
func loadMembers(ctx context.Context, q querier, groupID string) ([]models.Member, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT id, name, email FROM members WHERE group_id = ? ORDER BY position",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Email); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}
