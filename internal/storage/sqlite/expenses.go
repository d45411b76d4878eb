package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/internal/storage"
)

// AppendExpense stores one expense and assigns it the next per-group
// sequence number. The sequence read and the inserts happen in one
// transaction; the UNIQUE (group_id, seq) constraint rejects a racing
// writer outright, so a committed log can never contain two expenses
// with the same sequence number.
//
// There is no UpdateExpense or DeleteExpense: the log is append-only.
func (s *SQLiteStore) AppendExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM groups WHERE id = ?", expense.GroupID).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: group %s", storage.ErrNotFound, expense.GroupID)
	}
	if err != nil {
		return fmt.Errorf("failed to check group existence: %w", err)
	}

	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(seq), 0) + 1 FROM expenses WHERE group_id = ?",
		expense.GroupID,
	).Scan(&expense.Seq)
	if err != nil {
		return fmt.Errorf("failed to assign sequence number: %w", err)
	}

	var description, category interface{}
	if expense.Description != "" {
		description = expense.Description
	}
	if expense.Category != "" {
		category = expense.Category
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, seq, payer_id, amount, description, category, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.Seq, expense.PayerID,
		expense.Amount.Units(), description, category, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, userID := range expense.Participants {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_participants (expense_id, user_id, position) VALUES (?, ?, ?)",
			expense.ID, userID, i,
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

// ListExpenses returns a page of the group's expenses in insertion
// (sequence) order, participants in their recorded order.
func (s *SQLiteStore) ListExpenses(ctx context.Context, groupID string, limit, offset int) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, seq, payer_id, amount, description, category, created_at
		 FROM expenses WHERE group_id = ?
		 ORDER BY seq
		 LIMIT ? OFFSET ?`,
		groupID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		var amount int64
		var description, category sql.NullString
		if err := rows.Scan(
			&expense.ID, &expense.GroupID, &expense.Seq, &expense.PayerID,
			&amount, &description, &category, &expense.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expense.Amount = money.FromUnits(amount)
		if description.Valid {
			expense.Description = description.String
		}
		if category.Valid {
			expense.Category = category.String
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		participants, err := s.expenseParticipants(ctx, expense.ID)
		if err != nil {
			return nil, err
		}
		expense.Participants = participants
	}

	return expenses, nil
}

func (s *SQLiteStore) expenseParticipants(ctx context.Context, expenseID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM expense_participants WHERE expense_id = ? ORDER BY position",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense participants: %w", err)
	}
	defer rows.Close()

	var participants []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan expense participant: %w", err)
		}
		participants = append(participants, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense participants: %w", err)
	}

	return participants, nil
}

// LastSeq returns the sequence number of the group's latest expense,
// or 0 if the group has none.
func (s *SQLiteStore) LastSeq(ctx context.Context, groupID string) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(seq), 0) FROM expenses WHERE group_id = ?",
		groupID,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("failed to get last sequence number: %w", err)
	}
	return seq, nil
}
