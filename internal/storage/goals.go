package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/model"
)

// SaveGoal inserts a new goal or updates an existing one.
func (s *SQLiteStorage) SaveGoal(ctx context.Context, goal *model.Goal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if goal == nil {
		return fmt.Errorf("%w: goal", ErrNilParameter)
	}
	if err := validateString(goal.Label, "goal.Label"); err != nil {
		return err
	}

	if goal.ID == 0 {
		result, err := s.db.ExecContext(ctx, `
			INSERT INTO goals (label, code, keyword, plan_per_month, current, target, auto_percent)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, goal.Label, goal.Code, goal.Keyword, goal.PlanPerMonth, goal.Current, goal.Target, goal.AutoPercent)
		if err != nil {
			return fmt.Errorf("failed to insert goal: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get goal id: %w", err)
		}
		goal.ID = id
		return nil
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE goals SET label = ?, code = ?, keyword = ?, plan_per_month = ?, current = ?, target = ?, auto_percent = ?
		WHERE id = ?
	`, goal.Label, goal.Code, goal.Keyword, goal.PlanPerMonth, goal.Current, goal.Target, goal.AutoPercent, goal.ID)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("goal %d: %w", goal.ID, common.ErrNotFound)
	}
	return nil
}

const goalColumns = `id, label, code, keyword, plan_per_month, current, target, auto_percent`

func scanGoal(row interface{ Scan(...any) error }) (model.Goal, error) {
	var g model.Goal
	err := row.Scan(&g.ID, &g.Label, &g.Code, &g.Keyword, &g.PlanPerMonth, &g.Current, &g.Target, &g.AutoPercent)
	return g, err
}

// GetGoals returns all goals in creation order.
func (s *SQLiteStorage) GetGoals(ctx context.Context) ([]model.Goal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT "+goalColumns+" FROM goals ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var goals []model.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// GetGoalByID retrieves one goal.
func (s *SQLiteStorage) GetGoalByID(ctx context.Context, id int64) (*model.Goal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, "SELECT "+goalColumns+" FROM goals WHERE id = ?", id)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("goal %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query goal: %w", err)
	}
	return &g, nil
}

// ContributeToGoal applies an amount to a goal's running total and
// records the contribution so a batch import can be reversed later.
// Manual contributions pass an empty batch id.
func (s *SQLiteStorage) ContributeToGoal(ctx context.Context, goalID int64, amount float64, batchID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if amount <= 0 {
		return fmt.Errorf("contribution amount must be positive, got %.2f", amount)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, "UPDATE goals SET current = current + ? WHERE id = ?", amount, goalID)
	if err != nil {
		return fmt.Errorf("failed to update goal total: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("goal %d: %w", goalID, common.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO goal_contributions (goal_id, batch_id, amount) VALUES (?, ?, ?)
	`, goalID, batchID, amount); err != nil {
		return fmt.Errorf("failed to record contribution: %w", err)
	}

	return tx.Commit()
}

// ReverseGoalContributions undoes every contribution a batch applied.
func (s *SQLiteStorage) ReverseGoalContributions(ctx context.Context, batchID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(batchID, "batchID"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, goal_id, batch_id, amount FROM goal_contributions WHERE batch_id = ?
	`, batchID)
	if err != nil {
		return fmt.Errorf("failed to query contributions: %w", err)
	}

	var contributions []model.GoalContribution
	for rows.Next() {
		var c model.GoalContribution
		if scanErr := rows.Scan(&c.ID, &c.GoalID, &c.BatchID, &c.Amount); scanErr != nil {
			_ = rows.Close()
			return fmt.Errorf("failed to scan contribution: %w", scanErr)
		}
		contributions = append(contributions, c)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return fmt.Errorf("failed to read contributions: %w", err)
	}
	_ = rows.Close()

	for _, c := range contributions {
		if _, err := tx.ExecContext(ctx,
			"UPDATE goals SET current = current - ? WHERE id = ?", c.Amount, c.GoalID); err != nil {
			return fmt.Errorf("failed to roll back goal total: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM goal_contributions WHERE id = ?", c.ID); err != nil {
			return fmt.Errorf("failed to delete contribution: %w", err)
		}
	}

	return tx.Commit()
}
