package database

import (
	"database/sql"
	"fmt"
	"time"
)

// Action logging operations

// StartAction creates a new action log entry and returns its ID
func (db *DB) StartAction(puppetID int, actionType, toolVersion string) (int64, error) {
	var actionID int64
	err := db.ExecTx(func(tx *sql.Tx) error {
		result, err := tx.Exec(`
			INSERT INTO action_log (
				puppet_id, action_type, tool_version, started_at, status
			) VALUES (?, ?, ?, ?, 'running')
		`, puppetID, actionType, toolVersion, time.Now())

		if err != nil {
			return fmt.Errorf("failed to insert action log: %w", err)
		}

		actionID, err = result.LastInsertId()
		return err
	})

	if err != nil {
		return 0, err
	}

	return actionID, nil
}

// CompleteAction marks an action as completed successfully
func (db *DB) CompleteAction(actionID int64) error {
	return db.updateActionStatus(actionID, StatusCompleted, nil)
}

// FailAction marks an action as failed with an error message
func (db *DB) FailAction(actionID int64, errorMessage string) error {
	return db.updateActionStatus(actionID, StatusFailed, &errorMessage)
}

// updateActionStatus updates the status and completion time of an action
func (db *DB) updateActionStatus(actionID int64, status string, errorMessage *string) error {
	return db.ExecTx(func(tx *sql.Tx) error {
		completedAt := time.Now()

		var startedAt time.Time
		err := tx.QueryRow(`SELECT started_at FROM action_log WHERE id = ?`, actionID).Scan(&startedAt)
		if err != nil {
			return fmt.Errorf("failed to get action start time: %w", err)
		}

		duration := int(completedAt.Sub(startedAt).Seconds())

		_, err = tx.Exec(`
			UPDATE action_log
			SET completed_at = ?,
				duration_seconds = ?,
				status = ?,
				error_message = ?
			WHERE id = ?
		`, completedAt, duration, status, errorMessage, actionID)
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			UPDATE puppets SET last_action_at = ?
			WHERE id = (SELECT puppet_id FROM action_log WHERE id = ?)
		`, completedAt, actionID)

		return err
	})
}

// GetActionByID retrieves an action log entry by ID
func (db *DB) GetActionByID(actionID int64) (*ActionLog, error) {
	action := &ActionLog{}
	err := db.conn.QueryRow(`
		SELECT
			id, puppet_id, action_type, started_at, completed_at,
			duration_seconds, status, error_message, tool_version
		FROM action_log
		WHERE id = ?
	`, actionID).Scan(
		&action.ID, &action.PuppetID, &action.ActionType,
		&action.StartedAt, &action.CompletedAt, &action.DurationSeconds,
		&action.Status, &action.ErrorMessage, &action.ToolVersion,
	)

	if err != nil {
		return nil, err
	}

	return action, nil
}

// GetPuppetActions returns the action history for a puppet, newest first.
func (db *DB) GetPuppetActions(puppetID, limit int) ([]*ActionLog, error) {
	rows, err := db.conn.Query(`
		SELECT
			id, puppet_id, action_type, started_at, completed_at,
			duration_seconds, status, error_message, tool_version
		FROM action_log
		WHERE puppet_id = ?
		ORDER BY started_at DESC
		LIMIT ?
	`, puppetID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	actions := []*ActionLog{}
	for rows.Next() {
		action := &ActionLog{}
		err := rows.Scan(
			&action.ID, &action.PuppetID, &action.ActionType,
			&action.StartedAt, &action.CompletedAt, &action.DurationSeconds,
			&action.Status, &action.ErrorMessage, &action.ToolVersion,
		)
		if err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}

	return actions, rows.Err()
}
