package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/openrobotcore/OpenRobotCore/internal/types"
)

// SaveRobot stores a robot record with its preset definition snapshot.
func (p *PostgresClient) SaveRobot(ctx context.Context, name, presetPath string, preset *types.RobotPresetDefinition) (uuid.UUID, error) {
	definition, err := json.Marshal(preset)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal preset: %w", err)
	}

	var robotID uuid.UUID
	err = p.pool.QueryRow(ctx, `
		INSERT INTO robots (robot_name, preset_path, definition, enabled)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, name, presetPath, definition, true).Scan(&robotID)

	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert robot: %w", err)
	}

	return robotID, nil
}

// SaveOrUpdateRobot upserts a robot record by name.
func (p *PostgresClient) SaveOrUpdateRobot(ctx context.Context, name, presetPath string, preset *types.RobotPresetDefinition) (uuid.UUID, error) {
	definition, err := json.Marshal(preset)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal preset: %w", err)
	}

	var robotID uuid.UUID
	err = p.pool.QueryRow(ctx, `
		INSERT INTO robots (robot_name, preset_path, definition, enabled)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (robot_name)
		DO UPDATE SET
			preset_path = EXCLUDED.preset_path,
			definition = EXCLUDED.definition,
			enabled = EXCLUDED.enabled,
			updated_at = NOW()
		RETURNING id
	`, name, presetPath, definition, true).Scan(&robotID)

	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert robot: %w", err)
	}

	return robotID, nil
}

// LoadRobot fetches one robot record.
func (p *PostgresClient) LoadRobot(ctx context.Context, robotID uuid.UUID) (*RobotRecord, error) {
	var record RobotRecord
	err := p.pool.QueryRow(ctx, `
		SELECT id, robot_name, preset_path, definition, enabled, created_at, updated_at
		FROM robots
		WHERE id = $1
	`, robotID).Scan(
		&record.ID,
		&record.RobotName,
		&record.PresetPath,
		&record.Definition,
		&record.Enabled,
		&record.CreatedAt,
		&record.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("robot not found: %s", robotID)
		}
		return nil, fmt.Errorf("failed to load robot: %w", err)
	}

	return &record, nil
}

// RobotExistsEnabled reports existence and enabled state in one lookup.
func (p *PostgresClient) RobotExistsEnabled(ctx context.Context, robotID uuid.UUID) (exists, enabled bool, err error) {
	err = p.pool.QueryRow(ctx, `
		SELECT enabled FROM robots WHERE id = $1
	`, robotID).Scan(&enabled)

	if err != nil {
		if err == pgx.ErrNoRows {
			return false, false, nil
		}
		return false, false, fmt.Errorf("failed to check robot: %w", err)
	}
	return true, enabled, nil
}

// ListRobots returns all enabled robot records.
func (p *PostgresClient) ListRobots(ctx context.Context) ([]*RobotRecord, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, robot_name, preset_path, definition, enabled, created_at, updated_at
		FROM robots
		WHERE enabled = true
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query robots: %w", err)
	}
	defer rows.Close()

	records := make([]*RobotRecord, 0)
	for rows.Next() {
		var record RobotRecord
		err := rows.Scan(
			&record.ID,
			&record.RobotName,
			&record.PresetPath,
			&record.Definition,
			&record.Enabled,
			&record.CreatedAt,
			&record.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan robot: %w", err)
		}
		records = append(records, &record)
	}

	return records, nil
}

// DeleteRobot removes a robot record by name.
func (p *PostgresClient) DeleteRobot(ctx context.Context, name string) error {
	result, err := p.pool.Exec(ctx, `
		DELETE FROM robots
		WHERE robot_name = $1
	`, name)

	if err != nil {
		return fmt.Errorf("failed to delete robot: %w", err)
	}

	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// PresetDefinition unmarshals the stored preset snapshot.
func (r *RobotRecord) PresetDefinition() (*types.RobotPresetDefinition, error) {
	var preset types.RobotPresetDefinition
	if err := json.Unmarshal(r.Definition, &preset); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preset definition: %w", err)
	}
	return &preset, nil
}
