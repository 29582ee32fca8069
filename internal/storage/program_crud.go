package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaveProgram stores a new program record.
func (p *PostgresClient) SaveProgram(ctx context.Context, program *ProgramRecord) error {
	err := p.pool.QueryRow(ctx, `
		INSERT INTO programs (program_name, robot_id, definition, active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, program.ProgramName, program.RobotID, program.Definition, program.Active).Scan(
		&program.ID, &program.CreatedAt, &program.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert program: %w", err)
	}
	return nil
}

// LoadProgram fetches one program by ID.
func (p *PostgresClient) LoadProgram(ctx context.Context, programID uuid.UUID) (*ProgramRecord, error) {
	var program ProgramRecord
	err := p.pool.QueryRow(ctx, `
		SELECT id, program_name, robot_id, definition, active, created_at, updated_at
		FROM programs
		WHERE id = $1
	`, programID).Scan(
		&program.ID,
		&program.ProgramName,
		&program.RobotID,
		&program.Definition,
		&program.Active,
		&program.CreatedAt,
		&program.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("program not found: %s", programID)
		}
		return nil, fmt.Errorf("failed to load program: %w", err)
	}

	return &program, nil
}

// ProgramExists reports whether a program record exists.
func (p *PostgresClient) ProgramExists(ctx context.Context, programID uuid.UUID) (bool, error) {
	var exists bool
	err := p.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM programs WHERE id = $1)
	`, programID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check program: %w", err)
	}
	return exists, nil
}

// UpdateProgram replaces name, definition and active flag.
func (p *PostgresClient) UpdateProgram(ctx context.Context, program *ProgramRecord) error {
	result, err := p.pool.Exec(ctx, `
		UPDATE programs
		SET program_name = $1, robot_id = $2, definition = $3, active = $4, updated_at = NOW()
		WHERE id = $5
	`, program.ProgramName, program.RobotID, program.Definition, program.Active, program.ID)

	if err != nil {
		return fmt.Errorf("failed to update program: %w", err)
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteProgram removes a program record.
func (p *PostgresClient) DeleteProgram(ctx context.Context, programID uuid.UUID) error {
	result, err := p.pool.Exec(ctx, `
		DELETE FROM programs WHERE id = $1
	`, programID)

	if err != nil {
		return fmt.Errorf("failed to delete program: %w", err)
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListPrograms returns all program records, newest first.
func (p *PostgresClient) ListPrograms(ctx context.Context) ([]*ProgramRecord, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, program_name, robot_id, definition, active, created_at, updated_at
		FROM programs
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	defer rows.Close()

	programs := make([]*ProgramRecord, 0)
	for rows.Next() {
		var program ProgramRecord
		err := rows.Scan(
			&program.ID,
			&program.ProgramName,
			&program.RobotID,
			&program.Definition,
			&program.Active,
			&program.CreatedAt,
			&program.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan program: %w", err)
		}
		programs = append(programs, &program)
	}

	return programs, nil
}

// GetActiveProgram returns the currently active program.
func (p *PostgresClient) GetActiveProgram(ctx context.Context) (*ProgramRecord, error) {
	var programID uuid.UUID
	err := p.pool.QueryRow(ctx, `
		SELECT id FROM programs WHERE active = true LIMIT 1
	`).Scan(&programID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no active program")
		}
		return nil, fmt.Errorf("failed to find active program: %w", err)
	}

	return p.LoadProgram(ctx, programID)
}
