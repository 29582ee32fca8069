package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateSimulation inserts a new simulation run record.
func (p *PostgresClient) CreateSimulation(ctx context.Context, sim *Simulation) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO simulations (id, program_id, status, current_step, input, started_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, sim.ID, sim.ProgramID, sim.Status, sim.CurrentStep, sim.Input, sim.StartedAt)

	if err != nil {
		return fmt.Errorf("failed to create simulation: %w", err)
	}
	return nil
}

// UpdateSimulation persists the mutable run fields.
func (p *PostgresClient) UpdateSimulation(ctx context.Context, sim *Simulation) error {
	_, err := p.pool.Exec(ctx, `
		UPDATE simulations
		SET status = $1, current_step = $2, output = $3, error = $4, completed_at = $5
		WHERE id = $6
	`, sim.Status, sim.CurrentStep, sim.Output, sim.Error, sim.CompletedAt, sim.ID)

	if err != nil {
		return fmt.Errorf("failed to update simulation: %w", err)
	}
	return nil
}

// GetSimulation fetches one run record.
func (p *PostgresClient) GetSimulation(ctx context.Context, simulationID uuid.UUID) (*Simulation, error) {
	var sim Simulation
	err := p.pool.QueryRow(ctx, `
		SELECT id, program_id, status, current_step, input, output, error, started_at, completed_at
		FROM simulations
		WHERE id = $1
	`, simulationID).Scan(
		&sim.ID, &sim.ProgramID, &sim.Status, &sim.CurrentStep,
		&sim.Input, &sim.Output, &sim.Error, &sim.StartedAt, &sim.CompletedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("simulation not found: %s", simulationID)
		}
		return nil, fmt.Errorf("failed to get simulation: %w", err)
	}

	return &sim, nil
}

// CreateSimulationStep inserts a per-action step record.
func (p *PostgresClient) CreateSimulationStep(ctx context.Context, step *SimulationStep) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO simulation_steps (id, simulation_id, step_index, action_kind, status, input, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, step.ID, step.SimulationID, step.StepIndex, step.ActionKind, step.Status, step.Input, step.StartedAt)

	if err != nil {
		return fmt.Errorf("failed to create simulation step: %w", err)
	}
	return nil
}

// UpdateSimulationStep persists the step outcome.
func (p *PostgresClient) UpdateSimulationStep(ctx context.Context, step *SimulationStep) error {
	_, err := p.pool.Exec(ctx, `
		UPDATE simulation_steps
		SET status = $1, output = $2, error = $3, completed_at = $4
		WHERE id = $5
	`, step.Status, step.Output, step.Error, step.CompletedAt, step.ID)

	if err != nil {
		return fmt.Errorf("failed to update simulation step: %w", err)
	}
	return nil
}

// GetSimulationSteps returns all step records of a run in order.
func (p *PostgresClient) GetSimulationSteps(ctx context.Context, simulationID uuid.UUID) ([]SimulationStep, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, simulation_id, step_index, action_kind, status, input, output, error, started_at, completed_at
		FROM simulation_steps
		WHERE simulation_id = $1
		ORDER BY step_index
	`, simulationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query simulation steps: %w", err)
	}
	defer rows.Close()

	steps := make([]SimulationStep, 0)
	for rows.Next() {
		var step SimulationStep
		err := rows.Scan(
			&step.ID, &step.SimulationID, &step.StepIndex, &step.ActionKind,
			&step.Status, &step.Input, &step.Output, &step.Error,
			&step.StartedAt, &step.CompletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan simulation step: %w", err)
		}
		steps = append(steps, step)
	}

	return steps, nil
}

// CreateSimulationEvent appends one event to a run's event log.
func (p *PostgresClient) CreateSimulationEvent(ctx context.Context, event *SimulationEvent) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO simulation_events (id, simulation_id, event_type, payload, timestamp)
		VALUES ($1, $2, $3, $4, $5)
	`, event.ID, event.SimulationID, event.EventType, event.Payload, event.Timestamp)

	if err != nil {
		return fmt.Errorf("failed to create simulation event: %w", err)
	}
	return nil
}

// GetSimulationEvents returns a run's event log in order.
func (p *PostgresClient) GetSimulationEvents(ctx context.Context, simulationID uuid.UUID) ([]SimulationEvent, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, simulation_id, event_type, payload, timestamp
		FROM simulation_events
		WHERE simulation_id = $1
		ORDER BY timestamp
	`, simulationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query simulation events: %w", err)
	}
	defer rows.Close()

	events := make([]SimulationEvent, 0)
	for rows.Next() {
		var event SimulationEvent
		err := rows.Scan(&event.ID, &event.SimulationID, &event.EventType, &event.Payload, &event.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to scan simulation event: %w", err)
		}
		events = append(events, event)
	}

	return events, nil
}
