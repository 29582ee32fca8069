package program

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrobotcore/OpenRobotCore/internal/actions"
	"github.com/openrobotcore/OpenRobotCore/internal/program/definition"
)

func programWith(t *testing.T, name string, acts ...actions.Action) *definition.Program {
	t.Helper()
	raw, err := definition.FromActions(acts)
	require.NoError(t, err)
	return &definition.Program{Name: name, Version: "1", Actions: raw}
}

func validate(def *definition.Program) Report {
	v := &Validator{}
	rep := Report{}
	v.validateDefinition(uuid.New(), def, &rep)
	rep.finalize()
	return rep
}

func codes(issues []Issue) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.Code)
	}
	return out
}

func TestValidateCleanProgram(t *testing.T) {
	rep := validate(programWith(t, "pick_place",
		&actions.AbsoluteJointMovement{Name: "home", Speed: actions.PredefinedSpeed(100), Zone: -1},
		&actions.Movement{Target: "p10", Type: actions.MoveL, Speed: actions.PredefinedSpeed(200), Zone: 10},
		&actions.DigitalOutput{Signal: "doGrip", Value: true},
		&actions.WaitTime{Seconds: 0.5},
	))

	assert.True(t, rep.Valid)
	assert.Empty(t, rep.Errors)
	assert.Empty(t, rep.Warnings)
}

func TestValidateMissingName(t *testing.T) {
	rep := validate(programWith(t, "  ",
		&actions.WaitTime{Seconds: 1},
	))

	assert.False(t, rep.Valid)
	assert.Contains(t, codes(rep.Errors), "PROGRAM_001")
}

func TestValidateEmptyProgramWarns(t *testing.T) {
	rep := validate(programWith(t, "empty"))

	assert.True(t, rep.Valid)
	assert.Contains(t, codes(rep.Warnings), "PROGRAM_004")
}

func TestValidateDuplicateTargetNames(t *testing.T) {
	rep := validate(programWith(t, "dupes",
		&actions.Movement{Target: "p10", Speed: actions.PredefinedSpeed(100), Zone: 0},
		&actions.Movement{Target: "p10", Speed: actions.PredefinedSpeed(100), Zone: 0},
	))

	assert.False(t, rep.Valid)
	require.Contains(t, codes(rep.Errors), "ACTION_012")
	for _, issue := range rep.Errors {
		if issue.Code == "ACTION_012" {
			assert.Equal(t, "/actions/1/target", issue.Path)
			assert.Equal(t, "/actions/0/target", issue.Meta["first_declared"])
		}
	}
}

func TestValidateDuplicateInsideGroup(t *testing.T) {
	rep := validate(programWith(t, "grouped",
		&actions.Movement{Target: "approach", Speed: actions.PredefinedSpeed(100), Zone: 0},
		actions.NewActionGroup("weld",
			&actions.Movement{Target: "approach", Speed: actions.PredefinedSpeed(100), Zone: 0},
		),
	))

	assert.False(t, rep.Valid)
	assert.Contains(t, codes(rep.Errors), "ACTION_012")
}

func TestValidateNegativeWait(t *testing.T) {
	rep := validate(programWith(t, "waits",
		&actions.WaitTime{Seconds: -2},
	))

	assert.False(t, rep.Valid)
	assert.Contains(t, codes(rep.Errors), "ACTION_031")
}

func TestValidateOffListSpeedAndZone(t *testing.T) {
	rep := validate(programWith(t, "speeds",
		&actions.Movement{
			Target: "p10",
			Speed:  actions.SpeedData{TCP: 123, Predefined: true},
			Zone:   7,
		},
	))

	assert.True(t, rep.Valid)
	assert.Contains(t, codes(rep.Warnings), "ACTION_021")
	assert.Contains(t, codes(rep.Warnings), "ACTION_020")
}

func TestValidateMissingSignal(t *testing.T) {
	rep := validate(programWith(t, "signals",
		&actions.DigitalOutput{Value: true},
		&actions.WaitDigitalInput{Value: false},
	))

	assert.False(t, rep.Valid)
	assert.Len(t, rep.Errors, 2)
	for _, issue := range rep.Errors {
		assert.Equal(t, "ACTION_030", issue.Code)
	}
}

func TestValidateConfigOutOfRange(t *testing.T) {
	rep := validate(programWith(t, "configs",
		&actions.Movement{Target: "p10", Speed: actions.PredefinedSpeed(100), Zone: 0, Config: 9},
	))

	assert.True(t, rep.Valid)
	assert.Contains(t, codes(rep.Warnings), "ACTION_023")
}

func TestValidateBrokenEnvelope(t *testing.T) {
	def := programWith(t, "broken")
	def.Actions = append(def.Actions, []byte(`{"version": 1, "kind": "no_such_action", "data": {}}`))

	rep := validate(def)
	assert.False(t, rep.Valid)
	assert.Contains(t, codes(rep.Errors), "ACTION_900")
}
