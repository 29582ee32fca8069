// Package program validates stored robot programs: structural checks on the
// action sequence plus the static findings the code generator would warn
// about, reported with severity and JSON-pointer paths.
package program

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/openrobotcore/OpenRobotCore/internal/actions"
	"github.com/openrobotcore/OpenRobotCore/internal/program/definition"
	"github.com/openrobotcore/OpenRobotCore/internal/rapid"
	"github.com/openrobotcore/OpenRobotCore/internal/storage"
)

type Severity string

const (
	SevError   Severity = "error"
	SevWarning Severity = "warning"
)

type Issue struct {
	Code      string         `json:"code"`
	Severity  Severity       `json:"severity"`
	Message   string         `json:"message"`
	ProgramID string         `json:"program_id,omitempty"`
	Field     string         `json:"field,omitempty"`
	Path      string         `json:"path,omitempty"` // JSON Pointer-ish ("/actions/0/target")
	Hint      string         `json:"hint,omitempty"`
	Meta      map[string]any `json:"meta,omitempty"`
}

type Report struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

type Validator struct {
	storage *storage.PostgresClient
}

func NewValidator(storage *storage.PostgresClient) *Validator {
	return &Validator{storage: storage}
}

// ValidateByID validates a stored program. Load failures return
// (Report{}, err). Definition/semantic failures are returned in the Report
// (err == nil).
func (v *Validator) ValidateByID(ctx context.Context, programID uuid.UUID) (Report, error) {
	rep := Report{}

	record, err := v.storage.LoadProgram(ctx, programID)
	if err != nil {
		return rep, err
	}

	def, err := definition.ParseProgram(record.Definition)
	if err != nil {
		rep.addError(Issue{
			Code:      "PROGRAM_900",
			Severity:  SevError,
			Message:   fmt.Sprintf("Program definition JSON invalid: %v", err),
			ProgramID: programID.String(),
			Field:     "definition",
			Path:      "/definition",
		})
		rep.finalize()
		return rep, nil
	}

	if record.RobotID != nil {
		exists, enabled, err := v.storage.RobotExistsEnabled(ctx, *record.RobotID)
		if err != nil {
			rep.addError(Issue{
				Code:      "ROBOT_999",
				Severity:  SevError,
				Message:   fmt.Sprintf("Robot lookup failed: %v", err),
				ProgramID: programID.String(),
				Field:     "robot_id",
				Path:      "/robot_id",
			})
		} else if !exists {
			rep.addError(Issue{
				Code:      "ROBOT_001",
				Severity:  SevError,
				Message:   fmt.Sprintf("Robot not found: %s", record.RobotID),
				ProgramID: programID.String(),
				Field:     "robot_id",
				Path:      "/robot_id",
			})
		} else if !enabled {
			rep.addError(Issue{
				Code:      "ROBOT_002",
				Severity:  SevError,
				Message:   fmt.Sprintf("Robot is disabled: %s", record.RobotID),
				ProgramID: programID.String(),
				Field:     "robot_id",
				Path:      "/robot_id",
			})
		}
	}

	v.validateDefinition(programID, def, &rep)

	rep.finalize()
	return rep, nil
}

func (v *Validator) validateDefinition(programID uuid.UUID, def *definition.Program, rep *Report) {
	pid := programID.String()

	if strings.TrimSpace(def.Name) == "" {
		rep.addError(Issue{
			Code:      "PROGRAM_001",
			Severity:  SevError,
			Message:   "Program name is required",
			ProgramID: pid,
			Field:     "name",
			Path:      "/name",
		})
	}
	if strings.TrimSpace(def.Version) == "" {
		rep.addWarning(Issue{
			Code:      "PROGRAM_002",
			Severity:  SevWarning,
			Message:   "Program version is empty",
			ProgramID: pid,
			Field:     "version",
			Path:      "/version",
		})
	}
	if len(def.Actions) == 0 {
		rep.addWarning(Issue{
			Code:      "PROGRAM_004",
			Severity:  SevWarning,
			Message:   "Program has no actions; generation yields an empty module",
			ProgramID: pid,
			Field:     "actions",
			Path:      "/actions",
		})
		return
	}

	names := make(map[string]string) // name -> first path

	for i, raw := range def.Actions {
		base := fmt.Sprintf("/actions/%d", i)
		a, err := actions.Decode(raw)
		if err != nil {
			rep.addError(Issue{
				Code:      "ACTION_900",
				Severity:  SevError,
				Message:   fmt.Sprintf("Action envelope invalid: %v", err),
				ProgramID: pid,
				Path:      base,
				Meta:      map[string]any{"action_index": i},
			})
			continue
		}
		v.validateAction(pid, a, base, names, rep)
	}
}

func (v *Validator) validateAction(pid string, a actions.Action, base string, names map[string]string, rep *Report) {
	switch act := a.(type) {
	case *actions.Movement:
		v.checkTargetName(pid, act.Target, base+"/target", names, rep)
		v.checkSpeed(pid, act.Speed, base+"/speed", rep)
		v.checkZone(pid, act.Zone, base+"/zone", rep)
		if act.Config < 0 || act.Config > 7 {
			rep.addWarning(Issue{
				Code:      "ACTION_023",
				Severity:  SevWarning,
				Message:   fmt.Sprintf("Axis configuration %d is not between 0 and 7", act.Config),
				ProgramID: pid,
				Field:     "config",
				Path:      base + "/config",
			})
		}

	case *actions.AbsoluteJointMovement:
		v.checkTargetName(pid, act.Name, base+"/name", names, rep)
		v.checkSpeed(pid, act.Speed, base+"/speed", rep)
		v.checkZone(pid, act.Zone, base+"/zone", rep)

	case *actions.DigitalOutput:
		if strings.TrimSpace(act.Signal) == "" {
			rep.addError(Issue{
				Code:      "ACTION_030",
				Severity:  SevError,
				Message:   "Signal name is required",
				ProgramID: pid,
				Field:     "signal",
				Path:      base + "/signal",
			})
		}

	case *actions.WaitDigitalInput:
		if strings.TrimSpace(act.Signal) == "" {
			rep.addError(Issue{
				Code:      "ACTION_030",
				Severity:  SevError,
				Message:   "Signal name is required",
				ProgramID: pid,
				Field:     "signal",
				Path:      base + "/signal",
			})
		}

	case *actions.WaitTime:
		if act.Seconds < 0 {
			rep.addError(Issue{
				Code:      "ACTION_031",
				Severity:  SevError,
				Message:   "Wait duration must not be negative",
				ProgramID: pid,
				Field:     "seconds",
				Path:      base + "/seconds",
			})
		}

	case *actions.OverrideRobotTool:
		if !act.Tool.IsValid() {
			rep.addError(Issue{
				Code:      "ACTION_040",
				Severity:  SevError,
				Message:   "Tool override needs a named tool",
				ProgramID: pid,
				Field:     "tool",
				Path:      base + "/tool",
			})
		}

	case *actions.ActionGroup:
		for i, child := range act.Actions {
			v.validateAction(pid, child, fmt.Sprintf("%s/actions/%d", base, i), names, rep)
		}
	}
}

func (v *Validator) checkTargetName(pid, name, path string, names map[string]string, rep *Report) {
	if strings.TrimSpace(name) == "" {
		rep.addError(Issue{
			Code:      "ACTION_001",
			Severity:  SevError,
			Message:   "Target name is required",
			ProgramID: pid,
			Path:      path,
		})
		return
	}

	if len(name) > rapid.MaxIdentifierLength {
		rep.addWarning(Issue{
			Code:      "ACTION_010",
			Severity:  SevWarning,
			Message:   fmt.Sprintf("Identifier %q exceeds %d characters", name, rapid.MaxIdentifierLength),
			ProgramID: pid,
			Path:      path,
		})
	}
	if unicode.IsDigit(rune(name[0])) {
		rep.addWarning(Issue{
			Code:      "ACTION_011",
			Severity:  SevWarning,
			Message:   fmt.Sprintf("Identifier %q starts with a digit", name),
			ProgramID: pid,
			Path:      path,
		})
	}

	if first, taken := names[name]; taken {
		rep.addError(Issue{
			Code:      "ACTION_012",
			Severity:  SevError,
			Message:   fmt.Sprintf("Duplicate target name %q", name),
			ProgramID: pid,
			Path:      path,
			Hint:      "The RAPID compiler rejects redeclared identifiers",
			Meta:      map[string]any{"first_declared": first},
		})
		return
	}
	names[name] = path
}

func (v *Validator) checkSpeed(pid string, speed actions.SpeedData, path string, rep *Report) {
	if !speed.IsValid() {
		rep.addError(Issue{
			Code:      "ACTION_022",
			Severity:  SevError,
			Message:   "Speed data is incomplete",
			ProgramID: pid,
			Path:      path,
			Hint:      "Custom speeds need a name and a positive TCP velocity",
		})
		return
	}
	if speed.Predefined && !actions.IsPredefinedSpeed(speed.TCP) {
		rep.addWarning(Issue{
			Code:      "ACTION_021",
			Severity:  SevWarning,
			Message:   fmt.Sprintf("Speed value %v is not a predefined speeddata", speed.TCP),
			ProgramID: pid,
			Path:      path,
			Hint:      fmt.Sprintf("Generation substitutes the nearest value v%v", actions.NearestPredefinedSpeed(speed.TCP)),
		})
	}
}

func (v *Validator) checkZone(pid string, zone int, path string, rep *Report) {
	if !actions.IsValidZone(zone) {
		rep.addWarning(Issue{
			Code:      "ACTION_020",
			Severity:  SevWarning,
			Message:   fmt.Sprintf("Zone value %d is not a predefined zonedata", zone),
			ProgramID: pid,
			Path:      path,
		})
	}
}

func (r *Report) addError(i Issue) {
	if i.Severity == "" {
		i.Severity = SevError
	}
	r.Errors = append(r.Errors, i)
}

func (r *Report) addWarning(i Issue) {
	if i.Severity == "" {
		i.Severity = SevWarning
	}
	r.Warnings = append(r.Warnings, i)
}

func (r *Report) finalize() {
	sortIssues(r.Errors)
	sortIssues(r.Warnings)
	r.Valid = len(r.Errors) == 0
}

func sortIssues(list []Issue) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		return a.Message < b.Message
	})
}
