package rapid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrobotcore/OpenRobotCore/internal/actions"
	"github.com/openrobotcore/OpenRobotCore/internal/geometry"
	"github.com/openrobotcore/OpenRobotCore/internal/robot"
)

func testMovement(target string) *actions.Movement {
	return &actions.Movement{
		Target:      target,
		TargetPlane: geometry.WorldXY(),
		Type:        actions.MoveL,
		Speed:       actions.PredefinedSpeed(100),
		Zone:        -1,
	}
}

func TestGenerateEmptyProgram(t *testing.T) {
	gen := NewGenerator("")
	res := gen.Generate(nil)

	assert.Empty(t, res.Declarations)
	assert.Empty(t, res.Instructions)
	assert.Empty(t, res.Warnings)

	module := gen.Module(res)
	assert.Contains(t, module, "MODULE MainModule\n")
	assert.Contains(t, module, "PROC main()\n")
	assert.True(t, strings.HasSuffix(module, "ENDMODULE\n"))
}

func TestGenerateNamedGroupMarkers(t *testing.T) {
	group := actions.NewActionGroup("gripper",
		&actions.DigitalOutput{Signal: "do_grip", Value: true})

	res := NewGenerator("MainModule").Generate([]actions.Action{group})

	require.Len(t, res.Instructions, 3)
	assert.Equal(t, "\t\t! Start of group: gripper", res.Instructions[0])
	assert.Equal(t, "\t\tSetDO do_grip, 1;", res.Instructions[1])
	assert.Equal(t, "\t\t! End of group: gripper", res.Instructions[2])
	assert.Empty(t, res.Declarations)
}

func TestGenerateAnonymousGroupHasNoMarkers(t *testing.T) {
	group := actions.NewActionGroup("",
		&actions.DigitalOutput{Signal: "do_grip", Value: false})

	res := NewGenerator("MainModule").Generate([]actions.Action{group})

	require.Len(t, res.Instructions, 1)
	assert.Equal(t, "\t\tSetDO do_grip, 0;", res.Instructions[0])
}

func TestGenerateDuplicateTargetNames(t *testing.T) {
	program := []actions.Action{
		testMovement("target_a"),
		actions.NewActionGroup("pass2", testMovement("target_a")),
	}

	res := NewGenerator("MainModule").Generate(program)

	// Generation proceeds: both declarations are present, the collision
	// is surfaced as a warning.
	require.Len(t, res.Declarations, 2)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "duplicate target name")
	assert.Contains(t, res.Warnings[0], "target_a")
}

func TestGenerateIdentifierWarnings(t *testing.T) {
	tooLong := strings.Repeat("x", MaxIdentifierLength+1)
	program := []actions.Action{
		testMovement(tooLong),
		testMovement("1target"),
	}

	res := NewGenerator("MainModule").Generate(program)

	require.Len(t, res.Warnings, 2)
	assert.Contains(t, res.Warnings[0], "exceeds 32 characters")
	assert.Contains(t, res.Warnings[1], "starts with a digit")
	assert.Len(t, res.Declarations, 2)
}

func TestGenerateSpeedSubstitution(t *testing.T) {
	m := testMovement("target_a")
	m.Speed = actions.PredefinedSpeed(123)

	res := NewGenerator("MainModule").Generate([]actions.Action{m})

	require.Len(t, res.Instructions, 1)
	assert.Contains(t, res.Instructions[0], "v100")
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "substituting v100")
}

func TestGenerateZoneWarning(t *testing.T) {
	m := testMovement("target_a")
	m.Zone = 7

	res := NewGenerator("MainModule").Generate([]actions.Action{m})

	require.Len(t, res.Instructions, 1)
	assert.Contains(t, res.Instructions[0], "z7")
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "zone value 7")
}

func TestGenerateCustomSpeedDeclaration(t *testing.T) {
	m := testMovement("target_a")
	m.Speed = actions.SpeedData{Name: "vSlow", TCP: 12.5, Orientation: 500, ExternalLin: 5000, ExternalRot: 1000}

	res := NewGenerator("MainModule").Generate([]actions.Action{m})

	require.Len(t, res.Declarations, 2)
	assert.Contains(t, res.Declarations[1], "VAR speeddata vSlow := [12.5, 500, 5000, 1000];")
	assert.Contains(t, res.Instructions[0], "vSlow")
}

func TestGenerateToolOverride(t *testing.T) {
	tool := robot.Tool{
		Name:            "gripper1",
		AttachmentPlane: geometry.WorldXY(),
		ToolPlane:       geometry.WorldXY(),
	}
	program := []actions.Action{
		testMovement("before"),
		&actions.OverrideRobotTool{Tool: tool},
		testMovement("after"),
	}

	res := NewGenerator("MainModule").Generate(program)

	require.Len(t, res.Instructions, 3)
	assert.True(t, strings.HasSuffix(res.Instructions[0], "tool0;"))
	assert.Equal(t, "\t\t! Tool set to gripper1", res.Instructions[1])
	assert.True(t, strings.HasSuffix(res.Instructions[2], "gripper1;"))

	// The declaration pass keeps its own context: tooldata is declared
	// alongside the robtargets.
	declText := strings.Join(res.Declarations, "\n")
	assert.Contains(t, declText, "PERS tooldata gripper1")
}

func TestModuleAssembly(t *testing.T) {
	gen := NewGenerator("WeldJob")
	res := gen.Generate([]actions.Action{
		testMovement("home"),
		&actions.Comment{Text: "cycle done"},
	})

	module := gen.Module(res)
	lines := strings.Split(strings.TrimRight(module, "\n"), "\n")

	assert.Equal(t, "MODULE WeldJob", lines[0])
	assert.Equal(t, "\tPROC main()", lines[2])
	assert.Equal(t, "\tENDPROC", lines[len(lines)-2])
	assert.Equal(t, "ENDMODULE", lines[len(lines)-1])
}
