package types

// RobotPresetDefinition is the on-disk JSON shape of a robot preset. All
// coordinates are design-time world coordinates in millimeters; the library
// package converts them into model types.
type RobotPresetDefinition struct {
	Robot        RobotPresetInfo          `json:"robot"`
	BasePlane    PlaneDefinition          `json:"base_plane"`
	Axes         []AxisDefinition         `json:"axes"`
	BaseBox      *BoxDefinition           `json:"base_box,omitempty"`
	Tool         *ToolDefinition          `json:"tool,omitempty"`
	ExternalAxes []ExternalAxisDefinition `json:"external_axes,omitempty"`
}

type RobotPresetInfo struct {
	ID          string `json:"id"`
	Vendor      string `json:"vendor"`
	Model       string `json:"model"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// PlaneDefinition carries an origin and two in-plane directions; the third
// axis is derived on load.
type PlaneDefinition struct {
	Origin [3]float64 `json:"origin"`
	XAxis  [3]float64 `json:"x_axis"`
	YAxis  [3]float64 `json:"y_axis"`
}

type AxisDefinition struct {
	Plane   PlaneDefinition `json:"plane"`
	Limit   LimitDefinition `json:"limit"`
	LinkBox *BoxDefinition  `json:"link_box,omitempty"`
}

type LimitDefinition struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// BoxDefinition approximates link geometry for presets without CAD meshes.
type BoxDefinition struct {
	Center [3]float64 `json:"center"`
	Size   [3]float64 `json:"size"`
}

type ToolDefinition struct {
	Name            string          `json:"name"`
	AttachmentPlane PlaneDefinition `json:"attachment_plane"`
	ToolPlane       PlaneDefinition `json:"tool_plane"`
	Box             *BoxDefinition  `json:"box,omitempty"`
}

type ExternalAxisDefinition struct {
	Kind       string          `json:"kind"` // linear, rotational
	Name       string          `json:"name"`
	AxisNumber int             `json:"axis_number"`
	AxisPlane  PlaneDefinition `json:"axis_plane"`
	Limit      LimitDefinition `json:"limit"`
	MovesRobot bool            `json:"moves_robot"`
	BaseBox    *BoxDefinition  `json:"base_box,omitempty"`
	LinkBox    *BoxDefinition  `json:"link_box,omitempty"`
}
