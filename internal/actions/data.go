package actions

import (
	"fmt"
	"math"
	"strconv"
)

// MovementType selects the RAPID move instruction for a target movement.
type MovementType int

const (
	// MoveL moves the TCP linearly to the target.
	MoveL MovementType = iota
	// MoveJ moves joint-interpolated to the target.
	MoveJ
)

func (m MovementType) String() string {
	switch m {
	case MoveL:
		return "MoveL"
	case MoveJ:
		return "MoveJ"
	default:
		return "MoveL"
	}
}

// ValidZoneValues is the enumerated set of zonedata the controller ships.
// Negative values mean fine (exact stop).
var ValidZoneValues = []int{0, 1, 5, 10, 15, 20, 30, 40, 50, 60, 80, 100, 150, 200}

// IsValidZone reports whether z is fine (< 0) or a shipped zone value.
func IsValidZone(z int) bool {
	if z < 0 {
		return true
	}
	for _, v := range ValidZoneValues {
		if v == z {
			return true
		}
	}
	return false
}

// ZoneText renders zonedata: "fine" for exact stop, "z<n>" otherwise. Out
// of set values are rendered as given; the caller reports the warning.
func ZoneText(z int) string {
	if z < 0 {
		return "fine"
	}
	return "z" + strconv.Itoa(z)
}

// PredefinedSpeedValues is the enumerated set of speeddata the controller
// ships (v5 .. v7000).
var PredefinedSpeedValues = []float64{
	5, 10, 20, 30, 40, 50, 60, 80, 100, 150, 200, 300, 400, 500,
	600, 800, 1000, 1500, 2000, 2500, 3000, 4000, 5000, 6000, 7000,
}

// IsPredefinedSpeed reports whether v names a shipped speeddata value.
func IsPredefinedSpeed(v float64) bool {
	for _, s := range PredefinedSpeedValues {
		if s == v {
			return true
		}
	}
	return false
}

// NearestPredefinedSpeed returns the shipped value closest to v.
func NearestPredefinedSpeed(v float64) float64 {
	best := PredefinedSpeedValues[0]
	bestDist := math.Abs(v - best)
	for _, s := range PredefinedSpeedValues[1:] {
		if d := math.Abs(v - s); d < bestDist {
			best, bestDist = s, d
		}
	}
	return best
}

// SpeedData describes the velocity of a movement. Predefined speeds render
// as the controller identifier (v100); custom speeds are declared once
// under Name.
type SpeedData struct {
	Name        string  `json:"name,omitempty"`
	TCP         float64 `json:"tcp"`          // mm/s
	Orientation float64 `json:"orientation"`  // deg/s
	ExternalLin float64 `json:"external_lin"` // mm/s
	ExternalRot float64 `json:"external_rot"` // deg/s
	Predefined  bool    `json:"predefined"`
}

// PredefinedSpeed returns speeddata for a shipped velocity value.
func PredefinedSpeed(tcp float64) SpeedData {
	return SpeedData{TCP: tcp, Predefined: true}
}

// Text renders the speeddata reference used inside a move instruction.
// Non-member predefined values are substituted with the nearest shipped
// value; the substitution is reported through ctx.
func (s SpeedData) Text(ctx *RenderContext) string {
	if s.Predefined {
		tcp := s.TCP
		if !IsPredefinedSpeed(tcp) {
			nearest := NearestPredefinedSpeed(tcp)
			ctx.Warn(fmt.Sprintf("speed value %s is not a predefined speeddata, substituting v%s",
				formatNum(tcp), formatNum(nearest)))
			tcp = nearest
		}
		return "v" + formatNum(tcp)
	}
	return s.Name
}

// Declaration renders the VAR speeddata line for a custom speed, or "".
func (s SpeedData) Declaration() string {
	if s.Predefined || s.Name == "" {
		return ""
	}
	return fmt.Sprintf("%sVAR speeddata %s := [%s, %s, %s, %s];",
		DeclarationIndent, s.Name,
		formatNum(s.TCP), formatNum(s.Orientation),
		formatNum(s.ExternalLin), formatNum(s.ExternalRot))
}

// IsValid reports structural completeness.
func (s SpeedData) IsValid() bool {
	if s.Predefined {
		return s.TCP > 0
	}
	return s.Name != "" && s.TCP > 0
}

// formatNum renders a float the way RAPID literals are written: no
// exponent, no trailing zeros.
func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
