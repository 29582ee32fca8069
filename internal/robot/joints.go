// Package robot models a 6-axis articulated arm, its mounted tool and the
// external axes attached to it.
package robot

import "math"

// UnsetJointValue marks a joint slot that is not connected to a value
// source. ABB controllers use 9E9 for the same purpose in jointtargets.
const UnsetJointValue = 9.0e9

// unsetThreshold: any magnitude above this is treated as unset. Threshold
// comparison instead of float equality so that values arriving through
// JSON or controller snapshots still match.
const unsetThreshold = 9.0e8

// IsUnset reports whether a joint value means "not provided".
func IsUnset(v float64) bool {
	return math.Abs(v) > unsetThreshold
}

// JointPosition holds the six internal axis values in degrees.
type JointPosition [6]float64

// NewJointPosition builds a JointPosition from up to six values; missing
// slots are zero.
func NewJointPosition(values ...float64) JointPosition {
	var jp JointPosition
	for i := 0; i < len(values) && i < 6; i++ {
		jp[i] = values[i]
	}
	return jp
}

// Resolved returns a copy with unset slots substituted by 0.
func (jp JointPosition) Resolved() JointPosition {
	out := jp
	for i := range out {
		if IsUnset(out[i]) {
			out[i] = 0
		}
	}
	return out
}

// ExternalJointPosition holds up to six external axis values in the native
// unit of each axis (degrees or millimeters).
type ExternalJointPosition []float64

// Duplicate returns an independent copy.
func (ejp ExternalJointPosition) Duplicate() ExternalJointPosition {
	out := make(ExternalJointPosition, len(ejp))
	copy(out, ejp)
	return out
}

// Limit is a closed interval in the axis's native unit.
type Limit struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Valid reports whether Min <= Max.
func (l Limit) Valid() bool {
	return l.Min <= l.Max
}

// Contains reports whether v lies inside the interval.
func (l Limit) Contains(v float64) bool {
	return v >= l.Min && v <= l.Max
}

// Clamp returns v forced into the interval.
func (l Limit) Clamp(v float64) float64 {
	if v < l.Min {
		return l.Min
	}
	if v > l.Max {
		return l.Max
	}
	return v
}
