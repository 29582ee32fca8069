package robot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUnset(t *testing.T) {
	assert.True(t, IsUnset(UnsetJointValue))
	assert.True(t, IsUnset(-UnsetJointValue))
	// Values arriving through JSON lose exactness; anything near the
	// sentinel still counts.
	assert.True(t, IsUnset(8.999e9))
	assert.False(t, IsUnset(0))
	assert.False(t, IsUnset(360))
	assert.False(t, IsUnset(-1e6))
}

func TestJointPositionResolved(t *testing.T) {
	jp := NewJointPosition(10, UnsetJointValue, -20, UnsetJointValue)
	got := jp.Resolved()
	assert.Equal(t, JointPosition{10, 0, -20, 0, 0, 0}, got)
	// Original untouched.
	assert.Equal(t, UnsetJointValue, jp[1])
}

func TestNewJointPositionIgnoresExtraValues(t *testing.T) {
	jp := NewJointPosition(1, 2, 3, 4, 5, 6, 7, 8)
	assert.Equal(t, JointPosition{1, 2, 3, 4, 5, 6}, jp)
}

func TestExternalJointPositionDuplicate(t *testing.T) {
	ejp := ExternalJointPosition{1, 2, 3}
	dup := ejp.Duplicate()
	dup[0] = 99
	assert.Equal(t, 1.0, ejp[0])
}

func TestLimit(t *testing.T) {
	l := Limit{Min: -90, Max: 90}
	assert.True(t, l.Valid())
	assert.True(t, l.Contains(0))
	assert.True(t, l.Contains(-90))
	assert.True(t, l.Contains(90))
	assert.False(t, l.Contains(90.01))

	assert.Equal(t, 90.0, l.Clamp(180))
	assert.Equal(t, -90.0, l.Clamp(-180))
	assert.Equal(t, 45.0, l.Clamp(45))

	assert.False(t, Limit{Min: 1, Max: -1}.Valid())
}
