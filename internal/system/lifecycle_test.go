package system

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetErrorRetainsCause(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	lm := &LifecycleManager{logger: zap.New(core)}
	lm.setState(StateRunning)
	require.Nil(t, lm.LastError())

	cause := errors.New("failed to start REST API: port in use")
	lm.setError(cause)

	assert.Equal(t, StateError, lm.currentState)
	assert.Equal(t, cause, lm.LastError())

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "System entered error state", entry.Message)

	detailed := lm.GetCurrentStatusDetailed().(map[string]interface{})
	assert.Equal(t, cause.Error(), detailed["last_error"])
}

func TestRecoveryClearsLastError(t *testing.T) {
	lm := &LifecycleManager{logger: zap.NewNop()}
	lm.setError(errors.New("library reload failed"))
	require.NotNil(t, lm.LastError())

	lm.setState(StateRunning)
	assert.Nil(t, lm.LastError())

	detailed := lm.GetCurrentStatusDetailed().(map[string]interface{})
	_, present := detailed["last_error"]
	assert.False(t, present)
}
