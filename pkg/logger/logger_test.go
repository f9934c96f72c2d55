package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestInit_AppliesLevel(t *testing.T) {
	Init("lookup-simulator", "prod", "debug")
	assert.True(t, L().Core().Enabled(zap.DebugLevel))

	Init("lookup-simulator", "prod", "warn")
	assert.False(t, L().Core().Enabled(zap.InfoLevel))
	assert.True(t, L().Core().Enabled(zap.WarnLevel))
}

func TestInit_InvalidLevelKeepsDefault(t *testing.T) {
	Init("lookup-simulator", "prod", "loud")
	assert.True(t, L().Core().Enabled(zap.InfoLevel))
	assert.False(t, L().Core().Enabled(zap.DebugLevel))
	assert.NotNil(t, S())
	Sync()
}
