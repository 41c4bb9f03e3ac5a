package gldisplay

import (
	"testing"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSeverityLevel(t *testing.T) {
	assert.Equal(t, zapcore.ErrorLevel, severityLevel(gl.DEBUG_SEVERITY_HIGH))
	assert.Equal(t, zapcore.WarnLevel, severityLevel(gl.DEBUG_SEVERITY_MEDIUM))
	assert.Equal(t, zapcore.InfoLevel, severityLevel(gl.DEBUG_SEVERITY_LOW))
	assert.Equal(t, zapcore.DebugLevel, severityLevel(gl.DEBUG_SEVERITY_NOTIFICATION))
}

func TestNames(t *testing.T) {
	assert.Equal(t, "shaderCompiler", sourceName(gl.DEBUG_SOURCE_SHADER_COMPILER))
	assert.Equal(t, "unknownSource", sourceName(0))
	assert.Equal(t, "performance", typeName(gl.DEBUG_TYPE_PERFORMANCE))
	assert.Equal(t, "unknownType", typeName(0))
}

func TestDebugMessageIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	d := &Display{log: zap.New(core)}

	d.debugMessage(gl.DEBUG_SOURCE_API, gl.DEBUG_TYPE_ERROR, 7, gl.DEBUG_SEVERITY_HIGH, 0, "bad enum", nil)
	d.debugMessage(gl.DEBUG_SOURCE_API, gl.DEBUG_TYPE_OTHER, 8, gl.DEBUG_SEVERITY_NOTIFICATION, 0, "buffer info", nil)

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "bad enum", entries[0].Message)
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
		assert.Equal(t, "error", entries[0].ContextMap()["type"])
		assert.Equal(t, "api", entries[0].ContextMap()["source"])
	}
}
