package gldisplay

import (
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func severityLevel(severity uint32) zapcore.Level {
	switch severity {
	case gl.DEBUG_SEVERITY_HIGH:
		return zapcore.ErrorLevel
	case gl.DEBUG_SEVERITY_MEDIUM:
		return zapcore.WarnLevel
	case gl.DEBUG_SEVERITY_LOW:
		return zapcore.InfoLevel
	}
	return zapcore.DebugLevel
}

func sourceName(source uint32) string {
	switch source {
	case gl.DEBUG_SOURCE_API:
		return "api"
	case gl.DEBUG_SOURCE_APPLICATION:
		return "application"
	case gl.DEBUG_SOURCE_OTHER:
		return "other"
	case gl.DEBUG_SOURCE_SHADER_COMPILER:
		return "shaderCompiler"
	case gl.DEBUG_SOURCE_THIRD_PARTY:
		return "thirdParty"
	case gl.DEBUG_SOURCE_WINDOW_SYSTEM:
		return "windowSystem"
	}
	return "unknownSource"
}

func typeName(gltype uint32) string {
	switch gltype {
	case gl.DEBUG_TYPE_ERROR:
		return "error"
	case gl.DEBUG_TYPE_DEPRECATED_BEHAVIOR:
		return "deprecatedBehavior"
	case gl.DEBUG_TYPE_MARKER:
		return "marker"
	case gl.DEBUG_TYPE_OTHER:
		return "other"
	case gl.DEBUG_TYPE_PERFORMANCE:
		return "performance"
	case gl.DEBUG_TYPE_POP_GROUP:
		return "popGroup"
	case gl.DEBUG_TYPE_PORTABILITY:
		return "portability"
	case gl.DEBUG_TYPE_PUSH_GROUP:
		return "pushGroup"
	case gl.DEBUG_TYPE_UNDEFINED_BEHAVIOR:
		return "undefinedBehavior"
	}
	return "unknownType"
}

func (d *Display) debugMessage(
	source,
	gltype,
	id,
	severity uint32,
	length int32,
	message string,
	user unsafe.Pointer,
) {
	if ce := d.log.Check(severityLevel(severity), message); ce != nil {
		ce.Write(
			zap.String("source", sourceName(source)),
			zap.String("type", typeName(gltype)),
			zap.Uint32("id", id),
		)
	}
}
