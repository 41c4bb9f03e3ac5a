package render

import (
	"errors"
	"fmt"
	"strings"
)

type Kind int

const (
	DeviceUnavailable Kind = iota + 1
	ContextCreationFailed
	BuildFailed
	KernelResolutionFailed
	BufferCreationFailed
	DispatchFailed
	ResizeRecreationFailed
)

func (k Kind) String() string {
	switch k {
	case DeviceUnavailable:
		return "device unavailable"
	case ContextCreationFailed:
		return "context creation failed"
	case BuildFailed:
		return "build failed"
	case KernelResolutionFailed:
		return "kernel resolution failed"
	case BufferCreationFailed:
		return "buffer creation failed"
	case DispatchFailed:
		return "dispatch failed"
	case ResizeRecreationFailed:
		return "resize recreation failed"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var (
	ErrDeviceUnavailable      = &Error{Kind: DeviceUnavailable}
	ErrContextCreationFailed  = &Error{Kind: ContextCreationFailed}
	ErrBuildFailed            = &Error{Kind: BuildFailed}
	ErrKernelResolutionFailed = &Error{Kind: KernelResolutionFailed}
	ErrBufferCreationFailed   = &Error{Kind: BufferCreationFailed}
	ErrDispatchFailed         = &Error{Kind: DispatchFailed}
	ErrResizeRecreationFailed = &Error{Kind: ResizeRecreationFailed}

	ErrNotReady = errors.New("device context not ready")
	ErrStopped  = errors.New("session stopped")
	ErrAcquired = errors.New("shared buffer is owned by the compute queue")
)

// Error is the failure of one operation of the render core.
// None of them are recoverable.
type Error struct {
	Kind Kind
	// Op is the failing call.
	Op string
	// Code is the native status code, if any.
	Code int
	// Log is the compiler output for BuildFailed.
	Log string
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}
	if e.Code != 0 {
		fmt.Fprintf(&b, " (code %d)", e.Code)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.Log != "" {
		b.WriteString("\n")
		b.WriteString(e.Log)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so the Err* values work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Coder is implemented by native status errors.
type Coder interface {
	Code() int
}

func newError(kind Kind, op string, err error) *Error {
	e := &Error{Kind: kind, Op: op, Err: err}
	var c Coder
	if errors.As(err, &c) {
		e.Code = c.Code()
	}
	var b *BuildError
	if errors.As(err, &b) {
		e.Log = b.Log
	}
	return e
}

// BuildError is returned by Context.BuildProgram when the compiler rejects the source.
type BuildError struct {
	Log string
	Err error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build program: %v", e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
