package render

import (
	"fmt"
	"strings"
)

type DeviceKind int

const (
	GPU DeviceKind = iota
	CPU
)

func (k DeviceKind) String() string {
	if k == CPU {
		return "cpu"
	}
	return "gpu"
}

func ParseDeviceKind(s string) (DeviceKind, error) {
	switch strings.ToLower(s) {
	case "gpu":
		return GPU, nil
	case "cpu":
		return CPU, nil
	}
	return GPU, fmt.Errorf("unknown device kind %q", s)
}

// Other returns the kind a device toggle switches to.
func (k DeviceKind) Other() DeviceKind {
	if k == CPU {
		return GPU
	}
	return CPU
}

// Compute opens contexts on the compute API.
type Compute interface {
	// SharedContext creates a context on the first platform that shares
	// objects with the display context current on the calling thread.
	SharedContext() (ComputeContext, error)
}

type ComputeContext interface {
	Devices() ([]Device, error)
	CreateQueue(Device) (Queue, error)
	// BuildProgram compiles source for the device. A rejected source is
	// reported as a *BuildError.
	BuildProgram(dev Device, source, options string) (Program, error)
	// WrapDisplayBuffer wraps a display buffer as a write-only compute memory object.
	WrapDisplayBuffer(handle uint32) (Mem, error)
	Release()
}

type Device interface {
	Kind() DeviceKind
	Name() string
	Vendor() string
}

type Queue interface {
	AcquireDisplayObjects(mems ...Mem) error
	ReleaseDisplayObjects(mems ...Mem) error
	// EnqueueKernel dispatches k over a width x height grid with the
	// runtime's default work-group shape.
	EnqueueKernel(k Kernel, width, height int) error
	Finish() error
	Release()
}

type Program interface {
	Kernel(name string) (Kernel, error)
	Release()
}

type Kernel interface {
	SetArgMem(index int, m Mem) error
	SetArgFloat32(index int, v float32) error
	SetArgUint32(index int, v uint32) error
	Release()
}

type Mem interface {
	Release()
}

// Display is the graphics API side of the interop.
// All calls block the calling thread only as far as the API itself does,
// except Finish which waits for the display queue to drain.
type Display interface {
	Finish()
	CreatePixelBuffer(size int) (uint32, error)
	DeletePixelBuffer(handle uint32)
	ReadPixelBuffer(handle uint32, dst []byte) error
	CreateTexture(width, height int) (uint32, error)
	DeleteTexture(handle uint32)
	// UploadTexture copies the pixel buffer into the texture on the GPU.
	UploadTexture(texture, pixelBuffer uint32, width, height int)
	// DrawQuad draws one display-filling quad sampling texture.
	DrawQuad(texture uint32, width, height int)
}
