package render

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// RelaxedMath trades floating point precision for speed. It is always part
// of the build options; the output is only looked at.
const RelaxedMath = "-cl-fast-relaxed-math"

// KernelSource is the compute program and the entry point to resolve from it.
type KernelSource struct {
	Name       string
	Source     string
	EntryPoint string
	Options    string
}

func (k KernelSource) buildOptions() string {
	if strings.Contains(k.Options, RelaxedMath) {
		return k.Options
	}
	return strings.TrimSpace(RelaxedMath + " " + k.Options)
}

type Lifecycle int

const (
	Uninitialized Lifecycle = iota
	Ready
	Destroyed
)

func (l Lifecycle) String() string {
	switch l {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	case Destroyed:
		return "destroyed"
	}
	return fmt.Sprintf("Lifecycle(%d)", int(l))
}

// Handles are the compute objects of a Ready DeviceContext.
type Handles struct {
	Context ComputeContext
	Device  Device
	Queue   Queue
	Kernel  Kernel

	program Program
}

func (h *Handles) release() {
	if h.Kernel != nil {
		h.Kernel.Release()
	}
	if h.program != nil {
		h.program.Release()
	}
	if h.Queue != nil {
		h.Queue.Release()
	}
	if h.Context != nil {
		h.Context.Release()
	}
}

// DeviceContext owns the compute context, queue, program and kernel.
// It goes Uninitialized -> Ready -> Destroyed once; a failed or changed
// context is replaced by a new DeviceContext, never repaired.
type DeviceContext struct {
	log     *zap.Logger
	state   Lifecycle
	kind    DeviceKind
	handles *Handles
}

func NewDeviceContext(log *zap.Logger) *DeviceContext {
	if log == nil {
		log = zap.NewNop()
	}
	return &DeviceContext{log: log}
}

func (d *DeviceContext) State() Lifecycle {
	return d.state
}

func (d *DeviceContext) Kind() DeviceKind {
	return d.kind
}

// Handles returns the compute objects, or ErrNotReady outside the Ready state.
func (d *DeviceContext) Handles() (*Handles, error) {
	if d.state != Ready || d.handles == nil {
		return nil, fmt.Errorf("%w: %v", ErrNotReady, d.state)
	}
	return d.handles, nil
}

// Initialize selects a device of the given kind in a context shared with the
// current display context, opens a queue on it and builds the kernel.
// On failure everything created so far is released and the DeviceContext is Destroyed.
func (d *DeviceContext) Initialize(compute Compute, kind DeviceKind, src KernelSource) error {
	if d.state != Uninitialized {
		return fmt.Errorf("initialize device context: %w: %v", ErrNotReady, d.state)
	}
	d.kind = kind

	h := &Handles{}
	err := d.initialize(h, compute, kind, src)
	if err != nil {
		h.release()
		d.state = Destroyed
		return err
	}

	d.handles = h
	d.state = Ready
	return nil
}

func (d *DeviceContext) initialize(h *Handles, compute Compute, kind DeviceKind, src KernelSource) error {
	var err error
	h.Context, err = compute.SharedContext()
	if err != nil {
		if errors.Is(err, ErrDeviceUnavailable) {
			return err
		}
		return newError(ContextCreationFailed, "create shared context", err)
	}

	devices, err := h.Context.Devices()
	if err != nil {
		return newError(DeviceUnavailable, "list context devices", err)
	}
	for _, dev := range devices {
		if dev.Kind() == kind {
			h.Device = dev
			break
		}
	}
	if h.Device == nil {
		return &Error{
			Kind: DeviceUnavailable,
			Op:   "select device",
			Err:  fmt.Errorf("no %v device among %d in context", kind, len(devices)),
		}
	}

	d.log.Info("connecting to compute device",
		zap.Stringer("kind", kind),
		zap.String("vendor", h.Device.Vendor()),
		zap.String("name", h.Device.Name()),
	)

	h.Queue, err = h.Context.CreateQueue(h.Device)
	if err != nil {
		return newError(ContextCreationFailed, "create command queue", err)
	}

	h.program, err = h.Context.BuildProgram(h.Device, src.Source, src.buildOptions())
	if err != nil {
		return newError(BuildFailed, "build program "+src.Name, err)
	}

	h.Kernel, err = h.program.Kernel(src.EntryPoint)
	if err != nil {
		return newError(KernelResolutionFailed, "create kernel "+src.EntryPoint, err)
	}

	return nil
}

// Destroy waits for the queue to drain and releases every compute object.
func (d *DeviceContext) Destroy() {
	if d.state == Ready {
		if err := d.handles.Queue.Finish(); err != nil {
			d.log.Warn("finish compute queue before destroy", zap.Error(err))
		}
		d.handles.release()
		d.handles = nil
	}
	d.state = Destroyed
}
