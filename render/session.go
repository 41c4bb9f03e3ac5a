package render

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/stewi1014/clfractal/view"
	"go.uber.org/zap"
)

// Kernel argument positions.
const (
	argOutput = iota
	argCenterX
	argCenterY
	argScale
	argIterations
	argWidth
	argHeight
)

type Options struct {
	Kind   DeviceKind
	Kernel KernelSource
	Width  int
	Height int
}

// Session is the render loop state: one device context, one shared buffer
// and one surface of the same size, driven one frame at a time from a single thread.
type Session struct {
	log     *zap.Logger
	compute Compute
	display Display
	view    *view.State

	kind   DeviceKind
	kernel KernelSource

	device  *DeviceContext
	buffer  *SharedBuffer
	surface *Surface

	width, height int

	pendingResize  *image.Point
	pendingRebuild bool

	// dimensions bound to the kernel; zero when nothing is bound
	boundWidth, boundHeight int

	started bool
	stopped bool

	stats frameStats
	now   func() time.Time
}

func NewSession(compute Compute, display Display, state *view.State, log *zap.Logger, opts Options) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		log:     log,
		compute: compute,
		display: display,
		view:    state,
		kind:    opts.Kind,
		kernel:  opts.Kernel,
		width:   opts.Width,
		height:  opts.Height,
		now:     time.Now,
	}
}

func (s *Session) Kind() DeviceKind       { return s.kind }
func (s *Session) Size() (int, int)       { return s.width, s.height }
func (s *Session) Device() *DeviceContext { return s.device }
func (s *Session) Buffer() *SharedBuffer  { return s.buffer }
func (s *Session) Surface() *Surface      { return s.surface }
func (s *Session) Running() bool          { return s.started && !s.stopped }

// Start initializes the device context, creates the buffer and surface and
// runs one warm-up dispatch so the driver is awake before the first frame.
func (s *Session) Start() error {
	if s.started {
		return errors.New("session already started")
	}
	s.started = true

	if err := s.createDevice(); err != nil {
		s.stopped = true
		return err
	}
	if err := s.createTargets(s.width, s.height); err != nil {
		s.teardown()
		return err
	}
	if err := s.dispatch(); err != nil {
		s.teardown()
		return err
	}

	s.log.Info("session started",
		zap.Stringer("device", s.kind),
		zap.Int("width", s.width),
		zap.Int("height", s.height),
	)
	return nil
}

// RequestResize schedules a resize for the start of the next frame.
// Empty sizes, such as a minimized window, are ignored.
func (s *Session) RequestResize(width, height int) {
	if width <= 0 || height <= 0 {
		s.log.Debug("ignoring empty resize", zap.Int("width", width), zap.Int("height", height))
		return
	}
	s.pendingResize = &image.Point{X: width, Y: height}
}

// RequestDeviceKind schedules a wholesale device context recreation on kind.
func (s *Session) RequestDeviceKind(kind DeviceKind) {
	if kind == s.kind {
		return
	}
	s.kind = kind
	s.pendingRebuild = true
}

func (s *Session) ToggleDevice() {
	s.RequestDeviceKind(s.kind.Other())
}

// RequestKernel schedules a wholesale device context recreation with new kernel source.
func (s *Session) RequestKernel(src KernelSource) {
	s.kernel = src
	s.pendingRebuild = true
}

// Frame renders one frame. Any error is fatal: the session is torn down
// and later calls return ErrStopped.
func (s *Session) Frame() error {
	if !s.Running() {
		return ErrStopped
	}
	if err := s.frame(); err != nil {
		s.teardown()
		s.log.Error("frame failed, stopping session", zap.Error(err))
		return err
	}
	return nil
}

func (s *Session) frame() error {
	start := s.now()

	switch {
	case s.pendingRebuild:
		if err := s.rebuild(); err != nil {
			return err
		}
	case s.pendingResize != nil:
		if err := s.resize(); err != nil {
			return err
		}
	}

	if err := s.dispatch(); err != nil {
		return err
	}

	if err := s.surface.Present(s.buffer); err != nil {
		return err
	}

	// only for a stable frame time
	s.display.Finish()

	s.stats.record(s.log, start, s.now())
	return nil
}

// Snapshot reads the shared buffer back as an image with the top row first.
func (s *Session) Snapshot() (*image.RGBA, error) {
	if !s.Running() {
		return nil, ErrStopped
	}

	img := image.NewRGBA(image.Rect(0, 0, s.buffer.Width(), s.buffer.Height()))
	if err := s.buffer.Read(img.Pix); err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	// the buffer starts at the bottom row
	row := make([]byte, img.Stride)
	for top, bottom := 0, img.Rect.Dy()-1; top < bottom; top, bottom = top+1, bottom-1 {
		t := img.Pix[top*img.Stride : (top+1)*img.Stride]
		b := img.Pix[bottom*img.Stride : (bottom+1)*img.Stride]
		copy(row, t)
		copy(t, b)
		copy(b, row)
	}
	return img, nil
}

// Shutdown tears down the buffer, surface and device context and stops the session.
func (s *Session) Shutdown() {
	if s.stopped {
		return
	}
	s.teardown()
	s.log.Info("session stopped")
}

func (s *Session) teardown() {
	s.destroyTargets()
	if s.device != nil {
		s.device.Destroy()
	}
	s.stopped = true
}

func (s *Session) createDevice() error {
	d := NewDeviceContext(s.log)
	if err := d.Initialize(s.compute, s.kind, s.kernel); err != nil {
		return err
	}
	s.device = d
	return nil
}

// createTargets creates the surface and shared buffer at width x height.
func (s *Session) createTargets(width, height int) error {
	h, err := s.device.Handles()
	if err != nil {
		return err
	}

	surface, err := NewSurface(s.display, width, height)
	if err != nil {
		return err
	}

	pbo, err := s.display.CreatePixelBuffer(width * height * BytesPerPixel)
	if err != nil {
		surface.Destroy()
		return newError(BufferCreationFailed, "create display buffer", err)
	}

	buffer, err := NewSharedBuffer(h.Context, s.display, pbo, width, height)
	if err != nil {
		surface.Destroy()
		return err
	}

	s.surface = surface
	s.buffer = buffer
	s.width, s.height = width, height
	s.log.Info("created shared buffer", zap.Int("width", width), zap.Int("height", height))
	return nil
}

func (s *Session) destroyTargets() {
	var q Queue
	if s.device != nil {
		if h, err := s.device.Handles(); err == nil {
			q = h.Queue
		}
	}
	if s.buffer != nil {
		s.buffer.Destroy(q)
		s.buffer = nil
	}
	if s.surface != nil {
		s.surface.Destroy()
		s.surface = nil
	}
	s.boundWidth, s.boundHeight = 0, 0
}

func (s *Session) resize() error {
	size := *s.pendingResize
	s.pendingResize = nil
	if size.X == s.width && size.Y == s.height {
		return nil
	}

	s.log.Info("resize",
		zap.Int("fromWidth", s.width), zap.Int("fromHeight", s.height),
		zap.Int("width", size.X), zap.Int("height", size.Y),
	)

	s.destroyTargets()
	if err := s.createTargets(size.X, size.Y); err != nil {
		return &Error{Kind: ResizeRecreationFailed, Op: fmt.Sprintf("recreate at %dx%d", size.X, size.Y), Err: err}
	}
	return nil
}

// rebuild replaces the device context and everything bound to it, taking any pending resize along.
func (s *Session) rebuild() error {
	width, height := s.width, s.height
	if s.pendingResize != nil {
		width, height = s.pendingResize.X, s.pendingResize.Y
		s.pendingResize = nil
	}
	s.pendingRebuild = false

	s.log.Info("recreating device context", zap.Stringer("device", s.kind), zap.String("kernel", s.kernel.Name))

	s.destroyTargets()
	s.device.Destroy()
	s.device = nil

	resized := width != s.width || height != s.height
	wrap := func(err error) error {
		if resized {
			return &Error{Kind: ResizeRecreationFailed, Op: fmt.Sprintf("recreate at %dx%d", width, height), Err: err}
		}
		return err
	}

	if err := s.createDevice(); err != nil {
		return wrap(err)
	}
	if err := s.createTargets(width, height); err != nil {
		return wrap(err)
	}
	return nil
}

// dispatch runs the kernel over the shared buffer, binding arguments right before the enqueue.
func (s *Session) dispatch() error {
	h, err := s.device.Handles()
	if err != nil {
		return &Error{Kind: DispatchFailed, Op: "dispatch", Err: err}
	}

	return s.buffer.Run(h.Queue, func() error {
		if err := s.bindArgs(h.Kernel); err != nil {
			return err
		}
		if err := h.Queue.EnqueueKernel(h.Kernel, s.width, s.height); err != nil {
			return newError(DispatchFailed, "enqueue kernel", err)
		}
		return nil
	})
}

// bindArgs always binds the output buffer, whose handle changes on resize.
// The view and size arguments are only bound when they changed.
func (s *Session) bindArgs(k Kernel) error {
	if err := k.SetArgMem(argOutput, s.buffer.Mem()); err != nil {
		return argError(argOutput, err)
	}

	p, dirty := s.view.Take()
	if !dirty && s.boundWidth == s.width && s.boundHeight == s.height {
		return nil
	}

	floats := []struct {
		index int
		v     float32
	}{
		{argCenterX, float32(p.Center.X())},
		{argCenterY, float32(p.Center.Y())},
		{argScale, float32(p.Scale)},
	}
	for _, f := range floats {
		if err := k.SetArgFloat32(f.index, f.v); err != nil {
			return argError(f.index, err)
		}
	}

	uints := []struct {
		index int
		v     uint32
	}{
		{argIterations, p.Iterations},
		{argWidth, uint32(s.width)},
		{argHeight, uint32(s.height)},
	}
	for _, u := range uints {
		if err := k.SetArgUint32(u.index, u.v); err != nil {
			return argError(u.index, err)
		}
	}

	s.boundWidth, s.boundHeight = s.width, s.height
	s.log.Debug("bound kernel arguments",
		zap.Float64("centerX", p.Center.X()),
		zap.Float64("centerY", p.Center.Y()),
		zap.Float64("scale", p.Scale),
		zap.Uint32("iterations", p.Iterations),
	)
	return nil
}

func argError(index int, err error) error {
	return newError(DispatchFailed, fmt.Sprintf("set kernel argument %d", index), err)
}
