package clgl

import (
	"errors"
	"fmt"

	"github.com/stewi1014/clfractal/render"
	"go.uber.org/zap"
)

// Backend implements render.Compute on the OpenCL runtime.
type Backend struct {
	log *zap.Logger
}

func NewBackend(log *zap.Logger) *Backend {
	if log == nil {
		log = zap.NewNop()
	}
	return &Backend{log: log}
}

var _ render.Compute = (*Backend)(nil)

// SharedContext uses the first platform the loader reports.
func (b *Backend) SharedContext() (render.ComputeContext, error) {
	platforms, err := Platforms()
	if err != nil {
		if errors.Is(err, StatusPlatformNotFound) {
			return nil, &render.Error{Kind: render.DeviceUnavailable, Op: "list platforms", Code: StatusPlatformNotFound.Code(), Err: err}
		}
		return nil, err
	}
	if len(platforms) == 0 {
		return nil, &render.Error{Kind: render.DeviceUnavailable, Op: "list platforms", Err: errors.New("no OpenCL platform installed")}
	}

	p := platforms[0]
	b.log.Info("using compute platform",
		zap.String("name", p.Name()),
		zap.String("vendor", p.Vendor()),
		zap.String("version", p.Version()),
	)

	ctx, err := SharedContext(p)
	if err != nil {
		if errors.Is(err, StatusDeviceNotFound) {
			return nil, &render.Error{Kind: render.DeviceUnavailable, Op: "create shared context", Code: StatusDeviceNotFound.Code(), Err: err}
		}
		return nil, err
	}
	return &context{ctx: ctx}, nil
}

type context struct {
	ctx *Context
}

func (c *context) Devices() ([]render.Device, error) {
	devs, err := c.ctx.Devices()
	if err != nil {
		return nil, err
	}
	out := make([]render.Device, len(devs))
	for i, d := range devs {
		out[i] = device{d}
	}
	return out, nil
}

func (c *context) CreateQueue(d render.Device) (render.Queue, error) {
	dev, err := nativeDevice(d)
	if err != nil {
		return nil, err
	}
	q, err := c.ctx.CreateCommandQueue(dev)
	if err != nil {
		return nil, err
	}
	return &queue{q: q}, nil
}

func (c *context) BuildProgram(d render.Device, source, options string) (render.Program, error) {
	dev, err := nativeDevice(d)
	if err != nil {
		return nil, err
	}
	p, err := c.ctx.CreateProgramWithSource(source)
	if err != nil {
		return nil, err
	}
	if err := p.Build(dev, options); err != nil {
		log := p.BuildLog(dev)
		p.Release()
		return nil, &render.BuildError{Log: log, Err: err}
	}
	return &program{p: p}, nil
}

func (c *context) WrapDisplayBuffer(handle uint32) (render.Mem, error) {
	m, err := c.ctx.CreateFromGLBuffer(MemWriteOnly, handle)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (c *context) Release() {
	c.ctx.Release()
}

type device struct {
	Device
}

// Kind reports accelerators as GPUs; only CPU devices are told apart.
func (d device) Kind() render.DeviceKind {
	if d.Type()&DeviceTypeCPU != 0 {
		return render.CPU
	}
	return render.GPU
}

func nativeDevice(d render.Device) (Device, error) {
	dev, ok := d.(device)
	if !ok {
		return Device{}, fmt.Errorf("device %T does not belong to this backend", d)
	}
	return dev.Device, nil
}

func nativeMems(mems []render.Mem) ([]*Mem, error) {
	out := make([]*Mem, len(mems))
	for i, m := range mems {
		nm, ok := m.(*Mem)
		if !ok {
			return nil, fmt.Errorf("memory object %T does not belong to this backend", m)
		}
		out[i] = nm
	}
	return out, nil
}

type queue struct {
	q *CommandQueue
}

func (q *queue) AcquireDisplayObjects(mems ...render.Mem) error {
	ms, err := nativeMems(mems)
	if err != nil {
		return err
	}
	return q.q.EnqueueAcquireGLObjects(ms)
}

func (q *queue) ReleaseDisplayObjects(mems ...render.Mem) error {
	ms, err := nativeMems(mems)
	if err != nil {
		return err
	}
	return q.q.EnqueueReleaseGLObjects(ms)
}

func (q *queue) EnqueueKernel(k render.Kernel, width, height int) error {
	nk, ok := k.(*kernel)
	if !ok {
		return fmt.Errorf("kernel %T does not belong to this backend", k)
	}
	return q.q.EnqueueNDRangeKernel(nk.k, []int{width, height})
}

func (q *queue) Finish() error { return q.q.Finish() }
func (q *queue) Release()      { q.q.Release() }

type program struct {
	p *Program
}

func (p *program) Kernel(name string) (render.Kernel, error) {
	k, err := p.p.CreateKernel(name)
	if err != nil {
		return nil, err
	}
	return &kernel{k: k}, nil
}

func (p *program) Release() { p.p.Release() }

type kernel struct {
	k *Kernel
}

func (k *kernel) SetArgMem(index int, m render.Mem) error {
	nm, ok := m.(*Mem)
	if !ok {
		return fmt.Errorf("memory object %T does not belong to this backend", m)
	}
	return k.k.SetArgMem(index, nm)
}

func (k *kernel) SetArgFloat32(index int, v float32) error { return k.k.SetArgFloat32(index, v) }
func (k *kernel) SetArgUint32(index int, v uint32) error   { return k.k.SetArgUint32(index, v) }
func (k *kernel) Release()                                 { k.k.Release() }
