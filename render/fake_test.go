package render

import (
	"errors"
	"fmt"
	"strings"
)

// trace is the ordered list of calls made on the fakes.
type trace struct {
	calls []string
}

func (t *trace) add(format string, args ...any) {
	t.calls = append(t.calls, fmt.Sprintf(format, args...))
}

func (t *trace) index(call string) int {
	for i, c := range t.calls {
		if c == call {
			return i
		}
	}
	return -1
}

func (t *trace) count(prefix string) int {
	n := 0
	for _, c := range t.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (t *trace) reset() {
	t.calls = nil
}

type fakeCompute struct {
	t *trace

	devices    []*fakeDevice
	contextErr error
	buildErr   error
	buildLog   string
	kernelErr  error
	wrapErr    error
	enqueueErr error
	setArgErr  error

	nextMem  int
	liveMems map[int]bool
	contexts int
	builds   []string

	// enqueued grids
	grids [][2]int
	// args holds the last value bound to each kernel argument
	args map[int]any
}

func newFakeCompute(t *trace, kinds ...DeviceKind) *fakeCompute {
	c := &fakeCompute{t: t, liveMems: map[int]bool{}, args: map[int]any{}}
	for i, k := range kinds {
		c.devices = append(c.devices, &fakeDevice{kind: k, name: fmt.Sprintf("device%d", i)})
	}
	return c
}

func (c *fakeCompute) SharedContext() (ComputeContext, error) {
	c.t.add("cl.createContext")
	if c.contextErr != nil {
		return nil, c.contextErr
	}
	c.contexts++
	return &fakeContext{c: c}, nil
}

type fakeDevice struct {
	kind DeviceKind
	name string
}

func (d *fakeDevice) Kind() DeviceKind { return d.kind }
func (d *fakeDevice) Name() string     { return d.name }
func (d *fakeDevice) Vendor() string   { return "fake" }

type fakeContext struct {
	c *fakeCompute
}

func (x *fakeContext) Devices() ([]Device, error) {
	devs := make([]Device, len(x.c.devices))
	for i, d := range x.c.devices {
		devs[i] = d
	}
	return devs, nil
}

func (x *fakeContext) CreateQueue(d Device) (Queue, error) {
	x.c.t.add("cl.createQueue %s", d.Name())
	return &fakeQueue{c: x.c}, nil
}

func (x *fakeContext) BuildProgram(d Device, source, options string) (Program, error) {
	x.c.t.add("cl.build %s", options)
	x.c.builds = append(x.c.builds, source)
	if x.c.buildErr != nil {
		return nil, &BuildError{Log: x.c.buildLog, Err: x.c.buildErr}
	}
	return &fakeProgram{c: x.c}, nil
}

func (x *fakeContext) WrapDisplayBuffer(handle uint32) (Mem, error) {
	x.c.t.add("cl.wrap %d", handle)
	if x.c.wrapErr != nil {
		return nil, x.c.wrapErr
	}
	x.c.nextMem++
	x.c.liveMems[x.c.nextMem] = true
	return &fakeMem{c: x.c, id: x.c.nextMem}, nil
}

func (x *fakeContext) Release() {
	x.c.t.add("cl.releaseContext")
}

type fakeQueue struct {
	c *fakeCompute
}

func (q *fakeQueue) AcquireDisplayObjects(mems ...Mem) error {
	q.c.t.add("cl.acquire")
	return nil
}

func (q *fakeQueue) ReleaseDisplayObjects(mems ...Mem) error {
	q.c.t.add("cl.release")
	return nil
}

func (q *fakeQueue) EnqueueKernel(k Kernel, width, height int) error {
	q.c.t.add("cl.enqueue %dx%d", width, height)
	if q.c.enqueueErr != nil {
		return q.c.enqueueErr
	}
	q.c.grids = append(q.c.grids, [2]int{width, height})
	return nil
}

func (q *fakeQueue) Finish() error {
	q.c.t.add("cl.finish")
	return nil
}

func (q *fakeQueue) Release() {
	q.c.t.add("cl.releaseQueue")
}

type fakeProgram struct {
	c *fakeCompute
}

func (p *fakeProgram) Kernel(name string) (Kernel, error) {
	p.c.t.add("cl.kernel %s", name)
	if p.c.kernelErr != nil {
		return nil, p.c.kernelErr
	}
	return &fakeKernel{c: p.c}, nil
}

func (p *fakeProgram) Release() {
	p.c.t.add("cl.releaseProgram")
}

type fakeKernel struct {
	c *fakeCompute
}

func (k *fakeKernel) SetArgMem(index int, m Mem) error {
	k.c.t.add("cl.setArg %d", index)
	if !k.c.liveMems[m.(*fakeMem).id] {
		return errors.New("argument is a released memory object")
	}
	k.c.args[index] = m.(*fakeMem).id
	return nil
}

func (k *fakeKernel) SetArgFloat32(index int, v float32) error {
	k.c.t.add("cl.setArg %d", index)
	if k.c.setArgErr != nil {
		return k.c.setArgErr
	}
	k.c.args[index] = v
	return nil
}

func (k *fakeKernel) SetArgUint32(index int, v uint32) error {
	k.c.t.add("cl.setArg %d", index)
	k.c.args[index] = v
	return nil
}

func (k *fakeKernel) Release() {
	k.c.t.add("cl.releaseKernel")
}

type fakeMem struct {
	c  *fakeCompute
	id int
}

func (m *fakeMem) Release() {
	m.c.t.add("cl.releaseMem %d", m.id)
	delete(m.c.liveMems, m.id)
}

type fakeDisplay struct {
	t *trace

	nextHandle   uint32
	liveBuffers  map[uint32]int
	liveTextures map[uint32][2]int
	pixelErr     error
	textureErr   error

	// maxLiveBuffers is the most pixel buffers alive at once
	maxLiveBuffers int
	pixels         map[uint32][]byte
}

func newFakeDisplay(t *trace) *fakeDisplay {
	return &fakeDisplay{
		t:            t,
		liveBuffers:  map[uint32]int{},
		liveTextures: map[uint32][2]int{},
		pixels:       map[uint32][]byte{},
	}
}

func (d *fakeDisplay) Finish() {
	d.t.add("gl.finish")
}

func (d *fakeDisplay) CreatePixelBuffer(size int) (uint32, error) {
	if d.pixelErr != nil {
		return 0, d.pixelErr
	}
	d.nextHandle++
	d.t.add("gl.createBuffer %d", d.nextHandle)
	d.liveBuffers[d.nextHandle] = size
	d.maxLiveBuffers = max(d.maxLiveBuffers, len(d.liveBuffers))
	return d.nextHandle, nil
}

func (d *fakeDisplay) DeletePixelBuffer(handle uint32) {
	d.t.add("gl.deleteBuffer %d", handle)
	delete(d.liveBuffers, handle)
}

func (d *fakeDisplay) ReadPixelBuffer(handle uint32, dst []byte) error {
	d.t.add("gl.readBuffer %d", handle)
	if _, ok := d.liveBuffers[handle]; !ok {
		return errors.New("no such buffer")
	}
	copy(dst, d.pixels[handle])
	return nil
}

func (d *fakeDisplay) CreateTexture(width, height int) (uint32, error) {
	if d.textureErr != nil {
		return 0, d.textureErr
	}
	d.nextHandle++
	d.t.add("gl.createTexture %d", d.nextHandle)
	d.liveTextures[d.nextHandle] = [2]int{width, height}
	return d.nextHandle, nil
}

func (d *fakeDisplay) DeleteTexture(handle uint32) {
	d.t.add("gl.deleteTexture %d", handle)
	delete(d.liveTextures, handle)
}

func (d *fakeDisplay) UploadTexture(texture, pixelBuffer uint32, width, height int) {
	d.t.add("gl.upload")
}

func (d *fakeDisplay) DrawQuad(texture uint32, width, height int) {
	d.t.add("gl.draw")
}
