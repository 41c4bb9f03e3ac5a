package main

import (
	"image"
	"sync"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stewi1014/clfractal/kernels"
	"github.com/stewi1014/clfractal/render"
	"github.com/stewi1014/clfractal/view"
	"go.uber.org/zap"
)

// session is the part of *render.Session the application drives.
type session interface {
	RequestResize(width, height int)
	ToggleDevice()
	RequestKernel(src render.KernelSource)
	Snapshot() (*image.RGBA, error)
	Kind() render.DeviceKind
}

// application implements view.Actions on top of a render session.
type application struct {
	log     *zap.Logger
	cfg     Config
	session session
	close   func()
	now     func() time.Time

	saving sync.WaitGroup
}

var _ view.Actions = (*application)(nil)

func newApplication(log *zap.Logger, cfg Config, s session, window *glfw.Window) *application {
	return &application{
		log:     log,
		cfg:     cfg,
		session: s,
		close:   func() { window.SetShouldClose(true) },
		now:     time.Now,
	}
}

func (a *application) Resize(width, height int) {
	a.session.RequestResize(width, height)
}

func (a *application) ToggleDevice() {
	a.log.Info("switching compute device", zap.Stringer("to", a.session.Kind().Other()))
	a.session.ToggleDevice()
}

// Snapshot copies the frame now and encodes it in the background.
func (a *application) Snapshot() {
	img, err := a.session.Snapshot()
	if err != nil {
		a.log.Error("snapshot", zap.Error(err))
		return
	}

	at := a.now()
	a.saving.Add(1)
	go func() {
		defer a.saving.Done()
		name, err := writeSnapshot(a.cfg.SnapshotDir, img, at)
		if err != nil {
			a.log.Error("snapshot", zap.Error(err))
			return
		}
		a.log.Info("snapshot saved", zap.String("path", name))
	}()
}

func (a *application) Quit() {
	a.close()
}

// reloadKernel requests a rebuild from the kernel file. A file that cannot
// be read is skipped; the next change tries again.
func (a *application) reloadKernel() {
	src, err := kernels.Load(a.cfg.Kernel, a.cfg.KernelFile)
	if err != nil {
		a.log.Warn("reload kernel", zap.Error(err))
		return
	}
	a.log.Info("reloading kernel", zap.String("source", src.Name))
	a.session.RequestKernel(src)
}

// wait blocks until pending snapshots are written.
func (a *application) wait() {
	a.saving.Wait()
}
