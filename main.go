package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/profile"
	"github.com/spf13/pflag"
	"github.com/stewi1014/clfractal/clgl"
	"github.com/stewi1014/clfractal/gldisplay"
	"github.com/stewi1014/clfractal/kernels"
	"github.com/stewi1014/clfractal/render"
	"github.com/stewi1014/clfractal/view"
	"go.uber.org/zap"
)

func init() {
	// glfw and both GL and CL interop calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	os.Exit(realMain())
}

func realMain() int {
	cfg, err := LoadConfig(os.Args[1:], os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	if cfg.ListDevices {
		if err := listDevices(os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	defer log.Sync()

	if cfg.Path != "" {
		log.Info("loaded config", zap.String("path", cfg.Path))
	}

	mainContext, mainQuit := context.WithCancelCause(context.Background())
	func() {
		defer catchPanicToContext(mainQuit)
		ctx, stop := signal.NotifyContext(mainContext, os.Interrupt)
		defer stop()
		mainQuit(run(ctx, cfg, log))
	}()

	err = context.Cause(mainContext)
	if err == nil || errors.Is(err, context.Canceled) {
		log.Info("shut down")
		return 0
	}

	log.Error("fatal", zap.Error(err))
	if cfg.Dialogs {
		showErrorDialog(log, err)
	}
	return 1
}

func run(ctx context.Context, cfg Config, log *zap.Logger) error {
	if cfg.Profile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.Profile), profile.NoShutdownHook).Stop()
	}

	src, err := kernels.Load(cfg.Kernel, cfg.KernelFile)
	if err != nil {
		return err
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("initialize glfw: %w", err)
	}
	defer glfw.Terminate()

	window, err := newWindow(cfg)
	if err != nil {
		return err
	}
	defer window.Destroy()

	display, err := gldisplay.New(log.Named("gl"), gldisplay.Options{Debug: cfg.LogLevel == "debug"})
	if err != nil {
		return err
	}
	defer display.Close()

	width, height := window.GetFramebufferSize()
	state := view.NewState(cfg.Params())
	s := render.NewSession(clgl.NewBackend(log.Named("cl")), display, state, log.Named("render"), render.Options{
		Kind:   cfg.DeviceKind(),
		Kernel: src,
		Width:  width,
		Height: height,
	})
	if err := s.Start(); err != nil {
		return err
	}
	defer s.Shutdown()

	app := newApplication(log, cfg, s, window)
	defer app.wait()

	controller := view.NewController(state, width, height, app)
	configureInput(window, controller.Handle)

	var reload <-chan struct{}
	if cfg.Watch {
		watcher, err := newKernelWatcher(log, cfg.KernelFile)
		if err != nil {
			return err
		}
		defer watcher.Close()
		reload = watcher.Changed()
	}

	for !window.ShouldClose() {
		glfw.PollEvents()

		select {
		case <-ctx.Done():
			return context.Cause(ctx)
		case <-reload:
			app.reloadKernel()
		default:
		}

		if err := s.Frame(); err != nil {
			return err
		}
		window.SwapBuffers()
	}
	return nil
}
