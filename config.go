package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"github.com/stewi1014/clfractal/render"
	"github.com/stewi1014/clfractal/view"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Width       int     `toml:"width"`
	Height      int     `toml:"height"`
	Device      string  `toml:"device"`
	Kernel      string  `toml:"kernel"`
	KernelFile  string  `toml:"kernel_file"`
	Watch       bool    `toml:"watch"`
	CenterX     float64 `toml:"center_x"`
	CenterY     float64 `toml:"center_y"`
	Scale       float64 `toml:"scale"`
	Iterations  uint32  `toml:"iterations"`
	LogLevel    string  `toml:"log_level"`
	Dialogs     bool    `toml:"dialogs"`
	VSync       bool    `toml:"vsync"`
	Profile     string  `toml:"profile"`
	SnapshotDir string  `toml:"snapshot_dir"`

	// Path is the config file that was read, if any.
	Path        string `toml:"-"`
	ListDevices bool   `toml:"-"`
}

func DefaultConfig() Config {
	p := view.DefaultParams()
	return Config{
		Width:       800,
		Height:      800,
		Device:      render.GPU.String(),
		Kernel:      "mandelbrot",
		CenterX:     p.Center.X(),
		CenterY:     p.Center.Y(),
		Scale:       p.Scale,
		Iterations:  p.Iterations,
		LogLevel:    "info",
		Dialogs:     true,
		VSync:       true,
		SnapshotDir: ".",
	}
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "clfractal", "config.toml")
}

// LoadConfig reads the config file named by --config (or the default path),
// then applies the remaining command line flags on top of it.
func LoadConfig(args []string, output io.Writer) (Config, error) {
	path := defaultConfigPath()
	pre := pflag.NewFlagSet("clfractal", pflag.ContinueOnError)
	pre.ParseErrorsWhitelist.UnknownFlags = true
	pre.SetOutput(io.Discard)
	pre.Usage = func() {}
	pre.StringVar(&path, "config", path, "")
	_ = pre.Parse(args)

	cfg := DefaultConfig()
	if path != "" {
		if err := cfg.readFile(path, pre.Changed("config")); err != nil {
			return cfg, err
		}
	}

	flags := pflag.NewFlagSet("clfractal", pflag.ContinueOnError)
	flags.SetOutput(output)
	flags.String("config", path, "config file")
	flags.IntVar(&cfg.Width, "width", cfg.Width, "initial window width")
	flags.IntVar(&cfg.Height, "height", cfg.Height, "initial window height")
	flags.StringVar(&cfg.Device, "device", cfg.Device, "compute device kind (gpu or cpu)")
	flags.StringVar(&cfg.Kernel, "kernel", cfg.Kernel, "compute kernel name")
	flags.StringVar(&cfg.KernelFile, "kernel-file", cfg.KernelFile, "read the kernel source from this file")
	flags.BoolVar(&cfg.Watch, "watch", cfg.Watch, "rebuild the kernel when --kernel-file changes")
	flags.Float64Var(&cfg.CenterX, "center-x", cfg.CenterX, "initial view center x")
	flags.Float64Var(&cfg.CenterY, "center-y", cfg.CenterY, "initial view center y")
	flags.Float64Var(&cfg.Scale, "scale", cfg.Scale, "initial pixels per unit")
	flags.Uint32Var(&cfg.Iterations, "iterations", cfg.Iterations, "initial iteration bound")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	flags.BoolVar(&cfg.Dialogs, "dialogs", cfg.Dialogs, "show a dialog on fatal errors")
	flags.BoolVar(&cfg.VSync, "vsync", cfg.VSync, "wait for vertical sync between frames")
	flags.StringVar(&cfg.Profile, "profile", cfg.Profile, "write a CPU profile into this directory")
	flags.StringVar(&cfg.SnapshotDir, "snapshot-dir", cfg.SnapshotDir, "directory for snapshots")
	flags.BoolVar(&cfg.ListDevices, "list-devices", false, "list compute platforms and devices, then exit")

	if err := flags.Parse(args); err != nil {
		return cfg, err
	}
	if flags.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected arguments %v", flags.Args())
	}
	return cfg, cfg.Validate()
}

// readFile decodes path over c. A missing file is only an error when it was
// asked for explicitly.
func (c *Config) readFile(path string, explicit bool) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, c); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return fmt.Errorf("%s:%d:%d: %w", path, row, col, err)
		}
		return fmt.Errorf("%s: %w", path, err)
	}
	c.Path = path
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Width, c.Height))
	}
	if !(c.Scale > 0) {
		errs = append(errs, fmt.Errorf("scale %v must be positive", c.Scale))
	}
	if c.Iterations < view.MinIterations || c.Iterations > view.MaxIterations {
		errs = append(errs, fmt.Errorf("iterations %d out of range [%d, %d]", c.Iterations, view.MinIterations, view.MaxIterations))
	}
	if _, err := render.ParseDeviceKind(c.Device); err != nil {
		errs = append(errs, err)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.Watch && c.KernelFile == "" {
		errs = append(errs, errors.New("watch needs a kernel file"))
	}
	return errors.Join(errs...)
}

func (c Config) DeviceKind() render.DeviceKind {
	kind, _ := render.ParseDeviceKind(c.Device)
	return kind
}

func (c Config) Params() view.Params {
	return view.Params{
		Center:     mgl64.Vec2{c.CenterX, c.CenterY},
		Scale:      c.Scale,
		Iterations: c.Iterations,
	}
}
