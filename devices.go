package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/jgillich/go-opencl/cl"
)

// listDevices prints every OpenCL platform and its devices.
func listDevices(w io.Writer) error {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		return fmt.Errorf("querying OpenCL platforms: %w", err)
	}
	if len(platforms) == 0 {
		return errors.New("no OpenCL platforms available")
	}

	for i, p := range platforms {
		fmt.Fprintf(w, "platform %d: %s (%s, %s)\n", i, p.Name(), p.Vendor(), p.Version())

		devices, err := p.GetDevices(cl.DeviceTypeAll)
		if err != nil && err != cl.ErrDeviceNotFound {
			fmt.Fprintf(w, "  error: %v\n", err)
			continue
		}
		for _, d := range devices {
			fmt.Fprintf(w, "  %-4s %s %s, %d compute units\n", d.Type(), d.Vendor(), d.Name(), d.MaxComputeUnits())
		}
	}
	return nil
}
