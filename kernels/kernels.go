// Package kernels holds the embedded compute kernel sources.
package kernels

import (
	"fmt"
	"os"
	"sort"

	"github.com/stewi1014/clfractal/render"
)

// EntryPoint is the kernel function every source defines:
//
//	__kernel void computeSet(__global uchar4 *out, float cx, float cy,
//	                         float scale, uint nmax, uint width, uint height)
const EntryPoint = "computeSet"

var kernels = map[string]render.KernelSource{}

func register(name, source string) {
	if _, ok := kernels[name]; ok {
		panic("kernels: duplicate kernel " + name)
	}
	kernels[name] = render.KernelSource{
		Name:       name,
		Source:     source,
		EntryPoint: EntryPoint,
		Options:    render.RelaxedMath,
	}
}

func Names() []string {
	names := make([]string, 0, len(kernels))
	for name := range kernels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Get(name string) (render.KernelSource, error) {
	k, ok := kernels[name]
	if !ok {
		return render.KernelSource{}, fmt.Errorf("unknown kernel %q, have %v", name, Names())
	}
	return k, nil
}

// Load returns the named kernel, with its source replaced by the contents of
// path when path is not empty.
func Load(name, path string) (render.KernelSource, error) {
	k, err := Get(name)
	if err != nil {
		return k, err
	}
	if path == "" {
		return k, nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return k, fmt.Errorf("read kernel source: %w", err)
	}
	k.Name = path
	k.Source = string(src)
	return k, nil
}
