package kernels

import _ "embed"

//go:embed mandelbrot.cl
var mandelbrotSource string

func init() {
	register("mandelbrot", mandelbrotSource)
}
