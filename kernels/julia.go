package kernels

import _ "embed"

//go:embed julia.cl
var juliaSource string

func init() {
	register("julia", juliaSource)
}
