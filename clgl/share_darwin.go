package clgl

/*
#cgo CFLAGS: -DCL_SILENCE_DEPRECATION -DGL_SILENCE_DEPRECATION
#cgo LDFLAGS: -framework OpenCL -framework OpenGL
#include <OpenCL/opencl.h>
#include <OpenGL/OpenGL.h>

static cl_context createSharedContext(cl_platform_id platform, cl_int *err) {
	CGLContextObj glctx = CGLGetCurrentContext();
	if (glctx == NULL) {
		*err = CL_INVALID_CONTEXT;
		return NULL;
	}
	cl_context_properties props[] = {
		CL_CONTEXT_PROPERTY_USE_CGL_SHAREGROUP_APPLE, (cl_context_properties)CGLGetShareGroup(glctx),
		0,
	};
	return clCreateContext(props, 0, NULL, NULL, NULL, err);
}
*/
import "C"

import "fmt"

// The share group decides the devices, so the platform is unused here.
func createSharedContext(p Platform) (*Context, error) {
	var st C.cl_int
	ctx := C.createSharedContext(p.id, &st)
	if err := check32(st); err != nil {
		return nil, fmt.Errorf("clCreateContext: %w", err)
	}
	return &Context{id: ctx}, nil
}
