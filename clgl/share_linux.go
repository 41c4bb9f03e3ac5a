package clgl

/*
#cgo CFLAGS: -DCL_TARGET_OPENCL_VERSION=120
#cgo LDFLAGS: -lOpenCL -lGL
#include <CL/cl.h>
#include <CL/cl_gl.h>
#include <GL/glx.h>

static cl_context createSharedContext(cl_platform_id platform, cl_int *err) {
	GLXContext glctx = glXGetCurrentContext();
	if (glctx == NULL) {
		*err = CL_INVALID_GL_SHAREGROUP_REFERENCE_KHR;
		return NULL;
	}
	cl_context_properties props[] = {
		CL_GL_CONTEXT_KHR, (cl_context_properties)glctx,
		CL_GLX_DISPLAY_KHR, (cl_context_properties)glXGetCurrentDisplay(),
		CL_CONTEXT_PLATFORM, (cl_context_properties)platform,
		0,
	};
	return clCreateContextFromType(props, CL_DEVICE_TYPE_ALL, NULL, NULL, err);
}
*/
import "C"

import "fmt"

func createSharedContext(p Platform) (*Context, error) {
	var st C.cl_int
	ctx := C.createSharedContext(p.id, &st)
	if err := check32(st); err != nil {
		return nil, fmt.Errorf("clCreateContextFromType: %w", err)
	}
	return &Context{id: ctx}, nil
}
