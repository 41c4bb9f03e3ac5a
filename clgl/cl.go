// Package clgl is a small OpenCL binding for contexts that share buffers
// with the OpenGL context current on the calling thread.
package clgl

/*
#cgo CFLAGS: -DCL_TARGET_OPENCL_VERSION=120 -DCL_USE_DEPRECATED_OPENCL_1_2_APIS
#cgo linux LDFLAGS: -lOpenCL
#cgo darwin LDFLAGS: -framework OpenCL
#cgo windows LDFLAGS: -lOpenCL
#include <stdlib.h>
#ifdef __APPLE__
#include <OpenCL/opencl.h>
#else
#include <CL/cl.h>
#include <CL/cl_gl.h>
#endif
*/
import "C"

import (
	"fmt"
	"strings"
	"unsafe"
)

type DeviceType uint64

const (
	DeviceTypeCPU         DeviceType = C.CL_DEVICE_TYPE_CPU
	DeviceTypeGPU         DeviceType = C.CL_DEVICE_TYPE_GPU
	DeviceTypeAccelerator DeviceType = C.CL_DEVICE_TYPE_ACCELERATOR
)

type MemFlags uint64

const (
	MemReadWrite MemFlags = C.CL_MEM_READ_WRITE
	MemWriteOnly MemFlags = C.CL_MEM_WRITE_ONLY
	MemReadOnly  MemFlags = C.CL_MEM_READ_ONLY
)

func check32(code C.cl_int) error {
	return check(int32(code))
}

type Platform struct {
	id C.cl_platform_id
}

func Platforms() ([]Platform, error) {
	var n C.cl_uint
	if err := check32(C.clGetPlatformIDs(0, nil, &n)); err != nil {
		return nil, fmt.Errorf("clGetPlatformIDs: %w", err)
	}
	if n == 0 {
		return nil, nil
	}

	ids := make([]C.cl_platform_id, n)
	if err := check32(C.clGetPlatformIDs(n, &ids[0], nil)); err != nil {
		return nil, fmt.Errorf("clGetPlatformIDs: %w", err)
	}

	platforms := make([]Platform, n)
	for i, id := range ids {
		platforms[i] = Platform{id: id}
	}
	return platforms, nil
}

func (p Platform) Name() string    { return p.info(C.CL_PLATFORM_NAME) }
func (p Platform) Vendor() string  { return p.info(C.CL_PLATFORM_VENDOR) }
func (p Platform) Version() string { return p.info(C.CL_PLATFORM_VERSION) }

func (p Platform) info(param C.cl_platform_info) string {
	var size C.size_t
	if C.clGetPlatformInfo(p.id, param, 0, nil, &size) != C.CL_SUCCESS || size == 0 {
		return ""
	}
	buf := make([]byte, size)
	if C.clGetPlatformInfo(p.id, param, size, unsafe.Pointer(&buf[0]), nil) != C.CL_SUCCESS {
		return ""
	}
	return cstring(buf)
}

type Device struct {
	id C.cl_device_id
}

func (d Device) Type() DeviceType {
	var t C.cl_device_type
	if C.clGetDeviceInfo(d.id, C.CL_DEVICE_TYPE, C.size_t(unsafe.Sizeof(t)), unsafe.Pointer(&t), nil) != C.CL_SUCCESS {
		return 0
	}
	return DeviceType(t)
}

func (d Device) Name() string   { return d.info(C.CL_DEVICE_NAME) }
func (d Device) Vendor() string { return d.info(C.CL_DEVICE_VENDOR) }

func (d Device) info(param C.cl_device_info) string {
	var size C.size_t
	if C.clGetDeviceInfo(d.id, param, 0, nil, &size) != C.CL_SUCCESS || size == 0 {
		return ""
	}
	buf := make([]byte, size)
	if C.clGetDeviceInfo(d.id, param, size, unsafe.Pointer(&buf[0]), nil) != C.CL_SUCCESS {
		return ""
	}
	return cstring(buf)
}

type Context struct {
	id C.cl_context
}

// SharedContext creates a context on p sharing objects with the OpenGL
// context current on the calling thread.
func SharedContext(p Platform) (*Context, error) {
	return createSharedContext(p)
}

func (c *Context) Devices() ([]Device, error) {
	var size C.size_t
	if err := check32(C.clGetContextInfo(c.id, C.CL_CONTEXT_DEVICES, 0, nil, &size)); err != nil {
		return nil, fmt.Errorf("clGetContextInfo: %w", err)
	}
	n := int(size) / int(unsafe.Sizeof(C.cl_device_id(nil)))
	if n == 0 {
		return nil, nil
	}

	ids := make([]C.cl_device_id, n)
	if err := check32(C.clGetContextInfo(c.id, C.CL_CONTEXT_DEVICES, size, unsafe.Pointer(&ids[0]), nil)); err != nil {
		return nil, fmt.Errorf("clGetContextInfo: %w", err)
	}

	devices := make([]Device, n)
	for i, id := range ids {
		devices[i] = Device{id: id}
	}
	return devices, nil
}

func (c *Context) CreateCommandQueue(d Device) (*CommandQueue, error) {
	var st C.cl_int
	q := C.clCreateCommandQueue(c.id, d.id, 0, &st)
	if err := check32(st); err != nil {
		return nil, fmt.Errorf("clCreateCommandQueue: %w", err)
	}
	return &CommandQueue{id: q}, nil
}

func (c *Context) CreateProgramWithSource(source string) (*Program, error) {
	csrc := C.CString(source)
	defer C.free(unsafe.Pointer(csrc))
	length := C.size_t(len(source))

	var st C.cl_int
	p := C.clCreateProgramWithSource(c.id, 1, &csrc, &length, &st)
	if err := check32(st); err != nil {
		return nil, fmt.Errorf("clCreateProgramWithSource: %w", err)
	}
	return &Program{id: p}, nil
}

// CreateFromGLBuffer wraps the OpenGL buffer object glBuffer.
func (c *Context) CreateFromGLBuffer(flags MemFlags, glBuffer uint32) (*Mem, error) {
	var st C.cl_int
	m := C.clCreateFromGLBuffer(c.id, C.cl_mem_flags(flags), C.cl_GLuint(glBuffer), &st)
	if err := check32(st); err != nil {
		return nil, fmt.Errorf("clCreateFromGLBuffer: %w", err)
	}
	return &Mem{id: m}, nil
}

func (c *Context) Release() {
	C.clReleaseContext(c.id)
}

type CommandQueue struct {
	id C.cl_command_queue
}

func memIDs(mems []*Mem) []C.cl_mem {
	ids := make([]C.cl_mem, len(mems))
	for i, m := range mems {
		ids[i] = m.id
	}
	return ids
}

func (q *CommandQueue) EnqueueAcquireGLObjects(mems []*Mem) error {
	if len(mems) == 0 {
		return nil
	}
	ids := memIDs(mems)
	if err := check32(C.clEnqueueAcquireGLObjects(q.id, C.cl_uint(len(ids)), &ids[0], 0, nil, nil)); err != nil {
		return fmt.Errorf("clEnqueueAcquireGLObjects: %w", err)
	}
	return nil
}

func (q *CommandQueue) EnqueueReleaseGLObjects(mems []*Mem) error {
	if len(mems) == 0 {
		return nil
	}
	ids := memIDs(mems)
	if err := check32(C.clEnqueueReleaseGLObjects(q.id, C.cl_uint(len(ids)), &ids[0], 0, nil, nil)); err != nil {
		return fmt.Errorf("clEnqueueReleaseGLObjects: %w", err)
	}
	return nil
}

// EnqueueNDRangeKernel dispatches k over global with no local work size.
func (q *CommandQueue) EnqueueNDRangeKernel(k *Kernel, global []int) error {
	if len(global) == 0 {
		return fmt.Errorf("clEnqueueNDRangeKernel: %w", StatusInvalidWorkDimension)
	}
	sizes := make([]C.size_t, len(global))
	for i, g := range global {
		sizes[i] = C.size_t(g)
	}
	if err := check32(C.clEnqueueNDRangeKernel(q.id, k.id, C.cl_uint(len(sizes)), nil, &sizes[0], nil, 0, nil, nil)); err != nil {
		return fmt.Errorf("clEnqueueNDRangeKernel: %w", err)
	}
	return nil
}

func (q *CommandQueue) Finish() error {
	if err := check32(C.clFinish(q.id)); err != nil {
		return fmt.Errorf("clFinish: %w", err)
	}
	return nil
}

func (q *CommandQueue) Release() {
	C.clReleaseCommandQueue(q.id)
}

type Program struct {
	id C.cl_program
}

func (p *Program) Build(d Device, options string) error {
	copts := C.CString(options)
	defer C.free(unsafe.Pointer(copts))

	dev := d.id
	if err := check32(C.clBuildProgram(p.id, 1, &dev, copts, nil, nil)); err != nil {
		return fmt.Errorf("clBuildProgram: %w", err)
	}
	return nil
}

func (p *Program) BuildLog(d Device) string {
	var size C.size_t
	if C.clGetProgramBuildInfo(p.id, d.id, C.CL_PROGRAM_BUILD_LOG, 0, nil, &size) != C.CL_SUCCESS || size == 0 {
		return ""
	}
	buf := make([]byte, size)
	if C.clGetProgramBuildInfo(p.id, d.id, C.CL_PROGRAM_BUILD_LOG, size, unsafe.Pointer(&buf[0]), nil) != C.CL_SUCCESS {
		return ""
	}
	return strings.TrimSpace(cstring(buf))
}

func (p *Program) CreateKernel(name string) (*Kernel, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	var st C.cl_int
	k := C.clCreateKernel(p.id, cname, &st)
	if err := check32(st); err != nil {
		return nil, fmt.Errorf("clCreateKernel %q: %w", name, err)
	}
	return &Kernel{id: k}, nil
}

func (p *Program) Release() {
	C.clReleaseProgram(p.id)
}

type Kernel struct {
	id C.cl_kernel
}

func (k *Kernel) SetArgMem(index int, m *Mem) error {
	id := m.id
	return k.setArg(index, C.size_t(unsafe.Sizeof(id)), unsafe.Pointer(&id))
}

func (k *Kernel) SetArgFloat32(index int, v float32) error {
	cv := C.cl_float(v)
	return k.setArg(index, C.size_t(unsafe.Sizeof(cv)), unsafe.Pointer(&cv))
}

func (k *Kernel) SetArgUint32(index int, v uint32) error {
	cv := C.cl_uint(v)
	return k.setArg(index, C.size_t(unsafe.Sizeof(cv)), unsafe.Pointer(&cv))
}

func (k *Kernel) setArg(index int, size C.size_t, value unsafe.Pointer) error {
	if err := check32(C.clSetKernelArg(k.id, C.cl_uint(index), size, value)); err != nil {
		return fmt.Errorf("clSetKernelArg %d: %w", index, err)
	}
	return nil
}

func (k *Kernel) Release() {
	C.clReleaseKernel(k.id)
}

type Mem struct {
	id C.cl_mem
}

func (m *Mem) Release() {
	C.clReleaseMemObject(m.id)
}

func cstring(buf []byte) string {
	if i := strings.IndexByte(string(buf), 0); i >= 0 {
		buf = buf[:i]
	}
	return string(buf)
}
