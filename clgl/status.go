package clgl

import "fmt"

// Status is a non-zero OpenCL status code.
type Status int32

const (
	StatusDeviceNotFound               Status = -1
	StatusDeviceNotAvailable           Status = -2
	StatusCompilerNotAvailable         Status = -3
	StatusMemObjectAllocationFailure   Status = -4
	StatusOutOfResources               Status = -5
	StatusOutOfHostMemory              Status = -6
	StatusBuildProgramFailure          Status = -11
	StatusInvalidValue                 Status = -30
	StatusInvalidDeviceType            Status = -31
	StatusInvalidPlatform              Status = -32
	StatusInvalidDevice                Status = -33
	StatusInvalidContext               Status = -34
	StatusInvalidCommandQueue          Status = -36
	StatusInvalidMemObject             Status = -38
	StatusInvalidBuildOptions          Status = -43
	StatusInvalidProgram               Status = -44
	StatusInvalidProgramExecutable     Status = -45
	StatusInvalidKernelName            Status = -46
	StatusInvalidKernel                Status = -48
	StatusInvalidArgIndex              Status = -49
	StatusInvalidArgValue              Status = -50
	StatusInvalidArgSize               Status = -51
	StatusInvalidKernelArgs            Status = -52
	StatusInvalidWorkDimension         Status = -53
	StatusInvalidWorkGroupSize         Status = -54
	StatusInvalidGlobalWorkSize        Status = -63
	StatusInvalidGLObject              Status = -60
	StatusInvalidBufferSize            Status = -61
	StatusInvalidOperation             Status = -59
	StatusInvalidGLSharegroupReference Status = -1000
	StatusPlatformNotFound             Status = -1001
)

var statusNames = map[Status]string{
	StatusDeviceNotFound:               "CL_DEVICE_NOT_FOUND",
	StatusDeviceNotAvailable:           "CL_DEVICE_NOT_AVAILABLE",
	StatusCompilerNotAvailable:         "CL_COMPILER_NOT_AVAILABLE",
	StatusMemObjectAllocationFailure:   "CL_MEM_OBJECT_ALLOCATION_FAILURE",
	StatusOutOfResources:               "CL_OUT_OF_RESOURCES",
	StatusOutOfHostMemory:              "CL_OUT_OF_HOST_MEMORY",
	StatusBuildProgramFailure:          "CL_BUILD_PROGRAM_FAILURE",
	StatusInvalidValue:                 "CL_INVALID_VALUE",
	StatusInvalidDeviceType:            "CL_INVALID_DEVICE_TYPE",
	StatusInvalidPlatform:              "CL_INVALID_PLATFORM",
	StatusInvalidDevice:                "CL_INVALID_DEVICE",
	StatusInvalidContext:               "CL_INVALID_CONTEXT",
	StatusInvalidCommandQueue:          "CL_INVALID_COMMAND_QUEUE",
	StatusInvalidMemObject:             "CL_INVALID_MEM_OBJECT",
	StatusInvalidBuildOptions:          "CL_INVALID_BUILD_OPTIONS",
	StatusInvalidProgram:               "CL_INVALID_PROGRAM",
	StatusInvalidProgramExecutable:     "CL_INVALID_PROGRAM_EXECUTABLE",
	StatusInvalidKernelName:            "CL_INVALID_KERNEL_NAME",
	StatusInvalidKernel:                "CL_INVALID_KERNEL",
	StatusInvalidArgIndex:              "CL_INVALID_ARG_INDEX",
	StatusInvalidArgValue:              "CL_INVALID_ARG_VALUE",
	StatusInvalidArgSize:               "CL_INVALID_ARG_SIZE",
	StatusInvalidKernelArgs:            "CL_INVALID_KERNEL_ARGS",
	StatusInvalidWorkDimension:         "CL_INVALID_WORK_DIMENSION",
	StatusInvalidWorkGroupSize:         "CL_INVALID_WORK_GROUP_SIZE",
	StatusInvalidGlobalWorkSize:        "CL_INVALID_GLOBAL_WORK_SIZE",
	StatusInvalidGLObject:              "CL_INVALID_GL_OBJECT",
	StatusInvalidBufferSize:            "CL_INVALID_BUFFER_SIZE",
	StatusInvalidOperation:             "CL_INVALID_OPERATION",
	StatusInvalidGLSharegroupReference: "CL_INVALID_GL_SHAREGROUP_REFERENCE_KHR",
	StatusPlatformNotFound:             "CL_PLATFORM_NOT_FOUND_KHR",
}

func (s Status) Error() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("CL error %d", int32(s))
}

func (s Status) Code() int {
	return int(s)
}

func check(code int32) error {
	if code == 0 {
		return nil
	}
	return Status(code)
}
