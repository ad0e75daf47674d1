package experiment

import (
	"fmt"

	"github.com/klauspost/cpuid/v2"
)

// DeviceKind is the compute device family.
type DeviceKind string

const (
	CPU  DeviceKind = "cpu"
	CUDA DeviceKind = "cuda"
)

// Device is the compute placement chosen once per run and handed to every
// component factory.
type Device struct {
	Kind  DeviceKind
	Index int

	// CPUName and LogicalCores describe the host CPU, for run records.
	CPUName      string
	LogicalCores int
}

// String renders the device the way configs and logs reference it,
// e.g. "cpu" or "cuda:0".
func (d Device) String() string {
	if d.Kind == CUDA {
		return fmt.Sprintf("cuda:%d", d.Index)
	}
	return string(d.Kind)
}

// IsCPU reports whether the device is the host CPU.
func (d Device) IsCPU() bool { return d.Kind == CPU }

// SelectDevice picks the compute device: the first accelerator when one is
// available and forceCPU is unset, the host CPU otherwise.
func SelectDevice(forceCPU bool) Device {
	d := Device{
		Kind:         CPU,
		CPUName:      cpuid.CPU.BrandName,
		LogicalCores: cpuid.CPU.LogicalCores,
	}
	if forceCPU {
		return d
	}
	if acceleratorCount() > 0 {
		d.Kind = CUDA
		d.Index = 0
	}
	return d
}

// DeviceFromParams applies the cpu_only flag from experiment params.
func DeviceFromParams(params Params) Device {
	return SelectDevice(params.Bool(ParamCPUOnly))
}
