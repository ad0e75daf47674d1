//go:build cuda

package experiment

import "gorgonia.org/cu"

// acceleratorCount probes the CUDA driver for usable devices.
func acceleratorCount() int {
	n, err := cu.NumDevices()
	if err != nil {
		return 0
	}
	return n
}
