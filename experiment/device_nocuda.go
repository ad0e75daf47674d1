//go:build !cuda

package experiment

// acceleratorCount reports no devices on builds without CUDA support.
func acceleratorCount() int { return 0 }
