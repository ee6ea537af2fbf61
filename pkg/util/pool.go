package util

import "runtime"

// GetOptimalPoolSize returns the worker count for parallel file conversion.
//
// Formula: min(max(runtime.NumCPU() * 2, 4), 32)
//
// Conversion is CPU-light but each job also reads a file, so 2x cores keeps
// workers busy during I/O waits. The floor of 4 guarantees some parallelism
// on small machines and the cap of 32 keeps channel buffers bounded on large
// ones.
func GetOptimalPoolSize() int {
	size := runtime.NumCPU() * 2
	if size < 4 {
		size = 4
	}
	if size > 32 {
		size = 32
	}
	return size
}

// GetOptimalPoolSizeWithOverride returns the pool size, or override when
// override > 0 (used for testing and tuning).
func GetOptimalPoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return GetOptimalPoolSize()
}
