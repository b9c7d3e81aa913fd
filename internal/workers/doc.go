/*
Package workers provides utilities for sizing worker pools in containerized
environments.

# Overview

When running in a container, the number of usable CPUs may be limited by
cgroup constraints. Go 1.19+ sets GOMAXPROCS from the container CPU limit,
but runtime.NumCPU() still reports the host machine's core count:

	// Wrong: returns the host CPU count, ignores the container limit
	workers := runtime.NumCPU()

	// Correct: respects the container limit in Go 1.19+
	workers := runtime.GOMAXPROCS(0)

Sizing the transcoding pool from the host count on a large node leads to
context-switch overhead, CPU throttling by the container runtime, and memory
pressure from goroutine stacks. This package derives worker counts from
GOMAXPROCS instead.

# Usage

Task-specific helpers cover the common cases:

	import "photo-portfolio/internal/workers"

	// CPU-intensive work (decode, resize, encode): 1 worker per CPU
	n := workers.ForCPU(8)

	// I/O-bound work (directory walks, cache scans): 2 workers per CPU
	n := workers.ForIO(16)

	// Mixed work such as cache generation (read source, resize,
	// write artifact): 1.5 workers per CPU
	n := workers.ForMixed(12)

For other ratios use Count directly:

	n := workers.Count(3.0, 24) // 3 per CPU, capped at 24
	n := workers.Count(2.0, 0)  // uncapped

# Environment Variable Override

All functions respect the CACHE_WORKERS environment variable so operators can
pin the pool size without rebuilding:

	env:
	- name: CACHE_WORKERS
	  value: "4"

# Best Practices

Always pass a limit on machines you do not control; choose the multiplier by
where the task actually spends its time, not by how it is invoked; and log
the chosen count at startup so observed parallelism can be correlated with
configuration.

All functions are safe for concurrent use.
*/
package workers
