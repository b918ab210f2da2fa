//go:build linux

package render

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// pinToCore pins the calling goroutine's OS thread to a single CPU core.
// runtime.LockOSThread is required first so the pinned thread isn't handed
// to a different goroutine by the scheduler. Pinning is best-effort: the
// caller logs a non-fatal warning on error rather than aborting the render.
func pinToCore(workerID int) error {
	runtime.LockOSThread()

	ncpu := countOnlineCPUs()
	if ncpu == 0 {
		return nil
	}

	var set unix.CPUSet
	set.Zero()
	set.Set(workerID % ncpu)
	return unix.SchedSetaffinity(0, &set)
}

func countOnlineCPUs() int {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return 0
	}
	return set.Count()
}
