// Package memory provides a soft memory limit monitor that feeds
// backpressure into the transcoding pool.
//
// # Overview
//
// Decoding full-resolution photographs is the heaviest allocation in this
// application: a 40-megapixel JPEG inflates to roughly 160 MB of pixel data
// before it is resized. Several of those decoded at once inside a small
// container will get the process OOM-killed long before the Go GC reacts.
//
// The [Monitor] samples heap usage on an interval and compares it to a soft
// limit (explicit, or GOMEMLIMIT when unset). Above the critical water mark
// it flips into a paused state and kicks the GC; batch workers call
// [Monitor.WaitIfPaused] before each transcode, so new decodes stall until
// usage drops below the high water mark. Request handlers never block on it.
//
// # Usage
//
//	monitor := memory.NewMonitor(memory.DefaultConfig())
//	monitor.Start()
//	defer monitor.Stop()
//
//	// in a transcoding worker:
//	if !monitor.WaitIfPaused() {
//	    return // monitor stopped, shutting down
//	}
//
// A nil *Monitor is valid and never pauses, so wiring it in is unconditional.
//
// Pause state, pause transitions, current usage, and the configured limit are
// exported as Prometheus gauges (see internal/metrics).
package memory
