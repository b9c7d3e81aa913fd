package imagecache

import (
	"sync"
	"time"

	"github.com/Jeffail/tunny"

	"photo-portfolio/internal/logging"
	"photo-portfolio/internal/memory"
	"photo-portfolio/internal/metrics"
)

// PathResolver resolves a single source image to the path that should be
// served for it.
type PathResolver interface {
	Resolve(src string, v Variant) string
}

// Result pairs a source image with the path to serve for it. Artifact equals
// Source when resolution failed or timed out.
type Result struct {
	Source   string
	Artifact string
}

// Batch fans cache resolution for a page's worth of images across a fixed
// worker pool. One pool is created at startup and shared by every batch;
// submission blocks the caller until all items resolve or individually time
// out, and a single slow or broken item never sinks the rest.
type Batch struct {
	resolver PathResolver
	pool     *tunny.Pool
	timeout  time.Duration
}

type batchJob struct {
	src     string
	variant Variant
}

// NewBatch creates a batch scheduler with workerCount pooled workers and a
// per-item timeout that includes time spent queued. monitor may be nil; when
// set, workers wait out memory-pressure pauses before transcoding.
func NewBatch(resolver PathResolver, workerCount int, timeout time.Duration, monitor *memory.Monitor) *Batch {
	if workerCount < 1 {
		workerCount = 1
	}
	b := &Batch{
		resolver: resolver,
		timeout:  timeout,
	}
	b.pool = tunny.NewFunc(workerCount, func(payload interface{}) interface{} {
		job := payload.(batchJob)
		if !monitor.WaitIfPaused() {
			return job.src // monitor stopped, shutting down
		}
		return b.resolver.Resolve(job.src, job.variant)
	})
	logging.Debug("Batch scheduler: %d workers, %v per-item timeout", workerCount, timeout)
	return b
}

// ResolveAll resolves every source for the given variant. Results come back
// in input order regardless of completion order. An item that times out or
// fails degrades to (source, source); the batch itself always succeeds.
func (b *Batch) ResolveAll(srcs []string, v Variant) []Result {
	if len(srcs) == 0 {
		return nil
	}

	start := time.Now()
	metrics.BatchesTotal.WithLabelValues(string(v)).Inc()

	// Items complete as they arrive and land at their submission index, so a
	// slow early item delays only itself, never the assembly of the rest.
	results := make([]Result, len(srcs))
	var wg sync.WaitGroup
	for i, src := range srcs {
		wg.Add(1)
		go func(i int, src string) {
			defer wg.Done()

			value, err := b.pool.ProcessTimed(batchJob{src: src, variant: v}, b.timeout)
			if err != nil {
				// The worker is not killed on timeout; its result is
				// simply discarded
				logging.Warn("Batch %s item timed out after %v: %s", v, b.timeout, src)
				metrics.BatchItemsTotal.WithLabelValues(string(v), "timeout").Inc()
				results[i] = Result{Source: src, Artifact: src}
				return
			}
			metrics.BatchItemsTotal.WithLabelValues(string(v), "ok").Inc()
			results[i] = Result{Source: src, Artifact: value.(string)}
		}(i, src)
	}
	wg.Wait()

	metrics.BatchDuration.WithLabelValues(string(v)).Observe(time.Since(start).Seconds())
	return results
}

// QueueLength reports how many submissions are waiting for a worker.
func (b *Batch) QueueLength() int64 {
	return b.pool.QueueLength()
}

// Workers reports the pool size.
func (b *Batch) Workers() int {
	return b.pool.GetSize()
}

// Close releases the worker pool. Submissions after Close degrade to the
// source path.
func (b *Batch) Close() {
	b.pool.Close()
}
