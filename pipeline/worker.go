package pipeline

import (
	"sync"
	"sync/atomic"

	goutils "go.viam.com/utils"

	"github.com/jamesblasco/PopArtCamera/rimage"
)

// Worker runs the pipeline on a single dedicated goroutine, one tick at a
// time. Its mailbox holds at most one pending tick: if the capture layer
// publishes faster than ticks are processed, the stale tick is overwritten
// and counted as dropped rather than queued, bounding both memory and
// latency. Output frames go to the sink as they are produced; nothing is
// buffered beyond the tick in flight.
type Worker struct {
	pipeline *Pipeline
	sink     func(*rimage.Image)

	mu      sync.Mutex
	cond    *sync.Cond
	pending *FrameTuple
	stopped bool

	drops   uint64
	workers sync.WaitGroup
}

// NewWorker wraps a pipeline and an output sink. The sink is called from the
// worker goroutine and must not retain the frame past the next tick.
func NewWorker(p *Pipeline, sink func(*rimage.Image)) *Worker {
	w := &Worker{pipeline: p, sink: sink}
	w.cond = sync.NewCond(&w.mu)
	return w
}

// Start launches the processing goroutine.
func (w *Worker) Start() {
	w.workers.Add(1)
	goutils.PanicCapturingGo(func() {
		defer w.workers.Done()
		w.loop()
	})
}

// Publish hands a tick to the worker without blocking. A still-unprocessed
// previous tick is superseded and counted in Drops.
func (w *Worker) Publish(tick FrameTuple) {
	w.mu.Lock()
	if w.pending != nil {
		atomic.AddUint64(&w.drops, 1)
	}
	w.pending = &tick
	w.cond.Signal()
	w.mu.Unlock()
}

// Drops reports how many published ticks were superseded before processing.
func (w *Worker) Drops() uint64 {
	return atomic.LoadUint64(&w.drops)
}

// Stop finishes the tick in flight, if any, and joins the goroutine. A tick
// still waiting in the mailbox is discarded.
func (w *Worker) Stop() {
	w.mu.Lock()
	w.stopped = true
	w.pending = nil
	w.cond.Broadcast()
	w.mu.Unlock()
	w.workers.Wait()
}

func (w *Worker) loop() {
	for {
		w.mu.Lock()
		for w.pending == nil && !w.stopped {
			w.cond.Wait()
		}
		if w.stopped {
			w.mu.Unlock()
			return
		}
		tick := *w.pending
		w.pending = nil
		w.mu.Unlock()

		if out := w.pipeline.ProcessTick(tick); out != nil {
			w.sink(out)
		}
	}
}
