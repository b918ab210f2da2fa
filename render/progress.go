package render

import (
	"image"
	"sync"
	"sync/atomic"
	"time"
)

// ProgressSnapshot is a point-in-time read of how many of the total tiles
// have been fully blitted into the framebuffer.
type ProgressSnapshot struct {
	Finished uint64
	Total    uint64
}

// Percent returns Finished/Total as a percentage, or 0 for an empty render.
func (p ProgressSnapshot) Percent() float32 {
	if p.Total == 0 {
		return 0
	}
	return 100 * float32(p.Finished) / float32(p.Total)
}

// RenderProgress is the caller-facing handle returned by Render. It is safe
// to call its methods concurrently with the render workers and with each
// other.
type RenderProgress struct {
	total         uint64
	workerCount   uint64
	nextTileIndex *atomic.Uint64
	imageMu       *sync.Mutex
	img           *image.RGBA

	startTime time.Time

	wg *sync.WaitGroup

	finishMu       sync.Mutex
	finished       bool
	finishDuration time.Duration
}

// Progress reports how many tiles have finished. finished is
// next_tile_index - worker_count, saturating at 0 so in-flight tiles
// claimed by workers aren't counted until they blit, and capped at total
// so a post-abort fetch_add overshoot never reports more than complete.
func (p *RenderProgress) Progress() ProgressSnapshot {
	next := p.nextTileIndex.Load()
	var finished uint64
	if next > p.workerCount {
		finished = next - p.workerCount
	}
	if finished > p.total {
		finished = p.total
	}
	return ProgressSnapshot{Finished: finished, Total: p.total}
}

// IsFinished reports whether every worker has exited.
func (p *RenderProgress) IsFinished() bool {
	p.finishMu.Lock()
	defer p.finishMu.Unlock()
	return p.finished
}

// Elapsed returns the time since the render started, frozen at the finish
// duration once all workers have exited.
func (p *RenderProgress) Elapsed() time.Duration {
	p.finishMu.Lock()
	defer p.finishMu.Unlock()
	if p.finished {
		return p.finishDuration
	}
	return time.Since(p.startTime)
}

// Abort requests that no further tiles be started. Workers already
// rendering a tile finish it before observing the abort; there is no
// mid-tile interruption.
func (p *RenderProgress) Abort() {
	p.nextTileIndex.Store(p.total)
}

// Wait blocks until every worker has exited.
func (p *RenderProgress) Wait() {
	p.wg.Wait()
}

// Image returns a snapshot copy of the framebuffer as it stands right now.
// Because tiles blit asynchronously, a render that hasn't finished yet may
// return a partially painted image.
func (p *RenderProgress) Image() *image.RGBA {
	p.imageMu.Lock()
	defer p.imageMu.Unlock()
	snapshot := image.NewRGBA(p.img.Bounds())
	copy(snapshot.Pix, p.img.Pix)
	return snapshot
}

func (p *RenderProgress) markFinished() {
	p.finishMu.Lock()
	defer p.finishMu.Unlock()
	if !p.finished {
		p.finished = true
		p.finishDuration = time.Since(p.startTime)
	}
}
