// Package render implements the tile scheduler and worker pool: it splits
// the framebuffer into tiles, dispatches them across one worker per CPU
// core via a lock-free atomic counter, and accumulates per-pixel samples
// from the camera and BVH traversal into a shared, mutex-guarded image.
package render

import (
	"image"
	"log/slog"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nanoray/pathtrace/bvh"
	"github.com/nanoray/pathtrace/camera"
	"github.com/nanoray/pathtrace/geometry"
	"github.com/nanoray/pathtrace/internal/pool"
	"github.com/nanoray/pathtrace/shading"
)

// traversalStackDepth bounds the per-worker BVH traversal stack. A
// balanced 8-ary tree over any scene this renderer can hold in memory
// stays well under this depth.
const traversalStackDepth = 96

// OnTileStarted is notified, possibly concurrently across workers, just
// before a worker begins rendering a tile.
type OnTileStarted func(tile geometry.ScreenBlock)

// OnTileFinished is notified, possibly concurrently across workers, after
// a worker blits a finished tile into the shared framebuffer.
type OnTileFinished func(tile geometry.ScreenBlock, progress ProgressSnapshot)

// Render starts one worker goroutine per detected CPU core and returns
// immediately with a handle to observe and control the in-flight render.
// The tile visual ordering is computed once here and cached for the
// lifetime of the render.
func Render(scene *bvh.BVH, cam camera.Camera, settings Settings, onTileStarted OnTileStarted, onTileFinished OnTileFinished) (*RenderProgress, error) {
	if settings.TileSize == 0 {
		return nil, &SceneLoadError{Reason: "TileSize must be positive"}
	}
	if settings.SampleCount == 0 {
		return nil, &SceneLoadError{Reason: "SampleCount must be positive"}
	}

	resolution := cam.Resolution()
	orderingRNG := rand.New(rand.NewSource(time.Now().UnixNano()))
	tiles := orderedTiles(resolution, settings.TileSize, orderingRNG)

	img := image.NewRGBA(image.Rect(0, 0, int(resolution.Width), int(resolution.Height)))

	numWorkers := runtime.NumCPU()
	if numWorkers < 1 {
		numWorkers = 1
	}
	if numWorkers > len(tiles) && len(tiles) > 0 {
		numWorkers = len(tiles)
	}

	var nextTileIndex atomic.Uint64
	var imageMu sync.Mutex
	var wg sync.WaitGroup

	progress := &RenderProgress{
		total:         uint64(len(tiles)),
		workerCount:   uint64(numWorkers),
		nextTileIndex: &nextTileIndex,
		imageMu:       &imageMu,
		img:           img,
		startTime:     time.Now(),
		wg:            &wg,
	}

	slog.Info("render: starting", "tiles", len(tiles), "workers", numWorkers,
		"tile_size", settings.TileSize, "sample_count", settings.SampleCount)

	var workersRemaining atomic.Int64
	workersRemaining.Store(int64(numWorkers))

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func(workerID int) {
			defer wg.Done()
			if err := pinToCore(workerID); err != nil {
				spawnErr := &ThreadSpawnError{Worker: workerID, Err: err}
				slog.Warn("render: worker core pinning failed, continuing unpinned",
					"worker_id", workerID, "error", spawnErr)
			}
			runWorker(workerID, scene, cam, settings, tiles, &nextTileIndex, &imageMu, img, progress, onTileStarted, onTileFinished)
			if workersRemaining.Add(-1) == 0 {
				progress.markFinished()
			}
		}(w)
	}

	return progress, nil
}

// worker holds the per-worker state the design calls thread-local: RNG and
// traversal stack (the tile-sized scratch buffers are locals of runWorker).
// No worker ever touches another worker's state.
type worker struct {
	rng   *rand.Rand
	stack *bvh.Stack
}

func runWorker(workerID int, scene *bvh.BVH, cam camera.Camera, settings Settings, tiles []geometry.ScreenBlock, nextTileIndex *atomic.Uint64, imageMu *sync.Mutex, img *image.RGBA, progress *RenderProgress, onTileStarted OnTileStarted, onTileFinished OnTileFinished) {
	w := &worker{
		rng:   rand.New(rand.NewSource(time.Now().UnixNano() ^ int64(workerID)*0x9E3779B97F4A7C15)),
		stack: bvh.NewStack(traversalStackDepth),
	}

	tileArea := int(settings.TileSize) * int(settings.TileSize)
	sumR := pool.GetFloat32(tileArea)
	sumG := pool.GetFloat32(tileArea)
	sumB := pool.GetFloat32(tileArea)
	defer pool.PutFloat32(sumR)
	defer pool.PutFloat32(sumG)
	defer pool.PutFloat32(sumB)
	outR := pool.Get(tileArea)
	outG := pool.Get(tileArea)
	outB := pool.Get(tileArea)
	defer pool.Put(outR)
	defer pool.Put(outG)
	defer pool.Put(outB)

	for {
		idx := nextTileIndex.Add(1) - 1
		if idx >= uint64(len(tiles)) {
			return
		}
		tile := tiles[idx]
		slog.Debug("render: tile started", "worker_id", workerID, "tile_x", tile.Min.X, "tile_y", tile.Min.Y)
		if onTileStarted != nil {
			onTileStarted(tile)
		}

		renderTile(scene, cam, tile, settings.SampleCount, w, sumR, sumG, sumB, outR, outG, outB)
		blitTile(img, imageMu, tile, outR, outG, outB)

		snap := progress.Progress()
		slog.Debug("render: tile finished", "worker_id", workerID, "tile_x", tile.Min.X, "tile_y", tile.Min.Y,
			"finished", snap.Finished, "total", snap.Total)
		if onTileFinished != nil {
			onTileFinished(tile, snap)
		}
	}
}

// renderTile fills sumR/sumG/sumB with the summed per-pixel integrator
// output over sampleCount samples each, then tone-maps them in place into
// outR/outG/outB bytes. All six buffers are row-major over the tile and
// at least tile.Width()*tile.Height() long; only that prefix is touched.
func renderTile(scene *bvh.BVH, cam camera.Camera, tile geometry.ScreenBlock, sampleCount uint32, w *worker, sumR, sumG, sumB []float32, outR, outG, outB []byte) {
	width := int(tile.Width())
	height := int(tile.Height())
	n := width * height

	for i := 0; i < n; i++ {
		sumR[i], sumG[i], sumB[i] = 0, 0, 0
	}

	for py := 0; py < height; py++ {
		imgY := float32(tile.Min.Y) + float32(py)
		row := py * width
		for px := 0; px < width; px++ {
			imgX := float32(tile.Min.X) + float32(px)
			i := row + px
			for s := uint32(0); s < sampleCount; s++ {
				ray := cam.SampleRay(imgX, imgY, w.rng)
				w.stack.Reset()
				var c shading.Color
				if hit, ok := bvh.Intersect(scene, ray, w.stack); ok {
					c = shading.Shade(hit, ray)
				} else {
					c = shading.Miss()
				}
				sumR[i] += c.R
				sumG[i] += c.G
				sumB[i] += c.B
			}
		}
	}

	toneMapRow(sumR[:n], sumG[:n], sumB[:n], sampleCount, outR[:n], outG[:n], outB[:n])
}

// blitTile copies a tone-mapped tile into the shared framebuffer. This is
// the only mutex acquired on the render hot path.
func blitTile(img *image.RGBA, imageMu *sync.Mutex, tile geometry.ScreenBlock, outR, outG, outB []byte) {
	width := int(tile.Width())

	imageMu.Lock()
	defer imageMu.Unlock()

	for py := 0; py < int(tile.Height()); py++ {
		row := py * width
		dstY := int(tile.Min.Y) + py
		dstOff := img.PixOffset(int(tile.Min.X), dstY)
		for px := 0; px < width; px++ {
			i := row + px
			o := dstOff + px*4
			img.Pix[o+0] = outR[i]
			img.Pix[o+1] = outG[i]
			img.Pix[o+2] = outB[i]
			img.Pix[o+3] = 255
		}
	}
}
