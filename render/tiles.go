package render

import (
	"math"
	"math/rand"
	"sort"

	"github.com/nanoray/pathtrace/geometry"
)

// orderedTiles splits size into tileSize tiles and sorts them into a
// spiral-from-center visual order with random perturbation: each tile's
// key is its distance to the image center plus one draw from an
// exponential distribution whose rate is scaled by the image's half
// diagonal, so tiles near the middle of the frame still tend to finish
// first but the exact order is randomized rather than a rigid spiral.
// The perturbation RNG's seed is implementation-defined; callers should
// assert coverage of the tile set, never a specific order.
func orderedTiles(size geometry.ScreenSize, tileSize uint32, rng *rand.Rand) []geometry.ScreenBlock {
	tiles := geometry.Tiles(size, tileSize)
	if len(tiles) == 0 {
		return tiles
	}

	centerX := float32(size.Width) / 2
	centerY := float32(size.Height) / 2
	halfDiagonal := float32(math.Hypot(float64(centerX), float64(centerY)))
	if halfDiagonal == 0 {
		halfDiagonal = 1
	}
	rate := 10 / halfDiagonal

	keys := make([]float32, len(tiles))
	for i, tile := range tiles {
		tx, ty := tile.Center()
		d := float32(math.Hypot(float64(tx-centerX), float64(ty-centerY)))
		keys[i] = d + float32(rng.ExpFloat64())/rate
	}

	order := make([]int, len(tiles))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return keys[order[a]] < keys[order[b]] })

	ordered := make([]geometry.ScreenBlock, len(tiles))
	for i, idx := range order {
		ordered[i] = tiles[idx]
	}
	return ordered
}
