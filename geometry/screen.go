package geometry

// ScreenPoint is an integer pixel coordinate.
type ScreenPoint struct {
	X, Y uint32
}

// ScreenSize is an image's width and height in pixels.
type ScreenSize struct {
	Width, Height uint32
}

// ScreenBlock is a half-open rectangular region of an image: [Min, Max).
type ScreenBlock struct {
	Min, Max ScreenPoint
}

func (b ScreenBlock) Width() uint32  { return b.Max.X - b.Min.X }
func (b ScreenBlock) Height() uint32 { return b.Max.Y - b.Min.Y }

// IsEmpty reports whether the block contains no pixels.
func (b ScreenBlock) IsEmpty() bool {
	return b.Min.X >= b.Max.X || b.Min.Y >= b.Max.Y
}

// Center returns the block's floating-point center, used by the tile
// scheduler's spiral-from-center ordering.
func (b ScreenBlock) Center() (float32, float32) {
	return float32(b.Min.X+b.Max.X) / 2, float32(b.Min.Y+b.Max.Y) / 2
}

// Tiles splits a W x H image into row-major blocks of at most
// tileSize x tileSize pixels, clipping at the right and bottom edges.
func Tiles(size ScreenSize, tileSize uint32) []ScreenBlock {
	if tileSize == 0 || size.Width == 0 || size.Height == 0 {
		return nil
	}

	var tiles []ScreenBlock
	for y := uint32(0); y < size.Height; y += tileSize {
		for x := uint32(0); x < size.Width; x += tileSize {
			maxX := min(x+tileSize, size.Width)
			maxY := min(y+tileSize, size.Height)
			tiles = append(tiles, ScreenBlock{
				Min: ScreenPoint{X: x, Y: y},
				Max: ScreenPoint{X: maxX, Y: maxY},
			})
		}
	}
	return tiles
}

// InternalPoints returns every pixel coordinate inside the block, in
// row-major (x changes first, then y) order.
func (b ScreenBlock) InternalPoints() []ScreenPoint {
	if b.IsEmpty() {
		return nil
	}
	points := make([]ScreenPoint, 0, b.Width()*b.Height())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			points = append(points, ScreenPoint{X: x, Y: y})
		}
	}
	return points
}
