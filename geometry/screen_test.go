package geometry

import "testing"

func TestTilesCoversWholeImageExactly(t *testing.T) {
	size := ScreenSize{Width: 20, Height: 15}
	tiles := Tiles(size, 8)

	seen := make(map[ScreenPoint]bool)
	for _, tile := range tiles {
		for _, p := range tile.InternalPoints() {
			if seen[p] {
				t.Fatalf("pixel %v covered by more than one tile", p)
			}
			seen[p] = true
		}
	}

	if uint32(len(seen)) != size.Width*size.Height {
		t.Fatalf("covered %d pixels, want %d", len(seen), size.Width*size.Height)
	}
}

func TestTilesClipsAtEdges(t *testing.T) {
	tiles := Tiles(ScreenSize{Width: 10, Height: 10}, 8)
	for _, tile := range tiles {
		if tile.Max.X > 10 || tile.Max.Y > 10 {
			t.Errorf("tile %+v exceeds image bounds", tile)
		}
	}
}

func TestTilesEmptyImage(t *testing.T) {
	if got := Tiles(ScreenSize{Width: 0, Height: 10}, 8); got != nil {
		t.Errorf("Tiles of a zero-width image = %v, want nil", got)
	}
}

func TestScreenBlockCenter(t *testing.T) {
	b := ScreenBlock{Min: ScreenPoint{X: 0, Y: 0}, Max: ScreenPoint{X: 10, Y: 20}}
	cx, cy := b.Center()
	if cx != 5 || cy != 10 {
		t.Errorf("Center() = (%v,%v), want (5,10)", cx, cy)
	}
}

func TestScreenBlockIsEmpty(t *testing.T) {
	if !(ScreenBlock{Min: ScreenPoint{X: 5, Y: 5}, Max: ScreenPoint{X: 5, Y: 5}}).IsEmpty() {
		t.Error("degenerate block should be empty")
	}
	if (ScreenBlock{Min: ScreenPoint{X: 0, Y: 0}, Max: ScreenPoint{X: 1, Y: 1}}).IsEmpty() {
		t.Error("1x1 block should not be empty")
	}
}
