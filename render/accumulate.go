package render

import "github.com/ajroetker/go-highway/hwy"

// toneMapRow converts summed linear radiance into gamma-agnostic 8-bit
// bytes: mean = sum/sampleCount, scaled to [0,255] and clamped, with no
// gamma curve applied (the design notes call the output "gamma-agnostic
// clamp-to-byte"). Each sum slice is converted into the out slice of the
// same channel, one byte per pixel; renderTile passes the whole tile's
// pixels at once, and blitTile interleaves them into the RGBA framebuffer.
func toneMapRow(sumR, sumG, sumB []float32, sampleCount uint32, outR, outG, outB []byte) {
	scale := 255 / float32(sampleCount)
	zero := hwy.Set[float32](0)
	maxV := hwy.Set[float32](255)
	scaleV := hwy.Set[float32](scale)

	lanes := hwy.NumLanes[float32]()
	laneBuf := make([]int32, lanes)

	toneMapChannel := func(sum []float32, out []byte) {
		n := len(sum)
		hwy.ProcessWithTail[float32](n,
			func(offset int) {
				v := hwy.Load(sum[offset:])
				v = hwy.Mul(v, scaleV)
				v = hwy.Max(hwy.Min(v, maxV), zero)
				rounded := hwy.Round(v)
				ints := hwy.ConvertToInt32(rounded)
				hwy.Store(ints, laneBuf)
				for i := 0; i < lanes && offset+i < n; i++ {
					out[offset+i] = byte(laneBuf[i])
				}
			},
			func(offset, count int) {
				for i := 0; i < count; i++ {
					v := sum[offset+i] * scale
					if v < 0 {
						v = 0
					}
					if v > 255 {
						v = 255
					}
					out[offset+i] = byte(v + 0.5)
				}
			},
		)
	}

	toneMapChannel(sumR, outR)
	toneMapChannel(sumG, outG)
	toneMapChannel(sumB, outB)
}
