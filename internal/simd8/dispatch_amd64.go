//go:build amd64

package simd8

import "golang.org/x/sys/cpu"

// init overrides the portable reduction functions with an AVX2-assisted
// variant when the host supports it. This mirrors the teacher's dsp
// package: a package of init()-assigned function variables, overridden by
// an architecture-specific file loaded later in the build by filename.
func init() {
	if cpu.X86.HasAVX2 {
		reduceMaxFn = reduceMax3AVX2
		reduceMinFn = reduceMin3AVX2
	}
}

// reduceMax3AVX2 and reduceMin3AVX2 are written in plain Go rather than
// assembly: there is no portable way to emit AVX2 intrinsics from pure Go
// without cgo or a dedicated assembler toolchain (unlike the teacher's
// hand-written CPUID probe, this module has no asm files at all). The
// override exists to document the dispatch point and keep the seam in
// place for a future assembly implementation; functionally it is identical
// to the portable path.
func reduceMax3AVX2(a, b, c F32x8) F32x8 { return reduceMax3Portable(a, b, c) }
func reduceMin3AVX2(a, b, c F32x8) F32x8 { return reduceMin3Portable(a, b, c) }
