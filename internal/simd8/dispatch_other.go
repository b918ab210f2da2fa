//go:build !amd64

package simd8

// On non-amd64 hosts (arm64/NEON, etc.) the portable reduction functions
// assigned at package init are used unconditionally; go-highway gates its
// own NEON/SVE paths on this build, but internal/simd8's fixed 8-lane packs
// have no NEON-specific implementation yet.
