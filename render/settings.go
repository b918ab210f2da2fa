package render

// Settings configures a single render pass. Both fields must be positive;
// Render returns a *SceneLoadError otherwise.
type Settings struct {
	TileSize    uint32
	SampleCount uint32
}
