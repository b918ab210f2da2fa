// Package config loads the renderer's settings from a TOML file: scene
// path, camera placement, and tile/sample counts. It mirrors the
// load/encode pair a desktop Linux tool typically carries for its own
// settings file, but returns errors to the caller instead of exiting the
// process, since this is a library entry point rather than a CLI.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// CameraConfig places and configures the thin-lens camera.
type CameraConfig struct {
	CenterX       float32 `toml:"center_x"`
	CenterY       float32 `toml:"center_y"`
	CenterZ       float32 `toml:"center_z"`
	ForwardX      float32 `toml:"forward_x"`
	ForwardY      float32 `toml:"forward_y"`
	ForwardZ      float32 `toml:"forward_z"`
	UpX           float32 `toml:"up_x"`
	UpY           float32 `toml:"up_y"`
	UpZ           float32 `toml:"up_z"`
	FilmWidth     float32 `toml:"film_width"`
	FocalLength   float32 `toml:"focal_length"`
	FNumber       float32 `toml:"f_number"`
	FocusDistance float32 `toml:"focus_distance"`
}

// Config is the top-level render configuration loaded from a TOML file.
type Config struct {
	ScenePath   string       `toml:"scene_path"`
	OutputPath  string       `toml:"output_path"`
	Width       uint32       `toml:"width"`
	Height      uint32       `toml:"height"`
	TileSize    uint32       `toml:"tile_size"`
	SampleCount uint32       `toml:"sample_count"`
	Camera      CameraConfig `toml:"camera"`
}

// Default returns a Config with the same kind of sane starting values a
// freshly initialized settings file would hold.
func Default() Config {
	return Config{
		ScenePath:   "scene.obj",
		OutputPath:  "render.png",
		Width:       800,
		Height:      600,
		TileSize:    32,
		SampleCount: 16,
		Camera: CameraConfig{
			CenterZ:       -10,
			ForwardZ:      1,
			UpY:           1,
			FilmWidth:     36,
			FocalLength:   50,
			FNumber:       8,
			FocusDistance: 20,
		},
	}
}

// Load reads and decodes a TOML config file at path.
func Load(path string) (Config, error) {
	var c Config
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	if c.TileSize == 0 {
		return Config{}, fmt.Errorf("config: %s: tile_size must be positive", path)
	}
	if c.SampleCount == 0 {
		return Config{}, fmt.Errorf("config: %s: sample_count must be positive", path)
	}
	return c, nil
}

// Save encodes c as TOML and writes it to path.
func Save(path string, c Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(&c); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
