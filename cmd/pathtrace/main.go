// Command pathtrace renders a triangle-mesh OBJ scene to a PNG using the
// tile scheduler in package render.
//
// Usage:
//
//	pathtrace [options] <scene.obj> <output.png>
package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"

	"github.com/nanoray/pathtrace/bvh"
	"github.com/nanoray/pathtrace/camera"
	"github.com/nanoray/pathtrace/config"
	"github.com/nanoray/pathtrace/geometry"
	"github.com/nanoray/pathtrace/objfile"
	"github.com/nanoray/pathtrace/render"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "pathtrace: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("pathtrace", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a TOML config file (overrides defaults and the width/height/tile/sample flags below)")
	width := fs.Int("width", 800, "output image width in pixels")
	height := fs.Int("height", 600, "output image height in pixels")
	tileSize := fs.Int("tile", 32, "tile size in pixels")
	samples := fs.Int("samples", 16, "samples per pixel")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("missing arguments\nUsage: pathtrace [options] <scene.obj> <output.png>")
	}
	scenePath := fs.Arg(0)
	outputPath := fs.Arg(1)

	cfg := config.Default()
	cfg.ScenePath = scenePath
	cfg.OutputPath = outputPath
	cfg.Width = uint32(*width)
	cfg.Height = uint32(*height)
	cfg.TileSize = uint32(*tileSize)
	cfg.SampleCount = uint32(*samples)

	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
		cfg.ScenePath = scenePath
		cfg.OutputPath = outputPath
	}

	triangles, vertices, err := objfile.Load(cfg.ScenePath, os.Stderr)
	if err != nil {
		return fmt.Errorf("loading scene: %w", err)
	}
	fmt.Fprintf(os.Stderr, "loaded %d triangles, %d vertices\n", len(triangles), len(vertices))

	scene := bvh.Build(triangles, vertices)

	cam := camera.New(
		geometry.NewPoint(cfg.Camera.CenterX, cfg.Camera.CenterY, cfg.Camera.CenterZ),
		geometry.NewVector(cfg.Camera.ForwardX, cfg.Camera.ForwardY, cfg.Camera.ForwardZ),
		geometry.NewVector(cfg.Camera.UpX, cfg.Camera.UpY, cfg.Camera.UpZ),
		geometry.ScreenSize{Width: cfg.Width, Height: cfg.Height},
		cfg.Camera.FilmWidth, cfg.Camera.FocalLength,
		cfg.Camera.FNumber, cfg.Camera.FocusDistance,
	)

	settings := render.Settings{TileSize: cfg.TileSize, SampleCount: cfg.SampleCount}

	progress, err := render.Render(scene, cam, settings,
		func(tile geometry.ScreenBlock) {},
		func(tile geometry.ScreenBlock, snap render.ProgressSnapshot) {
			fmt.Fprintf(os.Stderr, "\rrendering: %5.1f%%", snap.Percent())
		},
	)
	if err != nil {
		return fmt.Errorf("starting render: %w", err)
	}
	progress.Wait()
	fmt.Fprintln(os.Stderr)

	out, err := os.Create(cfg.OutputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := png.Encode(out, progress.Image()); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}

	fmt.Fprintf(os.Stderr, "wrote %s in %s\n", cfg.OutputPath, progress.Elapsed())
	return nil
}
