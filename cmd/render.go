package cmd

import (
	"errors"
	"os"

	"github.com/achilleasa/softrast/renderer"
	"github.com/achilleasa/softrast/scene"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli"
)

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	// Load scene
	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	sc, err := scene.Load(ctx.Args().First())
	if err != nil {
		return err
	}

	// Command line flags override scene settings
	if ctx.IsSet("shader") {
		if sc.Shader, err = scene.ParseShaderType(ctx.String("shader")); err != nil {
			return err
		}
	}
	if ctx.IsSet("coverage") {
		if sc.Coverage, err = scene.ParseCoverage(ctx.String("coverage")); err != nil {
			return err
		}
	}

	opts := renderer.Options{
		Wireframe: ctx.Bool("wireframe"),
		FlipY:     !ctx.Bool("no-flip"),
	}
	if ctx.IsSet("width") {
		opts.FrameW = ctx.Int("width")
	}
	if ctx.IsSet("height") {
		opts.FrameH = ctx.Int("height")
	}
	if ctx.IsSet("channels") {
		opts.Channels = ctx.Int("channels")
	}

	var bar *progressbar.ProgressBar
	if !ctx.Bool("no-progress") {
		bar = progressbar.NewOptions(
			sc.TriangleCount(),
			progressbar.OptionSetDescription("rendering"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		opts.Progress = func(done, _ int) {
			bar.Set(done)
		}
	}

	// Create renderer
	r, err := renderer.NewDefault(sc, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	err = r.Render()
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	if err = r.WriteFrame(ctx.String("out")); err != nil {
		return err
	}

	// Display stats
	logger.Noticef("frame statistics\n%s", r.Stats().Table())
	return nil
}
