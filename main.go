package main

import (
	"os"

	"github.com/achilleasa/softrast/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "softrast"
	app.Usage = "render triangle meshes with a software rasterizer"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame",
			Description: `
Render a scene description (.yaml) or a wavefront model (.obj) and write the
frame to a png file. Models are placed in a default scene with a single
directional light.

Flags override the settings defined by the scene file.`,
			ArgsUsage: "scene_file",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 1280,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 720,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "channels",
					Value: 3,
					Usage: "color channels (1, 3 or 4)",
				},
				cli.StringFlag{
					Name:  "shader",
					Value: "blinn-phong",
					Usage: "shader to use (basic or blinn-phong)",
				},
				cli.StringFlag{
					Name:  "coverage",
					Value: "barycentric",
					Usage: "pixel coverage test (barycentric or edge)",
				},
				cli.BoolFlag{
					Name:  "wireframe",
					Usage: "draw triangle outlines",
				},
				cli.BoolFlag{
					Name:  "no-flip",
					Usage: "write rows bottom-up",
				},
				cli.BoolFlag{
					Name:  "no-progress",
					Usage: "do not display a progress bar",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the rendered frame",
				},
			},
			Action: cmd.RenderFrame,
		},
		{
			Name:      "info",
			Usage:     "display scene and model information",
			ArgsUsage: "scene_file1 scene_file2 ...",
			Action:    cmd.ShowSceneInfo,
		},
		{
			Name:   "list-shaders",
			Usage:  "list available shaders and coverage modes",
			Action: cmd.ListShaders,
		},
	}

	if err := app.Run(os.Args); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
