package cmd

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/achilleasa/softrast/raster"
	"github.com/achilleasa/softrast/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Display scene or model info.
func ShowSceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() == 0 {
		return errors.New("missing scene or model file argument")
	}

	for idx := 0; idx < ctx.NArg(); idx++ {
		sceneFile := ctx.Args().Get(idx)
		sc, err := scene.Load(sceneFile)
		if err != nil {
			return err
		}

		logger.Noticef("scene information for %s:\n%s", sceneFile, sceneInfo(sc))
		for _, inst := range sc.Instances {
			logger.Noticef("model %q:\n%s", inst.Model.Name, inst.Model.Stats())
		}
	}

	return nil
}

// List the available shaders and coverage modes.
func ListShaders(ctx *cli.Context) error {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Option", "Value"})
	for _, st := range []scene.ShaderType{scene.BasicShader, scene.BlinnPhongShader} {
		table.Append([]string{"shader", st.String()})
	}
	for _, cov := range []raster.Coverage{raster.BarycentricCoverage, raster.EdgeCoverage} {
		table.Append([]string{"coverage", cov.String()})
	}
	table.Render()

	logger.Noticef("available render options:\n%s", buf.String())
	return nil
}

func sceneInfo(sc *scene.Scene) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Setting", "Value"})
	table.AppendBulk([][]string{
		{"frame", fmt.Sprintf("%dx%dx%d", sc.FrameW, sc.FrameH, sc.Channels)},
		{"shader", sc.Shader.String()},
		{"coverage", sc.Coverage.String()},
		{"wireframe", fmt.Sprintf("%t", sc.Wireframe)},
		{"camera", sc.Camera.String()},
		{"lights", fmt.Sprintf("%d", len(sc.Lights))},
		{"instances", fmt.Sprintf("%d", len(sc.Instances))},
		{"triangles", fmt.Sprintf("%d", sc.TriangleCount())},
	})
	for index, light := range sc.Lights {
		table.Append([]string{fmt.Sprintf("light %d", index), light.Type.String()})
	}
	table.Render()

	return buf.String()
}
