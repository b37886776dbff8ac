package cmd

import (
	"context"
	"fmt"
	"runtime"

	"github.com/lepinkainen/recompress/app"
	"github.com/lepinkainen/recompress/avif"
	"github.com/lepinkainen/recompress/types"
	"github.com/lepinkainen/recompress/ui"
	"github.com/lepinkainen/recompress/utils"
)

type ImagesCmd struct {
	Directory string `arg:"" name:"directory" help:"Directory to scan for images" type:"existingdir" default:"."`
	Preset    string `help:"Encoder preset" default:"balanced" enum:"quality,balanced,speed"`
	Power     int    `help:"Workers per CPU core" default:"1"`
	Workers   int    `help:"Number of parallel workers (overrides --power)" default:"0"`
}

func (cmd *ImagesCmd) Run(appCtx *types.AppContext) error {
	version := types.DefaultVersion
	if appCtx != nil {
		version = appCtx.Version
	}

	if err := utils.CheckImageTools(); err != nil {
		return err
	}

	preset, err := avif.PresetByName(cmd.Preset)
	if err != nil {
		return err
	}

	// avifenc is CPU-bound, so the pool scales with cores; a network
	// mount turns the job IO-bound and a single worker wins.
	workers := cmd.Workers
	if workers <= 0 {
		if utils.IsNetworkDrive(cmd.Directory) {
			workers = 1
			fmt.Println("Network drive detected, using 1 worker")
		} else {
			workers = runtime.NumCPU() * cmd.Power
		}
	}

	fmt.Println(ui.HeaderStyle.Render(fmt.Sprintf("Recompress %s", version)))
	fmt.Println(ui.ProcessingStyle.Render(fmt.Sprintf("Converting images under %s to AVIF (%s preset)", cmd.Directory, cmd.Preset)))

	a := app.New(nil)
	if err := a.TranscodeImagesInDirectory(context.Background(), cmd.Directory, preset, workers); err != nil {
		return err
	}

	fmt.Println(ui.SuccessStyle.Render("Done."))
	return nil
}
