package cmd

import (
	"context"
	"fmt"

	"github.com/lepinkainen/recompress/app"
	"github.com/lepinkainen/recompress/types"
	"github.com/lepinkainen/recompress/ui"
	"github.com/lepinkainen/recompress/utils"
)

type SplitCmd struct {
	Source       string `arg:"" name:"source" help:"Directory to reclassify" type:"existingdir"`
	Destination  string `arg:"" name:"destination" help:"Directory receiving the Source/Transcoded/Unknown trees" type:"path"`
	SkipExisting bool   `help:"Skip files already present in the destination"`
	Workers      int    `help:"Number of parallel copy workers" default:"0"`
}

func (cmd *SplitCmd) Run(appCtx *types.AppContext) error {
	version := types.DefaultVersion
	if appCtx != nil {
		version = appCtx.Version
	}

	// Classification probes video files, so ffprobe must be present.
	if err := utils.CheckVideoTools(); err != nil {
		return err
	}

	workers := cmd.Workers
	if workers <= 0 && (utils.IsNetworkDrive(cmd.Source) || utils.IsNetworkDrive(cmd.Destination)) {
		workers = 1
		fmt.Println("Network drive detected, using 1 worker")
	}

	fmt.Println(ui.HeaderStyle.Render(fmt.Sprintf("Recompress %s", version)))

	a := app.New(nil)
	if err := a.SplitDirectory(context.Background(), cmd.Source, cmd.Destination, workers, cmd.SkipExisting); err != nil {
		return err
	}

	fmt.Println(ui.SuccessStyle.Render("Done."))
	return nil
}
