package cmd

import (
	"fmt"

	"github.com/lepinkainen/recompress/app"
	"github.com/lepinkainen/recompress/types"
	"github.com/lepinkainen/recompress/ui"
)

type StatsCmd struct {
	Directory string `arg:"" name:"directory" help:"Directory to analyze" type:"existingdir" default:"."`
}

func (cmd *StatsCmd) Run(appCtx *types.AppContext) error {
	version := types.DefaultVersion
	if appCtx != nil {
		version = appCtx.Version
	}

	fmt.Println(ui.HeaderStyle.Render(fmt.Sprintf("Recompress %s", version)))
	fmt.Println(ui.InfoStyle.Render(fmt.Sprintf("Sizes per extension under %s:", cmd.Directory)))

	return app.New(nil).PrintStats(cmd.Directory)
}
