package cmd

import (
	"context"
	"fmt"

	"github.com/lepinkainen/recompress/app"
	"github.com/lepinkainen/recompress/types"
	"github.com/lepinkainen/recompress/ui"
	"github.com/lepinkainen/recompress/utils"
	"github.com/lepinkainen/recompress/video"
)

type VideosCmd struct {
	Directory string `arg:"" name:"directory" help:"Directory to scan for videos" type:"existingdir" default:"."`
	CRF       int    `help:"Constant Rate Factor for quality (0-63, lower=better)" default:"21"`
	Gop       int    `help:"Keyframe interval in frames" default:"30"`
	RowMT     int    `help:"Row-based multithreading (1=on, 0=off)" default:"1"`
	Irefresh  int    `help:"SVT-AV1 intra refresh type" default:"2"`
}

func (cmd *VideosCmd) Run(appCtx *types.AppContext) error {
	version := types.DefaultVersion
	if appCtx != nil {
		version = appCtx.Version
	}

	if err := utils.CheckVideoTools(); err != nil {
		return err
	}

	params := video.EncodeParams{
		CRF:          cmd.CRF,
		GOPSize:      cmd.Gop,
		RowMT:        cmd.RowMT,
		IRefreshType: cmd.Irefresh,
	}

	fmt.Println(ui.HeaderStyle.Render(fmt.Sprintf("Recompress %s", version)))
	fmt.Println(ui.ProcessingStyle.Render(fmt.Sprintf("Converting videos under %s to AV1 (crf=%d, gop=%d)", cmd.Directory, params.CRF, params.GOPSize)))

	a := app.New(nil)
	if err := a.TranscodeMoviesInDirectory(context.Background(), cmd.Directory, params); err != nil {
		return err
	}

	fmt.Println(ui.SuccessStyle.Render("Done."))
	return nil
}
