package main

import (
	"github.com/alecthomas/kong"

	"github.com/lepinkainen/recompress/cmd"
	"github.com/lepinkainen/recompress/types"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

type CLI struct {
	Images cmd.ImagesCmd `cmd:"" help:"Convert images to AVIF"`
	Videos cmd.VideosCmd `cmd:"" help:"Convert videos to AV1"`
	Split  cmd.SplitCmd  `cmd:"" help:"Sort a library into Source/Transcoded/Unknown trees"`
	Stats  cmd.StatsCmd  `cmd:"" help:"Show per-extension size statistics"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("recompress"),
		kong.Description("Batch media library transcoder: images to AVIF, videos to AV1"),
	)
	err := ctx.Run(&types.AppContext{Version: Version})
	ctx.FatalIfErrorf(err)
}
