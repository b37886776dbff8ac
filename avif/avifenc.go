// Package avif converts still images to AVIF with the external avifenc
// encoder, fanning work across a bounded pool.
package avif

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lepinkainen/recompress/fsutil"
)

// Preset bundles the avifenc quality knobs.
type Preset struct {
	MinQ  int    // minimum quantizer (lower = better)
	MaxQ  int    // maximum quantizer
	Speed int    // encoder effort, 0 slowest/best to 10 fastest
	Depth int    // output bit depth
	YUV   string // chroma subsampling
}

// The three supported presets. Quality is for archival masters,
// Speed for bulk thumbnails, Balanced for everything else.
var (
	Quality  = Preset{MinQ: 10, MaxQ: 20, Speed: 0, Depth: 10, YUV: "444"}
	Balanced = Preset{MinQ: 15, MaxQ: 25, Speed: 4, Depth: 8, YUV: "420"}
	Speed    = Preset{MinQ: 20, MaxQ: 30, Speed: 8, Depth: 8, YUV: "420"}
)

// PresetByName resolves a CLI preset name.
func PresetByName(name string) (Preset, error) {
	switch strings.ToLower(name) {
	case "quality":
		return Quality, nil
	case "balanced":
		return Balanced, nil
	case "speed":
		return Speed, nil
	default:
		return Preset{}, fmt.Errorf("unknown preset %q (want quality, balanced or speed)", name)
	}
}

// buildEncodeArgs constructs the avifenc argument list for one image.
func buildEncodeArgs(inputPath, outputPath string, preset Preset) []string {
	return []string{
		"--min", strconv.Itoa(preset.MinQ),
		"--max", strconv.Itoa(preset.MaxQ),
		"--speed", strconv.Itoa(preset.Speed),
		"--depth", strconv.Itoa(preset.Depth),
		"--yuv", preset.YUV,
		inputPath,
		outputPath,
	}
}

// TranscodedPath returns the output path for a source image: same
// directory, same base name, .avif extension.
func TranscodedPath(path string) string {
	return fsutil.ReplaceExt(path, ".avif")
}
