package video

import (
	"regexp"
	"strconv"

	"github.com/lepinkainen/recompress/console"
)

// EncodeParams holds the externally configurable SVT-AV1 encoder knobs.
type EncodeParams struct {
	CRF          int // constant rate factor (quality, lower = better)
	GOPSize      int // keyframe interval (group of pictures size)
	RowMT        int // row-based multithreading (1 enabled, 0 disabled)
	IRefreshType int // intra refresh type
}

// Balanced is the default parameter set: a reasonable quality/speed
// trade-off for archiving camera footage.
var Balanced = EncodeParams{CRF: 21, GOPSize: 30, RowMT: 1, IRefreshType: 2}

// mp4AudioCodecs are the audio codecs the MP4 container stores reliably.
// Anything else gets transcoded to AAC instead of stream-copied; MP4
// formally supports raw audio since ~2022 but in practice muxing it
// fails.
var mp4AudioCodecs = map[string]bool{
	"aac":  true,
	"mp3":  true,
	"ac3":  true,
	"eac3": true,
}

// audioSupportedInMP4 reports whether codec can be stream-copied into
// an MP4 container.
func audioSupportedInMP4(codec string) bool {
	return mp4AudioCodecs[codec]
}

// buildEncodeArgs constructs the ffmpeg argument list for one AV1
// encode. When transcodeAudio is set the audio track is re-encoded to
// AAC for container compatibility instead of being copied.
func buildEncodeArgs(inputPath, outputPath string, params EncodeParams, transcodeAudio bool) []string {
	audioCodec := "copy"
	if transcodeAudio {
		audioCodec = "aac"
	}

	return []string{
		"-i", inputPath,
		"-c:v", "libsvtav1",
		"-crf", strconv.Itoa(params.CRF),
		"-b:v", "0",
		"-g", strconv.Itoa(params.GOPSize),
		"-c:a", audioCodec,
		"-row-mt", strconv.Itoa(params.RowMT),
		"-svtav1-params", "irefresh-type=" + strconv.Itoa(params.IRefreshType),
		outputPath,
	}
}

// progressRe matches the running time marker ffmpeg prints on its
// stderr stats lines, e.g. "... time=00:12:34.56 bitrate=...".
var progressRe = regexp.MustCompile(`time=(\d{2}:\d{2}:\d{2})`)

// ParseProgressLine extracts the processed-footage position from one
// ffmpeg stderr line. Returns ok=false for lines without a time marker.
func ParseProgressLine(line string) (seconds float64, clock string, ok bool) {
	m := progressRe.FindStringSubmatch(line)
	if m == nil {
		return 0, "", false
	}

	secs, err := console.ParseClock(m[1])
	if err != nil {
		return 0, "", false
	}
	return float64(secs), m[1], true
}
