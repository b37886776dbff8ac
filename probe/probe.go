// Package probe queries media metadata through ffprobe and memoizes the
// results so a batch never probes the same path twice.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// MediaInfo holds the probed metadata for one media file. Zero values
// mean the field was not present in the probe output.
type MediaInfo struct {
	Duration     float64 // container duration in seconds
	VideoCodec   string
	AudioCodec   string
	VideoBitrate int64
	AudioBitrate int64
}

// Probe runs a single ffprobe JSON call against path and parses the
// result. Only the first video and first audio stream are considered;
// additional streams of the same kind are ignored.
func Probe(ctx context.Context, path string) (MediaInfo, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_streams",
		"-show_entries", "format=duration,stream=codec_name,codec_type,bit_rate",
		"-of", "json",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return MediaInfo{}, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	return ParseJSON(out)
}

// ParseJSON converts raw ffprobe JSON output into a MediaInfo. Exported
// for testing without a real ffprobe binary.
func ParseJSON(data []byte) (MediaInfo, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return MediaInfo{}, fmt.Errorf("parse ffprobe JSON: %w", err)
	}

	info := MediaInfo{
		// A malformed or missing duration string parses to 0.0; the
		// caller treats that as unknown rather than an error.
		Duration: parseFloat(raw.Format.Duration),
	}

	hasVideo := false
	hasAudio := false
	for i := range raw.Streams {
		s := &raw.Streams[i]
		switch s.CodecType {
		case "video":
			if hasVideo {
				continue
			}
			hasVideo = true
			info.VideoCodec = s.CodecName
			info.VideoBitrate = parseInt64(s.BitRate)
		case "audio":
			if hasAudio {
				continue
			}
			hasAudio = true
			info.AudioCodec = s.CodecName
			info.AudioBitrate = parseInt64(s.BitRate)
		}
	}

	return info, nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
}

type ffprobeStream struct {
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
	BitRate   string `json:"bit_rate"`
}

// --- Numeric parsing helpers (ffprobe returns numbers as strings) ---

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseInt64(s string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n
}
