package video

import (
	"reflect"
	"testing"
)

func TestBuildEncodeArgs(t *testing.T) {
	tests := []struct {
		name           string
		params         EncodeParams
		transcodeAudio bool
		expected       []string
	}{
		{
			name:           "Balanced with audio copy",
			params:         Balanced,
			transcodeAudio: false,
			expected: []string{
				"-i", "in.mkv",
				"-c:v", "libsvtav1",
				"-crf", "21",
				"-b:v", "0",
				"-g", "30",
				"-c:a", "copy",
				"-row-mt", "1",
				"-svtav1-params", "irefresh-type=2",
				"out_AV1.mp4",
			},
		},
		{
			name:           "Incompatible audio gets re-encoded",
			params:         Balanced,
			transcodeAudio: true,
			expected: []string{
				"-i", "in.mkv",
				"-c:v", "libsvtav1",
				"-crf", "21",
				"-b:v", "0",
				"-g", "30",
				"-c:a", "aac",
				"-row-mt", "1",
				"-svtav1-params", "irefresh-type=2",
				"out_AV1.mp4",
			},
		},
		{
			name:           "Custom params",
			params:         EncodeParams{CRF: 30, GOPSize: 60, RowMT: 0, IRefreshType: 1},
			transcodeAudio: false,
			expected: []string{
				"-i", "in.mkv",
				"-c:v", "libsvtav1",
				"-crf", "30",
				"-b:v", "0",
				"-g", "60",
				"-c:a", "copy",
				"-row-mt", "0",
				"-svtav1-params", "irefresh-type=1",
				"out_AV1.mp4",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildEncodeArgs("in.mkv", "out_AV1.mp4", tt.params, tt.transcodeAudio)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("buildEncodeArgs() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestAudioSupportedInMP4(t *testing.T) {
	tests := []struct {
		codec    string
		expected bool
	}{
		{"aac", true},
		{"mp3", true},
		{"ac3", true},
		{"eac3", true},
		{"opus", false},
		{"vorbis", false},
		{"pcm_s16le", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.codec, func(t *testing.T) {
			if got := audioSupportedInMP4(tt.codec); got != tt.expected {
				t.Errorf("audioSupportedInMP4(%q) = %v, expected %v", tt.codec, got, tt.expected)
			}
		})
	}
}

func TestParseProgressLine(t *testing.T) {
	tests := []struct {
		name            string
		line            string
		expectedSeconds float64
		expectedClock   string
		expectedOK      bool
	}{
		{
			name:            "Typical stats line",
			line:            "frame= 1234 fps= 25 q=30.0 size=   12288kB time=00:01:23.45 bitrate=1210.5kbits/s speed=1.02x",
			expectedSeconds: 83,
			expectedClock:   "00:01:23",
			expectedOK:      true,
		},
		{
			name:            "Hours component",
			line:            "frame=90000 fps= 30 q=28.0 size= 512000kB time=01:00:00.00 bitrate=1165.1kbits/s speed=1.5x",
			expectedSeconds: 3600,
			expectedClock:   "01:00:00",
			expectedOK:      true,
		},
		{
			name:       "Banner line without marker",
			line:       "Stream #0:0(und): Video: h264 (High), yuv420p, 1920x1080",
			expectedOK: false,
		},
		{
			name:       "Empty line",
			line:       "",
			expectedOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seconds, clock, ok := ParseProgressLine(tt.line)
			if ok != tt.expectedOK {
				t.Fatalf("ParseProgressLine(%q) ok = %v, expected %v", tt.line, ok, tt.expectedOK)
			}
			if !ok {
				return
			}
			if seconds != tt.expectedSeconds {
				t.Errorf("seconds = %v, expected %v", seconds, tt.expectedSeconds)
			}
			if clock != tt.expectedClock {
				t.Errorf("clock = %q, expected %q", clock, tt.expectedClock)
			}
		})
	}
}
