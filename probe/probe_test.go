package probe

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProbeJSON = `{
	"streams": [
		{"codec_name": "h264", "codec_type": "video", "bit_rate": "4500000"},
		{"codec_name": "aac", "codec_type": "audio", "bit_rate": "192000"},
		{"codec_name": "mjpeg", "codec_type": "video"},
		{"codec_name": "ac3", "codec_type": "audio", "bit_rate": "384000"}
	],
	"format": {"duration": "3723.500000"}
}`

func TestParseJSON(t *testing.T) {
	info, err := ParseJSON([]byte(sampleProbeJSON))
	require.NoError(t, err)

	assert.Equal(t, 3723.5, info.Duration)
	assert.Equal(t, "h264", info.VideoCodec)
	assert.Equal(t, int64(4500000), info.VideoBitrate)
	// First audio stream wins; the ac3 stream is ignored.
	assert.Equal(t, "aac", info.AudioCodec)
	assert.Equal(t, int64(192000), info.AudioBitrate)
}

func TestParseJSONMalformedDuration(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"Garbage duration", `{"format": {"duration": "N/A"}, "streams": []}`},
		{"Empty duration", `{"format": {"duration": ""}, "streams": []}`},
		{"Missing format", `{"streams": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ParseJSON([]byte(tt.body))
			require.NoError(t, err, "malformed duration must not be an error")
			assert.Equal(t, 0.0, info.Duration)
		})
	}
}

func TestParseJSONInvalid(t *testing.T) {
	_, err := ParseJSON([]byte("not json"))
	require.Error(t, err)
}

func TestCacheProbesOncePerPath(t *testing.T) {
	var calls int64
	c := NewCache()
	c.probe = func(ctx context.Context, path string) (MediaInfo, error) {
		atomic.AddInt64(&calls, 1)
		return MediaInfo{Duration: 60, VideoCodec: "h264"}, nil
	}

	ctx := context.Background()
	const workers = 16

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			info, err := c.GetInfo(ctx, "/library/movie.mp4")
			assert.NoError(t, err)
			assert.Equal(t, "h264", info.VideoCodec)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&calls), "same path must be probed at most once")
}

func TestCacheDistinctPaths(t *testing.T) {
	var calls int64
	c := NewCache()
	c.probe = func(ctx context.Context, path string) (MediaInfo, error) {
		atomic.AddInt64(&calls, 1)
		return MediaInfo{Duration: float64(len(path))}, nil
	}

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		path := fmt.Sprintf("/library/file%d.mp4", i)
		_, err := c.GetInfo(ctx, path)
		require.NoError(t, err)
		_, err = c.GetInfo(ctx, path)
		require.NoError(t, err)
	}

	assert.Equal(t, int64(5), atomic.LoadInt64(&calls))
}

func TestCheckValidityTolerance(t *testing.T) {
	tests := []struct {
		name      string
		original  float64
		candidate float64
		valid     bool
	}{
		{"Identical", 100, 100, true},
		{"Within tolerance", 100, 99.5, true},
		{"Exactly at threshold", 100, 99, true},
		{"Just outside threshold", 100, 98.99, false},
		{"Five percent drift", 100, 95, false},
		{"Symmetric above", 99, 100, true},
		{"Both zero", 0, 0, true},
		{"Zero against nonzero", 0, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCache()
			c.probe = func(ctx context.Context, path string) (MediaInfo, error) {
				if path == "original.mp4" {
					return MediaInfo{Duration: tt.original}, nil
				}
				return MediaInfo{Duration: tt.candidate}, nil
			}

			valid, duration, err := c.CheckValidity(context.Background(), "original.mp4", "original_AV1.mp4")
			require.NoError(t, err)
			assert.Equal(t, tt.valid, valid)
			assert.Equal(t, tt.original, duration)
		})
	}
}

func TestCheckValidityProbeError(t *testing.T) {
	c := NewCache()
	c.probe = func(ctx context.Context, path string) (MediaInfo, error) {
		return MediaInfo{}, fmt.Errorf("ffprobe %q: boom", path)
	}

	_, _, err := c.CheckValidity(context.Background(), "a.mp4", "b.mp4")
	require.Error(t, err)
}
