package avif

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lepinkainen/recompress/console"
	"github.com/lepinkainen/recompress/fsutil"
	"github.com/lepinkainen/recompress/progress"
)

// runEncoder runs one avifenc invocation. Swapped out in tests.
var runEncoder = func(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, "avifenc", args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	return cmd.Run()
}

// Transcoder converts images to AVIF across a worker pool. Unlike the
// video path, avifenc is single-image and mostly single-threaded, so
// parallel encodes are the whole point here.
type Transcoder struct {
	Preset  Preset
	Workers int

	con     *console.Console
	counter *progress.TaskCounter

	mu     sync.Mutex
	failed []string
}

// NewTranscoder creates an image transcoder. workers <= 0 selects one
// worker per CPU.
func NewTranscoder(con *console.Console, preset Preset, workers int) *Transcoder {
	if con == nil {
		con = console.Default()
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Transcoder{
		Preset:  preset,
		Workers: workers,
		con:     con,
		counter: progress.New(0, false, con),
	}
}

// Failed returns the paths whose encodes failed during the last batch.
func (t *Transcoder) Failed() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.failed...)
}

// TranscodeImages converts every file without an existing .avif sibling.
// Per-image failures land in the failure list and do not abort the
// batch.
func (t *Transcoder) TranscodeImages(ctx context.Context, files []fsutil.FileEntry) error {
	var jobs []fsutil.FileEntry
	skipped := 0
	for _, entry := range files {
		if _, err := os.Stat(TranscodedPath(entry.Path)); err == nil {
			skipped++
			continue
		}
		jobs = append(jobs, entry)
	}

	if len(jobs) == 0 {
		t.con.Print([]string{"No images to transcode."})
		return nil
	}
	t.con.Print([]string{fmt.Sprintf("Transcoding %d images with %d workers (%d already done)...", len(jobs), t.Workers, skipped)})

	t.mu.Lock()
	t.failed = nil
	t.mu.Unlock()

	t.counter.Start(len(jobs), 0)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.Workers)
	for _, entry := range jobs {
		g.Go(func() error {
			if err := t.encode(gctx, entry.Path); err != nil {
				t.mu.Lock()
				t.failed = append(t.failed, entry.Path)
				t.mu.Unlock()
			}
			t.counter.Increment(1, 0)
			t.counter.Report(50, entry.Path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	t.con.ClearLines(2)

	failed := t.Failed()
	if len(failed) > 0 {
		lines := []string{"Failed files:"}
		for _, f := range failed {
			lines = append(lines, " - "+f)
		}
		t.con.Print(lines)
	}
	return nil
}

func (t *Transcoder) encode(ctx context.Context, inputPath string) error {
	outputPath := TranscodedPath(inputPath)
	return runEncoder(ctx, buildEncodeArgs(inputPath, outputPath, t.Preset))
}
