// Package video classifies video files against the already-transcoded
// policy and drives sequential AV1 encodes with live progress reporting.
package video

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lepinkainen/recompress/console"
	"github.com/lepinkainen/recompress/fsutil"
	"github.com/lepinkainen/recompress/probe"
	"github.com/lepinkainen/recompress/progress"
)

// classifyWorkers bounds the probe/stat pool during the scan phase.
// Each task blocks on ffprobe, so a small constant avoids spawning a
// pile of external processes at once.
const classifyWorkers = 4

// DefaultTargetCodecs are the codecs considered efficient enough to
// leave alone.
var DefaultTargetCodecs = []string{"av1", "hevc"}

// Decision is the terminal state of the per-file classification.
type Decision int

const (
	// DecisionEncode: the file needs transcoding.
	DecisionEncode Decision = iota
	// DecisionMarkedDone: the path itself carries the transcoded marker.
	DecisionMarkedDone
	// DecisionValidCandidate: a transcoded sibling exists and its
	// duration matches the source.
	DecisionValidCandidate
	// DecisionTargetCodec: the source is already in a target codec.
	DecisionTargetCodec
)

// Classification is the outcome of classifying one file.
type Classification struct {
	Entry        fsutil.FileEntry
	Decision     Decision
	Duration     float64 // source duration, set when Decision is DecisionEncode
	RemovedStale bool    // a stale candidate output was deleted first
}

// Transcoder converts video files to AV1 using the external SVT-AV1
// encoder. Encodes run one at a time: ffmpeg saturates every core by
// itself (row-mt is on), so parallel encodes would thrash, not speed up.
type Transcoder struct {
	Params       EncodeParams
	TargetCodecs []string

	cache   *probe.Cache
	con     *console.Console
	counter *progress.TaskCounter

	mu     sync.Mutex
	failed []string
}

// NewTranscoder creates a video transcoder sharing the given probe
// cache and console.
func NewTranscoder(cache *probe.Cache, con *console.Console, params EncodeParams) *Transcoder {
	if con == nil {
		con = console.Default()
	}
	return &Transcoder{
		Params:       params,
		TargetCodecs: DefaultTargetCodecs,
		cache:        cache,
		con:          con,
		counter:      progress.New(100*time.Millisecond, true, con),
	}
}

// Failed returns the paths whose encodes failed during the last batch.
func (t *Transcoder) Failed() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.failed...)
}

func (t *Transcoder) isTargetCodec(codec string) bool {
	codec = strings.ToLower(codec)
	for _, c := range t.TargetCodecs {
		if codec == c {
			return true
		}
	}
	return false
}

// Classify runs the per-file state machine and decides whether entry
// needs an encode. Stale candidate outputs (duration mismatch against
// the source) are deleted so a failed prior run gets redone.
func (t *Transcoder) Classify(ctx context.Context, entry fsutil.FileEntry) (Classification, error) {
	result := Classification{Entry: entry}

	// A. the file is itself a transcode product
	if IsMarkedTranscoded(entry.Path) {
		result.Decision = DecisionMarkedDone
		return result, nil
	}

	// B. a transcoded sibling exists; keep it only if its duration
	// matches the source
	candidate := TranscodedPath(entry.Path)
	duration := -1.0
	if _, err := os.Stat(candidate); err == nil {
		valid, d, err := t.cache.CheckValidity(ctx, entry.Path, candidate)
		if err != nil {
			return result, err
		}
		duration = d
		if valid {
			result.Decision = DecisionValidCandidate
			result.Duration = d
			return result, nil
		}
		if err := os.Remove(candidate); err != nil {
			return result, fmt.Errorf("remove stale output %q: %w", candidate, err)
		}
		result.RemovedStale = true
	}

	// C. the source codec decides
	info, err := t.cache.GetInfo(ctx, entry.Path)
	if err != nil {
		return result, err
	}
	if t.isTargetCodec(info.VideoCodec) {
		result.Decision = DecisionTargetCodec
		return result, nil
	}

	result.Decision = DecisionEncode
	if duration < 0 {
		duration = info.Duration
	}
	result.Duration = duration
	return result, nil
}

// TranscodeMovies classifies files across a small worker pool, then
// encodes the remainder sequentially. Per-file encode failures are
// collected and summarized; they do not abort the batch.
func (t *Transcoder) TranscodeMovies(ctx context.Context, files []fsutil.FileEntry) error {
	if len(files) == 0 {
		t.con.Print([]string{"No video files to scan."})
		return nil
	}

	t.con.Print([]string{fmt.Sprintf("Scanning %d video files:", len(files))})

	// Scan phase: classification blocks on ffprobe, so it gets its own
	// bounded pool and a unit-only counter for the panel.
	scanCounter := progress.New(100*time.Millisecond, false, t.con)
	scanCounter.Start(len(files), 0)

	results := make([]Classification, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(classifyWorkers)
	for i, entry := range files {
		g.Go(func() error {
			c, err := t.Classify(gctx, entry)
			if err != nil {
				return err
			}
			results[i] = c
			scanCounter.Increment(1, 0)
			scanCounter.Report(50, entry.Path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	t.con.ClearLines(2)

	var jobs []Classification
	var totalDuration float64
	for _, c := range results {
		if c.Decision == DecisionEncode {
			jobs = append(jobs, c)
			totalDuration += c.Duration
		}
	}

	if len(jobs) == 0 {
		t.con.Print([]string{"Nothing to transcode; every file is already done."})
		return nil
	}

	t.con.Print([]string{fmt.Sprintf("Transcoding %d movies (%s of footage)...", len(jobs), console.FormatTime(totalDuration))})

	t.mu.Lock()
	t.failed = nil
	t.mu.Unlock()

	t.counter.Start(len(jobs), totalDuration)
	for _, job := range jobs {
		if err := t.encode(ctx, job.Entry.Path, job.Duration); err != nil {
			return err
		}
	}
	t.con.ClearLines(3)

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

// encode runs one ffmpeg invocation, streaming its stderr for progress
// markers. Only invariant violations return an error; an encoder
// failure lands in the failure list and lets the batch continue.
func (t *Transcoder) encode(ctx context.Context, inputPath string, duration float64) error {
	outputPath := TranscodedPath(inputPath)

	// Classification filtered existing outputs already; hitting one
	// here means a racing or incomplete prior run.
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("output file %q already exists", outputPath)
	}

	info, err := t.cache.GetInfo(ctx, inputPath)
	if err != nil {
		return err
	}

	args := buildEncodeArgs(inputPath, outputPath, t.Params, !audioSupportedInMP4(info.AudioCodec))
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	header := fmt.Sprintf("%s (%s, %s)", inputPath, info.VideoCodec, console.FormatTime(duration))

	failed := false
	lastSeconds := 0.0
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, "failed") {
			failed = true
			break
		}

		seconds, clock, ok := ParseProgressLine(line)
		if !ok {
			continue
		}

		fraction := 0.0
		if duration > 0 {
			fraction = seconds / duration
		}
		bar := console.ProgressBar(fraction, 25)
		detail := fmt.Sprintf(" -progress: %s %s %.2f%%", clock, bar, fraction*100)

		// Feed the delta so the subunit counter stays cumulative.
		t.counter.Increment(0, seconds-lastSeconds)
		lastSeconds = seconds
		t.counter.Report(50, header, detail)
	}

	if failed {
		// Keep draining so ffmpeg can't block on a full stderr pipe
		// while we wait for it to exit.
		go func() { _, _ = io.Copy(io.Discard, stderr) }()
	}
	if err := cmd.Wait(); err != nil {
		failed = true
	}
	if failed {
		t.mu.Lock()
		t.failed = append(t.failed, inputPath)
		t.mu.Unlock()
	}

	// The unit counter reaches the batch total regardless of outcome.
	t.counter.Increment(1, 0)
	t.counter.Report(50, "")
	return nil
}
