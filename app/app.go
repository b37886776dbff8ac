// Package app wires the scanning, probing and transcoding pieces into
// the batch operations the CLI commands expose.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/lepinkainen/recompress/avif"
	"github.com/lepinkainen/recompress/console"
	"github.com/lepinkainen/recompress/fsutil"
	"github.com/lepinkainen/recompress/probe"
	"github.com/lepinkainen/recompress/progress"
	"github.com/lepinkainen/recompress/video"
)

// splitWorkers bounds the copy pool during a split. Copies are
// IO-bound; more workers just contend on the disk.
const splitWorkers = 4

// ImageExtensions is the extension allow-list for image batches.
var ImageExtensions = []string{
	".jpg", ".jpeg", ".png", ".tga", ".bmp", ".gif", ".tiff", ".tif",
}

// FinishedImageExtensions are image formats that are already compressed
// end products; a split files them under Transcoded.
var FinishedImageExtensions = []string{".avif", ".heic", ".heif"}

// App owns the shared probe cache and console and exposes the batch
// operations.
type App struct {
	con   *console.Console
	cache *probe.Cache
}

// New creates an App writing to con. A nil con selects the process
// default.
func New(con *console.Console) *App {
	return NewWithCache(con, probe.NewCache())
}

// NewWithCache creates an App sharing an existing probe cache.
func NewWithCache(con *console.Console, cache *probe.Cache) *App {
	if con == nil {
		con = console.Default()
	}
	return &App{
		con:   con,
		cache: cache,
	}
}

// TranscodeImagesInDirectory converts every image under dir to AVIF.
func (a *App) TranscodeImagesInDirectory(ctx context.Context, dir string, preset avif.Preset, workers int) error {
	byExt, err := fsutil.Scan(dir, true)
	if err != nil {
		return fmt.Errorf("scan %q: %w", dir, err)
	}
	files := fsutil.Extract(byExt, ImageExtensions)

	tr := avif.NewTranscoder(a.con, preset, workers)
	return tr.TranscodeImages(ctx, files)
}

// TranscodeMoviesInDirectory converts every video under dir to AV1.
func (a *App) TranscodeMoviesInDirectory(ctx context.Context, dir string, params video.EncodeParams) error {
	byExt, err := fsutil.Scan(dir, true)
	if err != nil {
		return fmt.Errorf("scan %q: %w", dir, err)
	}
	files := fsutil.Extract(byExt, video.MovieExtensions)

	tr := video.NewTranscoder(a.cache, a.con, params)
	return tr.TranscodeMovies(ctx, files)
}

// Bucket names under the split destination.
const (
	BucketSource     = "Source"
	BucketTranscoded = "Transcoded"
	BucketUnknown    = "Unknown"
)

func inList(ext string, list []string) bool {
	ext = strings.ToLower(ext)
	for _, v := range list {
		if v == ext {
			return true
		}
	}
	return false
}

func isTargetCodec(codec string) bool {
	codec = strings.ToLower(codec)
	for _, c := range video.DefaultTargetCodecs {
		if codec == c {
			return true
		}
	}
	return false
}

// classifyBucket decides which split bucket a file belongs to. Every
// file lands in exactly one bucket; video files cost a probe.
func (a *App) classifyBucket(ctx context.Context, entry fsutil.FileEntry) (string, error) {
	switch {
	case inList(entry.Ext, FinishedImageExtensions):
		return BucketTranscoded, nil
	case inList(entry.Ext, ImageExtensions):
		return BucketSource, nil
	case video.IsMovieFile(entry.Path):
		info, err := a.cache.GetInfo(ctx, entry.Path)
		if err != nil {
			return "", err
		}
		if isTargetCodec(info.VideoCodec) {
			return BucketTranscoded, nil
		}
		return BucketSource, nil
	default:
		return BucketUnknown, nil
	}
}

// SplitDirectory copies everything under source into per-bucket trees
// under destination, preserving relative paths. Originals are never
// touched; rerunning with skipExisting set resumes an interrupted
// split. workers <= 0 selects the default pool size.
func (a *App) SplitDirectory(ctx context.Context, source, destination string, workers int, skipExisting bool) error {
	if workers <= 0 {
		workers = splitWorkers
	}
	byExt, err := fsutil.Scan(source, true)
	if err != nil {
		return fmt.Errorf("scan %q: %w", source, err)
	}
	files := fsutil.Extract(byExt, nil)

	if len(files) == 0 {
		a.con.Print([]string{"Nothing to split."})
		return nil
	}

	for _, bucket := range []string{BucketSource, BucketTranscoded, BucketUnknown} {
		if err := fsutil.EnsureDir(filepath.Join(destination, bucket)); err != nil {
			return err
		}
	}

	a.con.Print([]string{fmt.Sprintf("Splitting %d files into %s:", len(files), destination)})

	counter := progress.New(100*time.Millisecond, false, a.con)
	counter.Start(len(files), 0)

	opts := fsutil.TransferOptions{SkipExisting: skipExisting}
	var mu sync.Mutex
	counts := map[string]int{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, entry := range files {
		g.Go(func() error {
			bucket, err := a.classifyBucket(gctx, entry)
			if err != nil {
				return err
			}
			if err := fsutil.TransferOne(entry, source, filepath.Join(destination, bucket), opts); err != nil {
				return err
			}
			mu.Lock()
			counts[bucket]++
			mu.Unlock()
			counter.Increment(1, 0)
			counter.Report(50, entry.Path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	a.con.ClearLines(2)

	a.con.Print([]string{fmt.Sprintf("Done: %d source, %d transcoded, %d unknown.",
		counts[BucketSource], counts[BucketTranscoded], counts[BucketUnknown])})
	return nil
}

// PrintStats reports per-extension file counts and sizes under dir,
// largest first.
func (a *App) PrintStats(dir string) error {
	stats, err := fsutil.SizePerExtension(dir)
	if err != nil {
		return fmt.Errorf("scan %q: %w", dir, err)
	}

	var lines []string
	var totalFiles int
	var totalSize int64
	for _, s := range stats {
		ext := s.Ext
		if ext == "" {
			ext = "(none)"
		}
		lines = append(lines, fmt.Sprintf("%-8s %6d files  %10s", ext, s.Files, humanize.Bytes(uint64(s.Size))))
		totalFiles += s.Files
		totalSize += s.Size
	}
	lines = append(lines, fmt.Sprintf("%-8s %6d files  %10s", "total", totalFiles, humanize.Bytes(uint64(totalSize))))

	a.con.Print(lines)
	return nil
}
