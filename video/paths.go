package video

import (
	"path/filepath"
	"strings"
)

// Marker appended to the base name of transcoded outputs, e.g.
// 'video.mp4' -> 'video_AV1.mp4'. Its presence anywhere in a path means
// the file is itself a transcode product.
const Marker = "_AV1"

// Container extension for transcoded outputs.
const OutputExt = ".mp4"

// MovieExtensions is the extension allow-list for video batches.
var MovieExtensions = []string{
	".mp4", ".mov", ".avi", ".mkv", ".wmv", ".flv",
	".webm", ".mpg", ".mpeg", ".m4v", ".3gp", ".3g2",
}

// IsMovieFile checks if the given file extension is one of the known
// video file extensions.
func IsMovieFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, v := range MovieExtensions {
		if v == ext {
			return true
		}
	}
	return false
}

// IsMarkedTranscoded reports whether the path carries the transcoded
// marker token.
func IsMarkedTranscoded(path string) bool {
	return strings.Contains(path, Marker)
}

// TranscodedPath returns the deterministic output path for a source
// file: same directory, same base name, marker suffix, fixed container
// extension.
func TranscodedPath(path string) string {
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(dir, name+Marker+OutputExt)
}
