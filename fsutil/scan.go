// Package fsutil enumerates media libraries and mirrors files between
// directory trees.
package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileEntry describes one file found during a scan. Entries are
// immutable once produced; identity is the path.
type FileEntry struct {
	Path string // full path to the file
	Ext  string // lowercased extension including the leading dot
	Size int64  // size in bytes
}

// ExtStat summarizes all files sharing one extension.
type ExtStat struct {
	Ext   string
	Files int
	Size  int64
}

// Scan walks root and returns every file grouped by lowercased
// extension. When recursive is false only the top-level directory is
// read. Lists are sorted by path.
func Scan(root string, recursive bool) (map[string][]FileEntry, error) {
	result := make(map[string][]FileEntry)

	add := func(path string, size int64) {
		ext := strings.ToLower(filepath.Ext(path))
		result[ext] = append(result[ext], FileEntry{Path: path, Ext: ext, Size: size})
	}

	if recursive {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			add(path, info.Size())
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				return nil, err
			}
			add(filepath.Join(root, entry.Name()), info.Size())
		}
	}

	for _, files := range result {
		sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	}
	return result, nil
}

// Extract flattens a scan result down to the entries whose extension is
// in exts. An empty exts selects every extension. Extensions are
// matched case-insensitively.
func Extract(byExt map[string][]FileEntry, exts []string) []FileEntry {
	var result []FileEntry

	if len(exts) == 0 {
		keys := make([]string, 0, len(byExt))
		for ext := range byExt {
			keys = append(keys, ext)
		}
		sort.Strings(keys)
		for _, ext := range keys {
			result = append(result, byExt[ext]...)
		}
		return result
	}

	for _, ext := range exts {
		result = append(result, byExt[strings.ToLower(ext)]...)
	}
	return result
}

// SizePerExtension returns per-extension file counts and total sizes
// under root, sorted by total size descending.
func SizePerExtension(root string) ([]ExtStat, error) {
	byExt, err := Scan(root, true)
	if err != nil {
		return nil, err
	}

	stats := make([]ExtStat, 0, len(byExt))
	for ext, files := range byExt {
		var total int64
		for _, f := range files {
			total += f.Size
		}
		stats = append(stats, ExtStat{Ext: ext, Files: len(files), Size: total})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Size != stats[j].Size {
			return stats[i].Size > stats[j].Size
		}
		return stats[i].Ext < stats[j].Ext
	})
	return stats, nil
}

// ReplaceExt swaps the extension of path for newExt (which must include
// the leading dot).
func ReplaceExt(path, newExt string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + newExt
}
