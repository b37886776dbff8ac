package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TransferOptions control how Transfer mirrors files.
type TransferOptions struct {
	SkipExisting   bool // leave already-present destination files alone
	DeleteOriginal bool // remove the source after a successful copy
}

// dirMu guards directory creation across the copy workers so concurrent
// transfers into the same new subtree don't race on MkdirAll.
var dirMu sync.Mutex

// Transfer copies files into newRoot, preserving each file's path
// relative to oldRoot. Mode bits and timestamps are carried over.
// A file whose path does not start with oldRoot is a caller bug and
// fails the whole transfer.
func Transfer(files []FileEntry, oldRoot, newRoot string, opts TransferOptions) error {
	for _, file := range files {
		if err := TransferOne(file, oldRoot, newRoot, opts); err != nil {
			return err
		}
	}
	return nil
}

// TransferOne mirrors a single file; see Transfer.
func TransferOne(file FileEntry, oldRoot, newRoot string, opts TransferOptions) error {
	if !strings.HasPrefix(file.Path, oldRoot) {
		return fmt.Errorf("file %q does not start with root %q", file.Path, oldRoot)
	}

	rel := strings.TrimPrefix(file.Path, oldRoot)
	newPath := filepath.Join(newRoot, rel)

	if err := EnsureDir(filepath.Dir(newPath)); err != nil {
		return err
	}

	if opts.SkipExisting {
		if _, err := os.Stat(newPath); err == nil {
			return nil
		}
	}

	if err := copyFile(file.Path, newPath); err != nil {
		return err
	}

	if opts.DeleteOriginal {
		if err := os.Remove(file.Path); err != nil {
			return fmt.Errorf("remove original %q: %w", file.Path, err)
		}
	}
	return nil
}

// EnsureDir creates dir (and parents) under the shared directory lock.
func EnsureDir(dir string) error {
	dirMu.Lock()
	defer dirMu.Unlock()
	return os.MkdirAll(dir, 0o755)
}

// copyFile copies src to dst, preserving the mode and modification time.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat %q: %w", src, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %q: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode())
	if err != nil {
		return fmt.Errorf("create %q: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy %q to %q: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %q: %w", dst, err)
	}

	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
