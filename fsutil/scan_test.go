package fsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.MP4"), "1234")
	writeFile(t, filepath.Join(root, "b.jpg"), "12")
	writeFile(t, filepath.Join(root, "sub", "c.mp4"), "123456")
	writeFile(t, filepath.Join(root, "noext"), "1")

	t.Run("Recursive", func(t *testing.T) {
		byExt, err := Scan(root, true)
		if err != nil {
			t.Fatalf("Scan failed: %v", err)
		}

		if len(byExt[".mp4"]) != 2 {
			t.Errorf("expected 2 .mp4 entries, got %d", len(byExt[".mp4"]))
		}
		if len(byExt[".jpg"]) != 1 {
			t.Errorf("expected 1 .jpg entry, got %d", len(byExt[".jpg"]))
		}
		if len(byExt[""]) != 1 {
			t.Errorf("expected 1 extensionless entry, got %d", len(byExt[""]))
		}

		entry := byExt[".jpg"][0]
		if entry.Ext != ".jpg" {
			t.Errorf("extension should be lowercased with dot, got %q", entry.Ext)
		}
		if entry.Size != 2 {
			t.Errorf("expected size 2, got %d", entry.Size)
		}
	})

	t.Run("NonRecursive", func(t *testing.T) {
		byExt, err := Scan(root, false)
		if err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		if len(byExt[".mp4"]) != 1 {
			t.Errorf("non-recursive scan should skip sub/, got %d .mp4 entries", len(byExt[".mp4"]))
		}
	})

	t.Run("UppercaseExtensionFolded", func(t *testing.T) {
		byExt, err := Scan(root, true)
		if err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		for _, e := range byExt[".mp4"] {
			if e.Ext != ".mp4" {
				t.Errorf("expected folded extension .mp4, got %q", e.Ext)
			}
		}
	})
}

func TestExtract(t *testing.T) {
	byExt := map[string][]FileEntry{
		".mp4": {{Path: "a.mp4", Ext: ".mp4"}},
		".jpg": {{Path: "b.jpg", Ext: ".jpg"}},
		".png": {{Path: "c.png", Ext: ".png"}},
	}

	tests := []struct {
		name     string
		exts     []string
		expected int
	}{
		{"Single extension", []string{".mp4"}, 1},
		{"Multiple extensions", []string{".jpg", ".png"}, 2},
		{"Uppercase input folded", []string{".JPG"}, 1},
		{"Unknown extension", []string{".xyz"}, 0},
		{"Empty set selects all", nil, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(byExt, tt.exts)
			if len(got) != tt.expected {
				t.Errorf("Extract(%v) returned %d entries, expected %d", tt.exts, len(got), tt.expected)
			}
		})
	}
}

func TestSizePerExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.mp4"), "123456789")
	writeFile(t, filepath.Join(root, "b.mp4"), "12345")
	writeFile(t, filepath.Join(root, "c.jpg"), "1")

	stats, err := SizePerExtension(root)
	if err != nil {
		t.Fatalf("SizePerExtension failed: %v", err)
	}

	if len(stats) != 2 {
		t.Fatalf("expected 2 extensions, got %d", len(stats))
	}
	if stats[0].Ext != ".mp4" || stats[0].Files != 2 || stats[0].Size != 14 {
		t.Errorf("unexpected first stat: %+v", stats[0])
	}
	if stats[1].Ext != ".jpg" || stats[1].Size != 1 {
		t.Errorf("unexpected second stat: %+v", stats[1])
	}
}

func TestReplaceExt(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		newExt   string
		expected string
	}{
		{"Simple", "photo.jpg", ".avif", "photo.avif"},
		{"Full path", "/library/shots/photo.png", ".avif", "/library/shots/photo.avif"},
		{"Multiple dots", "trip.2024.jpeg", ".avif", "trip.2024.avif"},
		{"No extension", "README", ".avif", "README.avif"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReplaceExt(tt.path, tt.newExt); got != tt.expected {
				t.Errorf("ReplaceExt(%q, %q) = %q, expected %q", tt.path, tt.newExt, got, tt.expected)
			}
		})
	}
}
