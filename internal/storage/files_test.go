package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveWritesUnderFolder(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	path, err := store.Save(strings.NewReader("fabric bytes"), "hanger/abc-123", "swatch.jpg")
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if filepath.Base(path) != "swatch.jpg" {
		t.Fatalf("unexpected stored name %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "fabric bytes" {
		t.Fatalf("read back failed: %q %v", data, err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"swatch.jpg":        "swatch.jpg",
		"../../etc/passwd":  "passwd",
		`..\..\evil.sh`:     "evil.sh",
		"we ird na%me.png":  "we_ird_na_me.png",
		"..":                "file",
		"":                  "file",
	}
	for in, want := range cases {
		if got := SanitizeFilename(in); got != want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
