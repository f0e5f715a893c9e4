package assets

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
}

func TestListImagesFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "2.png", "0.JPG", "1.jpeg", "questions.json", "notes.txt", "10.webp", "3.GIF")
	if err := os.Mkdir(filepath.Join(dir, "5.png"), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	files, err := ListImages(dir)
	if err != nil {
		t.Fatalf("ListImages() error = %v", err)
	}

	// Lexicographic, not numeric: "10" sorts before "2".
	want := []string{"0.JPG", "1.jpeg", "10.webp", "2.png", "3.GIF"}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("ListImages() = %v, want %v", files, want)
	}
}

func TestListImagesMissingFolder(t *testing.T) {
	if _, err := ListImages(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error for missing folder")
	}
}

func TestIsImage(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"a.jpg", true},
		{"a.JPEG", true},
		{"a.png", true},
		{"a.gif", true},
		{"a.webp", true},
		{"a.txt", false},
		{"a.json", false},
		{"noext", false},
	}

	for _, tt := range tests {
		if got := IsImage(tt.name); got != tt.want {
			t.Errorf("IsImage(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDataURI(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.jpg", "b.png", "c.webp")

	tests := []struct {
		file string
		mime string
	}{
		{"a.jpg", "image/jpeg"},
		{"b.png", "image/png"},
		{"c.webp", "image/png"},
	}

	for _, tt := range tests {
		uri, err := DataURI(filepath.Join(dir, tt.file))
		if err != nil {
			t.Fatalf("DataURI(%s) error = %v", tt.file, err)
		}
		want := "data:" + tt.mime + ";base64," + base64.StdEncoding.EncodeToString([]byte(tt.file))
		if uri != want {
			t.Errorf("DataURI(%s) = %q, want %q", tt.file, uri, want)
		}
	}

	if _, err := DataURI(filepath.Join(dir, "missing.png")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()

	m, err := LoadManifest(dir)
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}
	if m != nil {
		t.Fatalf("expected nil manifest for empty folder, got %v", m)
	}

	if err := RecordManifestEntry(dir, 0, "0.png"); err != nil {
		t.Fatalf("RecordManifestEntry() error = %v", err)
	}
	if err := RecordManifestEntry(dir, 2, "2.png"); err != nil {
		t.Fatalf("RecordManifestEntry() error = %v", err)
	}

	m, err = LoadManifest(dir)
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}
	want := map[int]string{0: "0.png", 2: "2.png"}
	if !reflect.DeepEqual(m, want) {
		t.Errorf("LoadManifest() = %v, want %v", m, want)
	}
}
