package assets

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestName is the index-to-filename mapping written during generation.
// Index 0 is the reserved original upload; index k is the image generated
// for prompt k. The mapping makes unlock order explicit instead of leaning
// on the filename sort alone.
const ManifestName = "manifest.json"

// LoadManifest reads a folder's index→filename mapping. A missing manifest
// is nil, not an error: folders predating generation, or generated before
// manifests existed, fall back to lexicographic order.
func LoadManifest(folder string) (map[int]string, error) {
	data, err := os.ReadFile(filepath.Join(folder, ManifestName))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m map[int]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return m, nil
}

// RecordManifestEntry adds one index→filename mapping, creating the
// manifest if needed. Only the generation worker writes manifests, one
// goroutine per character folder.
func RecordManifestEntry(folder string, index int, filename string) error {
	m, err := LoadManifest(folder)
	if err != nil {
		return err
	}
	if m == nil {
		m = make(map[int]string)
	}
	m[index] = filename

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(folder, ManifestName), data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
