package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// WriteTree materializes files under root. Keys are slash-separated paths
// relative to root; parent directories are created as needed. Tests use it
// to lay out docs trees and data files in temp dirs.
func WriteTree(root string, files map[string]string) error {
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// LoadGolden decodes a JSON golden file into v.
func LoadGolden(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
