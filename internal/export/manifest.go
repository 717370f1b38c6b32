package export

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"api-volume-lab/internal/domain"
)

// ManifestFileName is the manifest written next to the parquet file.
const ManifestFileName = "manifest.yaml"

// Manifest describes the written feature file for downstream loaders.
type Manifest struct {
	Rows int    `yaml:"rows"`
	Cols int    `yaml:"cols"`
	Path string `yaml:"path"`
}

// WriteManifest writes outDir/manifest.yaml describing the table written to
// featurePath, and returns the manifest path.
func WriteManifest(summary domain.Summary, featurePath, outDir string) (string, error) {
	m := Manifest{
		Rows: summary.Rows,
		Cols: summary.Cols,
		Path: featurePath,
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}

	outPath := filepath.Join(outDir, ManifestFileName)
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", outPath, err)
	}
	return outPath, nil
}
