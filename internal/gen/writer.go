package gen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// OutputPath returns where file is written. An empty outputDir places the
// file next to its source.
func OutputPath(file GeneratedFile, outputDir string) string {
	if outputDir == "" {
		return filepath.Join(filepath.Dir(file.Source), file.Filename)
	}

	return filepath.Join(outputDir, file.Filename)
}

// WriteFiles writes all generated files and returns the paths that changed.
// Files whose content is already up to date are left untouched so that
// watchers do not see spurious writes.
func WriteFiles(files []GeneratedFile, outputDir string) ([]string, error) {
	if outputDir != "" {
		if err := os.MkdirAll(outputDir, dirPerm); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}

	var written []string

	for _, file := range files {
		outputPath := OutputPath(file, outputDir)

		old, err := os.ReadFile(outputPath)
		if err == nil && bytes.Equal(old, file.Content) {
			continue
		}

		if err := os.WriteFile(outputPath, file.Content, filePerm); err != nil {
			return written, fmt.Errorf("writing file %s: %w", file.Filename, err)
		}

		written = append(written, outputPath)
	}

	return written, nil
}
