package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteMarkdown writes content to filePath/fileName, creating the directory.
func WriteMarkdown(filePath, fileName, content string) error {
	if err := os.MkdirAll(filePath, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filePath, err)
	}

	filePath = filepath.Join(filePath, fileName)
	if err := os.WriteFile(filePath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filePath, err)
	}
	return nil
}
