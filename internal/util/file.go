package util

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// WriteFileAtomic writes data to the given path, replacing any existing file
// in a single rename so readers never observe a partially written file.
func WriteFileAtomic(path string, data []byte) error {
	evaluatedPath, err := resolvePath(path)
	if len(evaluatedPath) > 0 && err == nil {
		path = evaluatedPath
	}

	parentDir := filepath.Dir(path)
	if _, err := os.Stat(parentDir); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(parentDir, 0755); err != nil {
			return err
		}
	}

	return atomic.WriteFile(path, bytes.NewReader(data))
}

func resolvePath(path string) (string, error) {
	return filepath.EvalSymlinks(path)
}
