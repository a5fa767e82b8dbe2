package util

import (
	"github.com/stretchr/testify/assert"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic_CreatesParentDirectory(t *testing.T) {
	// GIVEN
	dir := t.TempDir()
	filePath := filepath.Join(dir, "export", "tuning.yaml")

	// WHEN
	err := WriteFileAtomic(filePath, []byte("joints: []\n"))

	// THEN
	assert.NoError(t, err)
	content, err := os.ReadFile(filePath)
	assert.NoError(t, err)
	assert.Equal(t, "joints: []\n", string(content))
}

func TestWriteFileAtomic_ReplacesExistingFile(t *testing.T) {
	// GIVEN
	filePath := filepath.Join(t.TempDir(), "tuning.yaml")
	err := os.WriteFile(filePath, []byte("old content that is longer"), 0644)
	assert.NoError(t, err)

	// WHEN
	err = WriteFileAtomic(filePath, []byte("new"))

	// THEN
	assert.NoError(t, err)
	content, _ := os.ReadFile(filePath)
	assert.Equal(t, "new", string(content))
}
