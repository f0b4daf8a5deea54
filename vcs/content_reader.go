package vcs

import "os"

// ContentReader is a function that reads file content given a file path.
// This allows the caller to control how files are read (filesystem, an
// in-memory snapshot, etc.)
type ContentReader func(filePath string) ([]byte, error)

// FileReader reads file content straight from the filesystem.
func FileReader(filePath string) ([]byte, error) {
	return os.ReadFile(filePath)
}
