package ports

// FileSystem is the file access used by the CLI orchestration. The library
// itself never touches files; it works on in-memory buffers.
type FileSystem interface {
	// ReadFile returns the contents of a regular file.
	ReadFile(path string) ([]byte, error)

	// WriteFile replaces path with data, creating parent directories.
	// Readers never observe a partially written file.
	WriteFile(path string, data []byte) error

	MkdirAll(path string) error

	Exists(path string) (bool, error)
}
