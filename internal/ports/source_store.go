package ports

// SourceStore reads and replaces whole source files.
type SourceStore interface {
	Exists(path string) (bool, error)
	Read(path string) (string, error)
	// Write replaces the file content atomically.
	Write(path string, content string) error
}
