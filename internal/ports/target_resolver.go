package ports

// TargetResolver expands configured target entries into file paths.
type TargetResolver interface {
	Resolve(root string, patterns []string) ([]string, error)
}
