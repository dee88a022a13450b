package port

// Parser extracts plain text from a file of one format.
type Parser interface {
	// Parse reads the file at path and returns its text.
	Parse(path string) (string, error)

	// Extension returns the lower-case extension handled, without the dot.
	Extension() string
}
