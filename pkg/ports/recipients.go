package ports

// RecipientSource reads the ordered recipient identity list for a wave.
type RecipientSource interface {
	// ReadLines returns one trimmed identity per line, order preserved.
	// It fails with the underlying access error if the path is unreadable.
	ReadLines(path string) ([]string, error)
}
