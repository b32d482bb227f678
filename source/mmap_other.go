//go:build !unix

package source

// Mmap falls back to OpenFile where memory mapping is not available.
func Mmap(path string) (Source, error) {
	return OpenFile(path)
}
