//go:build !unix

package arena

// mapAnon falls back to the Go heap where anonymous mappings are unavailable.
func mapAnon(size int) ([]byte, func([]byte) error, error) {
	return make([]byte, size), nil, nil
}
