package arena

import (
	"fmt"
	"io"
	"os"
)

// ReadFile reads the named file into memory allocated from a.
// Unlike direct allocations, a file that does not fit is reported as an
// error wrapping ErrArenaFull and nothing is allocated.
func ReadFile(a *Arena, path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := fi.Size()
	// size fits an int once it is known to be below Available.
	if size > int64(a.Available()) || alignUp(int(size)) > a.Available() {
		return nil, fmt.Errorf("%w: %s is %d bytes, %d available", ErrArenaFull, path, size, a.Available())
	}

	buf := a.AllocBytes(int(size))
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return buf, nil
}
