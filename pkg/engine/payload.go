package engine

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
)

// ReadFileFunc reads a payload file. os.ReadFile by default.
type ReadFileFunc func(path string) ([]byte, error)

// payloadCell holds the body of one route. Literal payloads are fixed at
// construction. File-backed payloads start unresolved and move to resolved
// exactly once, on the first successful read.
type payloadCell struct {
	fileBacked bool
	path       string // absolute or working-directory relative

	resolved atomic.Pointer[[]byte]
	mu       sync.Mutex
}

func literalPayload(data string) *payloadCell {
	c := &payloadCell{}
	b := []byte(data)
	c.resolved.Store(&b)
	return c
}

func filePayload(path string) *payloadCell {
	return &payloadCell{fileBacked: true, path: path}
}

// load returns the payload bytes. read is called only while the cell is
// unresolved and only by one caller at a time; fresh reports whether this
// call performed the read.
func (c *payloadCell) load(read ReadFileFunc) (body []byte, fresh bool, err error) {
	if p := c.resolved.Load(); p != nil {
		return *p, false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if p := c.resolved.Load(); p != nil {
		return *p, false, nil
	}

	if read == nil {
		read = os.ReadFile
	}
	data, err := read(c.path)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %s: %w", ErrFileResolution, c.path, err)
	}
	c.resolved.Store(&data)
	return data, true, nil
}

// isResolved reports whether the payload is available without a read.
func (c *payloadCell) isResolved() bool {
	return c.resolved.Load() != nil
}
