// ABOUTME: In-memory seekable storage for sink containers
// ABOUTME: Backs sinks that patch headers after writing
package sinkwriter

import (
	"fmt"
	"io"
)

// memStorage is a seekable in-memory byte buffer. Container sinks need
// random access to patch headers at finalize, so the destination is fully
// materialized here and flushed back to the raw stream on Close.
//
// The write position starts at zero regardless of seeded content: the sink
// writes its container from the start of the storage, overwriting whatever
// the stream already held. Header patches at absolute offsets land inside
// the container, not inside stale stream content.
type memStorage struct {
	buf []byte
	pos int64
}

func newMemStorage(initial []byte) *memStorage {
	return &memStorage{buf: initial}
}

func (m *memStorage) Write(p []byte) (int, error) {
	if end := m.pos + int64(len(p)); end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[m.pos:], p)
	m.pos += int64(len(p))
	return len(p), nil
}

func (m *memStorage) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = m.pos + offset
	case io.SeekEnd:
		abs = int64(len(m.buf)) + offset
	default:
		return 0, fmt.Errorf("memStorage: invalid whence %d", whence)
	}
	if abs < 0 {
		return 0, fmt.Errorf("memStorage: negative seek position %d", abs)
	}
	m.pos = abs
	return abs, nil
}

// Bytes returns the storage contents.
func (m *memStorage) Bytes() []byte { return m.buf }

// Len returns the storage size in bytes.
func (m *memStorage) Len() int { return len(m.buf) }
