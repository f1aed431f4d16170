// Package testutil holds small helpers shared by tests across quartz.
package testutil

import (
	"bytes"
	"strings"
	"sync"
)

// ThreadSafeBuffer is a mutex-guarded bytes.Buffer, safe as a log sink for
// components writing from multiple goroutines.
type ThreadSafeBuffer struct {
	buffer bytes.Buffer
	mutex  sync.Mutex
}

// Write implements io.Writer
func (b *ThreadSafeBuffer) Write(p []byte) (n int, err error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buffer.Write(p)
}

// String returns the accumulated buffer as a string
func (b *ThreadSafeBuffer) String() string {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buffer.String()
}

// Contains reports whether the accumulated output contains the substring.
func (b *ThreadSafeBuffer) Contains(s string) bool {
	return strings.Contains(b.String(), s)
}

// Reset resets the buffer to be empty
func (b *ThreadSafeBuffer) Reset() {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.buffer.Reset()
}
