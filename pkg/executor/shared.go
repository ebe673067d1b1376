package executor

import (
	"context"
	"sync"
)

// refCounted owns the underlying executor and closes it when its last
// reference is dropped.
type refCounted struct {
	exec QueryExecutor

	mu     sync.Mutex
	refs   int
	closed bool
}

func (r *refCounted) acquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	r.refs++
	return true
}

func (r *refCounted) release() {
	r.mu.Lock()
	r.refs--
	last := r.refs == 0
	if last {
		r.closed = true
	}
	r.mu.Unlock()

	if last {
		r.exec.Close()
	}
}

func (r *refCounted) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Shared is one holder's reference to a reference-counted QueryExecutor.
// Each value returned by NewShared or Acquire is a distinct reference; the
// underlying executor is closed when every one of them has been released.
// Releasing a handle more than once only drops its own reference.
//
// Thread Safety: safe for concurrent use.
type Shared struct {
	ref *refCounted

	once     sync.Once
	released bool
	mu       sync.Mutex
}

// NewShared wraps exec and returns the first reference to it.
func NewShared(exec QueryExecutor) *Shared {
	return &Shared{ref: &refCounted{exec: exec, refs: 1}}
}

// Acquire returns a new reference for another holder. Acquiring after the
// executor has been closed yields a handle that is already released.
func (s *Shared) Acquire() *Shared {
	h := &Shared{ref: s.ref}
	if !s.ref.acquire() {
		h.once.Do(func() { h.released = true })
	}
	return h
}

// Release drops this holder's reference, closing the executor when it was
// the last one.
func (s *Shared) Release() {
	s.once.Do(func() {
		s.mu.Lock()
		s.released = true
		s.mu.Unlock()
		s.ref.release()
	})
}

// Refs returns the number of outstanding references across all holders.
func (s *Shared) Refs() int {
	s.ref.mu.Lock()
	defer s.ref.mu.Unlock()
	return s.ref.refs
}

// Execute implements QueryExecutor. It fails with ErrClosed once this
// handle has been released.
func (s *Shared) Execute(ctx context.Context, query string, args ...any) (*QueryOutput, error) {
	s.mu.Lock()
	released := s.released
	s.mu.Unlock()
	if released || s.ref.isClosed() {
		return nil, ErrClosed
	}
	return s.ref.exec.Execute(ctx, query, args...)
}

// Close implements QueryExecutor by releasing this handle.
func (s *Shared) Close() {
	s.Release()
}

var _ QueryExecutor = (*Shared)(nil)
var _ QueryExecutor = (*PostgresExecutor)(nil)
