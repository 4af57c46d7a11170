package database

import (
	"context"
	"sync"
)

// Session owns at most one connection for the lifetime of a request. The
// connection is opened lazily on the first Acquire and closed by Release.
type Session struct {
	backend Backend

	mu   sync.Mutex
	conn Conn
}

func NewSession(backend Backend) *Session {
	return &Session{backend: backend}
}

// Acquire returns the session's connection, opening it if needed.
func (s *Session) Acquire(ctx context.Context) (Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		return s.conn, nil
	}
	conn, err := s.backend.Connect(ctx)
	if err != nil {
		return nil, err
	}
	s.conn = conn
	return conn, nil
}

// Release closes the connection. Uncommitted work is rolled back. Calling it
// again, or without a prior Acquire, does nothing.
func (s *Session) Release(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}
	conn := s.conn
	s.conn = nil
	return conn.Close(ctx)
}

type sessionKey struct{}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the request session stored by WithSession.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok
}
