// Package dispatcher wraps a net.Listener with a connection-count admission
// control, so that an http.Server built on top of it can never hold more
// than a fixed number of accepted connections open at once.
package dispatcher

import (
	"context"
	"net"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Listener admits at most Weighted's configured weight connections
// concurrently. Callers Accept() as usual; each returned net.Conn releases
// its admission slot exactly once, on Close, however many times Close is
// called.
type Listener struct {
	net.Listener
	sem *semaphore.Weighted
}

// New wraps ln with an admission control of max concurrently accepted
// connections. bounded distinguishes an explicit cap from no cap at all:
// when bounded is false, New returns ln unwrapped and max is ignored. When
// bounded is true, max is the admitted concurrency, including zero: a
// zero-capacity semaphore never releases an Acquire, so the dispatcher
// accepts no connections past the listening socket, matching a server
// started with its connection cap pinned to zero.
func New(ln net.Listener, max int, bounded bool) net.Listener {
	if !bounded {
		return ln
	}
	return &Listener{Listener: ln, sem: semaphore.NewWeighted(int64(max))}
}

// Accept blocks until an admission slot is free, then accepts one
// connection. If the underlying Accept fails, the slot is released
// immediately.
func (l *Listener) Accept() (net.Conn, error) {
	if err := l.sem.Acquire(context.Background(), 1); err != nil {
		return nil, err
	}

	conn, err := l.Listener.Accept()
	if err != nil {
		l.sem.Release(1)
		return nil, err
	}

	return &admittedConn{Conn: conn, sem: l.sem}, nil
}

type admittedConn struct {
	net.Conn
	sem      *semaphore.Weighted
	closeOne sync.Once
}

func (c *admittedConn) Close() error {
	err := c.Conn.Close()
	c.closeOne.Do(func() { c.sem.Release(1) })
	return err
}
