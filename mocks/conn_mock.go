package mocks

import (
	"bytes"
	"io"
	"net"
	"sync"
	"time"
)

// Addr is the address a Conn claims on both ends.
type Addr struct{}

// Network implements net.Addr.
func (Addr) Network() string { return "mock" }

// String implements net.Addr.
func (Addr) String() string { return "mock:6667" }

// Conn is an in memory net.Conn. Lines are fed to the reader with Send and
// the lines written are collected for Receive.
type Conn struct {
	in  *io.PipeReader
	out *io.PipeWriter

	protect sync.Mutex
	partial []byte
	written []string
	read    int
	notify  chan struct{}

	closed    chan struct{}
	closeOnce sync.Once
}

// NewConn creates a connection ready to be read and written.
func NewConn() *Conn {
	in, out := io.Pipe()
	return &Conn{
		in:     in,
		out:    out,
		notify: make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

// Send makes a line available to the reader, it blocks until it is read.
func (m *Conn) Send(line string) error {
	_, err := io.WriteString(m.out, line+"\r\n")
	return err
}

// Hangup ends the stream the reader sees like a server closing the
// connection would.
func (m *Conn) Hangup() {
	m.out.Close()
}

// Receive returns the next line that was written without its line ending.
// It gives up after timeout.
func (m *Conn) Receive(timeout time.Duration) (string, bool) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		m.protect.Lock()
		if m.read < len(m.written) {
			line := m.written[m.read]
			m.read++
			m.protect.Unlock()
			return line, true
		}
		m.protect.Unlock()

		select {
		case <-m.notify:
		case <-deadline.C:
			return "", false
		}
	}
}

// Written is every complete line written so far.
func (m *Conn) Written() []string {
	m.protect.Lock()
	defer m.protect.Unlock()

	cpy := make([]string, len(m.written))
	copy(cpy, m.written)
	return cpy
}

// WaitForDeath blocks until Close is called.
func (m *Conn) WaitForDeath() {
	<-m.closed
}

// Read implements net.Conn.
func (m *Conn) Read(buf []byte) (int, error) {
	return m.in.Read(buf)
}

// Write implements net.Conn, every \r\n terminated line is collected.
func (m *Conn) Write(buf []byte) (int, error) {
	select {
	case <-m.closed:
		return 0, io.ErrClosedPipe
	default:
	}

	m.protect.Lock()
	m.partial = append(m.partial, buf...)
	for {
		i := bytes.Index(m.partial, []byte("\r\n"))
		if i < 0 {
			break
		}
		m.written = append(m.written, string(m.partial[:i]))
		m.partial = m.partial[i+2:]
	}
	m.protect.Unlock()

	select {
	case m.notify <- struct{}{}:
	default:
	}

	return len(buf), nil
}

// Close implements net.Conn. Blocked reads return io.ErrClosedPipe.
func (m *Conn) Close() error {
	m.closeOnce.Do(func() {
		close(m.closed)
		m.in.Close()
	})
	return nil
}

// LocalAddr implements net.Conn.
func (m *Conn) LocalAddr() net.Addr {
	return Addr{}
}

// RemoteAddr implements net.Conn.
func (m *Conn) RemoteAddr() net.Addr {
	return Addr{}
}

// SetDeadline implements net.Conn, deadlines are ignored.
func (m *Conn) SetDeadline(_ time.Time) error {
	return nil
}

// SetReadDeadline implements net.Conn, deadlines are ignored.
func (m *Conn) SetReadDeadline(_ time.Time) error {
	return nil
}

// SetWriteDeadline implements net.Conn, deadlines are ignored.
func (m *Conn) SetWriteDeadline(_ time.Time) error {
	return nil
}
