package player

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"syscall"
	"time"
)

// ErrReadTimeout is returned by ReadLine when the supplied timeout elapses
// before a full line arrives. It signals "no input yet", not a broken peer.
var ErrReadTimeout = errors.New("read timed out")

// Conn wraps a live socket with a line-oriented protocol: strings are written
// as-is and reads return one LF- or CRLF-terminated line at a time.
type Conn struct {
	conn   net.Conn
	reader *bufio.Reader
	addr   string

	writeMutex sync.Mutex

	// Bytes of a line that arrived before a read deadline expired. They are
	// prepended to the next ReadLine result so a slow typer loses nothing.
	partial strings.Builder

	closeOnce sync.Once
	closeErr  error
}

// NewConn wraps an accepted socket.
func NewConn(conn net.Conn) *Conn {
	return &Conn{
		conn:   conn,
		reader: bufio.NewReader(conn),
		addr:   conn.RemoteAddr().String(),
	}
}

// RemoteAddr returns the address of the connected peer, for logging.
func (c *Conn) RemoteAddr() string { return c.addr }

// Send writes the string to the peer exactly as provided. Display control
// sequences are part of the payload, so no terminator is appended.
func (c *Conn) Send(line string) error {
	c.writeMutex.Lock()
	defer c.writeMutex.Unlock()

	data := []byte(line)
	sent := 0
	for sent < len(data) {
		n, err := c.conn.Write(data[sent:])
		if err != nil {
			return fmt.Errorf("failed to send to %v: %w", c.addr, err)
		}
		sent += n
	}
	return nil
}

// ReadLine returns the next line sent by the peer with its terminator
// stripped. A timeout of zero blocks until a line arrives or the connection
// dies; otherwise ErrReadTimeout is returned once the deadline passes.
func (c *Conn) ReadLine(timeout time.Duration) (string, error) {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return "", fmt.Errorf("failed to set read deadline: %w", err)
	}

	for {
		b, err := c.reader.ReadByte()
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return "", ErrReadTimeout
			}
			return "", fmt.Errorf("socket error (%v): %w", c.addr, err)
		}

		if b == '\n' {
			line := strings.TrimSuffix(c.partial.String(), "\r")
			c.partial.Reset()
			return line, nil
		}
		c.partial.WriteByte(b)
	}
}

// Close releases the underlying socket. It is safe to call from multiple
// goroutines and every call after the first is a no-op.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

// IsTransportErr reports whether err indicates that the peer went away: a
// reset or broken pipe, end of stream, or a connection already closed by our
// own teardown path.
func IsTransportErr(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET)
}

// IsTimeout reports whether err is the expected poll-tick timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrReadTimeout)
}
