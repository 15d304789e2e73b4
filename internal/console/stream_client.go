package console

import (
	"bufio"
	"io"
	"net"
	"strings"
	"sync"
)

// StreamClient speaks line-oriented text over a byte stream: a telnet
// connection or the daemon's own stdin/stdout.
type StreamClient struct {
	scanner *bufio.Scanner

	mu     sync.Mutex // guards writer
	writer *bufio.Writer

	closer io.Closer
	addr   string
}

// NewTelnetClient wraps a TCP connection.
func NewTelnetClient(conn net.Conn) *StreamClient {
	return &StreamClient{
		scanner: bufio.NewScanner(conn),
		writer:  bufio.NewWriter(conn),
		closer:  conn,
		addr:    conn.RemoteAddr().String(),
	}
}

// NewStdioClient wraps a local terminal. Closing it does not close in or out.
func NewStdioClient(in io.Reader, out io.Writer) *StreamClient {
	return &StreamClient{
		scanner: bufio.NewScanner(in),
		writer:  bufio.NewWriter(out),
		addr:    "local",
	}
}

// ReadLine reads a line, dropping a trailing carriage return sent by telnet clients.
func (c *StreamClient) ReadLine() (string, error) {
	if c.scanner.Scan() {
		return strings.TrimSuffix(c.scanner.Text(), "\r"), nil
	}
	if err := c.scanner.Err(); err != nil {
		return "", err
	}
	return "", net.ErrClosed
}

func (c *StreamClient) WriteLine(message string) error {
	return c.write(strings.ReplaceAll(message, "\n", "\r\n") + "\r\n")
}

func (c *StreamClient) Prompt(prompt string) error {
	return c.write(prompt)
}

func (c *StreamClient) write(s string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.writer.WriteString(s); err != nil {
		return err
	}
	return c.writer.Flush()
}

func (c *StreamClient) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

func (c *StreamClient) RemoteAddr() string {
	return c.addr
}
