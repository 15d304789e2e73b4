// Package testclient drives the operator console over telnet in tests.
package testclient

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"
)

// TestClient is a telnet connection to the operator console that records
// every line the console sends.
type TestClient struct {
	Name     string
	conn     net.Conn
	writer   *bufio.Writer
	messages []string
	mu       sync.Mutex
	done     chan struct{}
	once     sync.Once
}

// Credentials holds an operator login.
type Credentials struct {
	Operator string
	Password string
}

// newClientConnection creates a basic client connection without authentication
func newClientConnection(address string) (*TestClient, error) {
	conn, err := net.Dial("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	client := &TestClient{
		conn:     conn,
		writer:   bufio.NewWriter(conn),
		messages: make([]string, 0),
		done:     make(chan struct{}),
	}

	go client.readMessages(bufio.NewReader(conn))

	return client, nil
}

// NewTestClient connects and logs in as an operator. It fails when the
// console refuses the login or does not greet the operator within two seconds.
func NewTestClient(creds Credentials, address string) (*TestClient, error) {
	client, err := newClientConnection(address)
	if err != nil {
		return nil, err
	}
	client.Name = creds.Operator

	// The console reads line by line, so both answers can be sent up front.
	if err := client.SendCommand(creds.Operator); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to send operator name: %w", err)
	}
	if err := client.SendCommand(creds.Password); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to send password: %w", err)
	}

	reply, ok := client.WaitForAnyMessage([]string{"Welcome, ", "Invalid operator name or password.", "Too many"}, 2*time.Second)
	if !ok || reply != "Welcome, " {
		messages := client.GetMessages()
		client.Close()
		return nil, fmt.Errorf("failed to log in, messages: %v", messages)
	}

	return client, nil
}

// NewTestClientRaw creates a raw client connection without any authentication.
// Use this for testing the login flow itself.
func NewTestClientRaw(address string) (*TestClient, error) {
	client, err := newClientConnection(address)
	if err != nil {
		return nil, err
	}
	client.Name = "RawClient"
	return client, nil
}

// readMessages records lines until the connection closes. Prompts carry no
// newline, so they lead the line that follows them.
func (c *TestClient) readMessages(reader *bufio.Reader) {
	for {
		line, err := reader.ReadString('\n')
		if line = strings.TrimRight(line, "\r\n"); line != "" {
			c.mu.Lock()
			c.messages = append(c.messages, line)
			c.mu.Unlock()
		}
		if err != nil {
			return
		}
		select {
		case <-c.done:
			return
		default:
		}
	}
}

// SendCommand sends one input line to the console.
func (c *TestClient) SendCommand(cmd string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.writer.WriteString(cmd + "\r\n"); err != nil {
		return err
	}
	return c.writer.Flush()
}

// GetMessages returns all messages received so far
func (c *TestClient) GetMessages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]string, len(c.messages))
	copy(result, c.messages)
	return result
}

// WaitForMessage waits for a message containing the specified text (with timeout)
func (c *TestClient) WaitForMessage(text string, timeout time.Duration) bool {
	_, ok := c.WaitForAnyMessage([]string{text}, timeout)
	return ok
}

// WaitForAnyMessage waits for any of the specified texts (with timeout)
func (c *TestClient) WaitForAnyMessage(texts []string, timeout time.Duration) (string, bool) {
	deadline := time.Now().Add(timeout)

	for {
		for _, msg := range c.GetMessages() {
			for _, text := range texts {
				if strings.Contains(msg, text) {
					return text, true
				}
			}
		}
		if !time.Now().Before(deadline) {
			return "", false
		}
		time.Sleep(20 * time.Millisecond)
	}
}

// HasMessage checks if any message contains the specified text
func (c *TestClient) HasMessage(text string) bool {
	for _, msg := range c.GetMessages() {
		if strings.Contains(msg, text) {
			return true
		}
	}
	return false
}

// Close closes the client connection. It is safe to call more than once.
func (c *TestClient) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}
