// Package console serves the operator command line over telnet and WebSocket.
package console

// Client is one operator connection. Telnet, WebSocket and local stdio
// sessions all look the same to the session loop.
type Client interface {
	// ReadLine blocks until a complete line is received and returns it without the newline.
	ReadLine() (string, error)

	// WriteLine sends one block of output. Stream clients terminate it with a newline.
	WriteLine(message string) error

	// Prompt asks for input. Stream clients leave the cursor on the line;
	// message-based clients send it as its own message.
	Prompt(prompt string) error

	Close() error

	// RemoteAddr identifies the peer for logging and rate limiting.
	RemoteAddr() string
}
