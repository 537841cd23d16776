// Package client implements the wire-level connection to the marketplace
// server: one persistent TCP connection carrying request and response lines.
package client

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"time"
)

// Client is a line-protocol connection to the server. It is not safe for
// concurrent use; the CLI issues one request at a time.
type Client struct {
	conn   net.Conn
	reader *bufio.Reader
}

// Dial connects to the server at addr, waiting at most timeout.
func Dial(ctx context.Context, addr string, timeout time.Duration) (*Client, error) {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", addr, err)
	}
	return &Client{conn: conn, reader: bufio.NewReader(conn)}, nil
}

// Do sends one request line and returns the server's response line with the
// trailing newline removed.
func (c *Client) Do(line string) (string, error) {
	if _, err := fmt.Fprintln(c.conn, line); err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	resp, err := c.reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	return strings.TrimRight(resp, "\r\n"), nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}
