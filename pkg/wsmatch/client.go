// Package wsmatch implements a recognize.Matcher backed by a remote
// acoustic-fingerprint recognition service reached over WebSocket.
//
// Each recognition attempt opens one connection. The bridge streams
// msgpack-encoded PCM frames to the service; the service answers with a
// single verdict frame, after which the connection is torn down. Cancelling
// an attempt sends a best-effort stop frame and closes the connection
// without waiting for the service.
//
// Example usage:
//
//	client := wsmatch.NewClient("wss://match.example.com/v1/stream",
//	    wsmatch.WithAPIKey(key))
//
//	sess, err := recognize.NewSession(client.Matcher(), onEvent)
package wsmatch

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/earshot-audio/earshot/pkg/recognize"
)

// Client holds the connection settings for a recognition service. A Client
// is safe for concurrent use and may back any number of sessions.
type Client struct {
	endpoint string
	apiKey   string
	header   http.Header
	dialer   *websocket.Dialer
}

// Option represents a configuration option for the client.
type Option func(*Client)

// WithAPIKey authenticates requests with the given key.
//
// Header format: X-Api-Key: {key}
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithDialer sets a custom WebSocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(c *Client) {
		c.dialer = d
	}
}

// WithHeader adds extra headers to the WebSocket handshake.
func WithHeader(h http.Header) Option {
	return func(c *Client) {
		c.header = h
	}
}

// NewClient creates a client for the recognition service at endpoint
// (a ws:// or wss:// URL).
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		dialer:   websocket.DefaultDialer,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Matcher returns a constructor for matchers backed by this client, suitable
// for recognize.NewSession.
func (c *Client) Matcher() recognize.MatcherFunc {
	return func(deliver func(recognize.Verdict)) (recognize.Matcher, error) {
		if c.endpoint == "" {
			return nil, errors.New("wsmatch: endpoint is not configured")
		}
		return &matcher{client: c, deliver: deliver}, nil
	}
}

// wsHeader builds the handshake headers.
func (c *Client) wsHeader() http.Header {
	h := http.Header{}
	for k, v := range c.header {
		h[k] = v
	}
	if c.apiKey != "" {
		h.Set("X-Api-Key", c.apiKey)
	}
	return h
}
