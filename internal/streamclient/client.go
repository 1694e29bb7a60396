// Package streamclient talks to the /ws generation stream of a dungeongen server.
package streamclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
	"github.com/lawnchairsociety/dungeongen/internal/export"
	"github.com/lawnchairsociety/dungeongen/internal/server"
)

// ErrClosed is returned once the connection has gone away.
var ErrClosed = errors.New("stream closed")

// ServerError is an error frame sent by the server in reply to a request.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return "server: " + e.Message
}

// Request is one generation request. Config holds only the keys to
// override; everything else keeps the server's defaults.
type Request struct {
	Config     map[string]any `json:"config,omitempty"`
	Seed       *int64         `json:"seed,omitempty"`
	SeedPhrase string         `json:"seed_phrase,omitempty"`
	Name       string         `json:"name,omitempty"`
	Save       bool           `json:"save,omitempty"`
	NoFurnish  bool           `json:"no_furnish,omitempty"`
}

// Client is a websocket connection to a generation stream. Frames are read in
// the background and kept in arrival order. Generate calls are serialized.
type Client struct {
	conn      *websocket.Conn
	frames    chan server.StreamMessage
	messages  []server.StreamMessage
	mu        sync.Mutex
	genMu     sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
	readErr   error
}

// Dial connects to url (ws:// or wss://). header may carry an Origin.
func Dial(ctx context.Context, url string, header http.Header) (*Client, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to connect: %w (HTTP %d)", err, resp.StatusCode)
		}
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	c := &Client{
		conn:   conn,
		frames: make(chan server.StreamMessage, 16),
		done:   make(chan struct{}),
	}
	go c.readMessages()
	return c, nil
}

// readMessages decodes frames until the connection fails.
func (c *Client) readMessages() {
	defer close(c.frames)
	for {
		var msg server.StreamMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			c.mu.Lock()
			c.readErr = err
			c.mu.Unlock()
			return
		}

		c.mu.Lock()
		c.messages = append(c.messages, msg)
		c.mu.Unlock()

		select {
		case c.frames <- msg:
		case <-c.done:
			return
		}
	}
}

// Generate sends req and waits for its layout. onStage, if set, is called for
// each stage frame. An error frame is returned as *ServerError.
func (c *Client) Generate(ctx context.Context, req Request, onStage func(dungeon.StageEvent)) (*export.LayoutJSON, error) {
	c.genMu.Lock()
	defer c.genMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := c.conn.WriteJSON(req); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case msg, ok := <-c.frames:
			if !ok {
				return nil, c.closedErr()
			}
			switch msg.Type {
			case server.MessageStage:
				if onStage != nil && msg.Stage != nil {
					onStage(*msg.Stage)
				}
			case server.MessageLayout:
				if msg.Layout == nil {
					return nil, errors.New("layout frame without a layout")
				}
				return msg.Layout, nil
			case server.MessageError:
				return nil, &ServerError{Message: msg.Error}
			}
		}
	}
}

func (c *Client) closedErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return fmt.Errorf("%w: %w", ErrClosed, c.readErr)
	}
	return ErrClosed
}

// Messages returns every frame received so far.
func (c *Client) Messages() []server.StreamMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]server.StreamMessage, len(c.messages))
	copy(result, c.messages)
	return result
}

// Close sends a close frame and closes the connection.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		err = c.conn.Close()
	})
	return err
}
