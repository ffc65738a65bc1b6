// Package wabridge talks to a local WhatsApp bridge process. The bridge owns
// the WhatsApp session; this client only sends text through its REST API and
// reads inbound messages from its sqlite message store or websocket stream.
package wabridge

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Message represents an inbound message row from the bridge store
type Message struct {
	ID        string    `json:"id"`
	ChatJID   string    `json:"chat_jid"`
	SenderJID string    `json:"sender"`
	Content   string    `json:"content"`
	IsFromMe  bool      `json:"is_from_me"`
	Timestamp time.Time `json:"-"`

	// RawTimestamp carries the unix-second timestamp on the wire
	RawTimestamp int64 `json:"timestamp"`
}

// MessageHandler is the callback for received messages
type MessageHandler func(msg *Message)

// Config contains bridge client configuration
type Config struct {
	APIURL       string
	DBPath       string
	UseWebsocket bool
	PollInterval time.Duration
}

// Client is the WhatsApp bridge client
type Client struct {
	apiURL       string
	dbPath       string
	useWebsocket bool
	pollInterval time.Duration

	httpCli   *http.Client
	db        *sql.DB
	onMessage MessageHandler

	// cursor marks the last delivered message; rows at or before it are skipped
	cursorMu sync.Mutex
	cursorTS int64
	cursorID string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewClient creates a new bridge client. The message store is opened on Start,
// so a send-only client never touches the database.
func NewClient(cfg Config) *Client {
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &Client{
		apiURL:       strings.TrimRight(cfg.APIURL, "/"),
		dbPath:       cfg.DBPath,
		useWebsocket: cfg.UseWebsocket,
		pollInterval: pollInterval,
		httpCli:      &http.Client{Timeout: 30 * time.Second},
	}
}

// OnMessage sets the message handler
func (c *Client) OnMessage(handler MessageHandler) {
	c.onMessage = handler
}

// Start opens the message store and starts the receive loop. Only messages
// arriving after Start are delivered.
func (c *Client) Start() error {
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.cursorTS = time.Now().Unix()

	if c.dbPath != "" {
		db, err := sql.Open("sqlite", c.dbPath)
		if err != nil {
			return fmt.Errorf("open bridge message store: %w", err)
		}
		c.db = db
	}

	c.wg.Add(1)
	if c.useWebsocket {
		go c.websocketLoop()
	} else {
		if c.db == nil {
			return fmt.Errorf("bridge message store path required for polling")
		}
		go c.pollLoop()
	}
	return nil
}

// Stop stops the receive loop and closes the message store
func (c *Client) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	if c.db != nil {
		_ = c.db.Close()
		c.db = nil
	}
}

// sendRequest is the bridge send API payload
type sendRequest struct {
	Recipient string `json:"recipient"`
	Message   string `json:"message"`
}

// sendResponse is the bridge send API response
type sendResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SendText sends a text message to a chat through the bridge REST API
func (c *Client) SendText(ctx context.Context, chatJID, text string) error {
	body, err := json.Marshal(sendRequest{Recipient: chatJID, Message: text})
	if err != nil {
		return fmt.Errorf("marshal send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/api/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return fmt.Errorf("bridge send: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("bridge send: status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var result sendResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return fmt.Errorf("decode send response: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("bridge send rejected: %s", result.Message)
	}
	return nil
}

// deliver hands a message to the handler and advances the cursor
func (c *Client) deliver(msg *Message) {
	c.cursorMu.Lock()
	ts := msg.Timestamp.Unix()
	if ts > c.cursorTS || (ts == c.cursorTS && msg.ID > c.cursorID) {
		c.cursorTS = ts
		c.cursorID = msg.ID
	}
	c.cursorMu.Unlock()

	if c.onMessage != nil {
		c.onMessage(msg)
	}
}
