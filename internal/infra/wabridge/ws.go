package wabridge

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsReadDeadline  = 60 * time.Second
	wsPingInterval  = 25 * time.Second
	wsRedialBackoff = 5 * time.Second
)

// wsURL derives the event stream URL from the REST API URL
func (c *Client) wsURL() string {
	url := c.apiURL
	switch {
	case strings.HasPrefix(url, "https://"):
		url = "wss://" + strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		url = "ws://" + strings.TrimPrefix(url, "http://")
	}
	return url + "/ws"
}

// websocketLoop keeps an event stream subscription alive until the client
// stops, redialing on failure. While the socket is down, the message store is
// drained once per redial so nothing is lost.
func (c *Client) websocketLoop() {
	defer c.wg.Done()

	for {
		if c.ctx.Err() != nil {
			return
		}

		conn, _, err := websocket.DefaultDialer.DialContext(c.ctx, c.wsURL(), nil)
		if err != nil {
			fmt.Printf("[Bridge] Websocket dial error: %v\n", err)
			c.catchUp()
			select {
			case <-c.ctx.Done():
				return
			case <-time.After(wsRedialBackoff):
			}
			continue
		}

		c.readEvents(conn)
		_ = conn.Close()
	}
}

// readEvents reads pushed message events until the connection breaks
func (c *Client) readEvents(conn *websocket.Conn) {
	// close on context cancellation, unblocking ReadMessage
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-c.ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "closing"),
				time.Now().Add(500*time.Millisecond))
			_ = conn.Close()
		case <-done:
		}
	}()

	_ = conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
	})

	go func() {
		ticker := time.NewTicker(wsPingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second))
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if c.ctx.Err() == nil {
				fmt.Printf("[Bridge] Websocket read error: %v\n", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			fmt.Printf("[Bridge] Websocket event decode error: %v\n", err)
			continue
		}
		msg.Timestamp = time.Unix(msg.RawTimestamp, 0)
		c.deliver(&msg)
	}
}

// catchUp drains the message store once, used while the event stream is down
func (c *Client) catchUp() {
	if c.db == nil {
		return
	}
	if err := c.pollOnce(); err != nil {
		fmt.Printf("[Bridge] Catch-up poll error: %v\n", err)
	}
}
