package wabridge

import (
	"fmt"
	"time"
)

// pollLoop polls the bridge message store until the client stops
func (c *Client) pollLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			if err := c.pollOnce(); err != nil {
				fmt.Printf("[Bridge] Poll error: %v\n", err)
				// Bridge errors never stop the loop, pause briefly before retrying
				select {
				case <-c.ctx.Done():
					return
				case <-time.After(5 * time.Second):
				}
			}
		}
	}
}

// pollOnce reads and delivers all message rows past the cursor
func (c *Client) pollOnce() error {
	c.cursorMu.Lock()
	ts, id := c.cursorTS, c.cursorID
	c.cursorMu.Unlock()

	rows, err := c.db.QueryContext(c.ctx, `
		SELECT id, chat_jid, sender, content, timestamp, is_from_me
		FROM messages
		WHERE timestamp > ? OR (timestamp = ? AND id > ?)
		ORDER BY timestamp, id
	`, ts, ts, id)
	if err != nil {
		return fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var batch []*Message
	for rows.Next() {
		var msg Message
		var unixTS int64
		if err := rows.Scan(&msg.ID, &msg.ChatJID, &msg.SenderJID, &msg.Content, &unixTS, &msg.IsFromMe); err != nil {
			return fmt.Errorf("scan message: %w", err)
		}
		msg.Timestamp = time.Unix(unixTS, 0)
		batch = append(batch, &msg)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate messages: %w", err)
	}

	for _, msg := range batch {
		c.deliver(msg)
	}
	return nil
}
