package domain

import (
	"strings"
	"time"
)

// Message represents an inbound chat message from the bridge
type Message struct {
	ID        string
	ChatJID   string
	SenderJID string
	Content   string
	IsFromMe  bool // sent from the account's own device
	Timestamp time.Time
}

// IsBroadcast reports whether the message belongs to a broadcast or status
// channel, which never receives auto-replies
func (m *Message) IsBroadcast() bool {
	return strings.HasSuffix(m.ChatJID, "@broadcast")
}

// IsCommand reports whether the message text is a bot command
func (m *Message) IsCommand() bool {
	c := strings.TrimSpace(m.Content)
	return c == "/autoreply" || strings.HasPrefix(c, "/autoreply ")
}

// BareJID strips the device part from a JID, so "123:2@s.whatsapp.net"
// becomes "123@s.whatsapp.net". JIDs without a device part pass through.
func BareJID(jid string) string {
	at := strings.IndexByte(jid, '@')
	if at < 0 {
		if c := strings.IndexByte(jid, ':'); c >= 0 {
			return jid[:c]
		}
		return jid
	}
	user := jid[:at]
	if c := strings.IndexByte(user, ':'); c >= 0 {
		user = user[:c]
	}
	return user + jid[at:]
}

// SameUser compares two JIDs ignoring their device parts
func SameUser(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return BareJID(a) == BareJID(b)
}
