package domain

import (
	"encoding/json"
	"errors"
	"time"
)

// Config is the persisted configuration document: the owner identity,
// global default settings and per-chat overrides
type Config struct {
	OwnerJID string                   `json:"bot_owner_jid"`
	Defaults ChatSettings             `json:"defaults"`
	Chats    map[string]*ChatOverride `json:"chats"`
}

// Built-in defaults seeded into a config whose defaults block is incomplete
const (
	DefaultDelaySeconds     = 300
	DefaultRateLimitMinutes = 15
	DefaultMessage          = "I'm away right now, I'll get back to you soon."
)

// DefaultSettings returns the built-in default chat settings
func DefaultSettings() ChatSettings {
	return ChatSettings{
		Enabled:          true,
		DelaySeconds:     DefaultDelaySeconds,
		Message:          DefaultMessage,
		RateLimitMinutes: DefaultRateLimitMinutes,
	}
}

// configDoc is the on-disk shape of Config. The defaults block uses the
// pointer-field override type so a field absent from the document can be
// told apart from an explicit zero value.
type configDoc struct {
	OwnerJID string                   `json:"bot_owner_jid"`
	Defaults ChatOverride             `json:"defaults"`
	Chats    map[string]*ChatOverride `json:"chats"`
}

// UnmarshalJSON seeds absent defaults fields with the built-in defaults.
// Fields present in the document are kept as written, including zero values
// like rate_limit_minutes set to 0.
func (c *Config) UnmarshalJSON(data []byte) error {
	var doc configDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	c.OwnerJID = doc.OwnerJID
	c.Defaults = doc.Defaults.Apply(DefaultSettings())
	c.Chats = doc.Chats
	if c.Chats == nil {
		c.Chats = make(map[string]*ChatOverride)
	}
	return nil
}

// ErrOwnerMissing is fatal at startup: without an owner no commands can be
// authorized and every mutation path stays closed.
var ErrOwnerMissing = errors.New("bot_owner_jid missing in config")

// Validate checks the fields required at startup
func (c *Config) Validate() error {
	if c.OwnerJID == "" {
		return ErrOwnerMissing
	}
	return nil
}

// Effective resolves the settings for a chat, merging its override over the defaults
func (c *Config) Effective(chatJID string) ChatSettings {
	return c.Chats[chatJID].Apply(c.Defaults)
}

// Override returns the chat's override record, creating it if absent
func (c *Config) Override(chatJID string) *ChatOverride {
	if c.Chats == nil {
		c.Chats = make(map[string]*ChatOverride)
	}
	o, ok := c.Chats[chatJID]
	if !ok {
		o = &ChatOverride{}
		c.Chats[chatJID] = o
	}
	return o
}

// LastAutoReply returns the persisted last auto-reply time for a chat
func (c *Config) LastAutoReply(chatJID string) time.Time {
	return c.Chats[chatJID].LastAutoReply()
}
