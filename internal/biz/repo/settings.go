package repo

import (
	"context"
	"time"

	"github.com/warelay/autoreply-bridge/internal/biz/domain"
)

// SettingsRepo is the configuration store interface.
// Responsible for the flat config document (JSON file); mutations are
// serialized by the implementation and rewrite the whole file.
type SettingsRepo interface {
	// Owner returns the bot owner JID
	Owner() string

	// Effective resolves the settings for a chat (override merged over defaults)
	Effective(chatJID string) domain.ChatSettings

	// LastAutoReply returns the persisted last auto-reply time for a chat
	LastAutoReply(chatJID string) time.Time

	// UpdateChat mutates a chat's override record and persists the document
	UpdateChat(ctx context.Context, chatJID string, mutate func(*domain.ChatOverride)) error

	// MarkReplied records an auto-reply send time for a chat and persists it
	MarkReplied(ctx context.Context, chatJID string, at time.Time) error

	// Save rewrites the document (used on shutdown)
	Save(ctx context.Context) error
}
