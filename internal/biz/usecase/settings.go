package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/warelay/autoreply-bridge/internal/biz/domain"
	"github.com/warelay/autoreply-bridge/internal/biz/repo"
)

// Validation errors reported back to the owner as chat messages
var (
	ErrDelayTooShort = fmt.Errorf("delay must be at least %d seconds", domain.MinDelaySeconds)
	ErrEmptyMessage  = errors.New("message text must not be empty")
)

// SettingsUsecase handles configuration reads and validated mutations
type SettingsUsecase struct {
	settingsRepo repo.SettingsRepo
}

// NewSettingsUsecase creates a new settings usecase
func NewSettingsUsecase(settingsRepo repo.SettingsRepo) *SettingsUsecase {
	return &SettingsUsecase{settingsRepo: settingsRepo}
}

// Owner returns the bot owner JID
func (uc *SettingsUsecase) Owner() string {
	return uc.settingsRepo.Owner()
}

// Effective resolves the settings for a chat
func (uc *SettingsUsecase) Effective(chatJID string) domain.ChatSettings {
	return uc.settingsRepo.Effective(chatJID)
}

// LastAutoReply returns the persisted last auto-reply time for a chat
func (uc *SettingsUsecase) LastAutoReply(chatJID string) time.Time {
	return uc.settingsRepo.LastAutoReply(chatJID)
}

// SetEnabled turns auto-reply on or off for a chat
func (uc *SettingsUsecase) SetEnabled(ctx context.Context, chatJID string, enabled bool) error {
	return uc.settingsRepo.UpdateChat(ctx, chatJID, func(o *domain.ChatOverride) {
		o.Enabled = &enabled
	})
}

// SetDelay sets the reply delay for a chat. Values below the minimum are
// rejected and the stored value stays unchanged.
func (uc *SettingsUsecase) SetDelay(ctx context.Context, chatJID string, seconds int) error {
	if seconds < domain.MinDelaySeconds {
		return ErrDelayTooShort
	}
	return uc.settingsRepo.UpdateChat(ctx, chatJID, func(o *domain.ChatOverride) {
		o.DelaySeconds = &seconds
	})
}

// SetMessage sets the auto-reply text for a chat
func (uc *SettingsUsecase) SetMessage(ctx context.Context, chatJID string, text string) error {
	if text == "" {
		return ErrEmptyMessage
	}
	return uc.settingsRepo.UpdateChat(ctx, chatJID, func(o *domain.ChatOverride) {
		o.Message = &text
	})
}

// MarkReplied records an auto-reply send time for a chat
func (uc *SettingsUsecase) MarkReplied(ctx context.Context, chatJID string, at time.Time) error {
	return uc.settingsRepo.MarkReplied(ctx, chatJID, at)
}

// Save persists the configuration document
func (uc *SettingsUsecase) Save(ctx context.Context) error {
	return uc.settingsRepo.Save(ctx)
}
