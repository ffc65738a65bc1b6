package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/warelay/autoreply-bridge/internal/biz/domain"
	"github.com/warelay/autoreply-bridge/internal/biz/repo"
	"github.com/warelay/autoreply-bridge/internal/biz/usecase"
)

// CommandReplies contains the response texts for owner commands
type CommandReplies struct {
	Help          string
	EnabledAck    string
	DisabledAck   string
	DelayAck      string // takes the delay in seconds
	DelayUsage    string
	DelayTooShort string // takes the minimum in seconds
	MessageAck    string // takes the new message text
	MessageUsage  string
	Unknown       string // takes the unknown subcommand
}

// CommandService handles /autoreply owner commands. Commands gate every
// configuration mutation path; messages from non-owner senders and commands
// in excluded chats are ignored.
type CommandService struct {
	settingsUC  *usecase.SettingsUsecase
	messageRepo repo.MessageRepo
	excluded    map[string]struct{}
	replies     CommandReplies
}

// NewCommandService creates a new command service
func NewCommandService(
	settingsUC *usecase.SettingsUsecase,
	messageRepo repo.MessageRepo,
	excludedChats []string,
	replies CommandReplies,
) *CommandService {
	excluded := make(map[string]struct{}, len(excludedChats))
	for _, jid := range excludedChats {
		excluded[jid] = struct{}{}
	}
	return &CommandService{
		settingsUC:  settingsUC,
		messageRepo: messageRepo,
		excluded:    excluded,
		replies:     replies,
	}
}

// Handle processes a message as an owner command. Returns true when the
// message was consumed and must not trigger an auto-reply.
func (s *CommandService) Handle(ctx context.Context, msg *domain.Message) bool {
	if !msg.IsCommand() {
		return false
	}
	if s.isExcluded(msg) {
		fmt.Printf("[Commands] Ignoring command in excluded chat %s\n", msg.ChatJID)
		return false
	}
	if !domain.SameUser(msg.SenderJID, s.settingsUC.Owner()) {
		fmt.Printf("[Commands] Ignoring command from non-owner %s in %s\n", msg.SenderJID, msg.ChatJID)
		return false
	}

	reply := s.dispatch(ctx, msg)
	if reply != "" {
		if err := s.messageRepo.SendText(ctx, msg.ChatJID, reply); err != nil {
			fmt.Printf("[Commands] Failed to send command reply to %s: %v\n", msg.ChatJID, err)
		}
	}
	return true
}

// dispatch parses the subcommand, applies the mutation and returns the
// response text. Invalid arguments leave the configuration unchanged.
func (s *CommandService) dispatch(ctx context.Context, msg *domain.Message) string {
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(msg.Content), "/autoreply"))
	sub, value, _ := strings.Cut(rest, " ")
	sub = strings.ToLower(sub)
	value = strings.TrimSpace(value)
	chatJID := msg.ChatJID

	fmt.Printf("[Commands] Owner command in %s: %s\n", chatJID, sub)

	switch sub {
	case "on":
		if err := s.settingsUC.SetEnabled(ctx, chatJID, true); err != nil {
			return s.updateFailed(chatJID, err)
		}
		return s.replies.EnabledAck

	case "off":
		if err := s.settingsUC.SetEnabled(ctx, chatJID, false); err != nil {
			return s.updateFailed(chatJID, err)
		}
		return s.replies.DisabledAck

	case "delay":
		seconds, err := strconv.Atoi(value)
		if value == "" || err != nil {
			return s.replies.DelayUsage
		}
		switch err := s.settingsUC.SetDelay(ctx, chatJID, seconds); err {
		case nil:
			return fmt.Sprintf(s.replies.DelayAck, seconds)
		case usecase.ErrDelayTooShort:
			return fmt.Sprintf(s.replies.DelayTooShort, domain.MinDelaySeconds)
		default:
			return s.updateFailed(chatJID, err)
		}

	case "message":
		if value == "" {
			return s.replies.MessageUsage
		}
		if err := s.settingsUC.SetMessage(ctx, chatJID, value); err != nil {
			return s.updateFailed(chatJID, err)
		}
		return fmt.Sprintf(s.replies.MessageAck, value)

	case "status":
		return s.statusText(chatJID)

	case "help", "":
		return s.replies.Help

	default:
		return fmt.Sprintf(s.replies.Unknown, sub)
	}
}

// statusText builds the status response for a chat
func (s *CommandService) statusText(chatJID string) string {
	cfg := s.settingsUC.Effective(chatJID)

	enabled := "DISABLED"
	if cfg.Enabled {
		enabled = "ENABLED"
	}

	lastSent := "Never sent"
	if last := s.settingsUC.LastAutoReply(chatJID); !last.IsZero() {
		lastSent = last.Format("2006-01-02 15:04:05")
	}

	return fmt.Sprintf("Auto-reply status for this chat:\n"+
		"- Status: %s\n"+
		"- Delay: %d seconds\n"+
		"- Message: '%s'\n"+
		"- Rate limit: %d minutes\n"+
		"- Last sent: %s",
		enabled, cfg.DelaySeconds, cfg.Message, cfg.RateLimitMinutes, lastSent)
}

// isExcluded reports whether a chat never has its commands processed.
// Broadcast JIDs and the configured excluded set are skipped; the owner's
// own chat is not, so self-chat commands still work.
func (s *CommandService) isExcluded(msg *domain.Message) bool {
	if msg.IsBroadcast() {
		return true
	}
	_, ok := s.excluded[msg.ChatJID]
	return ok
}

func (s *CommandService) updateFailed(chatJID string, err error) string {
	fmt.Printf("[Commands] Failed to update configuration for %s: %v\n", chatJID, err)
	return "Failed to update configuration."
}
