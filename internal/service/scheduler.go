package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/warelay/autoreply-bridge/internal/biz/domain"
	"github.com/warelay/autoreply-bridge/internal/biz/repo"
	"github.com/warelay/autoreply-bridge/internal/biz/usecase"
)

const sendTimeout = 30 * time.Second

// ReplyScheduler decides, times and gates auto-replies. It keeps at most one
// pending timer per chat; a newer message in the same chat supersedes the
// earlier timer, so only the latest message can produce a reply.
type ReplyScheduler struct {
	settingsUC  *usecase.SettingsUsecase
	composerUC  *usecase.ComposerUsecase
	messageRepo repo.MessageRepo
	excluded    map[string]struct{}
	debug       bool

	mu       sync.Mutex
	pending  map[string]*pendingReply
	lastSent map[string]time.Time
	nextSeq  uint64
	stopped  bool
	wg       sync.WaitGroup
}

// pendingReply associates a chat with its in-flight delayed send and the
// message that triggered it
type pendingReply struct {
	timer       *time.Timer
	seq         uint64
	triggeredAt time.Time
	content     string
}

// NewReplyScheduler creates a new reply scheduler
func NewReplyScheduler(
	settingsUC *usecase.SettingsUsecase,
	composerUC *usecase.ComposerUsecase,
	messageRepo repo.MessageRepo,
	excludedChats []string,
	debug bool,
) *ReplyScheduler {
	excluded := make(map[string]struct{}, len(excludedChats))
	for _, jid := range excludedChats {
		excluded[jid] = struct{}{}
	}
	return &ReplyScheduler{
		settingsUC:  settingsUC,
		composerUC:  composerUC,
		messageRepo: messageRepo,
		excluded:    excluded,
		debug:       debug,
		pending:     make(map[string]*pendingReply),
		lastSent:    make(map[string]time.Time),
	}
}

// HandleIncoming processes one inbound message. Broadcast chats, explicitly
// excluded chats and the owner's own chat never get a timer. A message sent
// from our own device cancels the chat's pending reply instead.
func (s *ReplyScheduler) HandleIncoming(msg *domain.Message) {
	if msg == nil || msg.ChatJID == "" {
		return
	}
	if s.isExcluded(msg) {
		if s.debug {
			fmt.Printf("[Scheduler] Chat excluded, ignoring: %s\n", msg.ChatJID)
		}
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	// Any new activity in the chat supersedes the pending timer
	s.cancelLocked(msg.ChatJID)

	if msg.IsFromMe {
		if s.debug {
			fmt.Printf("[Scheduler] Own reply in %s, pending auto-reply cancelled\n", msg.ChatJID)
		}
		return
	}

	cfg := s.settingsUC.Effective(msg.ChatJID)
	if !cfg.Enabled {
		if s.debug {
			fmt.Printf("[Scheduler] Auto-reply disabled for %s\n", msg.ChatJID)
		}
		return
	}

	now := time.Now()
	if !cfg.RateLimitOpen(s.lastSentLocked(msg.ChatJID), now) {
		fmt.Printf("[Scheduler] Rate limit active for %s, not scheduling\n", msg.ChatJID)
		return
	}

	s.nextSeq++
	p := &pendingReply{
		seq:         s.nextSeq,
		triggeredAt: now,
		content:     msg.Content,
	}
	seq := p.seq
	chatJID := msg.ChatJID
	p.timer = time.AfterFunc(cfg.Delay(), func() {
		s.fire(chatJID, seq)
	})
	s.pending[chatJID] = p

	fmt.Printf("[Scheduler] Auto-reply scheduled for %s in %v\n", chatJID, cfg.Delay())
}

// fire runs when a chat's delay elapses. Settings may have changed during the
// wait, so eligibility and the rate limit are checked again. A send blocked by
// the rate limit is dropped, never queued.
func (s *ReplyScheduler) fire(chatJID string, seq uint64) {
	s.mu.Lock()
	p, ok := s.pending[chatJID]
	if !ok || p.seq != seq || s.stopped {
		// Superseded or shutting down
		s.mu.Unlock()
		return
	}
	delete(s.pending, chatJID)
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	cfg := s.settingsUC.Effective(chatJID)
	if !cfg.Enabled {
		fmt.Printf("[Scheduler] Auto-reply disabled for %s while timer was running\n", chatJID)
		return
	}

	now := time.Now()
	if !cfg.RateLimitOpen(s.lastSentAt(chatJID), now) {
		fmt.Printf("[Scheduler] Rate limit active for %s, reply dropped\n", chatJID)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	text := cfg.Message
	if s.composerUC != nil && s.composerUC.IsEnabled() {
		text = s.composerUC.ComposeReply(ctx, cfg.Message, p.content)
	}

	if err := s.messageRepo.SendText(ctx, chatJID, text); err != nil {
		fmt.Printf("[Scheduler] Failed to send auto-reply to %s: %v\n", chatJID, err)
		return
	}

	s.mu.Lock()
	s.lastSent[chatJID] = now
	s.mu.Unlock()

	if err := s.settingsUC.MarkReplied(ctx, chatJID, now); err != nil {
		fmt.Printf("[Scheduler] Failed to persist reply time for %s: %v\n", chatJID, err)
	}

	fmt.Printf("[Scheduler] Auto-reply sent to %s\n", chatJID)
}

// Stop cancels every outstanding timer without sending and waits for in-flight
// sends to finish
func (s *ReplyScheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	for chatJID := range s.pending {
		s.cancelLocked(chatJID)
	}
	s.mu.Unlock()
	s.wg.Wait()
	fmt.Println("[Scheduler] Stopped")
}

// HasPending reports whether a chat currently has a timer running
func (s *ReplyScheduler) HasPending(chatJID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[chatJID]
	return ok
}

// isExcluded reports whether a chat never receives auto-replies
func (s *ReplyScheduler) isExcluded(msg *domain.Message) bool {
	if msg.IsBroadcast() {
		return true
	}
	if _, ok := s.excluded[msg.ChatJID]; ok {
		return true
	}
	return domain.SameUser(msg.ChatJID, s.settingsUC.Owner())
}

// cancelLocked invalidates a chat's pending timer. Callers hold s.mu.
func (s *ReplyScheduler) cancelLocked(chatJID string) {
	if p, ok := s.pending[chatJID]; ok {
		p.timer.Stop()
		delete(s.pending, chatJID)
	}
}

// lastSentLocked is lastSentAt for callers already holding s.mu
func (s *ReplyScheduler) lastSentLocked(chatJID string) time.Time {
	if t, ok := s.lastSent[chatJID]; ok {
		return t
	}
	return s.settingsUC.LastAutoReply(chatJID)
}

// lastSentAt returns the chat's last send time, falling back to the persisted
// timestamp so the rate limit survives restarts
func (s *ReplyScheduler) lastSentAt(chatJID string) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSentLocked(chatJID)
}
