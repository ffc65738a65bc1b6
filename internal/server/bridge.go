package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/warelay/autoreply-bridge/internal/biz/domain"
	"github.com/warelay/autoreply-bridge/internal/infra/wabridge"
	"github.com/warelay/autoreply-bridge/internal/service"
)

// BridgeServer connects the WhatsApp bridge message stream to the command
// handler and the reply scheduler
type BridgeServer struct {
	client    *wabridge.Client
	cmdSvc    *service.CommandService
	scheduler *service.ReplyScheduler
	debug     bool

	// Message deduplication cache
	seenMsgsMu sync.RWMutex
	seenMsgs   map[string]time.Time // msgID -> timestamp

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewBridgeServer creates a new bridge server
func NewBridgeServer(
	client *wabridge.Client,
	cmdSvc *service.CommandService,
	scheduler *service.ReplyScheduler,
	debug bool,
) *BridgeServer {
	return &BridgeServer{
		client:    client,
		cmdSvc:    cmdSvc,
		scheduler: scheduler,
		debug:     debug,
		seenMsgs:  make(map[string]time.Time),
		stopCh:    make(chan struct{}),
	}
}

// Start registers the message handler, starts the bridge client and blocks
// until Stop is called
func (s *BridgeServer) Start() error {
	s.client.OnMessage(s.handleMessage)
	if err := s.client.Start(); err != nil {
		return fmt.Errorf("start bridge client: %w", err)
	}

	<-s.stopCh
	return nil
}

// Stop cancels pending replies and shuts the bridge client down
func (s *BridgeServer) Stop() {
	s.stopOnce.Do(func() {
		s.scheduler.Stop()
		s.client.Stop()
		close(s.stopCh)
	})
}

// handleMessage processes a message from the bridge
func (s *BridgeServer) handleMessage(msg *wabridge.Message) {
	if s.debug {
		fmt.Printf("[Server] Received message in %s from %s (fromMe=%v): %s\n",
			msg.ChatJID, msg.SenderJID, msg.IsFromMe, truncate(msg.Content, 50))
	}

	// Message deduplication: the websocket stream and the catch-up poll can
	// deliver the same message twice
	if s.isMessageSeen(msg.ID) {
		if s.debug {
			fmt.Printf("[Server] Duplicate message ignored: %s\n", msg.ID)
		}
		return
	}
	s.markMessageSeen(msg.ID)

	m := &domain.Message{
		ID:        msg.ID,
		ChatJID:   msg.ChatJID,
		SenderJID: msg.SenderJID,
		Content:   msg.Content,
		IsFromMe:  msg.IsFromMe,
		Timestamp: msg.Timestamp,
	}

	// Commands are consumed; everything else goes to the scheduler
	if s.cmdSvc.Handle(context.Background(), m) {
		return
	}
	s.scheduler.HandleIncoming(m)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// isMessageSeen checks if a message has been processed
func (s *BridgeServer) isMessageSeen(msgID string) bool {
	s.seenMsgsMu.RLock()
	defer s.seenMsgsMu.RUnlock()
	_, exists := s.seenMsgs[msgID]
	return exists
}

// markMessageSeen marks a message as processed
func (s *BridgeServer) markMessageSeen(msgID string) {
	s.seenMsgsMu.Lock()
	defer s.seenMsgsMu.Unlock()
	s.seenMsgs[msgID] = time.Now()

	// Clean up expired records to prevent the cache growing without bound
	cutoff := time.Now().Add(-5 * time.Minute)
	for id, ts := range s.seenMsgs {
		if ts.Before(cutoff) {
			delete(s.seenMsgs, id)
		}
	}
}
