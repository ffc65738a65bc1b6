package repo

import "context"

// MessageRepo is the outbound message interface.
// Responsible for delivering text through the WhatsApp bridge; the bridge
// owns the session and all real networking.
type MessageRepo interface {
	// SendText sends a text message to a chat
	SendText(ctx context.Context, chatJID, text string) error
}
