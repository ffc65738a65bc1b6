package data

import (
	"context"

	"github.com/warelay/autoreply-bridge/internal/biz/repo"
	"github.com/warelay/autoreply-bridge/internal/infra/wabridge"
)

// bridgeRepo implements the message repository over the WhatsApp bridge
type bridgeRepo struct {
	client *wabridge.Client
}

// NewBridgeRepo creates a bridge-backed message repository
func NewBridgeRepo(client *wabridge.Client) repo.MessageRepo {
	return &bridgeRepo{client: client}
}

// SendText sends a text message to a chat
func (r *bridgeRepo) SendText(ctx context.Context, chatJID, text string) error {
	return r.client.SendText(ctx, chatJID, text)
}
