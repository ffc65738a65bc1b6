package data

import (
	"context"
	"fmt"

	"github.com/warelay/autoreply-bridge/internal/biz/repo"
	"github.com/warelay/autoreply-bridge/internal/infra/openai"
)

// composerRepo implements the reply composer over an OpenAI-compatible endpoint
type composerRepo struct {
	client *openai.Client
}

// NewComposerRepo creates a composer repository. Returns nil when no client is
// configured; the scheduler then sends the static configured message.
func NewComposerRepo(client *openai.Client) repo.ComposerRepo {
	if client == nil {
		return nil
	}
	return &composerRepo{client: client}
}

// Compose produces a reply from the template and the incoming message text
func (r *composerRepo) Compose(ctx context.Context, systemPrompt, template, incoming string) (string, error) {
	userMessage := fmt.Sprintf("Away-message: %s\n\nIncoming message: %s", template, incoming)
	return r.client.Chat(ctx, systemPrompt, userMessage)
}
