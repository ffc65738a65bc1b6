package repo

import "context"

// ComposerRepo is the optional reply composer interface.
// Rewrites the configured reply template so it acknowledges the incoming
// message. Implementations may be nil; the static template is used then.
type ComposerRepo interface {
	// Compose produces a reply from the template and the incoming message text
	Compose(ctx context.Context, systemPrompt, template, incoming string) (string, error)
}
