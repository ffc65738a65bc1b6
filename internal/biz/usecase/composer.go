package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/warelay/autoreply-bridge/internal/biz/repo"
)

// ComposerUsecase handles optional LLM rewriting of the auto-reply text.
// It only ever changes the wording of the reply; eligibility, timing and
// rate limiting are decided before it runs.
type ComposerUsecase struct {
	composerRepo repo.ComposerRepo
	systemPrompt string
}

// NewComposerUsecase creates a new composer usecase
func NewComposerUsecase(composerRepo repo.ComposerRepo, systemPrompt string) *ComposerUsecase {
	return &ComposerUsecase{
		composerRepo: composerRepo,
		systemPrompt: systemPrompt,
	}
}

// IsEnabled reports whether a composer backend is configured
func (uc *ComposerUsecase) IsEnabled() bool {
	return uc.composerRepo != nil
}

// ComposeReply rewrites the configured template to acknowledge the incoming
// message. Any composer failure falls back to the static template.
func (uc *ComposerUsecase) ComposeReply(ctx context.Context, template, incoming string) string {
	if !uc.IsEnabled() {
		return template
	}

	reply, err := uc.composerRepo.Compose(ctx, uc.systemPrompt, template, incoming)
	if err != nil {
		fmt.Printf("[Composer] Compose error: %v, using configured message\n", err)
		return template
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return template
	}
	return reply
}
