package usecase

import (
	"context"
	"errors"
	"testing"
)

type mockComposerRepo struct {
	reply string
	err   error
}

func (m *mockComposerRepo) Compose(ctx context.Context, systemPrompt, template, incoming string) (string, error) {
	return m.reply, m.err
}

func TestComposeReply_Disabled(t *testing.T) {
	uc := NewComposerUsecase(nil, "prompt")

	if uc.IsEnabled() {
		t.Error("Expected composer to be disabled without a backend")
	}
	if got := uc.ComposeReply(context.Background(), "template", "hi"); got != "template" {
		t.Errorf("Expected static template, got %q", got)
	}
}

func TestComposeReply_UsesComposedText(t *testing.T) {
	uc := NewComposerUsecase(&mockComposerRepo{reply: "  composed  "}, "prompt")

	if got := uc.ComposeReply(context.Background(), "template", "hi"); got != "composed" {
		t.Errorf("Expected composed reply, got %q", got)
	}
}

func TestComposeReply_FallsBackOnError(t *testing.T) {
	uc := NewComposerUsecase(&mockComposerRepo{err: errors.New("backend down")}, "prompt")

	if got := uc.ComposeReply(context.Background(), "template", "hi"); got != "template" {
		t.Errorf("Expected fallback to template, got %q", got)
	}
}

func TestComposeReply_FallsBackOnEmpty(t *testing.T) {
	uc := NewComposerUsecase(&mockComposerRepo{reply: "   "}, "prompt")

	if got := uc.ComposeReply(context.Background(), "template", "hi"); got != "template" {
		t.Errorf("Expected fallback to template, got %q", got)
	}
}
