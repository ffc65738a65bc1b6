package data

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/warelay/autoreply-bridge/internal/biz/domain"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestNewSettingsRepo_MissingFile(t *testing.T) {
	_, err := NewSettingsRepo(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("Expected error for missing config file")
	}
}

func TestNewSettingsRepo_MalformedJSON(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "{not json")
	if _, err := NewSettingsRepo(path); err == nil {
		t.Fatal("Expected error for malformed config file")
	}
}

func TestNewSettingsRepo_MissingOwnerFatal(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `{"defaults": {"enabled": true}}`)
	if _, err := NewSettingsRepo(path); err == nil {
		t.Fatal("Expected error for config without bot_owner_jid")
	}
}

func TestNewSettingsRepo_SeedsDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `{"bot_owner_jid": "owner@s.whatsapp.net"}`)

	r, err := NewSettingsRepo(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	got := r.Effective("any@s.whatsapp.net")
	if !got.Enabled {
		t.Error("Expected enabled seeded true")
	}
	if got.DelaySeconds != domain.DefaultDelaySeconds {
		t.Errorf("Expected seeded delay, got %d", got.DelaySeconds)
	}
	if got.Message == "" {
		t.Error("Expected seeded message")
	}
	if got.RateLimitMinutes != domain.DefaultRateLimitMinutes {
		t.Errorf("Expected seeded rate limit, got %d", got.RateLimitMinutes)
	}
	if r.Owner() != "owner@s.whatsapp.net" {
		t.Errorf("Unexpected owner %q", r.Owner())
	}
}

func TestNewSettingsRepo_SeedsEnabledWhenAbsent(t *testing.T) {
	// A defaults block that sets other fields but omits enabled must not
	// leave the bot silently disabled
	path := writeConfig(t, t.TempDir(), `{
		"bot_owner_jid": "owner@s.whatsapp.net",
		"defaults": {"delay_seconds": 60, "message": "away"}
	}`)

	r, err := NewSettingsRepo(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	got := r.Effective("any@s.whatsapp.net")
	if !got.Enabled {
		t.Error("Expected enabled=true seeded when defaults.enabled is absent")
	}
	if got.DelaySeconds != 60 {
		t.Errorf("Expected written delay kept, got %d", got.DelaySeconds)
	}
}

func TestNewSettingsRepo_KeepsExplicitZeroRateLimit(t *testing.T) {
	// rate_limit_minutes: 0 means no rate limiting, not an absent field
	path := writeConfig(t, t.TempDir(), `{
		"bot_owner_jid": "owner@s.whatsapp.net",
		"defaults": {"enabled": true, "rate_limit_minutes": 0}
	}`)

	r, err := NewSettingsRepo(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	got := r.Effective("any@s.whatsapp.net")
	if got.RateLimitMinutes != 0 {
		t.Errorf("Expected explicit rate_limit_minutes=0 preserved, got %d", got.RateLimitMinutes)
	}
	if !got.RateLimitOpen(time.Now().Add(-time.Second), time.Now()) {
		t.Error("Expected zero rate limit to leave the window always open")
	}
}

func TestUpdateChat_RewritesFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `{
		"bot_owner_jid": "owner@s.whatsapp.net",
		"defaults": {"enabled": true, "delay_seconds": 300, "message": "away", "rate_limit_minutes": 15}
	}`)

	r, err := NewSettingsRepo(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	delay := 60
	err = r.UpdateChat(context.Background(), "chat@s.whatsapp.net", func(o *domain.ChatOverride) {
		o.DelaySeconds = &delay
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// The whole document is rewritten on every mutation
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read config back: %v", err)
	}
	var cfg domain.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("Failed to parse rewritten config: %v", err)
	}
	if cfg.OwnerJID != "owner@s.whatsapp.net" {
		t.Error("Expected owner to survive the rewrite")
	}
	o := cfg.Chats["chat@s.whatsapp.net"]
	if o == nil || o.DelaySeconds == nil || *o.DelaySeconds != 60 {
		t.Errorf("Expected persisted delay override, got %+v", o)
	}
}

func TestMarkReplied_PersistsTimestamp(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `{"bot_owner_jid": "owner@s.whatsapp.net"}`)

	r, err := NewSettingsRepo(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	at := time.Now().Truncate(time.Second)
	if err := r.MarkReplied(context.Background(), "chat@s.whatsapp.net", at); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Reload from disk: the rate limit survives restarts
	r2, err := NewSettingsRepo(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !r2.LastAutoReply("chat@s.whatsapp.net").Equal(at) {
		t.Errorf("Expected %v, got %v", at, r2.LastAutoReply("chat@s.whatsapp.net"))
	}
}

func TestEffective_OverrideMergedOverDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `{
		"bot_owner_jid": "owner@s.whatsapp.net",
		"defaults": {"enabled": true, "delay_seconds": 300, "message": "away", "rate_limit_minutes": 15},
		"chats": {"chat@s.whatsapp.net": {"enabled": false, "message": "custom"}}
	}`)

	r, err := NewSettingsRepo(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	got := r.Effective("chat@s.whatsapp.net")
	if got.Enabled {
		t.Error("Expected override to disable the chat")
	}
	if got.Message != "custom" {
		t.Errorf("Expected custom message, got %q", got.Message)
	}
	if got.DelaySeconds != 300 {
		t.Errorf("Expected default delay, got %d", got.DelaySeconds)
	}
}
