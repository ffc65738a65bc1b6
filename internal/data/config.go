package data

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/warelay/autoreply-bridge/internal/biz/domain"
	"github.com/warelay/autoreply-bridge/internal/biz/repo"
)

// settingsRepo implements the settings repository over a flat JSON file.
// Writes are serialized by the mutex and rewrite the whole document
// atomically, so an owner command never races a scheduled save.
type settingsRepo struct {
	path string

	mu  sync.RWMutex
	cfg *domain.Config
}

// NewSettingsRepo loads the config document. Missing file, malformed JSON or
// a missing owner JID are startup-fatal errors.
func NewSettingsRepo(path string) (repo.SettingsRepo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg domain.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return &settingsRepo{path: path, cfg: &cfg}, nil
}

// Owner returns the bot owner JID
func (r *settingsRepo) Owner() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg.OwnerJID
}

// Effective resolves the settings for a chat
func (r *settingsRepo) Effective(chatJID string) domain.ChatSettings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg.Effective(chatJID)
}

// LastAutoReply returns the persisted last auto-reply time for a chat
func (r *settingsRepo) LastAutoReply(chatJID string) time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg.LastAutoReply(chatJID)
}

// UpdateChat mutates a chat's override record and persists the document
func (r *settingsRepo) UpdateChat(ctx context.Context, chatJID string, mutate func(*domain.ChatOverride)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	mutate(r.cfg.Override(chatJID))
	return r.saveLocked()
}

// MarkReplied records an auto-reply send time for a chat and persists it
func (r *settingsRepo) MarkReplied(ctx context.Context, chatJID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg.Override(chatJID).LastAutoReplyTS = at.Unix()
	return r.saveLocked()
}

// Save rewrites the document
func (r *settingsRepo) Save(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveLocked()
}

// saveLocked writes the document to a temp file and renames it into place.
// Callers hold the write lock.
func (r *settingsRepo) saveLocked() error {
	data, err := json.MarshalIndent(r.cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".config-*.json")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp config: %w", err)
	}

	if err := os.Rename(tmpPath, r.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}
