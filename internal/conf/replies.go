package conf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/warelay/autoreply-bridge/internal/service"
	"gopkg.in/yaml.v3"
)

// RepliesConfig contains the bot's canned texts, loaded from YAML
type RepliesConfig struct {
	Commands CommandReplies  `yaml:"commands"`
	Composer ComposerPrompts `yaml:"composer"`
}

// CommandReplies contains the owner-command response texts
type CommandReplies struct {
	Help          string `yaml:"help"`
	EnabledAck    string `yaml:"enabled_ack"`
	DisabledAck   string `yaml:"disabled_ack"`
	DelayAck      string `yaml:"delay_ack"`       // takes the delay in seconds
	DelayUsage    string `yaml:"delay_usage"`
	DelayTooShort string `yaml:"delay_too_short"` // takes the minimum in seconds
	MessageAck    string `yaml:"message_ack"`     // takes the new message text
	MessageUsage  string `yaml:"message_usage"`
	Unknown       string `yaml:"unknown"` // takes the unknown subcommand
}

// ComposerPrompts contains the optional LLM composer prompts
type ComposerPrompts struct {
	SystemPrompt string `yaml:"system_prompt"`
}

// DefaultRepliesConfig returns the built-in reply texts
func DefaultRepliesConfig() *RepliesConfig {
	return &RepliesConfig{
		Commands: CommandReplies{
			Help: "Available commands:\n" +
				"/autoreply on | off\n" +
				"/autoreply delay <seconds>\n" +
				"/autoreply message <text>\n" +
				"/autoreply status",
			EnabledAck:    "Auto-reply ENABLED for this chat.",
			DisabledAck:   "Auto-reply DISABLED for this chat.",
			DelayAck:      "Auto-reply delay set to %d seconds for this chat.",
			DelayUsage:    "Usage: /autoreply delay <seconds>",
			DelayTooShort: "Invalid delay. Must be >= %d seconds.",
			MessageAck:    "Auto-reply message set for this chat:\n'%s'",
			MessageUsage:  "Usage: /autoreply message <your message text>",
			Unknown:       "Unknown subcommand '%s'. Use /autoreply help.",
		},
		Composer: ComposerPrompts{
			SystemPrompt: "You write short auto-reply messages for an unavailable person. " +
				"Rewrite the given away-message so it briefly acknowledges the incoming " +
				"message, keeping the original meaning. Answer with the reply text only, " +
				"no quotes, at most two sentences. Never promise actions, never answer " +
				"questions on the person's behalf.",
		},
	}
}

// ToCommandReplies converts to the command service's reply set
func (c *RepliesConfig) ToCommandReplies() service.CommandReplies {
	return service.CommandReplies{
		Help:          c.Commands.Help,
		EnabledAck:    c.Commands.EnabledAck,
		DisabledAck:   c.Commands.DisabledAck,
		DelayAck:      c.Commands.DelayAck,
		DelayUsage:    c.Commands.DelayUsage,
		DelayTooShort: c.Commands.DelayTooShort,
		MessageAck:    c.Commands.MessageAck,
		MessageUsage:  c.Commands.MessageUsage,
		Unknown:       c.Commands.Unknown,
	}
}

// LoadRepliesConfig loads reply texts from a YAML file, falling back to the
// built-in defaults when no file is found
func LoadRepliesConfig(configPath string) (*RepliesConfig, error) {
	paths := []string{configPath}
	if configPath == "" {
		paths = []string{
			"configs/replies.yaml",
			"./configs/replies.yaml",
			"/etc/autoreply-bridge/replies.yaml",
		}
		if execPath, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Join(filepath.Dir(execPath), "configs", "replies.yaml"))
		}
	}

	var data []byte
	var loadedPath string
	var err error

	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			loadedPath = p
			break
		}
	}

	if data == nil {
		fmt.Println("[Config] No replies.yaml found, using defaults")
		return DefaultRepliesConfig(), nil
	}

	fmt.Printf("[Config] Loading replies from: %s\n", loadedPath)

	var config RepliesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse replies.yaml: %w", err)
	}

	config.fillDefaults()

	return &config, nil
}

// fillDefaults fills in default values for empty fields
func (c *RepliesConfig) fillDefaults() {
	defaults := DefaultRepliesConfig()

	if c.Commands.Help == "" {
		c.Commands.Help = defaults.Commands.Help
	}
	if c.Commands.EnabledAck == "" {
		c.Commands.EnabledAck = defaults.Commands.EnabledAck
	}
	if c.Commands.DisabledAck == "" {
		c.Commands.DisabledAck = defaults.Commands.DisabledAck
	}
	if c.Commands.DelayAck == "" {
		c.Commands.DelayAck = defaults.Commands.DelayAck
	}
	if c.Commands.DelayUsage == "" {
		c.Commands.DelayUsage = defaults.Commands.DelayUsage
	}
	if c.Commands.DelayTooShort == "" {
		c.Commands.DelayTooShort = defaults.Commands.DelayTooShort
	}
	if c.Commands.MessageAck == "" {
		c.Commands.MessageAck = defaults.Commands.MessageAck
	}
	if c.Commands.MessageUsage == "" {
		c.Commands.MessageUsage = defaults.Commands.MessageUsage
	}
	if c.Commands.Unknown == "" {
		c.Commands.Unknown = defaults.Commands.Unknown
	}
	if c.Composer.SystemPrompt == "" {
		c.Composer.SystemPrompt = defaults.Composer.SystemPrompt
	}
}
