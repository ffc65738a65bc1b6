package conf

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config represents process configuration (environment variables).
// The per-chat auto-reply settings live in the JSON config document, not here.
type Config struct {
	// Path to the JSON config document
	ConfigPath string

	// Bridge configuration
	Bridge BridgeConfig

	// Composer configuration (optional)
	Composer ComposerConfig

	// Chats that never receive auto-replies, in addition to broadcast JIDs
	ExcludedChats []string

	// Debug mode
	Debug bool
}

// BridgeConfig contains WhatsApp bridge configuration
type BridgeConfig struct {
	APIURL       string        // bridge REST API base URL
	DBPath       string        // bridge message store (sqlite)
	UseWebsocket bool          // subscribe to the bridge event stream instead of polling
	PollInterval time.Duration // message store poll interval
}

// ComposerConfig contains the optional LLM composer configuration
type ComposerConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}

	apiURL := os.Getenv("BRIDGE_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}

	dbPath := os.Getenv("BRIDGE_DB_PATH")
	if dbPath == "" {
		homeDir, _ := os.UserHomeDir()
		dbPath = filepath.Join(homeDir, ".whatsapp-bridge", "store", "messages.db")
	}

	pollInterval := 1 * time.Second
	if val := os.Getenv("POLL_INTERVAL_SECONDS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			pollInterval = time.Duration(parsed) * time.Second
		}
	}

	var excluded []string
	for _, jid := range strings.Split(os.Getenv("EXCLUDED_CHATS"), ",") {
		jid = strings.TrimSpace(jid)
		if jid != "" {
			excluded = append(excluded, jid)
		}
	}

	return &Config{
		ConfigPath: configPath,
		Bridge: BridgeConfig{
			APIURL:       apiURL,
			DBPath:       dbPath,
			UseWebsocket: os.Getenv("BRIDGE_WS") == "true",
			PollInterval: pollInterval,
		},
		Composer: ComposerConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
			Model:   os.Getenv("OPENAI_MODEL"),
		},
		ExcludedChats: excluded,
		Debug:         os.Getenv("DEBUG") == "true",
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.ConfigPath == "" {
		return &ConfigError{Field: "CONFIG_PATH", Message: "required"}
	}
	if c.Bridge.APIURL == "" {
		return &ConfigError{Field: "BRIDGE_API_URL", Message: "required"}
	}
	if c.Bridge.DBPath == "" && !c.Bridge.UseWebsocket {
		return &ConfigError{Field: "BRIDGE_DB_PATH", Message: "required when polling"}
	}
	if c.Bridge.PollInterval <= 0 {
		return &ConfigError{Field: "POLL_INTERVAL_SECONDS", Message: "must be positive"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
