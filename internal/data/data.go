package data

import (
	"github.com/warelay/autoreply-bridge/internal/biz/repo"
	"github.com/warelay/autoreply-bridge/internal/infra/openai"
	"github.com/warelay/autoreply-bridge/internal/infra/wabridge"
)

// Repositories contains all repositories
type Repositories struct {
	Settings repo.SettingsRepo
	Message  repo.MessageRepo
	Composer repo.ComposerRepo
}

// NewRepositories creates all repositories
func NewRepositories(
	bridgeClient *wabridge.Client,
	composerClient *openai.Client,
	configPath string,
) (*Repositories, error) {
	settingsRepo, err := NewSettingsRepo(configPath)
	if err != nil {
		return nil, err
	}

	return &Repositories{
		Settings: settingsRepo,
		Message:  NewBridgeRepo(bridgeClient),
		Composer: NewComposerRepo(composerClient),
	}, nil
}
