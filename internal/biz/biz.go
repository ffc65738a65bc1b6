package biz

import (
	"github.com/warelay/autoreply-bridge/internal/biz/usecase"
)

// Usecases contains all usecases
type Usecases struct {
	Settings *usecase.SettingsUsecase
	Composer *usecase.ComposerUsecase
}
