package llm

import (
	"fmt"

	"github.com/sant0-9/railletter/internal/config"
)

// NewProvider creates a provider from config. The config is expected to have
// passed Validate.
func NewProvider(cfg *config.Config) (Provider, error) {
	info := config.GetProvider(cfg.Provider)
	if info == nil {
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}

	switch info.Kind {
	case config.KindGenerate:
		return NewGenerateProvider(cfg.ResolvedBaseURL(), cfg.ResolvedModel()), nil

	case config.KindChat:
		if info.NeedsAPIKey && cfg.APIKey == "" {
			return nil, fmt.Errorf("%s requires an API key: %w", info.ID, config.ErrMissingAPIKey)
		}
		baseURL := cfg.ResolvedBaseURL()
		if info.ID == "custom" && baseURL == "" {
			return nil, fmt.Errorf("custom provider requires base_url")
		}
		return NewChatProvider(info.ID, cfg.APIKey, baseURL, cfg.ResolvedModel()), nil

	default:
		return nil, fmt.Errorf("provider %s has unsupported kind %q", info.ID, info.Kind)
	}
}
