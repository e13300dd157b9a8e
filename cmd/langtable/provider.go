package main

import (
	"fmt"

	"github.com/at-ishikawa/langtable/internal/config"
	"github.com/at-ishikawa/langtable/internal/translate"
	"github.com/at-ishikawa/langtable/internal/translate/cache"
	"github.com/at-ishikawa/langtable/internal/translate/google"
	"github.com/spf13/pflag"
)

type Provider string

func (p *Provider) Set(val string) error {
	for _, provider := range allProviders {
		if val == string(provider) {
			*p = provider
			return nil
		}
	}
	return fmt.Errorf("invalid provider: %s", val)
}

func (p Provider) String() string {
	return string(p)
}

func (p *Provider) Type() string {
	return "Provider"
}

const (
	ProviderGoogle Provider = "google"
)

var (
	_            pflag.Value = (*Provider)(nil)
	allProviders             = []Provider{ProviderGoogle}
)

// newFactory returns the factory of the provider's clients.
// Responses are cached when a cache directory is configured.
func newFactory(cfg *config.Config, provider Provider) (translate.Factory, error) {
	var factory translate.Factory
	switch provider {
	case ProviderGoogle:
		if err := cfg.ValidateCredentials(); err != nil {
			return nil, err
		}
		factory = google.NewFactory(google.FactoryConfig{
			CredentialsFile: cfg.Translate.CredentialsFile,
			BaseURL:         cfg.Translate.BaseURL,
			Timeout:         cfg.Translate.Timeout,
		})
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}

	if cfg.Cache.Directory != "" {
		factory = cache.Factory(cfg.Cache.Directory, factory)
	}
	return factory, nil
}
