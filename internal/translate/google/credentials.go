package google

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/at-ishikawa/langtable/internal/translate"
)

// Credentials is the content of the credentials file
type Credentials struct {
	APIKey string `json:"api_key"`
}

func LoadCredentials(path string) (Credentials, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}

	var credentials Credentials
	if err := json.Unmarshal(contents, &credentials); err != nil {
		return Credentials{}, fmt.Errorf("json.Unmarshal(%s) > %w", path, err)
	}
	if credentials.APIKey == "" {
		return Credentials{}, fmt.Errorf("api_key is empty in %s", path)
	}
	return credentials, nil
}

type FactoryConfig struct {
	CredentialsFile string
	BaseURL         string
	Timeout         time.Duration
}

// NewFactory returns a translate.Factory that reads the credentials file each
// time a client is built, so a rebuilt client picks up a rotated key.
func NewFactory(cfg FactoryConfig) translate.Factory {
	return func(ctx context.Context) (translate.Client, error) {
		credentials, err := LoadCredentials(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("LoadCredentials > %w", err)
		}
		return NewClient(credentials.APIKey, cfg.BaseURL, cfg.Timeout), nil
	}
}
