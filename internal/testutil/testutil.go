// Package testutil provides shared test helpers for creating config files and table fixtures.
package testutil

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

// TestAPIKey is the key written into the credentials file of SetupTestConfig
const TestAPIKey = "test-key"

// ConfigOption configures optional fields of the generated config file.
type ConfigOption func(*testConfig)

type testConfig struct {
	baseURL        string
	cacheDirectory string
}

// WithBaseURL points the translation client at a test server.
func WithBaseURL(baseURL string) ConfigOption {
	return func(cfg *testConfig) {
		cfg.baseURL = baseURL
	}
}

// WithCacheDirectory enables the response cache.
func WithCacheDirectory(directory string) ConfigOption {
	return func(cfg *testConfig) {
		cfg.cacheDirectory = directory
	}
}

// SetupTestConfig creates a credentials file and a config file without any delay,
// so that a row fails after two attempts with one reconnect in between.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string, opts ...ConfigOption) string {
	t.Helper()

	cfg := testConfig{
		baseURL: "https://translation.googleapis.com/language/translate",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	credentialsPath := filepath.Join(tmpDir, "key.json")
	credentials := fmt.Sprintf(`{"api_key": %q}`, TestAPIKey)
	require.NoError(t, os.WriteFile(credentialsPath, []byte(credentials), 0600))

	configContent := fmt.Sprintf(`translate:
  credentials_file: %s
  base_url: %s
detect:
  initial_delay: 0s
  throttle: 0s
translation:
  initial_delay: 0s
  throttle: 0s
retry:
  escalated_delay: 0s
  reconnect_delay: 0s
  reconnect_after: 1
  max_attempts: 2
cache:
  directory: %q
verbose: false
`,
		credentialsPath,
		cfg.baseURL,
		cfg.cacheDirectory,
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// WriteLatin1CSV writes records as a CSV file encoded in ISO-8859-1.
// Every value must be representable in Latin-1.
func WriteLatin1CSV(t *testing.T, path string, records [][]string) {
	t.Helper()

	file, err := os.Create(path)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, file.Close())
	}()

	encoder := charmap.ISO8859_1.NewEncoder().Writer(file)
	writer := csv.NewWriter(encoder)
	require.NoError(t, writer.WriteAll(records))
	if closer, ok := encoder.(io.Closer); ok {
		require.NoError(t, closer.Close())
	}
}
