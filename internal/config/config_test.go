package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/at-ishikawa/langtable/internal/annotate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig() *Config {
	return &Config{
		Table: TableConfig{
			DescriptionColumn: "db_description_full",
			TextColumn:        "text",
			InputEncoding:     "latin1",
		},
		Translate: TranslateConfig{
			Provider:        "google",
			CredentialsFile: "private/key.json",
			BaseURL:         "https://translation.googleapis.com/language/translate",
			TargetLanguage:  "en",
			Timeout:         30 * time.Second,
		},
		Detect: OperationConfig{
			InitialDelay: 50 * time.Millisecond,
			Throttle:     50 * time.Millisecond,
		},
		Translation: OperationConfig{
			InitialDelay: 3 * time.Second,
			Throttle:     3 * time.Second,
		},
		Retry: RetryConfig{
			EscalatedDelay: 3 * time.Second,
			ReconnectDelay: 2 * time.Second,
			ReconnectAfter: 10,
			MaxAttempts:    13,
		},
		Verbose: true,
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name              string
		configContent     string
		useExplicitPath   bool
		env               map[string]string
		wantErr           bool
		want              func() *Config
		wantErrorContains []string
	}{
		{
			name:          "no config file uses defaults",
			configContent: "",
			want:          defaultConfig,
		},
		{
			name: "valid config file with custom values",
			configContent: `table:
  description_column: body_html
  text_column: body_text
  input_encoding: UTF-8
translate:
  credentials_file: secrets/google.json
  target_language: de
  timeout: 5s
detect:
  initial_delay: 100ms
  throttle: 0s
retry:
  max_attempts: 20
cache:
  directory: .cache
verbose: false
`,
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Table = TableConfig{
					DescriptionColumn: "body_html",
					TextColumn:        "body_text",
					InputEncoding:     "utf-8",
				}
				cfg.Translate.CredentialsFile = "secrets/google.json"
				cfg.Translate.TargetLanguage = "de"
				cfg.Translate.Timeout = 5 * time.Second
				cfg.Detect = OperationConfig{InitialDelay: 100 * time.Millisecond}
				cfg.Retry.MaxAttempts = 20
				cfg.Cache.Directory = ".cache"
				cfg.Verbose = false
				return cfg
			},
		},
		{
			name:            "explicit config file",
			configContent:   "translation:\n  throttle: 1s\n",
			useExplicitPath: true,
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Translation.Throttle = time.Second
				return cfg
			},
		},
		{
			name:          "credentials file from environment variable",
			configContent: "translate:\n  credentials_file: from/file.json\n",
			env:           map[string]string{"GOOGLE_TRANSLATE_CREDENTIALS": "from/env.json"},
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Translate.CredentialsFile = "from/env.json"
				return cfg
			},
		},
		{
			name: "invalid YAML format",
			configContent: `table:
  text_column: text
  invalid yaml format here [[[
`,
			wantErr: true,
			wantErrorContains: []string{
				"configuration file found but could not be read",
				"Please check the file format and permissions",
			},
		},
		{
			name:          "invalid duration",
			configContent: "detect:\n  throttle: soon\n",
			wantErr:       true,
			wantErrorContains: []string{
				"invalid configuration format",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GOOGLE_TRANSLATE_CREDENTIALS", "")
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			tempDir := t.TempDir()
			t.Setenv("HOME", tempDir)

			var configPath string
			if tt.useExplicitPath {
				configPath = filepath.Join(tempDir, "langtable.yml")
				err := os.WriteFile(configPath, []byte(tt.configContent), 0644)
				require.NoError(t, err)
			} else {
				if tt.configContent != "" {
					err := os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(tt.configContent), 0644)
					require.NoError(t, err)
				}
				origDir, err := os.Getwd()
				require.NoError(t, err)
				require.NoError(t, os.Chdir(tempDir))
				t.Cleanup(func() { _ = os.Chdir(origDir) })
				configPath = ""
			}

			got, err := Load(configPath)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				for _, wantMsg := range tt.wantErrorContains {
					assert.Contains(t, err.Error(), wantMsg)
				}
				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want(), got)
		})
	}
}

func TestLoad_ExplicitFileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration file found but could not be read")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name              string
		modify            func(cfg *Config)
		wantErrorContains []string
	}{
		{
			name:   "defaults are valid",
			modify: func(cfg *Config) {},
		},
		{
			name: "unsupported encoding",
			modify: func(cfg *Config) {
				cfg.Table.InputEncoding = "shift-jis"
			},
			wantErrorContains: []string{"input_encoding must be one of [latin1 utf-8]"},
		},
		{
			name: "unsupported provider and empty column",
			modify: func(cfg *Config) {
				cfg.Translate.Provider = "deepl"
				cfg.Table.TextColumn = ""
			},
			wantErrorContains: []string{
				"provider must be one of [google]",
				"text_column is a required field",
			},
		},
		{
			name: "max attempts not greater than reconnect after",
			modify: func(cfg *Config) {
				cfg.Retry.MaxAttempts = 10
			},
			wantErrorContains: []string{"max_attempts must be greater than ReconnectAfter"},
		},
		{
			name: "invalid base URL",
			modify: func(cfg *Config) {
				cfg.Translate.BaseURL = "not a url"
			},
			wantErrorContains: []string{"base_url must be a valid URL"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if len(tt.wantErrorContains) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
			for _, wantMsg := range tt.wantErrorContains {
				assert.Contains(t, err.Error(), wantMsg)
			}
		})
	}
}

func TestConfig_ValidateCredentials(t *testing.T) {
	dir := t.TempDir()
	readable := filepath.Join(dir, "key.json")
	require.NoError(t, os.WriteFile(readable, []byte(`{"api_key":"k"}`), 0600))

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "readable file", path: readable},
		{name: "missing file", path: filepath.Join(dir, "missing.json"), wantErr: true},
		{name: "directory", path: dir, wantErr: true},
		{name: "empty path", path: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Translate.CredentialsFile = tt.path

			err := cfg.ValidateCredentials()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "must be an existing and readable file")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestConfig_Policies(t *testing.T) {
	cfg := defaultConfig()
	assert.Equal(t, annotate.DetectPolicy(), cfg.DetectPolicy())
	assert.Equal(t, annotate.TranslatePolicy(), cfg.TranslatePolicy())

	cfg.Retry.MaxAttempts = 5
	cfg.Detect.InitialDelay = time.Second
	policy := cfg.DetectPolicy()
	assert.Equal(t, uint(5), policy.MaxAttempts)
	assert.Equal(t, time.Second, policy.Initial)
}

func TestConfig_Columns(t *testing.T) {
	cfg := defaultConfig()
	cfg.Table.TextColumn = "plain"

	columns := cfg.Columns()
	assert.Equal(t, "db_description_full", columns.Description)
	assert.Equal(t, "plain", columns.Text)
	assert.Equal(t, "lang_1", columns.PrimaryLanguage)
}
