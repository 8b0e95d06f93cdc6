package config

import (
	"path/filepath"
	"testing"
)

func TestReadConfig(t *testing.T) {
	var (
		err         error
		projectRoot string
	)

	// Get the project root by going up from internal/config
	projectRoot, err = filepath.Abs("../../")
	if err != nil {
		t.Fatalf("failed to get project root: %v", err)
	}

	configPath := filepath.Join(projectRoot, "etc") + string(filepath.Separator)

	var cfg Config

	cfg, err = ReadConfig(configPath)
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	// Test basic config fields
	if cfg.Title == "" {
		t.Error("Config.Title should not be empty")
	}

	if cfg.Webserver.Port == 0 {
		t.Error("Webserver.Port should not be 0")
	}

	if cfg.Webserver.URL == "" {
		t.Error("Webserver.URL should not be empty")
	}

	// Test DB config
	if cfg.DB.Host == "" {
		t.Error("DB.Host should not be empty")
	}

	// Token TTL default applies when unset, and the configured value wins
	if cfg.Auth.TokenTTLDays == 0 {
		t.Error("Auth.TokenTTLDays should have a default")
	}

	if cfg.Auth.JWTSecret == "" {
		t.Error("Auth.JWTSecret should not be empty")
	}

	if cfg.Storage.Bucket == "" {
		t.Error("Storage.Bucket should not be empty")
	}
}

func TestValidate(t *testing.T) {
	base := Config{}
	base.Webserver.Port = 8080
	base.Webserver.URL = "http://localhost:8080"
	base.Auth.JWTSecret = "secret"

	tests := []struct {
		name    string
		mutate  func(c Config) Config
		wantErr error
	}{
		{
			name:   "valid",
			mutate: func(c Config) Config { return c },
		},
		{
			name: "zero port",
			mutate: func(c Config) Config {
				c.Webserver.Port = 0
				return c
			},
			wantErr: ErrWebServerPortCanNotBeZero,
		},
		{
			name: "empty url",
			mutate: func(c Config) Config {
				c.Webserver.URL = ""
				return c
			},
			wantErr: ErrEmptyURL,
		},
		{
			name: "empty jwt secret",
			mutate: func(c Config) Config {
				c.Auth.JWTSecret = ""
				return c
			},
			wantErr: ErrEmptyJWTSecret,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(tt.mutate(base))

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("validate() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Fatalf("validate() = nil, want %v", tt.wantErr)
			}
		})
	}
}
