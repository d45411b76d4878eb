package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load(func(string) string { return "" })

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.DataBackend != "sqlite" {
		t.Errorf("DataBackend = %q, want sqlite", cfg.DataBackend)
	}
	if cfg.TokenDuration != 24*time.Hour {
		t.Errorf("TokenDuration = %s, want 24h", cfg.TokenDuration)
	}
}

func TestLoadFromEnv(t *testing.T) {
	env := map[string]string{
		"PORT":           "9999",
		"DATA_BACKEND":   "memory",
		"JWT_SECRET":     "test-secret",
		"TOKEN_DURATION": "1h",
	}
	cfg := Load(func(key string) string { return env[key] })

	if cfg.Port != "9999" {
		t.Errorf("Port = %q, want 9999", cfg.Port)
	}
	if cfg.DataBackend != "memory" {
		t.Errorf("DataBackend = %q, want memory", cfg.DataBackend)
	}
	if cfg.JWTSecret != "test-secret" {
		t.Errorf("JWTSecret = %q, want test-secret", cfg.JWTSecret)
	}
	if cfg.TokenDuration != time.Hour {
		t.Errorf("TokenDuration = %s, want 1h", cfg.TokenDuration)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errorString string
	}{
		{
			name: "valid sqlite config",
			config: Config{
				Port:          "8080",
				DataBackend:   "sqlite",
				SQLiteDBPath:  "./test.db",
				JWTSecret:     "secret",
				TokenDuration: time.Hour,
			},
			wantErr: false,
		},
		{
			name: "valid memory config",
			config: Config{
				Port:          "8080",
				DataBackend:   "memory",
				JWTSecret:     "secret",
				TokenDuration: time.Hour,
			},
			wantErr: false,
		},
		{
			name: "invalid port - non-numeric",
			config: Config{
				Port:          "abc",
				DataBackend:   "memory",
				JWTSecret:     "secret",
				TokenDuration: time.Hour,
			},
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name: "invalid port - out of range",
			config: Config{
				Port:          "70000",
				DataBackend:   "memory",
				JWTSecret:     "secret",
				TokenDuration: time.Hour,
			},
			wantErr:     true,
			errorString: "invalid port 70000",
		},
		{
			name: "unknown backend",
			config: Config{
				Port:          "8080",
				DataBackend:   "postgres",
				JWTSecret:     "secret",
				TokenDuration: time.Hour,
			},
			wantErr:     true,
			errorString: "invalid data backend 'postgres'",
		},
		{
			name: "sqlite without db path",
			config: Config{
				Port:          "8080",
				DataBackend:   "sqlite",
				JWTSecret:     "secret",
				TokenDuration: time.Hour,
			},
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
		{
			name: "missing jwt secret",
			config: Config{
				Port:          "8080",
				DataBackend:   "memory",
				TokenDuration: time.Hour,
			},
			wantErr:     true,
			errorString: "JWT_SECRET is required",
		},
		{
			name: "non-positive token duration",
			config: Config{
				Port:        "8080",
				DataBackend: "memory",
				JWTSecret:   "secret",
			},
			wantErr:     true,
			errorString: "invalid token duration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("Validate() error = %q, want substring %q", err.Error(), tt.errorString)
			}
		})
	}
}
