package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvProject, EnvToken, EnvPytestKey, EnvHost, EnvTimeout} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	s, err := Load(Overrides{EnvFile: filepath.Join(t.TempDir(), "missing.env")})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Host != DefaultHost {
		t.Errorf("Host = %q, want %q", s.Host, DefaultHost)
	}
	if s.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", s.Timeout, DefaultTimeout)
	}
	if got := s.BaseURL(); got != "https://api.qase.io/v1" {
		t.Errorf("BaseURL() = %q", got)
	}
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	envFile := writeEnvFile(t, "QASE_PROJECT_CODE=FILE\nQASE_TOKEN=file-token\nQASE_PYTEST_API_KEY=file-key\nQASE_TIMEOUT=5\n")
	t.Setenv(EnvToken, "env-token")

	s, err := Load(Overrides{Project: "FLAG", EnvFile: envFile})
	if err != nil {
		t.Fatal(err)
	}
	if s.Project != "FLAG" {
		t.Errorf("Project = %q, want FLAG (flag beats file)", s.Project)
	}
	if s.Token != "env-token" {
		t.Errorf("Token = %q, want env-token (env beats file)", s.Token)
	}
	if s.PytestKey != "file-key" {
		t.Errorf("PytestKey = %q, want file-key", s.PytestKey)
	}
	if s.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", s.Timeout)
	}
	if _, ok := os.LookupEnv(EnvPytestKey); ok {
		t.Error("Load must not export .env values into the process environment")
	}
}

func TestParseTimeout(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"10", 10 * time.Second, false},
		{"1m30s", 90 * time.Second, false},
		{"250ms", 250 * time.Millisecond, false},
		{"0", 0, true},
		{"-5s", 0, true},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		got, err := parseTimeout(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseTimeout(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseTimeout(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoadBadTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvTimeout, "forever")
	if _, err := Load(Overrides{EnvFile: filepath.Join(t.TempDir(), "none")}); err == nil {
		t.Error("Load should reject an invalid QASE_TIMEOUT")
	}
}

func TestRequireAPI(t *testing.T) {
	tests := []struct {
		name string
		s    Settings
		want error
	}{
		{"ok", Settings{Project: "DEMO", Token: "t"}, nil},
		{"no project", Settings{Token: "t"}, ErrMissingProject},
		{"no token", Settings{Project: "DEMO"}, ErrMissingToken},
	}
	for _, tt := range tests {
		if err := tt.s.RequireAPI(); !errors.Is(err, tt.want) {
			t.Errorf("%s: RequireAPI() = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestBaseURL(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"qase.io", "https://api.qase.io/v1"},
		{"eu.qase.io", "https://api.eu.qase.io/v1"},
		{"http://127.0.0.1:8080/v1/", "http://127.0.0.1:8080/v1"},
	}
	for _, tt := range tests {
		if got := (Settings{Host: tt.host}).BaseURL(); got != tt.want {
			t.Errorf("BaseURL(%q) = %q, want %q", tt.host, got, tt.want)
		}
	}
}
