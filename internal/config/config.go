// Package config resolves process settings for talking to Qase: explicit
// flag values first, then the environment, then a .env file, then defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvProject   = "QASE_PROJECT_CODE"
	EnvToken     = "QASE_TOKEN"
	EnvPytestKey = "QASE_PYTEST_API_KEY"
	EnvHost      = "QASE_HOST"
	EnvTimeout   = "QASE_TIMEOUT"
)

const (
	DefaultHost    = "qase.io"
	DefaultTimeout = 30 * time.Second
	DefaultEnvFile = ".env"
)

var (
	ErrMissingProject = errors.New("project code is required (--project or " + EnvProject + ")")
	ErrMissingToken   = errors.New("API token is required (--token or " + EnvToken + ")")
)

// Overrides are values given explicitly, usually from flags. Zero values
// are unset.
type Overrides struct {
	Project   string
	Token     string
	PytestKey string
	Host      string
	Timeout   time.Duration
	// EnvFile defaults to .env in the working directory. A missing file
	// is not an error.
	EnvFile string
}

// Settings are the resolved values.
type Settings struct {
	Project   string
	Token     string
	PytestKey string
	Host      string
	Timeout   time.Duration
}

// BaseURL returns the API root for Host. A host that already carries a
// scheme is used as the root verbatim.
func (s Settings) BaseURL() string {
	if strings.Contains(s.Host, "://") {
		return strings.TrimRight(s.Host, "/")
	}
	return "https://api." + s.Host + "/v1"
}

// RequireAPI checks the values every API call needs.
func (s Settings) RequireAPI() error {
	if s.Project == "" {
		return ErrMissingProject
	}
	if s.Token == "" {
		return ErrMissingToken
	}
	return nil
}

// Load resolves settings from o, the process environment and the env file.
func Load(o Overrides) (Settings, error) {
	path := o.EnvFile
	if path == "" {
		path = DefaultEnvFile
	}
	file, err := readEnvFile(path)
	if err != nil {
		return Settings{}, err
	}
	return resolve(o, func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return file[key]
	})
}

func readEnvFile(path string) (map[string]string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	vals, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return vals, nil
}

func resolve(o Overrides, getenv func(string) string) (Settings, error) {
	pick := func(explicit, key string) string {
		if explicit != "" {
			return explicit
		}
		return strings.TrimSpace(getenv(key))
	}

	s := Settings{
		Project:   pick(o.Project, EnvProject),
		Token:     pick(o.Token, EnvToken),
		PytestKey: pick(o.PytestKey, EnvPytestKey),
		Host:      pick(o.Host, EnvHost),
		Timeout:   o.Timeout,
	}
	if s.Host == "" {
		s.Host = DefaultHost
	}
	if s.Timeout == 0 {
		if raw := strings.TrimSpace(getenv(EnvTimeout)); raw != "" {
			d, err := parseTimeout(raw)
			if err != nil {
				return Settings{}, fmt.Errorf("%s: %w", EnvTimeout, err)
			}
			s.Timeout = d
		}
	}
	if s.Timeout == 0 {
		s.Timeout = DefaultTimeout
	}
	return s, nil
}

// parseTimeout accepts a Go duration ("45s") or a bare number of seconds.
func parseTimeout(raw string) (time.Duration, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("timeout must be positive, got %d", n)
		}
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q", raw)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %s", d)
	}
	return d, nil
}
