package models

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML accepts values like "30s" or "10m".
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config holds runtime configuration. Every field has a default so an
// absent config file still yields a working setup.
type Config struct {
	// Proxy endpoints tried in order by the fetcher. Each value is a URL
	// prefix the target URL is appended to, query-escaped.
	ProxyEndpoints []string `yaml:"proxy_endpoints"`

	FetchRetries    int      `yaml:"fetch_retries"`
	FetchRetryDelay Duration `yaml:"fetch_retry_delay"`
	FetchTimeout    Duration `yaml:"fetch_timeout"`
	CompetitorDelay Duration `yaml:"competitor_delay"`
	WorkerCount     int      `yaml:"worker_count"`
	CacheTTL        Duration `yaml:"cache_ttl"`
	DatabasePath    string   `yaml:"database_path"`
	ListenAddr      string   `yaml:"listen_addr"`

	Serp SerpConfig `yaml:"serp"`
}

// SerpConfig configures the third-party SERP provider. Credentials come
// from the environment, not the config file.
type SerpConfig struct {
	APIURL       string `yaml:"api_url"`
	LocationCode int    `yaml:"location_code"`
	LanguageCode string `yaml:"language_code"`
	Depth        int    `yaml:"depth"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		ProxyEndpoints: []string{
			"https://api.allorigins.win/raw?url=",
			"https://corsproxy.io/?",
			"https://api.codetabs.com/v1/proxy?quest=",
		},
		FetchRetries:    3,
		FetchRetryDelay: Duration(time.Second),
		FetchTimeout:    Duration(10 * time.Second),
		CompetitorDelay: Duration(2 * time.Second),
		WorkerCount:     4,
		CacheTTL:        Duration(5 * time.Minute),
		DatabasePath:    "seoscope.db",
		ListenAddr:      ":8080",
		Serp: SerpConfig{
			APIURL:       "https://api.dataforseo.com/v3/serp/google/organic/live/advanced",
			LocationCode: 2804,
			LanguageCode: "uk",
			Depth:        10,
		},
	}
}

// LoadConfig reads a YAML config file and overlays it on the defaults.
// A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if config.FetchRetries <= 0 {
		config.FetchRetries = 3
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = 4
	}

	return config, nil
}
