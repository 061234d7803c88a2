package config

import (
	"fmt"
	"time"

	"github.com/pithecene-io/courier/transport"
)

// Config represents a courier.yaml configuration file.
// All values are optional and act as defaults for courier send flags.
// CLI flags always override config values.
type Config struct {
	Transport TransportConfig `yaml:"transport"`
}

// TransportConfig holds transport defaults from the config file.
// The recognized fields per kind match the builder documentation
// reported by courier kinds.
type TransportConfig struct {
	Kind    string            `yaml:"kind"`
	APIKey  string            `yaml:"api_key,omitempty"`
	URL     string            `yaml:"url,omitempty"`
	Channel string            `yaml:"channel,omitempty"`
	Bucket  string            `yaml:"bucket,omitempty"`
	Region  string            `yaml:"region,omitempty"`
	Prefix  string            `yaml:"prefix,omitempty"`
	Path    string            `yaml:"path,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Timeout Duration          `yaml:"timeout,omitempty"`
	Retries *int              `yaml:"retries,omitempty"`
}

// Settings converts the config section into a transport settings bundle.
func (t TransportConfig) Settings() transport.Settings {
	return transport.Settings{
		APIKey:  t.APIKey,
		URL:     t.URL,
		Channel: t.Channel,
		Bucket:  t.Bucket,
		Region:  t.Region,
		Prefix:  t.Prefix,
		Path:    t.Path,
		Headers: t.Headers,
		Timeout: t.Timeout.Duration,
		Retries: t.Retries,
	}
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}
