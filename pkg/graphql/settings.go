package graphql

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings configures a client and its transport. All fields have usable
// zero values except Endpoint.
type Settings struct {
	// Endpoint is the HTTP URL queries and mutations are posted to.
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// WSEndpoint is the websocket URL used for subscriptions. Defaults
	// to Endpoint.
	WSEndpoint string `json:"wsEndpoint,omitempty" yaml:"wsEndpoint,omitempty"`

	// Subprotocols are the subscription protocols offered during the
	// websocket handshake, in preference order.
	Subprotocols []string `json:"subprotocols,omitempty" yaml:"subprotocols,omitempty"`

	// Headers are added to every HTTP request and to the websocket
	// handshake.
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`

	// Timeout bounds a single query/mutation round trip. Zero means no
	// client-side bound beyond the context.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// LogLevel and LogFormat configure the default logger ("debug",
	// "info", ... / "text", "json").
	LogLevel  string `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
	LogFormat string `json:"logFormat,omitempty" yaml:"logFormat,omitempty"`
}

// Validate checks the settings and fills defaults.
func (s *Settings) Validate() error {
	if s.Endpoint == "" {
		return fmt.Errorf("settings: endpoint is required")
	}
	if s.WSEndpoint == "" {
		s.WSEndpoint = s.Endpoint
	}
	return nil
}

// LoadSettings reads settings from a YAML file.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse settings file %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
