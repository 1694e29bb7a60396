// Package config loads the dungeongen YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/dungeongen/internal/database"
	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
)

// Output formats accepted by OutputConfig.Format.
const (
	FormatASCII = "ascii"
	FormatYAML  = "yaml"
	FormatJSON  = "json"
)

// Config is the whole configuration file. The logging section is read
// separately by logger.LoadConfig.
type Config struct {
	Generation dungeon.Config  `yaml:"generation"`
	Database   database.Config `yaml:"database"`
	Server     ServerConfig    `yaml:"server"`
	Output     OutputConfig    `yaml:"output"`
}

// ServerConfig holds HTTP and websocket settings.
type ServerConfig struct {
	Addr        string            `yaml:"addr"`
	WebSocket   WebSocketConfig   `yaml:"websocket"`
	Connections ConnectionsConfig `yaml:"connections"`
}

// ConnectionsConfig holds connection limit settings.
type ConnectionsConfig struct {
	// MaxPerIP is the maximum concurrent websocket connections from a single IP address.
	// 0 means unlimited.
	MaxPerIP int `yaml:"max_per_ip"`

	// MaxTotal is the maximum total concurrent websocket connections.
	// 0 means unlimited.
	MaxTotal int `yaml:"max_total"`
}

// WebSocketConfig holds WebSocket-specific settings.
type WebSocketConfig struct {
	// AllowedOrigins is a list of origins allowed to connect via WebSocket.
	// Empty list enforces same-origin policy.
	// Use "*" to allow all origins.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the maximum size of a generation request in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`
}

// OutputConfig controls how the CLI writes layouts.
type OutputConfig struct {
	Format string `yaml:"format"`
	Legend bool   `yaml:"legend"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Generation: dungeon.DefaultConfig(),
		Database:   database.DefaultConfig("data/layouts.db"),
		Server: ServerConfig{
			Addr: ":8080",
			WebSocket: WebSocketConfig{
				AllowedOrigins: []string{}, // Same-origin only by default
				MaxMessageSize: 16384,
			},
			Connections: ConnectionsConfig{
				MaxPerIP: 3,
				MaxTotal: 100,
			},
		},
		Output: OutputConfig{
			Format: FormatASCII,
			Legend: true,
		},
	}
}

// LoadConfig loads configuration from a YAML file over the defaults.
// A missing file (or an empty path) yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return config, nil
}

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Generation.Validate(); err != nil {
		errs = append(errs, err)
	}

	switch database.DialectType(c.Database.Driver) {
	case database.DialectSQLite, database.DialectPostgres:
	default:
		errs = append(errs, fmt.Errorf("database.driver %q must be sqlite or postgres", c.Database.Driver))
	}

	if !ValidFormat(c.Output.Format) {
		errs = append(errs, fmt.Errorf("output.format %q must be ascii, yaml or json", c.Output.Format))
	}

	if c.Server.WebSocket.MaxMessageSize < 0 {
		errs = append(errs, errors.New("server.websocket.max_message_size must not be negative"))
	}

	return errors.Join(errs...)
}

// ValidFormat reports whether format names a supported output format.
func ValidFormat(format string) bool {
	switch strings.ToLower(format) {
	case FormatASCII, FormatYAML, FormatJSON:
		return true
	}
	return false
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
// Returns true if:
// - AllowedOrigins contains "*" (allow all)
// - AllowedOrigins contains the exact origin
// - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *WebSocketConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	return false
}

// isSameOrigin checks if the origin matches the request host.
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // No origin header means a non-browser client
	}

	// "http://localhost:3000" -> "localhost:3000"
	originHost := origin
	if _, after, ok := strings.Cut(origin, "://"); ok {
		originHost = after
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return strings.EqualFold(originHost, requestHost)
}
