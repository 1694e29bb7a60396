package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
	if len(cfg.Server.WebSocket.AllowedOrigins) != 0 {
		t.Errorf("expected empty allowed origins by default, got %v", cfg.Server.WebSocket.AllowedOrigins)
	}
	if cfg.Server.Connections.MaxPerIP != 3 {
		t.Errorf("MaxPerIP = %d, want 3", cfg.Server.Connections.MaxPerIP)
	}
	if cfg.Generation.Width != 50 || cfg.Generation.NumberOfRooms != 10 {
		t.Errorf("Generation = %+v, want dungeon defaults", cfg.Generation)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.Output.Format != FormatASCII {
		t.Errorf("Output.Format = %q, want %q", cfg.Output.Format, FormatASCII)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for missing file, got %v", err)
	}
	if cfg == nil {
		t.Fatal("expected default config for missing file, got nil")
	}
	if cfg.Generation.NumberOfRooms != dungeon.DefaultConfig().NumberOfRooms {
		t.Errorf("expected default generation settings")
	}

	if cfg, err := LoadConfig(""); err != nil || cfg == nil {
		t.Errorf("LoadConfig(\"\") = %v, %v; want defaults", cfg, err)
	}
}

func TestLoadConfig_ValidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "dungeongen.yaml")

	content := `
generation:
  width: 80
  height: 40
  number_of_rooms: 14
  furnish:
    boss_kind: lich
database:
  driver: postgres
  postgres:
    host: db.internal
server:
  addr: ":9000"
  websocket:
    allowed_origins:
      - "https://example.com"
      - "http://localhost:3000"
    max_message_size: 8192
output:
  format: json
logging:
  level: DEBUG
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Generation.Width != 80 || cfg.Generation.Height != 40 || cfg.Generation.NumberOfRooms != 14 {
		t.Errorf("Generation = %+v", cfg.Generation)
	}
	// Unset keys keep their defaults.
	if cfg.Generation.MinRoomSize != dungeon.DefaultConfig().MinRoomSize {
		t.Errorf("MinRoomSize = %d, want default", cfg.Generation.MinRoomSize)
	}
	if cfg.Generation.Furnish.BossKind != "lich" {
		t.Errorf("BossKind = %q, want lich", cfg.Generation.Furnish.BossKind)
	}
	if !cfg.Generation.Furnish.UseDoors {
		t.Error("UseDoors default lost")
	}
	if cfg.Database.Driver != "postgres" || cfg.Database.Postgres.Host != "db.internal" {
		t.Errorf("Database = %+v", cfg.Database)
	}
	if cfg.Database.Postgres.Port != 5432 {
		t.Errorf("Postgres.Port = %d, want default 5432", cfg.Database.Postgres.Port)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if len(cfg.Server.WebSocket.AllowedOrigins) != 2 {
		t.Errorf("expected 2 allowed origins, got %d", len(cfg.Server.WebSocket.AllowedOrigins))
	}
	if cfg.Server.WebSocket.MaxMessageSize != 8192 {
		t.Errorf("expected max message size 8192, got %d", cfg.Server.WebSocket.MaxMessageSize)
	}
	if cfg.Output.Format != FormatJSON {
		t.Errorf("Output.Format = %q, want json", cfg.Output.Format)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(configPath, []byte("generation: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err == nil {
		t.Error("expected a parse error")
	}
	if cfg == nil || cfg.Generation.Width != 50 {
		t.Errorf("expected defaults alongside the error, got %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"postgres driver", func(c *Config) { c.Database.Driver = "postgres" }, false},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, true},
		{"unknown format", func(c *Config) { c.Output.Format = "svg" }, true},
		{"uppercase format", func(c *Config) { c.Output.Format = "JSON" }, false},
		{"negative message size", func(c *Config) { c.Server.WebSocket.MaxMessageSize = -1 }, true},
		{"bad generation", func(c *Config) { c.Generation.MinRoomSize = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Generation.Width = 0
	if err := cfg.Validate(); !errors.Is(err, dungeon.ErrInvalidConfig) {
		t.Errorf("Validate() = %v, want it to wrap dungeon.ErrInvalidConfig", err)
	}
}

func TestIsOriginAllowed_EmptyList_SameOrigin(t *testing.T) {
	cfg := WebSocketConfig{
		AllowedOrigins: []string{},
	}

	// Same origin (no Origin header)
	if !cfg.IsOriginAllowed("", "localhost:8080") {
		t.Error("expected empty origin to be allowed (same-origin)")
	}

	// Same origin (matching host)
	if !cfg.IsOriginAllowed("http://localhost:8080", "localhost:8080") {
		t.Error("expected matching origin to be allowed (same-origin)")
	}

	// Different origin should be rejected
	if cfg.IsOriginAllowed("http://evil.com", "localhost:8080") {
		t.Error("expected different origin to be rejected (same-origin policy)")
	}
}

func TestIsOriginAllowed_Wildcard(t *testing.T) {
	cfg := WebSocketConfig{
		AllowedOrigins: []string{"*"},
	}

	// Wildcard allows everything
	if !cfg.IsOriginAllowed("http://anything.com", "localhost:8080") {
		t.Error("expected wildcard to allow any origin")
	}

	if !cfg.IsOriginAllowed("", "localhost:8080") {
		t.Error("expected wildcard to allow empty origin")
	}
}

func TestIsOriginAllowed_ExactMatch(t *testing.T) {
	cfg := WebSocketConfig{
		AllowedOrigins: []string{
			"https://example.com",
			"http://localhost:3000",
		},
	}

	// Exact matches
	if !cfg.IsOriginAllowed("https://example.com", "localhost:8080") {
		t.Error("expected exact match to be allowed")
	}

	if !cfg.IsOriginAllowed("http://localhost:3000", "localhost:8080") {
		t.Error("expected exact match to be allowed")
	}

	// Non-matching origin
	if cfg.IsOriginAllowed("http://evil.com", "localhost:8080") {
		t.Error("expected non-matching origin to be rejected")
	}

	// Partial match should not work
	if cfg.IsOriginAllowed("https://example.com:8080", "localhost:8080") {
		t.Error("expected partial match to be rejected")
	}
}

func TestIsSameOrigin(t *testing.T) {
	tests := []struct {
		origin      string
		requestHost string
		expected    bool
	}{
		{"", "localhost:8080", true},                       // No origin header
		{"http://localhost:8080", "localhost:8080", true},  // HTTP match
		{"https://localhost:8080", "localhost:8080", true}, // HTTPS match
		{"http://localhost:8080/", "localhost:8080", true}, // Trailing slash
		{"http://LOCALHOST:8080", "localhost:8080", true},  // Host case
		{"http://example.com", "localhost:8080", false},    // Different host
		{"http://localhost:3000", "localhost:8080", false}, // Different port
		{"ws://localhost:8080", "localhost:8080", true},    // WebSocket scheme
	}

	for _, tt := range tests {
		result := isSameOrigin(tt.origin, tt.requestHost)
		if result != tt.expected {
			t.Errorf("isSameOrigin(%q, %q) = %v, want %v",
				tt.origin, tt.requestHost, result, tt.expected)
		}
	}
}
