package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var envKeys = []string{
	"GOOGLE_API_KEY", "GOOGLE_MODEL", "OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL",
	"HF_API_KEY", "HUGGINGFACE_API_KEY", "HF_MODEL", "BOOKING_URL", "BOOKING_DSN", "BOOKING_ADMIN_TOKEN",
	"KNOWLEDGE_DIR", "PORT", "TENANG_DEBUG",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
providers:
  timeout: 5s
  max_attempts: 2
booking:
  url: "https://example.org/book"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Providers.Timeout != 5*time.Second || cfg.Providers.MaxAttempts != 2 {
		t.Errorf("unexpected providers config: %+v", cfg.Providers)
	}
	if cfg.Booking.URL != "https://example.org/book" {
		t.Errorf("booking url: got %q", cfg.Booking.URL)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_missingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("default port: got %d", cfg.Server.Port)
	}
	if cfg.Knowledge.Dir != filepath.Join(dir, "knowledge") {
		t.Errorf("knowledge dir = %s", cfg.Knowledge.Dir)
	}
}

func TestLoad_invalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoad_envOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "4100")
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("TENANG_DEBUG", "true")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9000
providers:
  openai:
    api_key: "sk-file"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 4100 {
		t.Errorf("port: got %d, want 4100", cfg.Server.Port)
	}
	if cfg.Providers.OpenAI.APIKey != "sk-env" {
		t.Errorf("openai key: got %q", cfg.Providers.OpenAI.APIKey)
	}
	if !cfg.Debug {
		t.Error("debug should be enabled by TENANG_DEBUG")
	}
}

func TestLoad_expandPathRelativeToConfigDir(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
knowledge:
  dir: "./kb"
  fallback_file: "notes.txt"
booking:
  path: "/var/lib/tenang/bookings.json"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "kb"); cfg.Knowledge.Dir != want {
		t.Errorf("knowledge dir = %s, want %s", cfg.Knowledge.Dir, want)
	}
	if want := filepath.Join(dir, "notes.txt"); cfg.Knowledge.FallbackFile != want {
		t.Errorf("fallback file = %s, want %s", cfg.Knowledge.FallbackFile, want)
	}
	if cfg.Booking.Path != "/var/lib/tenang/bookings.json" {
		t.Errorf("absolute booking path should be kept, got %s", cfg.Booking.Path)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"HUGGINGFACE_API_KEY": "hf-long",
		"HF_MODEL":            "gpt2",
		"BOOKING_URL":         "https://book.example",
		"BOOKING_ADMIN_TOKEN": "s3cret",
	}
	cfg := &Config{}
	if err := ApplyEnv(cfg, func(k string) string { return env[k] }); err != nil {
		t.Fatal(err)
	}
	if cfg.Providers.HuggingFace.APIKey != "hf-long" {
		t.Errorf("hf key: got %q", cfg.Providers.HuggingFace.APIKey)
	}
	if cfg.Providers.HuggingFace.Model != "gpt2" {
		t.Errorf("hf model: got %q", cfg.Providers.HuggingFace.Model)
	}
	if cfg.Booking.URL != "https://book.example" {
		t.Errorf("booking url: got %q", cfg.Booking.URL)
	}
	if cfg.Booking.AdminToken != "s3cret" {
		t.Errorf("admin token: got %q", cfg.Booking.AdminToken)
	}

	env["HF_API_KEY"] = "hf-short"
	if err := ApplyEnv(cfg, func(k string) string { return env[k] }); err != nil {
		t.Fatal(err)
	}
	if cfg.Providers.HuggingFace.APIKey != "hf-short" {
		t.Errorf("HF_API_KEY should win over HUGGINGFACE_API_KEY, got %q", cfg.Providers.HuggingFace.APIKey)
	}
}

func TestApplyEnv_invalidPort(t *testing.T) {
	cfg := &Config{}
	err := ApplyEnv(cfg, func(k string) string {
		if k == "PORT" {
			return "eighty"
		}
		return ""
	})
	if err == nil {
		t.Error("expected error for non-numeric PORT")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Server.Port != 3000 {
		t.Errorf("default port: got %d", cfg.Server.Port)
	}
	if cfg.Knowledge.MaxVocab != 400 {
		t.Errorf("default max_vocab: got %d", cfg.Knowledge.MaxVocab)
	}
	if cfg.Knowledge.TopK != 3 {
		t.Errorf("default top_k: got %d", cfg.Knowledge.TopK)
	}
	if len(cfg.Knowledge.Extensions) != 2 || cfg.Knowledge.Extensions[0] != ".txt" {
		t.Errorf("extensions: got %v", cfg.Knowledge.Extensions)
	}
	if cfg.Providers.MaxAttempts != 3 {
		t.Errorf("default max_attempts: got %d", cfg.Providers.MaxAttempts)
	}
	if cfg.Providers.Timeout != 30*time.Second {
		t.Errorf("default provider timeout: got %s", cfg.Providers.Timeout)
	}
	if cfg.Booking.Backend != "file" || cfg.Booking.Path != "./bookings.json" {
		t.Errorf("booking defaults: got %+v", cfg.Booking)
	}
	if cfg.Booking.ExposeList {
		t.Error("booking list should not be exposed by default")
	}
}

func TestApplyDefaults_requestTimeoutCoversProviderRotation(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		expected time.Duration
	}{
		{"defaults", Config{}, 95 * time.Second},
		{
			"short request timeout raised",
			Config{
				Server:    ServerConfig{RequestTimeout: 600 * time.Millisecond},
				Providers: ProvidersConfig{Timeout: 300 * time.Millisecond, MaxAttempts: 3},
			},
			900*time.Millisecond + requestTimeoutMargin,
		},
		{
			"long request timeout kept",
			Config{
				Server:    ServerConfig{RequestTimeout: 5 * time.Minute},
				Providers: ProvidersConfig{Timeout: 10 * time.Second, MaxAttempts: 2},
			},
			5 * time.Minute,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			ApplyDefaults(&cfg)
			if cfg.Server.RequestTimeout != tt.expected {
				t.Errorf("request timeout: got %s, want %s", cfg.Server.RequestTimeout, tt.expected)
			}
			if got := cfg.RequestTimeout(); got != tt.expected {
				t.Errorf("RequestTimeout(): got %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestApplyDefaults_sqliteBookingPath(t *testing.T) {
	cfg := &Config{Booking: BookingConfig{Backend: "sqlite"}}
	ApplyDefaults(cfg)
	if cfg.Booking.Path != "./data/bookings.db" {
		t.Errorf("sqlite booking path: got %s", cfg.Booking.Path)
	}
}

func TestSave(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "saved.yaml")
	cfg := &Config{
		Server:    ServerConfig{Host: "localhost", Port: 9090},
		Knowledge: KnowledgeConfig{Dir: "/srv/kb"},
	}
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("loaded port: got %d", loaded.Server.Port)
	}
	if loaded.Knowledge.Dir != "/srv/kb" {
		t.Errorf("loaded knowledge dir: got %s", loaded.Knowledge.Dir)
	}
}
