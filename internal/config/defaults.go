package config

import "time"

// requestTimeoutMargin is the headroom left for retrieval and response writing
// on top of a full provider rotation.
const requestTimeoutMargin = 5 * time.Second

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3000
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 60 * time.Second
	}
	if cfg.Knowledge.Dir == "" {
		cfg.Knowledge.Dir = "./knowledge"
	}
	if cfg.Knowledge.FallbackFile == "" {
		cfg.Knowledge.FallbackFile = "./knowledge.txt"
	}
	if len(cfg.Knowledge.Extensions) == 0 {
		cfg.Knowledge.Extensions = []string{".txt", ".md"}
	}
	if cfg.Knowledge.MaxVocab == 0 {
		cfg.Knowledge.MaxVocab = 400
	}
	if cfg.Knowledge.TopK == 0 {
		cfg.Knowledge.TopK = 3
	}
	if cfg.Providers.Google.Model == "" {
		cfg.Providers.Google.Model = "text-bison-001"
	}
	if cfg.Providers.Google.BaseURL == "" {
		cfg.Providers.Google.BaseURL = "https://generativelanguage.googleapis.com/v1beta2"
	}
	if cfg.Providers.OpenAI.Model == "" {
		cfg.Providers.OpenAI.Model = "gpt-3.5-turbo"
	}
	if cfg.Providers.HuggingFace.Model == "" {
		cfg.Providers.HuggingFace.Model = "google/flan-t5-large"
	}
	if cfg.Providers.HuggingFace.BaseURL == "" {
		cfg.Providers.HuggingFace.BaseURL = "https://api-inference.huggingface.co"
	}
	if cfg.Providers.Timeout == 0 {
		cfg.Providers.Timeout = 30 * time.Second
	}
	if cfg.Providers.MaxAttempts == 0 {
		cfg.Providers.MaxAttempts = 3
	}
	cfg.Server.RequestTimeout = cfg.RequestTimeout()
	if cfg.Booking.Backend == "" {
		cfg.Booking.Backend = "file"
	}
	if cfg.Booking.Path == "" {
		switch cfg.Booking.Backend {
		case "sqlite":
			cfg.Booking.Path = "./data/bookings.db"
		default:
			cfg.Booking.Path = "./bookings.json"
		}
	}
}

// RequestTimeout returns the HTTP request timeout, raised when needed so a chat
// request can wait for every provider attempt to time out in turn.
func (c *Config) RequestTimeout() time.Duration {
	timeout := c.Server.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if c.Providers.Timeout <= 0 || c.Providers.MaxAttempts <= 0 {
		return timeout
	}
	rotation := c.Providers.Timeout*time.Duration(c.Providers.MaxAttempts) + requestTimeoutMargin
	return max(timeout, rotation)
}
