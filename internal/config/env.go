package config

import (
	"fmt"
	"strconv"
)

// ApplyEnv overrides cfg with values from the environment. Credentials are
// expected to come from here rather than the config file. getenv is usually
// os.Getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	setString := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := getenv(k); v != "" {
				*dst = v
				return
			}
		}
	}
	setString(&cfg.Providers.Google.APIKey, "GOOGLE_API_KEY")
	setString(&cfg.Providers.Google.Model, "GOOGLE_MODEL")
	setString(&cfg.Providers.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&cfg.Providers.OpenAI.Model, "OPENAI_MODEL")
	setString(&cfg.Providers.OpenAI.BaseURL, "OPENAI_BASE_URL")
	setString(&cfg.Providers.HuggingFace.APIKey, "HF_API_KEY", "HUGGINGFACE_API_KEY")
	setString(&cfg.Providers.HuggingFace.Model, "HF_MODEL")
	setString(&cfg.Booking.URL, "BOOKING_URL")
	setString(&cfg.Booking.DSN, "BOOKING_DSN")
	setString(&cfg.Booking.AdminToken, "BOOKING_ADMIN_TOKEN")
	setString(&cfg.Knowledge.Dir, "KNOWLEDGE_DIR")

	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 {
			return fmt.Errorf("invalid PORT %q", v)
		}
		cfg.Server.Port = port
	}
	if v := getenv("TENANG_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid TENANG_DEBUG %q: %w", v, err)
		}
		cfg.Debug = debug
	}
	return nil
}
