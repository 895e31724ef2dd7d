package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Env            string   `mapstructure:"ENV"`
	DatabaseURL    string   `mapstructure:"DATABASE_URL"`
	DBMaxConns     int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
	GroqAPIKey     string   `mapstructure:"GROQ_API_KEY"`
	GroqBaseURL    string   `mapstructure:"GROQ_BASE_URL"`
	UploadDir      string   `mapstructure:"UPLOAD_DIR"`
	MaxUploadSize  string   `mapstructure:"MAX_UPLOAD_SIZE"`
	RequestTimeout int      `mapstructure:"REQUEST_TIMEOUT_SECONDS"`
	VisionModels   []string `mapstructure:"VISION_MODELS"`
	TextModels     []string `mapstructure:"TEXT_MODELS"`
	ChatModels     []string `mapstructure:"CHAT_MODELS"`
	RateLimitRPS   float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int      `mapstructure:"RATE_LIMIT_BURST"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("GROQ_BASE_URL", "https://api.groq.com/openai/v1")
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("MAX_UPLOAD_SIZE", "20M")
	v.SetDefault("REQUEST_TIMEOUT_SECONDS", 120)
	// Model fallback lists are ordered: the first entry is tried first, the
	// next entry is only used when the prior request itself fails.
	v.SetDefault("VISION_MODELS", "llama-3.2-11b-vision-preview,llama-3.2-90b-vision-preview")
	v.SetDefault("TEXT_MODELS", "llama-3.3-70b-versatile,llama3-70b-8192,llama-3.1-8b-instant")
	v.SetDefault("CHAT_MODELS", "llama-3.3-70b-versatile,llama-3.1-8b-instant")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("GROQ_API_KEY")
	v.BindEnv("GROQ_BASE_URL")
	v.BindEnv("UPLOAD_DIR")
	v.BindEnv("MAX_UPLOAD_SIZE")
	v.BindEnv("REQUEST_TIMEOUT_SECONDS")
	v.BindEnv("VISION_MODELS")
	v.BindEnv("TEXT_MODELS")
	v.BindEnv("CHAT_MODELS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Comma-separated env values arrive as single strings; normalize the
	// list-valued settings here.
	cfg.CORSOrigins = splitList(v.GetString("CORS_ORIGINS"))
	cfg.VisionModels = splitList(v.GetString("VISION_MODELS"))
	cfg.TextModels = splitList(v.GetString("TEXT_MODELS"))
	cfg.ChatModels = splitList(v.GetString("CHAT_MODELS"))

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.GroqAPIKey == "" {
		log.Println("WARNING: GROQ_API_KEY is not set. All model calls will fail")
		log.Println("WARNING: and every response will come from template fallbacks.")
	}

	return cfg, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is safe to run. The model lists must
// never be empty: the fallback chain needs at least one model to try before
// the template safety net takes over.
func (c *Config) Validate() error {
	if len(c.VisionModels) == 0 {
		return fmt.Errorf("VISION_MODELS must list at least one model")
	}
	if len(c.TextModels) == 0 {
		return fmt.Errorf("TEXT_MODELS must list at least one model")
	}
	if len(c.ChatModels) == 0 {
		return fmt.Errorf("CHAT_MODELS must list at least one model")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be positive, got %d", c.RequestTimeout)
	}
	if c.UploadDir == "" {
		return fmt.Errorf("UPLOAD_DIR is required")
	}
	return nil
}
