package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/danielhkuo/reva-evote/auth"
	"github.com/danielhkuo/reva-evote/kvstore"
	"github.com/danielhkuo/reva-evote/manifesto"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	GeminiAPIKey string
	GeminiModel  string
	EmailDomain  string
}

// ParseFlags validates flags and fills gaps from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("reva-evote", flag.ContinueOnError)

	// Network and storage config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL (file path for sqlite, redis:// for redis)")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Store type (sqlite, postgres, redis or memory)")

	// Manifesto generation
	fs.StringVar(&cfg.GeminiAPIKey, "gemini-key", "", "Gemini API key (prefer env)")
	fs.StringVar(&cfg.GeminiModel, "gemini-model", "", "Gemini model name")

	fs.StringVar(&cfg.EmailDomain, "email-domain", "", "University email domain")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = kvstore.TypeSQLite
		}
	}
	switch cfg.DatabaseType {
	case kvstore.TypeSQLite, kvstore.TypePostgres, kvstore.TypeRedis, kvstore.TypeMemory:
	default:
		return Config{}, fmt.Errorf("unknown database type %q", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" && cfg.DatabaseType != kvstore.TypeMemory {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	// Optional: without a key every manifesto draft falls back
	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = os.Getenv("API_KEY")
	}

	if cfg.GeminiModel == "" {
		cfg.GeminiModel = os.Getenv("GEMINI_MODEL")
		if cfg.GeminiModel == "" {
			cfg.GeminiModel = manifesto.DefaultModel
		}
	}

	if cfg.EmailDomain == "" {
		cfg.EmailDomain = os.Getenv("EMAIL_DOMAIN")
		if cfg.EmailDomain == "" {
			cfg.EmailDomain = auth.DefaultEmailDomain
		}
	}

	return cfg, nil
}
