package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/lorenzotomasdiez/werewolf/internal/chat"
)

const (
	ProviderGroq       = "groq"
	ProviderOpenRouter = "openrouter"
	ProviderNone       = "none"

	DefaultGroqModel = "llama-3.3-70b-versatile"
)

type Config struct {
	Provider        string
	APIKey          string
	BaseURL         string
	Model           string // empty lets each seat pick a free model (OpenRouter)
	Players         int
	Wolves          int
	StrategyTimeout time.Duration
	OutputDir       string
	PersonaFile     string
	Addr            string
	LogLevel        string
}

// Remote reports whether AI seats talk to a provider.
func (c *Config) Remote() bool {
	return c.Provider != ProviderNone
}

// KeyEnv names the environment variable holding the API key for provider.
// An unset provider resolves to Groq, the first one Read looks for.
func KeyEnv(provider string) string {
	if strings.EqualFold(strings.TrimSpace(provider), ProviderOpenRouter) {
		return "OPENROUTER_API_KEY"
	}
	return "GROQ_API_KEY"
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read reads the configuration from the environment without validating it,
// so callers can apply overrides first.
func Read() (*Config, error) {
	provider := strings.ToLower(strings.TrimSpace(os.Getenv("WEREWOLF_PROVIDER")))
	if provider == "" {
		switch {
		case os.Getenv("GROQ_API_KEY") != "":
			provider = ProviderGroq
		case os.Getenv("OPENROUTER_API_KEY") != "":
			provider = ProviderOpenRouter
		default:
			provider = ProviderNone
		}
	}

	cfg := &Config{
		Provider:    provider,
		Model:       os.Getenv("WEREWOLF_MODEL"),
		OutputDir:   envString("WEREWOLF_OUTPUT_DIR", "output"),
		PersonaFile: os.Getenv("WEREWOLF_PERSONAS"),
		Addr:        envString("WEREWOLF_ADDR", ":8080"),
		LogLevel:    envString("LOG_LEVEL", "info"),
	}

	switch provider {
	case ProviderGroq:
		cfg.APIKey = os.Getenv(KeyEnv(provider))
		cfg.BaseURL = chat.GroqURL
		if cfg.Model == "" {
			cfg.Model = DefaultGroqModel
		}
	case ProviderOpenRouter:
		cfg.APIKey = os.Getenv(KeyEnv(provider))
		cfg.BaseURL = chat.OpenRouterURL
	case ProviderNone:
	default:
		return nil, fmt.Errorf("config: unknown WEREWOLF_PROVIDER %q", provider)
	}

	var err error
	if cfg.Players, err = envInt("WEREWOLF_PLAYERS", 10); err != nil {
		return nil, err
	}
	if cfg.Wolves, err = envInt("WEREWOLF_WOLVES", 2); err != nil {
		return nil, err
	}
	if cfg.StrategyTimeout, err = envDuration("WEREWOLF_STRATEGY_TIMEOUT", 20*time.Second); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values Load and command-line overrides produce. Role
// feasibility is left to game.NewSession.
func (c *Config) Validate() error {
	if c.Players < 3 {
		return fmt.Errorf("config: Players must be >= 3, got %d", c.Players)
	}
	if c.Wolves < 1 {
		return fmt.Errorf("config: Wolves must be >= 1, got %d", c.Wolves)
	}
	if c.StrategyTimeout <= 0 {
		return fmt.Errorf("config: StrategyTimeout must be positive, got %s", c.StrategyTimeout)
	}
	if c.Remote() && c.APIKey == "" {
		return fmt.Errorf("config: an API key is required for provider %s", c.Provider)
	}
	return nil
}

// LoadDotEnv loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: loading .env: %w", err)
	}
	return nil
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func envInt(key string, defaultVal int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s value %q: %w", key, s, err)
	}
	return v, nil
}

func envDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s value %q: %w", key, s, err)
	}
	return v, nil
}
