package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the bot.
type Config struct {
	LogLevel  string          `yaml:"logLevel"`
	Server    ServerConfig    `yaml:"server"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Provider  ProviderConfig  `yaml:"provider"`
	ImageHost ImageHostConfig `yaml:"imageHost"`
	Memory    MemoryConfig    `yaml:"memory"`
	Timeouts  TimeoutsConfig  `yaml:"timeouts"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	WebhookPath string `yaml:"webhookPath"`
}

type TelegramConfig struct {
	Token string `yaml:"token"`
}

type ProviderConfig struct {
	Name     string `yaml:"name"`     // upstream selector: "gemini" | "openai"
	Endpoint string `yaml:"endpoint"` // base URL of the generation upstream
	APIKey   string `yaml:"apiKey,omitempty"`
	Model    string `yaml:"model,omitempty"`
}

type ImageHostConfig struct {
	URL string `yaml:"url"` // public image host upload endpoint
}

type MemoryConfig struct {
	Backend  string `yaml:"backend"` // "memory" | "redis"
	Cap      int    `yaml:"cap"`     // max turns kept per user
	RedisURL string `yaml:"redisUrl,omitempty"`
}

// TimeoutsConfig bounds every external call. Expiry is treated exactly like a
// network failure: sentinel reply for generation, skipped relay for media.
type TimeoutsConfig struct {
	TelegramSeconds int `yaml:"telegram"`
	UploadSeconds   int `yaml:"upload"`
	GenerateSeconds int `yaml:"generate"`
}

func (t TimeoutsConfig) Telegram() time.Duration {
	return time.Duration(t.TelegramSeconds) * time.Second
}
func (t TimeoutsConfig) Upload() time.Duration { return time.Duration(t.UploadSeconds) * time.Second }
func (t TimeoutsConfig) Generate() time.Duration {
	return time.Duration(t.GenerateSeconds) * time.Second
}

// Defaults returns the built-in configuration. Every field can be overridden
// by the config file and then by environment variables, so the binary runs
// with no file at all.
func Defaults() *Config {
	return &Config{
		LogLevel: "info",
		Server: ServerConfig{
			Port:        8080,
			WebhookPath: "/webhook",
		},
		Provider: ProviderConfig{
			Name:     "gemini",
			Endpoint: "https://api-library-kohi.onrender.com/api/gemini",
		},
		Memory: MemoryConfig{
			Backend: "memory",
			Cap:     10,
		},
		Timeouts: TimeoutsConfig{
			TelegramSeconds: 15,
			UploadSeconds:   30,
			GenerateSeconds: 60,
		},
	}
}

func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".geminibot"
	}
	return filepath.Join(home, ".geminibot")
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Load reads the YAML config at path on top of Defaults, expanding
// ${VAR} and ${VAR:-default} references, then applies environment overrides.
func Load(path string) (*Config, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot resolve home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	data = []byte(ExpandEnvVars(string(data)))

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
	}

	cfg.ApplyEnv()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// FromEnv returns Defaults with environment overrides applied, for running
// without a config file.
func FromEnv() *Config {
	cfg := Defaults()
	cfg.ApplyEnv()
	return cfg
}

// ApplyEnv overrides config values from well-known environment variables.
// Environment always wins over the file.
func (c *Config) ApplyEnv() {
	setString(&c.Telegram.Token, "BOT_TOKEN")
	setString(&c.Provider.Name, "PROVIDER")
	setString(&c.Provider.Endpoint, "GEMINI_API_URL")
	setString(&c.Provider.APIKey, "PROVIDER_API_KEY")
	setString(&c.Provider.Model, "PROVIDER_MODEL")
	setString(&c.ImageHost.URL, "IMAGE_HOST_URL")
	setString(&c.Memory.Backend, "MEMORY_BACKEND")
	setString(&c.Memory.RedisURL, "REDIS_URL")
	setString(&c.LogLevel, "LOG_LEVEL")
	setInt(&c.Server.Port, "PORT")
	setString(&c.Server.WebhookPath, "WEBHOOK_PATH")
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func setInt(dst *int, env string) {
	if v := os.Getenv(env); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Validate checks that the config has valid values.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 1 and 65535")
	}
	if !strings.HasPrefix(cfg.Server.WebhookPath, "/") {
		errs = append(errs, "server.webhookPath must start with /")
	}
	switch cfg.Memory.Backend {
	case "memory", "redis":
	default:
		errs = append(errs, "memory.backend must be one of: memory, redis")
	}
	if cfg.Memory.Backend == "redis" && cfg.Memory.RedisURL == "" {
		errs = append(errs, "memory.redisUrl is required for the redis backend")
	}
	if cfg.Memory.Cap < 1 {
		errs = append(errs, "memory.cap must be >= 1")
	}
	if cfg.Provider.Name == "" {
		errs = append(errs, "provider.name must not be empty")
	}
	if cfg.Timeouts.TelegramSeconds < 1 || cfg.Timeouts.UploadSeconds < 1 || cfg.Timeouts.GenerateSeconds < 1 {
		errs = append(errs, "timeouts must be >= 1 second")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns in config strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-(.*?))?\}`)

// ExpandEnvVars replaces ${VAR} with the environment variable value.
// ${VAR:-default} uses "default" when VAR is unset or empty.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultVal := ""
		hasDefault := len(groups) >= 3 && groups[2] != ""
		if hasDefault {
			defaultVal = groups[2]
		}

		val, exists := os.LookupEnv(varName)
		if !exists || val == "" {
			if hasDefault {
				return defaultVal
			}
			return match
		}
		return val
	})
}
