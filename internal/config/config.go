package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Ghost   GhostConfig
	Discord DiscordConfig
	Sync    SyncConfig
	Cache   CacheConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	PublicBaseURL         string
	RequestTimeoutSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// GhostConfig holds membership platform (Ghost Admin API) values.
type GhostConfig struct {
	APIURL         string
	AdminAPIKey    string
	TimeoutSeconds int
}

// DiscordConfig holds community platform credentials.
type DiscordConfig struct {
	ClientID       string
	ClientSecret   string
	BotToken       string
	GuildID        string
	APIBaseURL     string
	TimeoutSeconds int
}

// SyncConfig holds the tier-to-role correspondence and worker tuning.
// TierIDs and RoleIDs are parallel lists: TierIDs[i] grants RoleIDs[i].
type SyncConfig struct {
	TierIDs   []string
	RoleIDs   []string
	QueueSize int
}

// CacheConfig selects and configures the lookup cache backend.
type CacheConfig struct {
	Driver        string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTLSeconds    int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "member-sync"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "3000"),
			Version:               getEnv("APP_VERSION", "dev"),
			PublicBaseURL:         strings.TrimRight(os.Getenv("SERVER_BASE_URL"), "/"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Ghost: GhostConfig{
			APIURL:         strings.TrimRight(os.Getenv("GHOST_API_URL"), "/"),
			AdminAPIKey:    os.Getenv("GHOST_ADMIN_API_KEY"),
			TimeoutSeconds: getEnvAsInt("GHOST_HTTP_TIMEOUT_SECONDS", 10),
		},
		Discord: DiscordConfig{
			ClientID:       os.Getenv("DISCORD_CLIENT_ID"),
			ClientSecret:   os.Getenv("DISCORD_CLIENT_SECRET"),
			BotToken:       os.Getenv("DISCORD_BOT_TOKEN"),
			GuildID:        os.Getenv("DISCORD_GUILD_ID"),
			APIBaseURL:     strings.TrimRight(getEnv("DISCORD_API_BASE_URL", "https://discord.com/api/v10"), "/"),
			TimeoutSeconds: getEnvAsInt("DISCORD_HTTP_TIMEOUT_SECONDS", 10),
		},
		Sync: SyncConfig{
			TierIDs:   splitList(os.Getenv("GHOST_TIER_IDS")),
			RoleIDs:   splitList(os.Getenv("DISCORD_ROLE_IDS")),
			QueueSize: getEnvAsInt("SYNC_QUEUE_SIZE", 256),
		},
		Cache: CacheConfig{
			Driver:        getEnv("CACHE_DRIVER", "memory"),
			RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       redisDB,
			TTLSeconds:    getEnvAsInt("CACHE_TTL_SECONDS", 300),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	required := map[string]string{
		"SERVER_BASE_URL":       c.App.PublicBaseURL,
		"GHOST_API_URL":         c.Ghost.APIURL,
		"GHOST_ADMIN_API_KEY":   c.Ghost.AdminAPIKey,
		"DISCORD_CLIENT_ID":     c.Discord.ClientID,
		"DISCORD_CLIENT_SECRET": c.Discord.ClientSecret,
		"DISCORD_BOT_TOKEN":     c.Discord.BotToken,
		"DISCORD_GUILD_ID":      c.Discord.GuildID,
	}
	for key, value := range required {
		if value == "" {
			return fmt.Errorf("missing required environment variable %s", key)
		}
	}
	if len(c.Sync.TierIDs) != len(c.Sync.RoleIDs) {
		return fmt.Errorf("GHOST_TIER_IDS and DISCORD_ROLE_IDS must have equal length (%d vs %d)",
			len(c.Sync.TierIDs), len(c.Sync.RoleIDs))
	}
	if len(c.Sync.TierIDs) == 0 {
		return fmt.Errorf("GHOST_TIER_IDS and DISCORD_ROLE_IDS must not be empty")
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// RedirectURL returns the OAuth redirect URI derived from the public base URL.
func (a AppConfig) RedirectURL() string {
	return a.PublicBaseURL + "/auth/discord/return"
}

// TTL returns the cache entry lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
