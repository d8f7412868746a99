// Package config loads server configuration from flags, environment variables and a .env file.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Placeholder values shipped in example .env files. They count as unset.
const (
	PlaceholderGeminiKey      = "your_google_ai_studio_api_key_here"
	PlaceholderOpenRouterKey  = "your_openrouter_api_key_here"
	PlaceholderGoogleBooksKey = "your_google_books_api_key_here"
)

// Cache backends.
const (
	CacheBackendMemory = "memory"
	CacheBackendBadger = "badger"
	CacheBackendRedis  = "redis"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Server    ServerConfig
	Providers ProvidersConfig
	Catalog   CatalogConfig
	Cache     CacheConfig
	Recommend RecommendConfig
	RateLimit RateLimitConfig

	pinnedEnv map[string]string
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
	EnvFile     string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// ProvidersConfig holds LLM provider settings.
type ProvidersConfig struct {
	GeminiKey       string
	GeminiModel     string
	OpenRouterKey   string
	OpenRouterModel string
	Timeout         time.Duration
}

// CatalogConfig holds book catalog settings.
type CatalogConfig struct {
	GoogleBooksKey     string
	OpenLibraryEnabled bool
	Timeout            time.Duration
}

// CacheConfig selects and configures the lookup cache.
type CacheConfig struct {
	Backend       string
	TTL           time.Duration
	Path          string // badger directory
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// RecommendConfig holds pipeline options.
type RecommendConfig struct {
	// CuratedFallback returns the built-in shelf when every other strategy is empty.
	CuratedFallback bool
}

// RateLimitConfig bounds inbound recommendation requests per client IP.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// LoadConfig loads configuration with precedence:
// 1. Command-line flags.
// 2. Environment variables.
// 3. .env file.
// 4. Defaults.
func LoadConfig() (*Config, error) {
	return LoadFlags(flag.NewFlagSet(os.Args[0], flag.ContinueOnError), os.Args[1:])
}

// LoadFlags is LoadConfig over a caller-supplied flag set, so commands can
// register their own flags on fs before parsing.
func LoadFlags(fs *flag.FlagSet, args []string) (*Config, error) {
	return load(fs, args)
}

func load(fs *flag.FlagSet, args []string) (*Config, error) {
	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	port := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 30s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")

	geminiModel := fs.String("gemini-model", "", "Gemini model (default: gemini-1.5-flash)")
	openRouterModel := fs.String("openrouter-model", "", "OpenRouter model (default: anthropic/claude-3.5-sonnet)")
	providerTimeout := fs.String("provider-timeout", "", "LLM call timeout (default: 10s)")

	openLibrary := fs.String("open-library", "", "Query Open Library alongside Google Books (default: true)")
	catalogTimeout := fs.String("catalog-timeout", "", "Catalog call timeout (default: 10s)")

	cacheBackend := fs.String("cache-backend", "", "Lookup cache backend: memory, badger, redis (default: memory)")
	cacheTTL := fs.String("cache-ttl", "", "Lookup cache TTL (default: 15m)")
	cachePath := fs.String("cache-path", "", "Badger directory for the badger cache backend")
	redisAddr := fs.String("redis-addr", "", "Redis address for the redis cache backend")

	curated := fs.String("curated-fallback", "", "Serve the curated shelf when all strategies are empty (default: false)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	pinned := snapshotEnv()

	// Missing .env is fine.
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
			EnvFile:     *envFile,
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port: getConfigValue(*port, "SERVER_PORT", "8080"),
		},
		Providers: ProvidersConfig{
			GeminiKey:       envWithAlias(geminiKeyVars...),
			GeminiModel:     getConfigValue(*geminiModel, "GEMINI_MODEL", "gemini-1.5-flash"),
			OpenRouterKey:   envWithAlias(openRouterKeyVars...),
			OpenRouterModel: getConfigValue(*openRouterModel, "OPENROUTER_MODEL", "anthropic/claude-3.5-sonnet"),
		},
		Catalog: CatalogConfig{
			GoogleBooksKey:     envWithAlias(googleBooksKeyVars...),
			OpenLibraryEnabled: getBoolConfigValue(*openLibrary, "OPEN_LIBRARY_ENABLED", true),
		},
		Cache: CacheConfig{
			Backend:       strings.ToLower(getConfigValue(*cacheBackend, "CACHE_BACKEND", CacheBackendMemory)),
			Path:          getConfigValue(*cachePath, "CACHE_PATH", ""),
			RedisAddr:     getConfigValue(*redisAddr, "REDIS_ADDR", "localhost:6379"),
			RedisPassword: getConfigValue("", "REDIS_PASSWORD", ""),
			RedisDB:       getIntConfigValue("", "REDIS_DB", 0),
		},
		Recommend: RecommendConfig{
			CuratedFallback: getBoolConfigValue(*curated, "CURATED_FALLBACK", false),
		},
		RateLimit: RateLimitConfig{
			RPS:   getFloatConfigValue("", "RATE_LIMIT_RPS", 2),
			Burst: getIntConfigValue("", "RATE_LIMIT_BURST", 10),
		},
		pinnedEnv: pinned,
	}

	durations := []struct {
		dst          *time.Duration
		flag, envKey string
		def          string
	}{
		{&cfg.Server.ReadTimeout, *readTimeout, "SERVER_READ_TIMEOUT", "15s"},
		{&cfg.Server.WriteTimeout, *writeTimeout, "SERVER_WRITE_TIMEOUT", "30s"},
		{&cfg.Server.IdleTimeout, *idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"},
		{&cfg.Providers.Timeout, *providerTimeout, "PROVIDER_TIMEOUT", "10s"},
		{&cfg.Catalog.Timeout, *catalogTimeout, "CATALOG_TIMEOUT", "10s"},
		{&cfg.Cache.TTL, *cacheTTL, "CACHE_TTL", "15m"},
	}
	for _, d := range durations {
		v, err := getDurationConfigValue(d.flag, d.envKey, d.def)
		if err != nil {
			return nil, err
		}
		*d.dst = v
	}

	if cfg.Cache.Path != "" {
		expanded, err := expandPath(cfg.Cache.Path)
		if err != nil {
			return nil, fmt.Errorf("invalid cache path: %w", err)
		}
		cfg.Cache.Path = expanded
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{"development": true, "staging": true, "production": true}
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	switch c.Cache.Backend {
	case CacheBackendMemory:
	case CacheBackendBadger:
		if c.Cache.Path == "" {
			return errors.New("CACHE_PATH is required for the badger cache backend")
		}
	case CacheBackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required for the redis cache backend")
		}
	default:
		return fmt.Errorf("invalid cache backend: %s (must be memory, badger, or redis)", c.Cache.Backend)
	}

	if c.Cache.TTL <= 0 {
		return errors.New("cache TTL must be positive")
	}
	if c.Providers.Timeout <= 0 || c.Catalog.Timeout <= 0 {
		return errors.New("outbound timeouts must be positive")
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return errors.New("rate limit RPS and burst must be positive")
	}

	return nil
}

// Credentials returns the credential snapshot for this configuration.
func (c *Config) Credentials() Credentials {
	return Credentials{
		GeminiKey:      c.Providers.GeminiKey,
		OpenRouterKey:  c.Providers.OpenRouterKey,
		GoogleBooksKey: c.Catalog.GoogleBooksKey,
	}
}

// expandPath expands ~ and makes the path absolute.
func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = homeDir + path[1:]
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	return abs, nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envKey != "" {
		if envValue := os.Getenv(envKey); envValue != "" {
			return envValue
		}
	}
	return defaultValue
}

// envWithAlias returns the first non-empty of the given environment variables.
func envWithAlias(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

// getBoolConfigValue accepts "true", "1", "yes" (case-insensitive) as true.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return result
}

// getFloatConfigValue returns a float from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		return defaultValue
	}
	return result
}

// getDurationConfigValue parses a duration from flag, env var, or default.
func getDurationConfigValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	strValue := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(strValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, strValue, err)
	}
	return d, nil
}

// loadEnvFile loads KEY=value lines from a .env file into the process environment.
// Variables already set in the environment win.
func loadEnvFile(path string) error {
	values, err := parseEnvFile(path)
	if err != nil {
		return err
	}
	for key, value := range values {
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}
	return nil
}

// parseEnvFile reads KEY=value pairs (one per line, # for comments).
func parseEnvFile(path string) (map[string]string, error) {
	file, err := os.Open(path) //#nosec G304 -- path comes from operator configuration
	if err != nil {
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}
		values[strings.TrimSpace(key)] = strings.Trim(strings.TrimSpace(value), `"'`)
	}

	return values, scanner.Err()
}
