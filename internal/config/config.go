package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	//App
	Env string // dev / staging / prod
	//HTTP
	HTTPAddr           string
	CORSAllowedOrigins []string
	//Auth / Security
	JWTSecret      string
	JWTIssuer      string
	AccessTokenTTL time.Duration

	// Infrastructure
	DBAddr         string
	DBDebug        bool
	DBAutoMigrate  bool
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RabbitURL      string
	RabbitExchange string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	// Descriptions
	DescriptionCacheTTL time.Duration
	OpenAIAPIKey        string
	OpenAIBaseURL       string
	OpenAIModel         string
	GenerationTimeout   time.Duration

	// Images
	WikiAPIURL     string
	WikiUserAgent  string
	WikiImageLimit int
	ImagesTimeout  time.Duration
}

func Load() (*Config, error) {
	// .env is optional; real env vars always win.
	_ = godotenv.Load()

	cfg := &Config{
		Env:            getEnv("ENV", "dev"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		JWTIssuer:      getEnv("JWT_ISSUER", "france-explorer"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RabbitURL:      os.Getenv("RABBIT_URL"),
		RabbitExchange: getEnv("RABBIT_EXCHANGE", "france.events"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		WikiAPIURL:     getEnv("WIKI_API_URL", "https://commons.wikimedia.org/w/api.php"),
		WikiUserAgent:  getEnv("WIKI_USER_AGENT", "france-explorer/1.0"),

		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS"),
	}

	// required values
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required env var: JWT_SECRET")
	}

	// The service cannot answer a single route without its database.
	cfg.DBAddr = os.Getenv("DB_ADDR")
	if cfg.DBAddr == "" {
		return nil, fmt.Errorf("missing required env var: DB_ADDR")
	}

	var err error
	if cfg.DBDebug, err = getBool("DB_DEBUG", false); err != nil {
		return nil, err
	}
	if cfg.DBAutoMigrate, err = getBool("DB_AUTO_MIGRATE", false); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.WikiImageLimit, err = getInt("WIKI_IMAGE_LIMIT", 6); err != nil {
		return nil, err
	}

	// optional with defaults
	if cfg.AccessTokenTTL, err = getDuration("ACCESS_TOKEN_TTL", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.DescriptionCacheTTL, err = getDuration("DESCRIPTION_CACHE_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.GenerationTimeout, err = getDuration("GENERATION_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ImagesTimeout, err = getDuration("IMAGES_TIMEOUT", 3*time.Second); err != nil {
		return nil, err
	}

	//Timeout values are optional and have a default value if not
	if cfg.HTTPReadTimeout, err = getDuration("HTTP_READ_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	// generation can take a while, so the write timeout must outlive it
	if cfg.HTTPWriteTimeout, err = getDuration("HTTP_WRITE_TIMEOUT", 45*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPIdleTimeout, err = getDuration("HTTP_IDLE_TIMEOUT", time.Minute); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid int for %s: %q: %w", key, v, err)
	}
	return n, nil
}

func getBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid bool for %s: %q: %w", key, v, err)
	}
	return b, nil
}

// getList splits a comma separated value, dropping empty items.
func getList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
