package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Env         Environment       `mapstructure:"-"`
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	Spoonacular SpoonacularConfig `mapstructure:"spoonacular"`
	LLM         LLMConfig         `mapstructure:"llm"`
	Bonus       BonusConfig       `mapstructure:"bonus"`
	Archive     ArchiveConfig     `mapstructure:"archive"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Log         LogConfig         `mapstructure:"log"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// DSN returns the postgres connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

type RedisConfig struct {
	Host      string        `mapstructure:"host"`
	Port      string        `mapstructure:"port"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	URL       string        `mapstructure:"url"`
	SearchTTL time.Duration `mapstructure:"search_ttl"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

// SpoonacularConfig configures the external recipe search API.
// An empty APIKey switches the client to its built-in sample recipes.
type SpoonacularConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LLMConfig configures the generative recipe provider.
// An empty APIKey means every generation uses the template recipe.
type LLMConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type BonusConfig struct {
	StartupDelay    time.Duration `mapstructure:"startup_delay"`
	ScheduleWeekday time.Weekday  `mapstructure:"schedule_weekday"`
	ScheduleHour    int           `mapstructure:"schedule_hour"`
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout"`
	Enabled         bool          `mapstructure:"enabled"`
}

// ArchiveConfig configures the S3 bucket bonus catalog snapshots are written to.
// Archiving is disabled when Bucket is empty.
type ArchiveConfig struct {
	Bucket string `mapstructure:"bucket"`
	Region string `mapstructure:"region"`
}

type RateLimitConfig struct {
	Recommendations int           `mapstructure:"recommendations"`
	Window          time.Duration `mapstructure:"window"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Mode  string `mapstructure:"mode"`
}

// LoadConfig reads configuration from defaults, an optional .env file,
// environment variables and, outside development, Docker secrets.
func LoadConfig() (*Config, error) {
	// .env is optional; containers pass real environment variables
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindLegacyEnv(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.Env = GetEnvironment()

	switch cfg.Env {
	case Production:
		loadSecrets(cfg)
	case Development, Test, CI:
	default:
		return nil, fmt.Errorf("unknown environment: %s", cfg.Env)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "fridgechef")
	v.SetDefault("database.ssl_mode", "disable")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.search_ttl", "24h")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", "24h")

	v.SetDefault("spoonacular.api_key", "")
	v.SetDefault("spoonacular.base_url", "https://api.spoonacular.com/recipes")
	v.SetDefault("spoonacular.timeout", "10s")

	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "https://api.deepseek.com/v1")
	v.SetDefault("llm.model", "deepseek-chat")
	v.SetDefault("llm.max_tokens", 1000)
	v.SetDefault("llm.timeout", "30s")

	v.SetDefault("bonus.enabled", true)
	v.SetDefault("bonus.startup_delay", "5s")
	v.SetDefault("bonus.schedule_weekday", int(time.Monday))
	v.SetDefault("bonus.schedule_hour", 6)
	v.SetDefault("bonus.fetch_timeout", "30s")

	v.SetDefault("archive.bucket", "")
	v.SetDefault("archive.region", "eu-west-1")

	v.SetDefault("rate_limit.recommendations", 20)
	v.SetDefault("rate_limit.window", "1h")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.mode", "file")
}

// bindLegacyEnv keeps the flat variable names used by the compose files working
func bindLegacyEnv(v *viper.Viper) {
	_ = v.BindEnv("server.host", "SERVER_HOST")
	_ = v.BindEnv("server.port", "SERVER_PORT")
	_ = v.BindEnv("database.host", "DB_HOST")
	_ = v.BindEnv("database.port", "DB_PORT")
	_ = v.BindEnv("database.user", "DB_USER")
	_ = v.BindEnv("database.password", "DB_PASSWORD")
	_ = v.BindEnv("database.name", "DB_NAME")
	_ = v.BindEnv("database.ssl_mode", "DB_SSL_MODE")
	_ = v.BindEnv("redis.host", "REDIS_HOST")
	_ = v.BindEnv("redis.port", "REDIS_PORT")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("redis.url", "REDIS_URL")
	_ = v.BindEnv("jwt.secret", "JWT_SECRET")
	_ = v.BindEnv("spoonacular.api_key", "SPOONACULAR_API_KEY")
	_ = v.BindEnv("llm.api_key", "DEEPSEEK_API_KEY")
	_ = v.BindEnv("llm.base_url", "DEEPSEEK_API_URL")
	_ = v.BindEnv("archive.bucket", "S3_BUCKET_NAME")
	_ = v.BindEnv("archive.region", "AWS_REGION")
	_ = v.BindEnv("log.level", "LOG_LEVEL")
	_ = v.BindEnv("log.mode", "LOG_MODE")
}

// loadSecrets fills sensitive values from Docker secrets when the environment left them empty
func loadSecrets(cfg *Config) {
	fill := func(dst *string, name string) {
		if *dst == "" {
			*dst = readSecret(name)
		}
	}
	fill(&cfg.Database.User, "db_user")
	fill(&cfg.Database.Password, "db_password")
	fill(&cfg.Redis.Password, "redis_password")
	fill(&cfg.Redis.URL, "redis_url")
	fill(&cfg.JWT.Secret, "jwt_secret")
	fill(&cfg.Spoonacular.APIKey, "spoonacular_api_key")
	fill(&cfg.LLM.APIKey, "deepseek_api_key")
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	data, err := os.ReadFile(filepath.Join(secretsDir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
