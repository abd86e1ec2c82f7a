package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

var (
	ErrMissingSecret = errors.New("config: JWT_SECRET and REFRESH_TOKEN_SECRET are required")
	ErrSharedSecret  = errors.New("config: JWT_SECRET and REFRESH_TOKEN_SECRET must differ")
)

type Config struct {
	Host     string   `env:"HOST" env-default:"0.0.0.0"`
	Port     string   `env:"PORT" env-default:"5000"`
	LogLevel string   `env:"LOG_LEVEL" env-default:"info"`
	Origins  []string `env:"CORS_ORIGINS" env-separator:"," env-default:"*"`

	JWTSecret     string `env:"JWT_SECRET" env-required:"true"`
	RefreshSecret string `env:"REFRESH_TOKEN_SECRET" env-required:"true"`

	DatabaseURL string `env:"DATABASE_URL" env-required:"true"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	Elastic ElasticConfig
	S3      S3Config

	UploadDir string `env:"UPLOAD_DIR" env-default:"uploads"`
	BodyLimit string `env:"BODY_LIMIT" env-default:"20M"`
}

type MongoConfig struct {
	URI string `env:"MONGO_URI"`
	DB  string `env:"MONGO_DB" env-default:"portfolio"`
}

type RedisConfig struct {
	URL string `env:"REDIS_URL"`
}

type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS" env-separator:","`
	Topic   string   `env:"KAFKA_TOPIC" env-default:"portfolio_events"`
}

type ElasticConfig struct {
	URL      string `env:"ES_URL"`
	User     string `env:"ES_USER"`
	Password string `env:"ES_PASSWORD"`
	Index    string `env:"ES_INDEX" env-default:"projects"`
}

type S3Config struct {
	Endpoint  string `env:"S3_ENDPOINT"`
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`
	Bucket    string `env:"S3_BUCKET" env-default:"portfolio-uploads"`
	UseSSL    bool   `env:"S3_USE_SSL" env-default:"false"`
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Load reads the optional dotenv files (".env" when none are given) and then
// the process environment. Variables already set in the environment win.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			slog.Info("env file not loaded, using process environment", "file", f, "error", err)
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoad(envFiles ...string) *Config {
	cfg, err := Load(envFiles...)
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" || strings.TrimSpace(c.RefreshSecret) == "" {
		return ErrMissingSecret
	}
	if c.JWTSecret == c.RefreshSecret {
		return ErrSharedSecret
	}
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("config: DATABASE_URL is required")
	}
	if c.Port == "" {
		return fmt.Errorf("config: PORT is empty")
	}
	return nil
}
