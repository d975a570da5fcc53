package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	defaultSessionTTL  = time.Hour
	defaultKafkaTopic  = "billsplit.payments"
	defaultPolicyValue = "keep_pending"
)

type Config struct {
	RunAddress           string        `env:"RUN_ADDRESS"`
	DatabaseDSN          string        `env:"DATABASE_URI"`
	MigrationsDir        string        `env:"MIGRATIONS_DIR"`
	JWTUserSecret        string        `env:"JWT_SECRET"`
	RedisURL             string        `env:"REDIS_URL"`
	KafkaBrokers         []string      `env:"KAFKA_BROKERS"             envSeparator:","`
	KafkaTopic           string        `env:"KAFKA_TOPIC"`
	SocialServiceAddress string        `env:"SOCIAL_SERVICE_ADDRESS"`
	SessionTTL           time.Duration `env:"SESSION_TTL"`
	// InsufficientFundsPolicy keep_pending или mark_failed.
	InsufficientFundsPolicy string `env:"INSUFFICIENT_FUNDS_POLICY"`
}

// LoadConfig собирает конфиг из .env файла (если есть), переменных окружения и флагов.
// Переменные окружения имеют приоритет над флагами.
func LoadConfig() (*Config, error) {
	// .env не обязателен
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %s", err.Error())
	}

	var envConfig Config
	if envParseErr := env.Parse(&envConfig); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}

	flagsConfig, flagsErr := loadFlags(flag.CommandLine, os.Args[1:])
	if flagsErr != nil {
		return nil, flagsErr
	}

	conf := mergeConfig(&envConfig, flagsConfig)
	if err := conf.validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func MustLoadConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return config
}

func loadFlags(fs *flag.FlagSet, args []string) (*Config, error) {
	var flagConfig Config
	var brokers string

	fs.StringVar(&flagConfig.RunAddress, "a", "localhost:8080", "Run address in format host:port")
	fs.StringVar(&flagConfig.DatabaseDSN, "d", "", "Database DSN")
	fs.StringVar(&flagConfig.MigrationsDir, "m", "internal/db/migrations", "Database migrations directory")
	fs.StringVar(&flagConfig.JWTUserSecret, "j", "", "JWT secret key")
	fs.StringVar(&flagConfig.RedisURL, "r", "redis://localhost:6379/0", "Redis URL for sessions")
	fs.StringVar(&brokers, "k", "", "Kafka brokers, comma separated. Events are disabled if empty")
	fs.StringVar(&flagConfig.KafkaTopic, "t", defaultKafkaTopic, "Kafka topic for payment events")
	fs.StringVar(&flagConfig.SocialServiceAddress, "s", "", "Social service address")
	fs.DurationVar(&flagConfig.SessionTTL, "ttl", defaultSessionTTL, "Session lifetime")
	fs.StringVar(&flagConfig.InsufficientFundsPolicy, "p", defaultPolicyValue, "Insufficient funds policy")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %s", err.Error())
	}
	flagConfig.KafkaBrokers = splitList(brokers)
	return &flagConfig, nil
}

func mergeConfig(envConfig, flagsConfig *Config) *Config {
	conf := &Config{
		RunAddress:              defaultIfBlank(envConfig.RunAddress, flagsConfig.RunAddress),
		DatabaseDSN:             defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN),
		MigrationsDir:           defaultIfBlank(envConfig.MigrationsDir, flagsConfig.MigrationsDir),
		JWTUserSecret:           defaultIfBlank(envConfig.JWTUserSecret, flagsConfig.JWTUserSecret),
		RedisURL:                defaultIfBlank(envConfig.RedisURL, flagsConfig.RedisURL),
		KafkaBrokers:            envConfig.KafkaBrokers,
		KafkaTopic:              defaultIfBlank(envConfig.KafkaTopic, flagsConfig.KafkaTopic),
		SocialServiceAddress:    defaultIfBlank(envConfig.SocialServiceAddress, flagsConfig.SocialServiceAddress),
		SessionTTL:              envConfig.SessionTTL,
		InsufficientFundsPolicy: defaultIfBlank(envConfig.InsufficientFundsPolicy, flagsConfig.InsufficientFundsPolicy),
	}
	if len(conf.KafkaBrokers) == 0 {
		conf.KafkaBrokers = flagsConfig.KafkaBrokers
	}
	if conf.SessionTTL == 0 {
		conf.SessionTTL = flagsConfig.SessionTTL
	}
	return conf
}

func (c *Config) validate() error {
	switch {
	case c.DatabaseDSN == "":
		return errors.New("database DSN is not set")
	case c.JWTUserSecret == "":
		return errors.New("JWT secret is not set")
	case c.SocialServiceAddress == "":
		return errors.New("social service address is not set")
	case c.SessionTTL <= 0:
		return fmt.Errorf("session TTL must be positive, got %s", c.SessionTTL)
	}
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func defaultIfBlank(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
