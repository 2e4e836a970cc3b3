package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	AWS       AWSConfig       `mapstructure:"aws"`
	Dynamo    DynamoConfig    `mapstructure:"dynamo"`
	SNS       SNSConfig       `mapstructure:"sns"`
	Report    ReportConfig    `mapstructure:"report"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Ingestion IngestionConfig `mapstructure:"ingestion"`
	DLQ       DLQConfig       `mapstructure:"dlq"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type AWSConfig struct {
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"`
}

type DynamoConfig struct {
	Table            string `mapstructure:"table"`
	CreatedDateIndex string `mapstructure:"created_date_index"`
}

type SNSConfig struct {
	TopicARN string `mapstructure:"topic_arn"`
}

type ReportConfig struct {
	ScheduleEnabled bool          `mapstructure:"schedule_enabled"`
	CheckInterval   time.Duration `mapstructure:"check_interval"`
	HourUTC         int           `mapstructure:"hour_utc"`
}

type RedisConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

type IngestionConfig struct {
	RateLimitEnabled  bool          `mapstructure:"rate_limit_enabled"`
	RateLimitRequests int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow   time.Duration `mapstructure:"rate_limit_window"`
}

type DLQConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	NatsURL string `mapstructure:"nats_url"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 8086)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("aws.region", "")
	v.SetDefault("aws.endpoint", "")
	v.SetDefault("dynamo.table", "")
	v.SetDefault("dynamo.created_date_index", "globalSecondaryIndex")
	v.SetDefault("sns.topic_arn", "")
	v.SetDefault("report.schedule_enabled", true)
	v.SetDefault("report.check_interval", "1m")
	v.SetDefault("report.hour_utc", 23)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.url", "redis://localhost:6379")
	v.SetDefault("ingestion.rate_limit_enabled", true)
	v.SetDefault("ingestion.rate_limit_requests", 1000)
	v.SetDefault("ingestion.rate_limit_window", "1m")
	v.SetDefault("dlq.enabled", false)
	v.SetDefault("dlq.nats_url", "nats://localhost:4222")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/s3pulse")
	}

	// Environment variables override
	v.SetEnvPrefix("S3PULSE")
	v.AutomaticEnv()

	// The deployed environment addresses the table, index, and topic through
	// these names; they predate the service and are honored as-is.
	_ = v.BindEnv("dynamo.table", "S3PULSE_DYNAMO_TABLE", "DDB_TABLE_NAME")
	_ = v.BindEnv("dynamo.created_date_index", "S3PULSE_DYNAMO_CREATED_DATE_INDEX", "DDB_CREATED_DATE_INDEX_NAME")
	_ = v.BindEnv("sns.topic_arn", "S3PULSE_SNS_TOPIC_ARN", "SNS_TOPIC_ARN")

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
