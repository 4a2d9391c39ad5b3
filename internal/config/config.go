package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Session   SessionConfig
	Exam      ExamConfig
	Storage   StorageConfig
	Tracing   TracingConfig `mapstructure:"tracing"`
	Redis     RedisConfig
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool `mapstructure:"-"`
	MigrateOnly  bool `mapstructure:"-"`
	Seed         bool `mapstructure:"-"`
}

// LogConfig controls the rotated JSON log file; console output always follows the level.
type LogConfig struct {
	Level      string `mapstructure:"level"` // empty follows server.mode
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RateLimitConfig applies to the student and teacher login endpoints.
type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Driver    string
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
	SSLMode   string `mapstructure:"sslmode"`
	// Path is the sqlite file, ":memory:" is allowed.
	Path string
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type SessionConfig struct {
	Store      string `mapstructure:"store"` // redis | memory
	CookieName string `mapstructure:"cookie_name"`
	Secret     string `mapstructure:"secret"`
	MaxAge     int    `mapstructure:"max_age"` // seconds
	Secure     bool   `mapstructure:"secure"`
}

type ExamConfig struct {
	Duration       time.Duration `mapstructure:"duration_seconds"`
	MonthCount     int           `mapstructure:"month_count"`
	DefaultOrgCode string        `mapstructure:"default_org_code"`
	Timezone       string        `mapstructure:"timezone"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"` // none | local | minio
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	MinioUseSSL   bool   `mapstructure:"minio_use_ssl"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	CacheTTL time.Duration `mapstructure:"cache_ttl_seconds"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parsetime", true)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "exam_system.db")
	v.SetDefault("jwt.expire_hours", 24)
	v.SetDefault("session.store", "memory")
	v.SetDefault("session.cookie_name", "exam_session")
	v.SetDefault("session.max_age", 4*3600)
	v.SetDefault("exam.duration_seconds", 1800)
	v.SetDefault("exam.month_count", 4)
	v.SetDefault("exam.default_org_code", "ORG_A")
	v.SetDefault("exam.timezone", "Asia/Karachi")
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "exports")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.cache_ttl_seconds", 300)
	v.SetDefault("rate_limit.max_requests", 30)
	v.SetDefault("rate_limit.window_minutes", 1)
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("EXAM")
	v.AutomaticEnv()
	setDefaults(v)

	// Database
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")
	v.BindEnv("database.path", "DATABASE_PATH")

	// JWT / Session
	v.BindEnv("jwt.secret", "JWT_SECRET")
	v.BindEnv("session.secret", "SESSION_SECRET")
	v.BindEnv("session.store", "SESSION_STORE")

	// Redis
	v.BindEnv("redis.enabled", "REDIS_ENABLED")
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	v.BindEnv("server.mode", "SERVER_MODE")
	v.BindEnv("server.port", "SERVER_PORT")

	// Log
	v.BindEnv("log.level", "LOG_LEVEL")

	// Exam
	v.BindEnv("exam.duration_seconds", "EXAM_DURATION")
	v.BindEnv("exam.timezone", "TIMEZONE")

	// Storage
	v.BindEnv("storage.type", "STORAGE_TYPE")
	v.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	v.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	v.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	v.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour
	cfg.Exam.Duration = cfg.Exam.Duration * time.Second
	cfg.Redis.CacheTTL = cfg.Redis.CacheTTL * time.Second

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	// 生产环境校验密钥强度
	if c.Server.Mode == "release" {
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(c.JWT.Secret))
		}
		if len(c.Session.Secret) < 32 {
			return fmt.Errorf("session secret is too short (%d chars), must be at least 32 characters in release mode", len(c.Session.Secret))
		}
	}
	if c.Exam.Duration <= 0 {
		return fmt.Errorf("exam duration must be positive, got %s", c.Exam.Duration)
	}
	if c.Exam.MonthCount < 1 {
		return fmt.Errorf("exam month_count must be at least 1, got %d", c.Exam.MonthCount)
	}
	if _, err := time.LoadLocation(c.Exam.Timezone); err != nil {
		return fmt.Errorf("invalid exam timezone %q: %w", c.Exam.Timezone, err)
	}
	switch c.Session.Store {
	case "redis", "memory":
	default:
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}
	if c.Session.Store == "redis" && !c.Redis.Enabled {
		return fmt.Errorf("session store redis requires redis.enabled")
	}
	return nil
}

// Location returns the exam timezone; Validate guarantees it loads.
func (e ExamConfig) Location() *time.Location {
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
