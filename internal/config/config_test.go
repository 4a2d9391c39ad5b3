package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleYAML = `
server:
  port: "9000"
  mode: debug
database:
  driver: sqlite
  path: ":memory:"
session:
  store: memory
  secret: local-secret
jwt:
  secret: local-jwt
  expire_hours: 2
exam:
  duration_seconds: 900
  month_count: 6
  default_org_code: ORG_B
  timezone: UTC
storage:
  type: none
redis:
  cache_ttl_seconds: 60
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadConfigFromFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.Port != "9000" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if cfg.Exam.Duration != 15*time.Minute {
		t.Errorf("duration = %s, want 15m", cfg.Exam.Duration)
	}
	if cfg.Exam.MonthCount != 6 || cfg.Exam.DefaultOrgCode != "ORG_B" {
		t.Errorf("exam = %+v", cfg.Exam)
	}
	if cfg.JWT.ExpireTime != 2*time.Hour {
		t.Errorf("jwt expiry = %s", cfg.JWT.ExpireTime)
	}
	if cfg.Redis.CacheTTL != time.Minute {
		t.Errorf("cache ttl = %s", cfg.Redis.CacheTTL)
	}
	if cfg.Session.CookieName != "exam_session" {
		t.Errorf("cookie name default = %q", cfg.Session.CookieName)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("EXAM_DURATION", "600")
	t.Setenv("DATABASE_DRIVER", "postgres")

	cfg, err := LoadConfig(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Exam.Duration != 10*time.Minute {
		t.Errorf("duration = %s, want 10m", cfg.Exam.Duration)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("driver = %q", cfg.Database.Driver)
	}
}

func TestLoadConfigWithoutFileUsesDefaults(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "none")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Exam.Duration != 30*time.Minute || cfg.Exam.MonthCount != 4 {
		t.Errorf("exam defaults = %+v", cfg.Exam)
	}
	if cfg.Exam.DefaultOrgCode != "ORG_A" || cfg.Database.Driver != "mysql" {
		t.Errorf("defaults = %+v / %+v", cfg.Exam, cfg.Database)
	}
}

func validConfig() *Config {
	return &Config{
		Server:  ServerConfig{Mode: "debug"},
		Session: SessionConfig{Store: "memory"},
		Exam:    ExamConfig{Duration: time.Minute, MonthCount: 4, Timezone: "UTC"},
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"short secrets in release", func(c *Config) { c.Server.Mode = "release" }, "JWT secret"},
		{"zero duration", func(c *Config) { c.Exam.Duration = 0 }, "duration"},
		{"no months", func(c *Config) { c.Exam.MonthCount = 0 }, "month_count"},
		{"bad timezone", func(c *Config) { c.Exam.Timezone = "Mars/Base" }, "timezone"},
		{"unknown store", func(c *Config) { c.Session.Store = "cookie" }, "session store"},
		{"redis store without redis", func(c *Config) { c.Session.Store = "redis" }, "redis.enabled"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := validConfig()
			c.mutate(cfg)
			err := cfg.Validate()
			if c.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), c.wantErr) {
				t.Fatalf("err = %v, want containing %q", err, c.wantErr)
			}
		})
	}
}
