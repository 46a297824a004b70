package config

import (
	"os"
	"path"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	JwtTTL          time.Duration `yaml:"jwt_ttl"`
	SiteURL         string        `yaml:"site_url"` // base for ticket links in emails
	SecureCookies   bool          `yaml:"secure_cookies"`
	SearchPageSize  int           `yaml:"search_page_size"`
	NotifyWorkers   int           `yaml:"notify_workers"`
	NotifyQueueSize int           `yaml:"notify_queue_size"`
	LogLevel        string        `yaml:"log_level"`
	LogJSON         bool          `yaml:"log_json"`
}

type Pg struct {
	Host     string `yaml:"host" env:"PG_HOST"`
	Port     int    `yaml:"port" env:"PG_PORT"`
	User     string `yaml:"user" env:"PG_USER"`
	Password string `yaml:"password" env:"PG_PASSWORD"`
	Dbname   string `yaml:"dbname" env:"PG_DBNAME"`
}

type Email struct {
	SMTPServer string `yaml:"smtp_server" env:"SMTP_SERVER"`
	SMTPPort   int    `yaml:"smtp_port" env:"SMTP_PORT"`
	Username   string `yaml:"username" env:"SMTP_USERNAME"`
	Password   string `yaml:"password" env:"SMTP_PASSWORD"`
	SenderName string `yaml:"sender_name" env:"SMTP_SENDER_NAME"`
	Timeout    int    `yaml:"timeout" env:"SMTP_TIMEOUT"` // seconds
}

type Private struct {
	JwtKey string `yaml:"jwt_key" env:"JWT_KEY"`
	Pg     Pg     `yaml:"pg"`
	Email  Email  `yaml:"email"`
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) JwtTTL() time.Duration {
	return c.Public.JwtTTL
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file")
	}
}

// MustLoad reads public.yaml and private.yaml from configFolder. Secrets in
// the private part can be overridden through TASKWARD_-prefixed environment
// variables, so deployments don't have to keep credentials on disk.
func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	if err := env.ParseWithOptions(&private, env.Options{Prefix: "TASKWARD_"}); err != nil {
		panic("can't parse config env overrides: " + err.Error())
	}

	cfg := &Config{public, private}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Public.JwtTTL == 0 {
		c.Public.JwtTTL = 24 * time.Hour
	}
	if c.Public.SearchPageSize == 0 {
		c.Public.SearchPageSize = 5
	}
	if c.Public.NotifyWorkers == 0 {
		c.Public.NotifyWorkers = 2
	}
	if c.Public.NotifyQueueSize == 0 {
		c.Public.NotifyQueueSize = 256
	}
	if c.Public.LogLevel == "" {
		c.Public.LogLevel = "info"
	}
}
