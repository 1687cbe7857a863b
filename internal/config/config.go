package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Source kinds
const (
	SourceMock = "mock"
	SourceSQL  = "sql"
	SourceFile = "file"
)

type Database struct {
	Name     string `yaml:"name"`
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	Schema   string `yaml:"schema"`
	Default  bool   `yaml:"default"`
}

type Config struct {
	Application struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
		Lang    string `yaml:"lang"`
	} `yaml:"application"`

	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	Database []Database `yaml:"database"`

	Catalog struct {
		Path string `yaml:"path"`
	} `yaml:"catalog"`

	Source struct {
		Kind    string `yaml:"kind"`
		Dataset string `yaml:"dataset"`
		Query   string `yaml:"query"`
		Path    string `yaml:"path"`
	} `yaml:"source"`

	Sessions struct {
		Max         *int   `yaml:"max"`
		IdleTimeout string `yaml:"idle_timeout"`
		AbsTimeout  string `yaml:"abs_timeout"`
	} `yaml:"sessions"`
}

// Load reads a YAML config file, expanding ${VAR} references after loading
// any .env file in the working directory.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // Ignore error as it might not exist in prod

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML config bytes with environment expansion and defaults.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Application.Lang == "" {
		cfg.Application.Lang = "en"
	}
	if cfg.Source.Kind == "" {
		cfg.Source.Kind = SourceMock
	}
	if cfg.Source.Kind == SourceMock && cfg.Source.Dataset == "" {
		cfg.Source.Dataset = "revenue"
	}
	if cfg.Sessions.Max == nil {
		n := 100
		cfg.Sessions.Max = &n
	}
	if _, _, err := cfg.SessionTimeouts(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MaxSessions is the session pool capacity; 0 means unlimited.
func (c *Config) MaxSessions() int {
	if c.Sessions.Max == nil {
		return 100
	}
	return *c.Sessions.Max
}

// SessionTimeouts returns the idle and absolute session lifetimes. Unset
// values default to 5m and 1h; an explicit 0 disables that timeout.
func (c *Config) SessionTimeouts() (idle, abs time.Duration, err error) {
	idle, err = parseTimeout("idle_timeout", c.Sessions.IdleTimeout, 5*time.Minute)
	if err != nil {
		return 0, 0, err
	}
	abs, err = parseTimeout("abs_timeout", c.Sessions.AbsTimeout, time.Hour)
	if err != nil {
		return 0, 0, err
	}
	return idle, abs, nil
}

func parseTimeout(name, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("sessions.%s: %w", name, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("sessions.%s: negative duration %s", name, value)
	}
	return d, nil
}

// DefaultDatabase returns the database marked default, or the first one.
func (c *Config) DefaultDatabase() (Database, bool) {
	for _, d := range c.Database {
		if d.Default {
			return d, true
		}
	}
	if len(c.Database) > 0 {
		return c.Database[0], true
	}
	return Database{}, false
}

// DSN builds the driver connection string. sqlite3 uses Database as the
// file path.
func (d Database) DSN() string {
	if d.Driver == "sqlite3" {
		return d.Database
	}
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Database)
	if d.Schema != "" {
		dsn += fmt.Sprintf(" search_path=%s,public", d.Schema)
	}
	return dsn
}

// DriverName defaults to postgres
func (d Database) DriverName() string {
	if d.Driver == "" {
		return "postgres"
	}
	return d.Driver
}
