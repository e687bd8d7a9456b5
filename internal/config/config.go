package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Bank sources understood by the CLI.
const (
	SourceStatic   = "static"
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
)

type Config struct {
	Env  string `yaml:"env"`
	Bank struct {
		Source string `yaml:"source"`
		ID     string `yaml:"id"`
		Dir    string `yaml:"dir"`
	} `yaml:"bank"`
	Rules struct {
		TrafficLightQuestionID int `yaml:"traffic_light_question_id"`
		TopStudentScore        int `yaml:"top_student_score"`
	} `yaml:"rules"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Cache struct {
		TTL string `yaml:"ttl"`
	} `yaml:"cache"`
}

// Default is the configuration used when no file is present.
func Default() Config {
	cfg := Config{Env: "local"}
	cfg.Bank.Source = SourceStatic
	cfg.Bank.ID = "traffic-safety"
	cfg.Bank.Dir = "banks"
	cfg.SQLite.Path = "./data/banks.db"
	return cfg
}

// Load reads YAML config from path on top of Default. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
