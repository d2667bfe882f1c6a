package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	// application settings
	Environment string `env:"ENVIRONMENT" env-default:"development"`
	ServiceName string `env:"SERVICE_NAME" env-default:"exclusion-dashboard"`

	// logging configuration
	LogLevel     string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat    string `env:"LOG_FORMAT" env-default:"text"`
	LogAddSource bool   `env:"LOG_ADD_SOURCE" env-default:"false"`

	// tracker source settings; leaving GITHUB_REPO empty disables the live
	// API path and the loader goes straight to the snapshot url / file
	GithubAPIURL  string        `env:"GITHUB_API_URL" env-default:"https://api.github.com"`
	GithubOwner   string        `env:"GITHUB_OWNER" env-default:""`
	GithubRepo    string        `env:"GITHUB_REPO" env-default:""`
	GithubToken   string        `env:"GITHUB_TOKEN" env-default:""`
	GithubTimeout time.Duration `env:"GITHUB_TIMEOUT" env-default:"30s"`
	IssuesPerPage int           `env:"ISSUES_PER_PAGE" env-default:"100"`
	FetchWindow   time.Duration `env:"FETCH_WINDOW" env-default:"720h"` // trailing 30 days
	FetchComments bool          `env:"FETCH_COMMENTS" env-default:"true"`

	// cached snapshot settings
	SnapshotURL  string        `env:"SNAPSHOT_URL" env-default:""`
	SnapshotPath string        `env:"SNAPSHOT_PATH" env-default:"issues_list.json"`
	SnapshotCap  int           `env:"SNAPSHOT_CAP" env-default:"50"`
	CacheTTL     time.Duration `env:"CACHE_TTL" env-default:"10m"`

	// http server configuration
	ServerHost         string        `env:"SERVER_HOST" env-default:"0.0.0.0"`
	ServerPort         int           `env:"SERVER_PORT" env-default:"8080"`
	ServerReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" env-default:"30s"`
	ServerWriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" env-default:"30s"`
	ServerIdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
}

func New() (*Config, error) {
	var cfg Config

	// read from .env file if exists (optional)
	if err := cleanenv.ReadConfig(".env", &cfg); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read dotenv file: %w", err)
	}

	// read from environment variables
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment variables: %w", err)
	}

	return &cfg, nil
}
