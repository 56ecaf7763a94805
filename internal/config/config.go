package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/GustavoCaso/expenseview/internal/logger"
)

type APIConfig struct {
	BaseURL string        `toml:"base_url" yaml:"base_url"`
	Timeout time.Duration `toml:"timeout"  yaml:"timeout"`
}

type UIConfig struct {
	RecentLimit       int           `toml:"recent_limit"       yaml:"recent_limit"`
	NotificationDelay time.Duration `toml:"notification_delay" yaml:"notification_delay"`
	ChartDelay        time.Duration `toml:"chart_delay"        yaml:"chart_delay"`
}

type DBConfig struct {
	Source      string `toml:"source"       yaml:"source"`
	JournalMode string `toml:"journal_mode" yaml:"journal_mode"`
	BusyTimeout int    `toml:"busy_timeout" yaml:"busy_timeout"`
}

type ServerConfig struct {
	Port string `toml:"port" yaml:"port"`
}

type Config struct {
	API    APIConfig     `toml:"api"    yaml:"api"`
	UI     UIConfig      `toml:"ui"     yaml:"ui"`
	DB     DBConfig      `toml:"db"     yaml:"db"`
	Server ServerConfig  `toml:"server" yaml:"server"`
	Logger logger.Config `toml:"logger" yaml:"logger"`
}

const (
	defaultBaseURL           = "http://localhost:8080/api"
	defaultRecentLimit       = 50
	defaultNotificationDelay = 3 * time.Second
	defaultChartDelay        = 500 * time.Millisecond
	defaultDBSource          = "expenseview.db"
	defaultPort              = "8080"
	defaultLogLevel          = logger.LevelInfo
	defaultLogFormat         = logger.FormatText
	defaultLogOutput         = "stdout"
)

// Parse builds the configuration from defaults, the optional file and the
// environment, in that order of precedence (environment wins). A missing file
// is not an error.
func Parse(file string) (*Config, error) {
	conf := &Config{}

	if err := conf.parseFile(file); err != nil {
		return nil, err
	}

	// .env is optional as well
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := conf.parseEnv(); err != nil {
		return nil, err
	}

	conf.setDefaults()

	return conf, nil
}

func (c *Config) parseFile(file string) error {
	if file == "" {
		return nil
	}

	content, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	switch filepath.Ext(file) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, c)
	default:
		err = toml.Unmarshal(content, c)
	}

	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", file, err)
	}

	return nil
}

func (c *Config) parseEnv() error {
	if url := os.Getenv("EXPENSEVIEW_API_URL"); url != "" {
		c.API.BaseURL = url
	}

	if timeout := os.Getenv("EXPENSEVIEW_API_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid EXPENSEVIEW_API_TIMEOUT %q: %w", timeout, err)
		}
		c.API.Timeout = d
	}

	if limit := os.Getenv("EXPENSEVIEW_RECENT_LIMIT"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			return fmt.Errorf("invalid EXPENSEVIEW_RECENT_LIMIT %q: %w", limit, err)
		}
		c.UI.RecentLimit = n
	}

	if delay := os.Getenv("EXPENSEVIEW_NOTIFICATION_DELAY"); delay != "" {
		d, err := time.ParseDuration(delay)
		if err != nil {
			return fmt.Errorf("invalid EXPENSEVIEW_NOTIFICATION_DELAY %q: %w", delay, err)
		}
		c.UI.NotificationDelay = d
	}

	if delay := os.Getenv("EXPENSEVIEW_CHART_DELAY"); delay != "" {
		d, err := time.ParseDuration(delay)
		if err != nil {
			return fmt.Errorf("invalid EXPENSEVIEW_CHART_DELAY %q: %w", delay, err)
		}
		c.UI.ChartDelay = d
	}

	if db := os.Getenv("EXPENSEVIEW_DB"); db != "" {
		c.DB.Source = db
	}

	if port := os.Getenv("EXPENSEVIEW_PORT"); port != "" {
		c.Server.Port = port
	}

	if level := os.Getenv("EXPENSEVIEW_LOG_LEVEL"); level != "" {
		c.Logger.Level = logger.Level(level)
	}

	if format := os.Getenv("EXPENSEVIEW_LOG_FORMAT"); format != "" {
		c.Logger.Format = logger.Format(format)
	}

	if output := os.Getenv("EXPENSEVIEW_LOG_OUTPUT"); output != "" {
		c.Logger.Output = output
	}

	return nil
}

func (c *Config) setDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaultBaseURL
	}

	if c.UI.RecentLimit <= 0 {
		c.UI.RecentLimit = defaultRecentLimit
	}

	if c.UI.NotificationDelay <= 0 {
		c.UI.NotificationDelay = defaultNotificationDelay
	}

	if c.UI.ChartDelay <= 0 {
		c.UI.ChartDelay = defaultChartDelay
	}

	if c.DB.Source == "" {
		c.DB.Source = defaultDBSource
	}

	if c.Server.Port == "" {
		c.Server.Port = defaultPort
	}

	if c.Logger.Level == "" {
		c.Logger.Level = defaultLogLevel
	}

	if c.Logger.Format == "" {
		c.Logger.Format = defaultLogFormat
	}

	if c.Logger.Output == "" {
		c.Logger.Output = defaultLogOutput
	}
}
