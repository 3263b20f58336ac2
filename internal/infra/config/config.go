package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultPath = "config.yaml"

type Config struct {
	Download DownloadConfig `mapstructure:"download" yaml:"download"`
	Tools    ToolsConfig    `mapstructure:"tools" yaml:"tools"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Store    StoreConfig    `mapstructure:"store" yaml:"store"`

	Port string `mapstructure:"port" yaml:"port"`
}

type DownloadConfig struct {
	OutDir        string `mapstructure:"out_dir" yaml:"out_dir"`
	MaxConcurrent int    `mapstructure:"max_concurrent" yaml:"max_concurrent"`
	Route         string `mapstructure:"route" yaml:"route"`
}

// ToolsConfig names the external binaries. Bare names are looked up in PATH.
type ToolsConfig struct {
	SpotDL string `mapstructure:"spotdl" yaml:"spotdl"`
	YtDlp  string `mapstructure:"ytdlp" yaml:"ytdlp"`
}

type ServerConfig struct {
	WSPath         string        `mapstructure:"ws_path" yaml:"ws_path"`
	ShutdownGrace  time.Duration `mapstructure:"shutdown_grace" yaml:"shutdown_grace"`
	AllowedOrigins []string      `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	SendBuffer     int           `mapstructure:"send_buffer" yaml:"send_buffer"`
}

type LogConfig struct {
	Path          string `mapstructure:"path" yaml:"path"`
	Level         string `mapstructure:"level" yaml:"level"`
	IncludeStdout bool   `mapstructure:"include_stdout" yaml:"include_stdout"`
}

type StoreConfig struct {
	Driver      string `mapstructure:"driver" yaml:"driver"`
	SQLitePath  string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	PostgresDSN string `mapstructure:"postgres_dsn" yaml:"postgres_dsn"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "3001")
	v.SetDefault("download.out_dir", "./downloads")
	v.SetDefault("download.max_concurrent", 3)
	v.SetDefault("download.route", "/downloads")
	v.SetDefault("tools.spotdl", "spotdl")
	v.SetDefault("tools.ytdlp", "yt-dlp")
	v.SetDefault("server.ws_path", "/ws")
	v.SetDefault("server.shutdown_grace", "5s")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.send_buffer", 64)
	v.SetDefault("log.path", "jacktracker.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.include_stdout", true)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "./data/jacktracker.db")
	v.SetDefault("store.postgres_dsn", "")
}

// Load reads the YAML file at path on top of the defaults. A missing file at
// the default location is not an error: the server runs fine on defaults
// and environment variables alone.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultPath
	}

	v := viper.New()
	setDefaults(v)

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config file not found: %s", path)
	} else if _, errEx := os.Stat("/config/config.yaml"); errEx == nil {
		// Docker layout
		v.SetConfigFile("/config/config.yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file /config/config.yaml: %w", err)
		}
	}

	// Support Environment Variables
	v.SetEnvPrefix("JACKTRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Download.MaxConcurrent < 1 {
		return fmt.Errorf("download.max_concurrent must be at least 1, got %d", c.Download.MaxConcurrent)
	}

	if c.Download.OutDir == "" {
		c.Download.OutDir = "./downloads"
	}

	if !strings.HasPrefix(c.Download.Route, "/") {
		return fmt.Errorf("download.route must start with '/': %q", c.Download.Route)
	}

	if !strings.HasPrefix(c.Server.WSPath, "/") {
		return fmt.Errorf("server.ws_path must start with '/': %q", c.Server.WSPath)
	}

	if c.Server.SendBuffer <= 0 {
		c.Server.SendBuffer = 64
	}

	if c.Tools.SpotDL == "" || c.Tools.YtDlp == "" {
		return errors.New("tools.spotdl and tools.ytdlp must not be empty")
	}

	switch c.Store.Driver {
	case "sqlite":
		if c.Store.SQLitePath == "" {
			return errors.New("store.sqlite_path is required for the sqlite driver")
		}
	case "postgres":
		if c.Store.PostgresDSN == "" {
			return errors.New("store.postgres_dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("store.driver: unsupported value %q", c.Store.Driver)
	}

	return nil
}
