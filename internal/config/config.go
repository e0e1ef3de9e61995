package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	GitHub  GitHubConfig  `mapstructure:"github"`
	Player  PlayerConfig  `mapstructure:"player"`
	Library LibraryConfig `mapstructure:"library"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// GitHubConfig holds search API configuration
type GitHubConfig struct {
	Token string `mapstructure:"token"` // Optional; raises the search rate limit
}

// PlayerConfig holds audio player configuration
type PlayerConfig struct {
	Command    string   `mapstructure:"command"`
	Args       []string `mapstructure:"args"`
	VolumeFlag string   `mapstructure:"volume_flag"` // e.g., "--volume="
	Volume     int      `mapstructure:"volume"`      // 0-100, 0 = leave player default
}

// LibraryConfig holds library database configuration
type LibraryConfig struct {
	Path string `mapstructure:"path"` // BoltDB file path
}

// UIConfig holds UI configuration
type UIConfig struct {
	PageSize    int    `mapstructure:"page_size"`    // Search results per page
	DefaultSort string `mapstructure:"default_sort"` // "name", "category", or "repository"
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			Token: "",
		},
		Player: PlayerConfig{
			Command: "mpv",
			Args:    []string{"--no-video"},
		},
		Library: LibraryConfig{
			Path: defaultLibraryPath(),
		},
		UI: UIConfig{
			PageSize:    30,
			DefaultSort: "name",
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "strudel", "strudel.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "strudel", "strudel.log")
	}
}

// defaultLibraryPath returns the default library database path for the current OS
func defaultLibraryPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "strudel", "library.db")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "strudel", "library.db")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "strudel")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "strudel")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("STRUDEL")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	viper.Set("github.token", cfg.GitHub.Token)

	viper.Set("player.command", cfg.Player.Command)
	viper.Set("player.args", cfg.Player.Args)
	viper.Set("player.volume_flag", cfg.Player.VolumeFlag)
	viper.Set("player.volume", cfg.Player.Volume)

	viper.Set("library.path", cfg.Library.Path)

	viper.Set("ui.page_size", cfg.UI.PageSize)
	viper.Set("ui.default_sort", cfg.UI.DefaultSort)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	return writeConfigFile()
}

// SaveToken updates just the search API token in the configuration
func SaveToken(token string) error {
	viper.Set("github.token", token)
	return writeConfigFile()
}

func writeConfigFile() error {
	configPath := defaultConfigPath()
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
