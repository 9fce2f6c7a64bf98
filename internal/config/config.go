// Package config provides configuration management for the filepicker
// CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/ini.v1"
)

// Config holds the server connection, proxy, and picker preferences.
//
// Config file location:
//   - Windows: %USERPROFILE%\.config\filepicker\config
//   - Unix: ~/.config/filepicker/config
//
// INI format:
//
//	[server]
//	base_url = https://cloud.example.com
//	username = alice
//	password = <app-password>
//
//	[proxy]
//	mode = no-proxy
//	host =
//	port = 8080
//	user =
//	no_proxy =
//
//	[picker]
//	show_hidden = false
//	start_path = /
type Config struct {
	// Server connection settings
	BaseURL  string `ini:"base_url"`
	Username string `ini:"username"`
	Password string `ini:"password"`

	// Proxy settings
	Proxy ProxyConfig

	// Picker preferences
	Picker PickerConfig
}

// ProxyConfig contains outbound proxy settings.
type ProxyConfig struct {
	// Mode is one of "no-proxy", "system", "basic", "ntlm".
	// Default: "no-proxy"
	Mode string `ini:"mode"`

	// Host and Port locate the proxy for basic and ntlm modes.
	Host string `ini:"host"`
	Port int    `ini:"port"`

	// User and Password authenticate against the proxy. The password
	// is usually not saved and prompted for instead.
	User     string `ini:"user"`
	Password string `ini:"password"`

	// NoProxy is a comma-separated bypass list of hosts and CIDRs.
	NoProxy string `ini:"no_proxy"`
}

// PickerConfig contains picker preferences.
type PickerConfig struct {
	// ShowHidden lists dotfiles. Default: false
	ShowHidden bool `ini:"show_hidden"`

	// StartPath is the directory a picker opens in when no path was
	// remembered. Default: "/"
	StartPath string `ini:"start_path"`
}

// Validation errors
var (
	ErrMissingBaseURL  = errors.New("base_url is required")
	ErrMissingUsername = errors.New("username is required")
)

// DefaultConfigPath returns the default path for the config file.
// - Windows: %USERPROFILE%\.config\filepicker\config
// - Unix: ~/.config/filepicker/config
func DefaultConfigPath() (string, error) {
	var configDir string

	if runtime.GOOS == "windows" {
		userProfile := os.Getenv("USERPROFILE")
		if userProfile == "" {
			return "", errors.New("USERPROFILE environment variable not set")
		}
		configDir = filepath.Join(userProfile, ".config", "filepicker")
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config", "filepicker")
	}

	return filepath.Join(configDir, "config"), nil
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Proxy: ProxyConfig{
			Mode: "no-proxy",
		},
		Picker: PickerConfig{
			ShowHidden: false,
			StartPath:  "/",
		},
	}
}

// Load loads configuration from an INI file.
// If the file doesn't exist, returns a config with default values and
// no error. If the file exists but is invalid, returns an error.
func Load(path string) (*Config, error) {
	cfg := New()

	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return cfg, nil
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	iniFile, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	serverSection := iniFile.Section("server")
	cfg.BaseURL = serverSection.Key("base_url").String()
	cfg.Username = serverSection.Key("username").String()
	cfg.Password = serverSection.Key("password").String()

	proxySection := iniFile.Section("proxy")
	cfg.Proxy.Mode = proxySection.Key("mode").MustString("no-proxy")
	cfg.Proxy.Host = proxySection.Key("host").String()
	cfg.Proxy.Port = proxySection.Key("port").MustInt(0)
	cfg.Proxy.User = proxySection.Key("user").String()
	cfg.Proxy.Password = proxySection.Key("password").String()
	cfg.Proxy.NoProxy = proxySection.Key("no_proxy").String()

	pickerSection := iniFile.Section("picker")
	cfg.Picker.ShowHidden = pickerSection.Key("show_hidden").MustBool(false)
	cfg.Picker.StartPath = pickerSection.Key("start_path").MustString("/")

	return cfg, nil
}

// Save saves configuration to an INI file.
// Creates parent directories if they don't exist. Passwords are stored
// in the file - ensure appropriate file permissions.
func Save(cfg *Config, path string) error {
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to determine config path: %w", err)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	iniFile := ini.Empty()

	serverSection, err := iniFile.NewSection("server")
	if err != nil {
		return fmt.Errorf("failed to create server section: %w", err)
	}
	serverSection.Key("base_url").SetValue(cfg.BaseURL)
	serverSection.Key("username").SetValue(cfg.Username)
	serverSection.Key("password").SetValue(cfg.Password)

	proxySection, err := iniFile.NewSection("proxy")
	if err != nil {
		return fmt.Errorf("failed to create proxy section: %w", err)
	}
	proxySection.Key("mode").SetValue(cfg.Proxy.Mode)
	proxySection.Key("host").SetValue(cfg.Proxy.Host)
	proxySection.Key("port").SetValue(fmt.Sprintf("%d", cfg.Proxy.Port))
	proxySection.Key("user").SetValue(cfg.Proxy.User)
	proxySection.Key("no_proxy").SetValue(cfg.Proxy.NoProxy)

	pickerSection, err := iniFile.NewSection("picker")
	if err != nil {
		return fmt.Errorf("failed to create picker section: %w", err)
	}
	pickerSection.Key("show_hidden").SetValue(fmt.Sprintf("%t", cfg.Picker.ShowHidden))
	pickerSection.Key("start_path").SetValue(cfg.Picker.StartPath)

	if err := iniFile.SaveTo(path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to restrict config permissions: %w", err)
	}
	return nil
}

// Validate checks that the config is sufficient to reach a server.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrMissingBaseURL
	}
	if c.Username == "" {
		return ErrMissingUsername
	}
	return nil
}
