package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/rotdrop/filepicker/internal/config"
	cfghttp "github.com/rotdrop/filepicker/internal/http"
	"github.com/rotdrop/filepicker/webdav"
)

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if username != "" {
		cfg.Username = username
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildClient assembles the WebDAV client from config, prompting for
// missing passwords.
func buildClient() (*webdav.Client, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	if cfghttp.NeedsProxyPassword(cfg.Proxy) {
		pw, err := promptPassword(fmt.Sprintf("Proxy password for %s: ", cfg.Proxy.User))
		if err != nil {
			return nil, nil, err
		}
		cfg.Proxy.Password = pw
	}

	if cfg.Password == "" {
		pw, err := promptPassword(fmt.Sprintf("Password for %s: ", cfg.Username))
		if err != nil {
			return nil, nil, err
		}
		cfg.Password = pw
	}

	httpClient, err := cfghttp.NewClient(cfg.Proxy)
	if err != nil {
		return nil, nil, err
	}

	client, err := webdav.NewClient(webdav.Options{
		BaseURL:    cfg.BaseURL,
		Username:   cfg.Username,
		Password:   cfg.Password,
		HTTPClient: httpClient,
		Logger:     &logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return client, cfg, nil
}

// promptPassword reads a password without echoing it. Falls back to a
// plain line read when stdin is not a terminal.
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		pw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}
	return promptLine("")
}

// promptLine reads one line from stdin.
func promptLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Print(prompt)
	}
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
