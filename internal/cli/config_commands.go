package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rotdrop/filepicker/internal/config"
)

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the filepick configuration file",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("base_url    = %s\n", cfg.BaseURL)
			fmt.Printf("username    = %s\n", cfg.Username)
			fmt.Printf("password    = %s\n", maskSecret(cfg.Password))
			fmt.Printf("proxy.mode  = %s\n", cfg.Proxy.Mode)
			if cfg.Proxy.Host != "" {
				fmt.Printf("proxy.host  = %s:%d\n", cfg.Proxy.Host, cfg.Proxy.Port)
			}
			fmt.Printf("show_hidden = %t\n", cfg.Picker.ShowHidden)
			fmt.Printf("start_path  = %s\n", cfg.Picker.StartPath)
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Interactively create the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}

			if v, err := promptLine(fmt.Sprintf("Server base URL [%s]: ", cfg.BaseURL)); err != nil {
				return err
			} else if v != "" {
				cfg.BaseURL = v
			}
			if v, err := promptLine(fmt.Sprintf("Username [%s]: ", cfg.Username)); err != nil {
				return err
			} else if v != "" {
				cfg.Username = v
			}
			if v, err := promptPassword("Password (empty to prompt each run): "); err != nil {
				return err
			} else if v != "" {
				cfg.Password = v
			}

			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.Save(cfg, cfgFile); err != nil {
				return err
			}

			path := cfgFile
			if path == "" {
				path, _ = config.DefaultConfigPath()
			}
			fmt.Println("Configuration written to", path)
			return nil
		},
	})

	return configCmd
}

func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	return "********"
}
