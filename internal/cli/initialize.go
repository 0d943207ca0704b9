package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/A2B-Technology-Corporation/SlicerTools/internal/config"
)

var (
	initBridgeURL string
	initSecret    string
	initForce     bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: `Write a configuration file with sensible defaults so it can be
edited by hand. Existing configuration is preserved unless --force is given.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initBridgeURL, "bridge-url", "", "Slicer bridge WebSocket URL")
	initCmd.Flags().StringVar(&initSecret, "shared-secret", "", "shared secret for gateway authentication")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing configuration file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	loader := config.NewLoader(cfgFile)

	configPath, err := loader.GetConfigPath()
	if err != nil {
		return err
	}
	if !initForce {
		if _, statErr := os.Stat(configPath); statErr == nil {
			return fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", configPath)
		}
	}

	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if initBridgeURL != "" {
		cfg.Slicer.URL = initBridgeURL
	}
	if initSecret != "" {
		cfg.Gateway.SharedSecret = initSecret
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := loader.Save(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", configPath)
	return nil
}
