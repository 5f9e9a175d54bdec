// Package flags holds the persistent flags shared by every subcommand.
package flags

import (
	"github.com/spf13/cobra"

	"upload-ai/internal/config"
)

const (
	Verbose = "verbose"
	Config  = "config"
)

// LoadConfig reads the configuration named by --config and applies --verbose.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString(Config)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if IsVerbose(cmd) {
		cfg.LogDevelopment = true
	}
	return cfg, nil
}

func IsVerbose(cmd *cobra.Command) bool {
	verbose, _ := cmd.Flags().GetBool(Verbose)
	return verbose
}
