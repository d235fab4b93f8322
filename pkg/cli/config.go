package cli

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stubd/stubd/pkg/config"
)

// addFileFlag registers the -f/--file flag shared by every command that
// reads a config.
func addFileFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "file", "f", "", "Path to the config file (YAML or JSON, default: "+config.DefaultFileName+")")
}

// configPath returns path, or the default file name when path is empty.
func configPath(path string) string {
	if path == "" {
		return config.DefaultFileName
	}
	return path
}

// loadConfig loads and validates the config at path.
func loadConfig(path string) (*config.ServerConfig, error) {
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		if errors.Is(err, config.ErrFileNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		if _, ok := config.AsValidationResult(err); ok {
			return nil, fmt.Errorf("%w: %s\n%w", ErrInvalidConfig, path, err)
		}
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// computeConfigHash returns a sha256 hash prefix of the serialized config.
func computeConfigHash(cfg *config.ServerConfig) string {
	data, err := json.Marshal(cfg)
	if err != nil {
		return "unknown"
	}
	h := sha256.Sum256(data)
	return fmt.Sprintf("sha256:%x", h[:8])
}
