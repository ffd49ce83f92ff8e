// Config loading for the strata CLI.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/dukaforge/strata/internal/paths"
	"github.com/dukaforge/strata/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend   = "backend"
	cfgKeyWorkspace = "workspace"
)

// loadConfig reads config.yaml from the config directory using Viper. A
// missing config.yaml is not an error; defaults apply.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// resolveWorkspace returns the workspace path from flag, env, config file,
// or default, in that order.
func resolveWorkspace(configDir string) (string, error) {
	if flags.workspace != "" {
		return flags.workspace, nil
	}
	if v := os.Getenv(paths.EnvWorkspace); v != "" {
		return v, nil
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return "", err
	}
	if ws := cfg.GetString(cfgKeyWorkspace); ws != "" {
		return ws, nil
	}
	return filepath.Join(configDir, paths.DefaultWorkspaceName), nil
}
