package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dukaforge/strata/internal/paths"
	"github.com/dukaforge/strata/internal/sqlite"
	"github.com/dukaforge/strata/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend   string `yaml:"backend"`
	Workspace string `yaml:"workspace,omitempty"`
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a strata workspace",
		Long:  "Create the configuration directory, write a default config.yaml,\nand create the workspace database.",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir := paths.ConfigDir(flags.configDir)
	workspace, err := resolveWorkspace(configDir)
	if err != nil {
		return exitError(exitUserError, fmt.Sprintf("resolve workspace: %s", err))
	}
	cfg := types.Config{Backend: types.BackendSQLite, Workspace: workspace}
	if err := cfg.Validate(); err != nil {
		return exitError(exitUserError, fmt.Sprintf("invalid configuration: %s", err))
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return exitError(exitSysError, fmt.Sprintf("create config directory: %s", err))
	}

	configPath := filepath.Join(configDir, configFileExt)
	if err := writeConfigIfMissing(configPath, workspace); err != nil {
		return exitError(exitSysError, fmt.Sprintf("write config: %s", err))
	}

	if dir := filepath.Dir(workspace); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return exitError(exitSysError, fmt.Sprintf("create workspace directory: %s", err))
		}
	}

	store, err := sqlite.Open(workspace)
	if err != nil {
		return exitError(exitSysError, fmt.Sprintf("initialize workspace: %s", err))
	}
	if err := store.Close(); err != nil {
		return exitError(exitSysError, fmt.Sprintf("finalize workspace: %s", err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Workspace initialized at %s\n", workspace)
	return nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. If it already exists, the function returns nil (idempotent).
func writeConfigIfMissing(path, workspace string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	cfg := configFile{
		Backend:   types.BackendSQLite,
		Workspace: workspace,
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
