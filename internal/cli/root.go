// Package cli implements the strata command-line interface: generic table
// operations (create, schema, count, get, set, del) over a workspace store.
// All console output lives here; the engine packages only return errors.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dukaforge/strata/internal/paths"
	"github.com/dukaforge/strata/internal/sqlite"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	workspace string
	jsonMode  bool
}

var flags rootFlags

// NewRootCmd creates the top-level "strata" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "strata",
		Short: "Record-level CRUD over a tabular workspace store",
		Long: "Strata manages records in a workspace of tables: keyed upserts,\n" +
			"guarded updates and deletes, and per-record audit logging.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: .strata)")
	root.PersistentFlags().StringVar(&flags.workspace, "workspace", "", "workspace database path")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newCreateCmd())
	root.AddCommand(newSchemaCmd())
	root.AddCommand(newCountCmd())
	root.AddCommand(newGetCmd())
	root.AddCommand(newSetCmd())
	root.AddCommand(newDelCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitUserError)
	}
}

// openStore resolves the workspace (flag, env, config file, default) and
// opens it.
func openStore() (*sqlite.Store, error) {
	configDir := paths.ConfigDir(flags.configDir)
	workspace, err := resolveWorkspace(configDir)
	if err != nil {
		return nil, err
	}
	return sqlite.Open(workspace)
}

// exitError prints the error to stderr and exits with the given code.
func exitError(code int, msg string) error {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(code)
	return nil // unreachable
}
