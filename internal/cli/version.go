package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukaforge/strata/pkg/strata"
)

const modulePath = "github.com/dukaforge/strata"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the strata version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "strata v%s\nmodule: %s\n", strata.Version, modulePath)
			return nil
		},
	}
}
