// Generic table subcommands: create, schema, count, get, set, del.
package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dukaforge/strata/pkg/crud"
	"github.com/dukaforge/strata/pkg/types"
)

func newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <table> <col:type[:pk|:notnull]>...",
		Short: "Create a table in the workspace",
		Long: "Create a table from column specs. Mark exactly one column :pk to make\n" +
			"it the autoincrement surrogate key, e.g.\n\n" +
			"  strata create orders id:INTEGER:pk orderid:INTEGER supplier:TEXT total:REAL",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := parseColumnSpecs(args[1:])
			if err != nil {
				return exitError(exitUserError, err.Error())
			}
			store, err := openStore()
			if err != nil {
				return exitError(exitSysError, err.Error())
			}
			defer store.Close()

			if err := store.CreateTable(args[0], schema); err != nil {
				return exitError(exitUserError, err.Error())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created table %s\n", args[0])
			return nil
		},
	}
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <table>",
		Short: "Print a table's column list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return exitError(exitSysError, err.Error())
			}
			defer store.Close()

			schema, err := store.Schema(args[0])
			if err != nil {
				return exitError(exitUserError, err.Error())
			}
			if flags.jsonMode {
				return printJSON(cmd, schema)
			}
			for _, f := range schema {
				line := fmt.Sprintf("%s %s", f.Name, f.Type)
				if !f.Nullable {
					line += " not-null"
				}
				if !f.Editable {
					line += " key"
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

func newCountCmd() *cobra.Command {
	var where string
	cmd := &cobra.Command{
		Use:   "count <table>",
		Short: "Count rows, optionally matching a where clause",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return exitError(exitSysError, err.Error())
			}
			defer store.Close()

			n, err := crud.New(store, args[0]).RowCount(where)
			if err != nil {
				return exitError(exitUserError, err.Error())
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
	cmd.Flags().StringVar(&where, "where", "", "row filter, e.g. \"total>100 AND supplier='Widget Co'\"")
	return cmd
}

func newGetCmd() *cobra.Command {
	var keys, cols []string
	cmd := &cobra.Command{
		Use:   "get <table>",
		Short: "Look up a single row by key/value pairs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := parseKVs(keys)
			if err != nil {
				return exitError(exitUserError, err.Error())
			}
			if len(filter) == 0 {
				return exitError(exitUserError, "get needs at least one -k col=val pair")
			}
			store, err := openStore()
			if err != nil {
				return exitError(exitSysError, err.Error())
			}
			defer store.Close()

			engine := crud.New(store, args[0])
			readCols := cols
			if len(readCols) == 0 {
				schema, err := engine.Schema()
				if err != nil {
					return exitError(exitUserError, err.Error())
				}
				readCols = schema.Names()
			}
			vals, err := engine.Lookup(readCols, filter)
			if err != nil {
				return exitError(exitUserError, err.Error())
			}

			out := make(map[string]any, len(readCols))
			for i, c := range readCols {
				out[c] = vals[i]
			}
			if flags.jsonMode {
				return printJSON(cmd, out)
			}
			for i, c := range readCols {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", c, vals[i])
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&keys, "key", "k", nil, "key col=val pair (repeatable)")
	cmd.Flags().StringSliceVarP(&cols, "cols", "c", nil, "columns to read (default all)")
	return cmd
}

func newSetCmd() *cobra.Command {
	var keys, values []string
	var forceInsert bool
	cmd := &cobra.Command{
		Use:   "set <table>",
		Short: "Upsert a row: update the row matching the keys, or insert it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := parseKVs(keys)
			if err != nil {
				return exitError(exitUserError, err.Error())
			}
			vals, err := parseKVs(values)
			if err != nil {
				return exitError(exitUserError, err.Error())
			}
			if len(filter) == 0 && len(vals) == 0 {
				return exitError(exitUserError, "set needs -k and/or -v col=val pairs")
			}
			store, err := openStore()
			if err != nil {
				return exitError(exitSysError, err.Error())
			}
			defer store.Close()

			engine := crud.New(store, args[0], crud.WithSession(store))
			var id int64
			var inserted bool
			err = engine.Tran().Transact(func() error {
				var err error
				id, inserted, err = engine.Upsert(filter, vals, crud.UpsertOptions{
					ForceInsert: forceInsert,
					FailOnMulti: true,
				})
				return err
			})
			if err != nil {
				return exitError(exitUserError, err.Error())
			}
			if inserted {
				fmt.Fprintf(cmd.OutOrStdout(), "inserted %d\n", id)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "updated")
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&keys, "key", "k", nil, "key col=val pair (repeatable)")
	cmd.Flags().StringArrayVarP(&values, "value", "v", nil, "value col=val pair (repeatable)")
	cmd.Flags().BoolVar(&forceInsert, "force-insert", false, "always insert, even when the keys match a row")
	return cmd
}

func newDelCmd() *cobra.Command {
	var keys []string
	var multi, missingOK, all bool
	cmd := &cobra.Command{
		Use:   "del <table>",
		Short: "Delete the row(s) matching key/value pairs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := parseKVs(keys)
			if err != nil {
				return exitError(exitUserError, err.Error())
			}
			if len(filter) == 0 && !all {
				return exitError(exitUserError, "del needs -k col=val pairs, or --all to wipe the table")
			}
			store, err := openStore()
			if err != nil {
				return exitError(exitSysError, err.Error())
			}
			defer store.Close()

			engine := crud.New(store, args[0], crud.WithSession(store))
			var n int
			err = engine.Tran().Transact(func() error {
				var err error
				if all {
					n, err = engine.DeleteAllRows()
					return err
				}
				n, err = engine.Delete(filter, !multi, !missingOK)
				return err
			})
			if err != nil {
				return exitError(exitUserError, err.Error())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d\n", n)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&keys, "key", "k", nil, "key col=val pair (repeatable)")
	cmd.Flags().BoolVar(&multi, "multi", false, "allow deleting more than one row")
	cmd.Flags().BoolVar(&missingOK, "missing-ok", false, "do not error when nothing matches")
	cmd.Flags().BoolVar(&all, "all", false, "delete every row in the table")
	return cmd
}

// parseKVs turns repeated col=val flags into a filter map. Values parse as
// integer, then float, then "null", then string.
func parseKVs(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		col, raw, ok := strings.Cut(p, "=")
		if !ok || col == "" {
			return nil, fmt.Errorf("invalid pair %q, want col=val", p)
		}
		out[col] = parseValue(raw)
	}
	return out, nil
}

func parseValue(raw string) any {
	if raw == "null" {
		return nil
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

// parseColumnSpecs turns "name:type[:pk|:notnull]" specs into a schema.
func parseColumnSpecs(specs []string) (types.Schema, error) {
	schema := make(types.Schema, 0, len(specs))
	pkSeen := false
	for _, spec := range specs {
		parts := strings.Split(spec, ":")
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("invalid column spec %q, want name:type[:pk|:notnull]", spec)
		}
		f := types.Field{Name: parts[0], Type: parts[1], Nullable: true, Editable: true}
		for _, mod := range parts[2:] {
			switch mod {
			case "pk":
				f.Editable = false
				f.Nullable = false
				pkSeen = true
			case "notnull":
				f.Nullable = false
			default:
				return nil, fmt.Errorf("unknown column modifier %q in %q", mod, spec)
			}
		}
		if !f.Editable && len(schema) > 0 {
			return nil, fmt.Errorf("the :pk column must come first (%q)", spec)
		}
		schema = append(schema, f)
	}
	if !pkSeen {
		return nil, fmt.Errorf("mark one column :pk as the surrogate key")
	}
	return schema, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
