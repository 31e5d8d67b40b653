package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"deprovtool/internal/dataset"
	"deprovtool/internal/deprov"
)

func newColumnsCommand() *cobra.Command {
	var schemaFile string
	cmd := &cobra.Command{
		Use:   "columns <file>...",
		Short: "Show which logical fields each export resolves",
		Long: `Columns prints the header row of every file and, for each export kind,
which logical fields resolve and through which header. Use it to check a new
export before running generate, or to write a --schema override.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := deprov.LoadSchema(schemaFile)
			if err != nil {
				return fmt.Errorf("failed to load schema: %w", err)
			}
			for i, path := range args {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				d, err := dataset.LoadFile(filepath.Base(path), path)
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", path, err)
					continue
				}
				describeColumns(cmd.OutOrStdout(), path, d, schema)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&schemaFile, "schema", "", "YAML file with extra column-header synonyms")
	return cmd
}

// describeColumns prints the headers of d and the field resolution for
// every table kind, marking the kinds whose required fields all resolve.
func describeColumns(w io.Writer, path string, d *dataset.Dataset, schema deprov.Schema) {
	fmt.Fprintf(w, "%s (%d rows)\n", path, d.Len())
	fmt.Fprintf(w, "  Headers: %s\n", strings.Join(d.Headers(), ", "))

	for _, t := range schema.Tables() {
		_, err := dataset.ResolveAll(d, t.Required...)
		status := "usable"
		if err != nil {
			status = "not usable"
		}
		fmt.Fprintf(w, "  %s: %s\n", t.Label, status)
		for _, f := range t.Required {
			fmt.Fprintf(w, "    %s\n", fieldLine(d, f, "required"))
		}
		for _, f := range t.Optional {
			fmt.Fprintf(w, "    %s\n", fieldLine(d, f, "optional"))
		}
	}
}

func fieldLine(d *dataset.Dataset, f dataset.Field, kind string) string {
	if col, ok := dataset.Resolve(d, f); ok {
		return fmt.Sprintf("%-22s -> %q (column %d)", f.Name, d.Headers()[col.Index], col.Index+1)
	}
	return fmt.Sprintf("%-22s -> missing (%s, accepts: %s)", f.Name, kind, strings.Join(f.Synonyms, ", "))
}
