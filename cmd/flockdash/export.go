package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kombefarm/flockdash/internal/app"
	"github.com/kombefarm/flockdash/internal/grid"
)

func newExportCmd(flags *globalFlags) *cobra.Command {
	var (
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every flock to a CSV or XLSX file without opening the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := grid.ParseFormat(format)
			if err != nil {
				return err
			}
			path, err := app.Export(cmd.Context(), flags.options(), app.ExportOptions{Format: f, Out: out})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(grid.FormatCSV), "output format: csv or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default a timestamped file in export_dir)")
	return cmd
}
