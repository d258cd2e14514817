package main

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"tabinsight/internal/analytics"
)

// siblingPath places a derived file next to the input
func siblingPath(input, name string) string {
	return filepath.Join(filepath.Dir(input), name)
}

func newCleanCmd(c *cli) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "clean <file>",
		Short: "Impute missing values, clip outliers and write a cleaned CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := c.readTable(args[0])
			if err != nil {
				return err
			}

			cleaned, report, err := c.analyzer().Clean(cmd.Context(), table)
			if err != nil {
				return err
			}

			if out == "" {
				stem, _, _ := strings.Cut(filepath.Base(args[0]), ".")
				out = siblingPath(args[0], "cleaned_"+stem+".csv")
			}
			if err := writeTable(out, cleaned); err != nil {
				return err
			}

			renderReport(cmd.OutOrStdout(), report)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default: cleaned_<name>.csv next to the input)")
	return cmd
}

func newMaskCmd(c *cli) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "mask <file>",
		Short: "Mask columns that look like personal data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := c.readTable(args[0])
			if err != nil {
				return err
			}

			masked, columns := c.masker().Mask(cmd.Context(), table)

			if out == "" {
				out = siblingPath(args[0], "masked_"+filepath.Base(args[0]))
			}
			if err := writeTable(out, masked); err != nil {
				return err
			}

			if len(columns) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sensitive columns found")
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Masked columns: %s\n", strings.Join(columns, ", "))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default: masked_<name> next to the input)")
	return cmd
}

func renderReport(w io.Writer, report *analytics.CleaningReport) {
	fmt.Fprintf(w, "Rows: %d  Missing cells: %d  Outliers clipped: %d\n",
		report.TotalRows, report.TotalMissing, report.OutliersHandled)

	columns := append([]string(nil), report.ProcessedColumns...)
	sort.Strings(columns)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Column", "Missing", "Outliers"})
	for _, name := range columns {
		table.Append([]string{
			name,
			strconv.Itoa(report.MissingByColumn[name]),
			strconv.Itoa(report.OutliersByColumn[name]),
		})
	}
	table.Render()
}
