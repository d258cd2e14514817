package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"tabinsight/internal/analytics"
)

func newDescribeCmd(c *cli) *cobra.Command {
	var columns []string

	cmd := &cobra.Command{
		Use:   "describe <file>",
		Short: "Print descriptive statistics of numeric columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := c.readTable(args[0])
			if err != nil {
				return err
			}

			a := c.analyzer()
			if len(columns) == 0 {
				columns = a.Profile(table).NumericColumns
			}
			if len(columns) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "(no numeric columns)")
				return nil
			}

			stats, err := a.Describe(table, columns)
			if err != nil {
				return err
			}
			renderStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&columns, "columns", "c", nil, "columns to describe (default: all numeric columns)")
	return cmd
}

func newSummaryCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <file>",
		Short: "Print rule-based insights about a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := c.readTable(args[0])
			if err != nil {
				return err
			}
			for _, insight := range c.analyzer().Summarize(cmd.Context(), table) {
				fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", insight)
			}
			return nil
		},
	}
}

func renderStats(w io.Writer, stats []analytics.ColumnStats) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Variable", "Count", "Mean", "Median", "Std", "Min", "Max"})
	for _, s := range stats {
		table.Append([]string{
			s.Variable,
			strconv.Itoa(s.Count),
			formatStat(s.Mean),
			formatStat(s.Median),
			formatStat(s.Std),
			formatStat(s.Min),
			formatStat(s.Max),
		})
	}
	table.Render()
}

// formatStat prints an undefined statistic as "-"
func formatStat(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
