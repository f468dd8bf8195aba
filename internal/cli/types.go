package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jplusplus/nwcharts/pkg/chart"
)

// typeDescriptions is shown by "nwcharts types" and the "new" picker.
var typeDescriptions = map[string]string{
	chart.SerialChart:                   "Lines or bars over time",
	chart.SeasonalChart:                 "One line per year over a shared calendar axis",
	chart.CategoricalChart:              "Bars per category",
	chart.CategoricalChartWithReference: "Bars per category against a reference series",
	chart.ProgressChart:                 "Progress towards a target per category",
	chart.ScatterPlot:                   "Labelled (x, y) points",
	chart.RangePlot:                     "Change between two values per category",
	chart.StripeChart:                   "Colored stripes, one per period",
	chart.ChoroplethMap:                 "Regions colored by value or category",
	chart.DatawrapperChart:              "Rendered by the Datawrapper API",
}

// typesCommand lists the chart types and the formats they render to.
func (c *CLI) typesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the supported chart types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listTypes(cmd.OutOrStdout())
		},
	}
}

func listTypes(w io.Writer) error {
	var rows [][]string
	for _, name := range chart.Types() {
		ch, err := chart.New(name, chart.Options{Width: 1})
		if err != nil {
			return err
		}
		rows = append(rows, []string{name, strings.Join(ch.Formats(), ", "), typeDescriptions[name]})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Type", "Formats", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorTeal)
			case col == 1:
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
