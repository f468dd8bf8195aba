package cli

import (
	"fmt"
	"image/color"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jplusplus/nwcharts/pkg/colors"
	"github.com/jplusplus/nwcharts/pkg/style"
)

// stylesCommand lists the built-in styles, or shows the parameters of one.
func (c *CLI) stylesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "styles [name|path]",
		Short: "List built-in styles or show a style's parameters",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				s, err := c.resolveStyle(args[0])
				if err != nil {
					return err
				}
				return showStyle(cmd.OutOrStdout(), s)
			}
			return listStyles(cmd.OutOrStdout())
		},
	}
	return cmd
}

func (c *CLI) resolveStyle(name string) (*style.Style, error) {
	if r := c.config().StyleResolver(); r != nil {
		return r.Resolve(name)
	}
	return style.Resolve(name)
}

func listStyles(w io.Writer) error {
	var rows [][]string
	for _, name := range style.Builtins() {
		s, err := style.Resolve(name)
		if err != nil {
			return err
		}
		row := []string{name}
		for _, role := range colors.Roles {
			row = append(row, swatch(s.RoleColor(role)))
		}
		row = append(row, hexColor(s.Background()))
		if name == style.DefaultName {
			row[0] += StyleDim.Render(" (default)")
		}
		rows = append(rows, row)
	}

	headers := append([]string{"Style"}, colors.Roles...)
	headers = append(headers, "background")
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func showStyle(w io.Writer, s *style.Style) error {
	fmt.Fprintln(w, StyleTitle.Render(s.Name))
	for _, k := range s.Keys() {
		v, _ := s.Get(k)
		if _, err := fmt.Fprintf(w, "%s %s\n", StyleDim.Render(k+":"), v); err != nil {
			return err
		}
	}
	return nil
}

// swatch renders a block in the color followed by its value.
func swatch(clr string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(clr)).Render("■") + " " + clr
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
