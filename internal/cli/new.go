package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jplusplus/nwcharts/pkg/chart"
	"github.com/jplusplus/nwcharts/pkg/errors"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// newCommand writes a starter definition for a chart type.
func (c *CLI) newCommand() *cobra.Command {
	var kind, output string
	var force bool

	cmd := &cobra.Command{
		Use:   "new [file]",
		Short: "Write a starter chart definition",
		Long: `Write a starter chart definition.

Without --type an interactive picker lists the chart types.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				output = args[0]
			}
			if kind == "" {
				picked, err := pickType()
				if err != nil {
					return err
				}
				if picked == "" {
					printInfo("Cancelled")
					return nil
				}
				kind = picked
			}
			body, err := starter(kind)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}
			if _, err := os.Stat(output); err == nil && !force {
				return errors.New(errors.ErrCodeInvalidInput, "%s exists (use --force to overwrite)", output)
			}
			if err := os.WriteFile(output, []byte(body), 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeStorage, err, "write %s", output)
			}
			printSuccess("Created %s", output)
			printDetail("nwcharts render %s", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "type", "t", "", "chart type (see nwcharts types)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// starter returns the starter definition of a chart type. Any name Lookup
// accepts works.
func starter(kind string) (string, error) {
	name, err := chart.Lookup(kind)
	if err != nil {
		return "", err
	}
	body, ok := starters[name]
	if !ok {
		return "", errors.New(errors.ErrCodeUnsupported, "no starter definition for %s", name)
	}
	return body, nil
}

func pickType() (string, error) {
	m, err := tea.NewProgram(NewTypePickerModel(chart.Types())).Run()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "type picker")
	}
	return m.(TypePickerModel).Selected, nil
}

// =============================================================================
// TypePickerModel - Interactive chart type selection
// =============================================================================

// TypePickerModel is the bubbletea model for picking a chart type.
type TypePickerModel struct {
	Types    []string
	Cursor   int
	Selected string
}

// NewTypePickerModel creates a picker over types.
func NewTypePickerModel(types []string) TypePickerModel {
	return TypePickerModel{Types: types}
}

func (m TypePickerModel) Init() tea.Cmd {
	return nil
}

func (m TypePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Types)-1 {
			m.Cursor++
		}
	case "enter":
		if len(m.Types) > 0 {
			m.Selected = m.Types[m.Cursor]
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m TypePickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Chart Type"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, name := range m.Types {
		cursor, style := "  ", listNormalStyle
		if i == m.Cursor {
			cursor, style = "▸ ", listSelectedStyle
		}
		b.WriteString(cursor + style.Render(fmt.Sprintf("%-32s", name)))
		b.WriteString(listDimStyle.Render(typeDescriptions[name]))
		b.WriteString("\n")
	}
	return b.String()
}
