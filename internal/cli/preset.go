package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridkit/pkg/grid"
	"github.com/matzehuels/gridkit/pkg/preset"
)

// presetCommand creates the preset management command.
func (c *CLI) presetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage saved views",
	}

	cmd.AddCommand(c.presetSaveCommand())
	cmd.AddCommand(c.presetListCommand())
	cmd.AddCommand(c.presetShowCommand())
	cmd.AddCommand(c.presetDeleteCommand())

	return cmd
}

func (c *CLI) presetSaveCommand() *cobra.Command {
	var (
		viewport string
		zoom     float64
		gridType string
		gridSize float64
	)

	cmd := &cobra.Command{
		Use:     "save <name>",
		Short:   "Save a named view",
		Example: `  gridkit preset save overview --viewport "-500 -300 1000 600" --zoom 0.5`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			vp, err := grid.ParseViewport(viewport)
			if err != nil {
				return err
			}

			store, err := c.newPresetStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			p := &preset.Preset{
				Name:     args[0],
				Viewport: vp,
				Zoom:     zoom,
				GridType: grid.GridType(gridType),
				GridSize: gridSize,
			}
			if err := store.Save(ctx, p); err != nil {
				return err
			}

			printSuccess("Saved preset %s", StyleHighlight.Render(p.Name))
			printNextStep("Render it", "gridkit render --preset "+p.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&viewport, "viewport", "", `visible world region "x y width height"`)
	cmd.Flags().Float64VarP(&zoom, "zoom", "z", 1, "zoom level")
	cmd.Flags().StringVarP(&gridType, "type", "t", string(grid.Lines), "grid type: lines, dots")
	cmd.Flags().Float64Var(&gridSize, "grid-size", 0, "nominal grid size")
	_ = cmd.MarkFlagRequired("viewport")

	return cmd
}

func (c *CLI) presetListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newPresetStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			presets, err := store.List(ctx)
			if err != nil {
				return err
			}
			if len(presets) == 0 {
				printInfo("No presets saved")
				printNextStep("Save one", "gridkit preset save <name> --viewport \"x y w h\"")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), presetTable(presets))
			return nil
		},
	}
}

// presetTable renders presets as a bordered table.
func presetTable(presets []*preset.Preset) string {
	rows := make([][]string, len(presets))
	for i, p := range presets {
		rows[i] = []string{
			p.Name,
			p.Viewport.String(),
			fmt.Sprintf("%g", p.Zoom),
			string(p.GridType),
			p.UpdatedAt.Local().Format("2006-01-02 15:04"),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Viewport", "Zoom", "Type", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle.Padding(0, 1)
			case col == 0:
				return cellStyle.Foreground(colorCyan)
			default:
				return cellStyle
			}
		}).
		Render()
}

func (c *CLI) presetShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a saved view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newPresetStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			p, err := store.GetByName(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(stdout, StyleTitle.Render(p.Name))
			printKeyValue("ID", p.ID)
			printKeyValue("Viewport", p.Viewport.String())
			printKeyValue("Zoom", fmt.Sprintf("%g", p.Zoom))
			printKeyValue("Type", string(p.GridType))
			if p.GridSize > 0 {
				printKeyValue("Grid size", fmt.Sprintf("%g", p.GridSize))
			}
			printKeyValue("Created", p.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			printKeyValue("Updated", p.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}

func (c *CLI) presetDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>...",
		Aliases: []string{"rm"},
		Short:   "Delete saved views",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newPresetStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			for _, name := range args {
				if err := store.Delete(ctx, name); err != nil {
					return err
				}
			}
			printSuccess("Deleted %s", strings.Join(args, ", "))
			return nil
		},
	}
}
