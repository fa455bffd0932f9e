package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"SocialInsights/src/config"
	"SocialInsights/src/processor"
	"SocialInsights/src/snapshot"
)

var (
	renderOut   string
	renderTown  string
	renderTable bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the gender, family and pie charts to PNG files",
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := newLoader(cfg)
		if err != nil {
			return err
		}
		return runRender(cmd.Context(), cmd.OutOrStdout(), loader, dcfg, renderOut, renderTown, renderTable)
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "charts", "output directory")
	renderCmd.Flags().StringVar(&renderTown, "town", "", "sample town for the pie chart (default: first sample row)")
	renderCmd.Flags().BoolVar(&renderTable, "table", false, "also export the derived table as towns.xlsx")
	rootCmd.AddCommand(renderCmd)
}

func runRender(ctx context.Context, out io.Writer, loader processor.Loader, d *config.DataConfig, dir, town string, table bool) error {
	r := &snapshot.Renderer{Loader: loader, DC: d}
	files, err := r.Render(ctx, dir, town, table)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintf(out, "✓ %s\n", f)
	}
	return nil
}
