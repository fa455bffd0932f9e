package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"SocialInsights/src/config"
	"SocialInsights/src/processor"
	"SocialInsights/src/utils"
)

var exportCmd = &cobra.Command{
	Use:   "export <file.xlsx|file.csv>",
	Short: "Export the normalized table with the derived average family size",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := newLoader(cfg)
		if err != nil {
			return err
		}
		return runExport(cmd.Context(), cmd.OutOrStdout(), loader, dcfg, args[0])
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(ctx context.Context, out io.Writer, loader processor.Loader, d *config.DataConfig, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" && ext != ".csv" {
		return fmt.Errorf("不支持的导出格式: %s (仅支持 .xlsx/.csv)", path)
	}

	res, err := processor.Run(ctx, loader, d, processor.DefaultViewState(d))
	if err != nil {
		return err
	}

	if ext == ".xlsx" {
		err = utils.SaveToExcel(res.Table, path, "Towns")
	} else {
		err = utils.SaveToCSV(res.Table, path)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ %d towns exported to %s\n", res.Table.Nrow(), path)
	return nil
}
