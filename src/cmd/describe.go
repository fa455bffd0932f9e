package cmd

import (
	"context"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"SocialInsights/src/config"
	"SocialInsights/src/processor"
)

var describeLang string

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print summary statistics and duplicate town names",
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := newLoader(cfg)
		if err != nil {
			return err
		}
		return runDescribe(cmd.Context(), cmd.OutOrStdout(), loader, dcfg, describeLang, debug)
	},
}

func init() {
	describeCmd.Flags().StringVar(&describeLang, "lang", "en", "language tag used to format numbers (e.g. en, de, fr)")
	rootCmd.AddCommand(describeCmd)
}

func runDescribe(ctx context.Context, out io.Writer, loader processor.Loader, d *config.DataConfig, lang string, dump bool) error {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	p := message.NewPrinter(tag)

	res, err := processor.Run(ctx, loader, d, processor.DefaultViewState(d))
	if err != nil {
		return err
	}
	summary, err := processor.Describe(res.Raw)
	if err != nil {
		return err
	}
	dups, err := processor.DuplicateTowns(res.Table, d.GetColumns())
	if err != nil {
		return err
	}

	p.Fprintf(out, "Towns: %d\n\n", res.Table.Nrow())

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	io.WriteString(tw, strings.Join(summary.Header, "\t")+"\t\n")
	for _, row := range summary.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = localizeNumber(p, cell)
		}
		io.WriteString(tw, strings.Join(cells, "\t")+"\t\n")
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(dups) == 0 {
		p.Fprintf(out, "\nNo duplicate town names.\n")
	} else {
		p.Fprintf(out, "\nDuplicate town names (%d):\n", len(dups))
		for _, dup := range dups {
			p.Fprintf(out, "  %s x%d\n", dup.Town, dup.Count)
		}
	}

	if dump {
		n := min(3, len(res.Towns))
		io.WriteString(out, "\n")
		spew.Fdump(out, res.Towns[:n])
	}
	return nil
}

// localizeNumber 数值按语言格式化，其余原样输出
func localizeNumber(p *message.Printer, cell string) string {
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return cell
	}
	return p.Sprintf("%.2f", v)
}
