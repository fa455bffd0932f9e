package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"SocialInsights/src/utils"
)

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Ask a running server to reopen its log file and reload the data configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		pid, err := utils.SignalReload(cfg.PidFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ SIGHUP sent to %d\n", pid)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reloadCmd)
}
