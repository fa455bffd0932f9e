package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"SocialInsights/src/config"
)

var initForce bool

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write the default configuration files",
	// 不依赖已有配置
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInitConfig(cmd.OutOrStdout(), configDir, configFile, dataFile, initForce)
	},
}

func init() {
	initConfigCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing files")
	rootCmd.AddCommand(initConfigCmd)
}

func runInitConfig(out io.Writer, dir, file, data string, force bool) error {
	targets := []struct {
		path  string
		value interface{}
	}{
		{filepath.Join(dir, file), config.DefaultConfig()},
		{filepath.Join(dir, data), config.DefaultDataConfig()},
	}

	for _, t := range targets {
		if _, err := os.Stat(t.path); err == nil && !force {
			return fmt.Errorf("%s 已存在，使用 --force 覆盖", t.path)
		}
	}
	for _, t := range targets {
		if err := config.Save(t.value, t.path); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ %s\n", t.path)
	}
	return nil
}
