package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"SocialInsights/src/config"
	"SocialInsights/src/datasource/email"
	"SocialInsights/src/datasource/file"
	"SocialInsights/src/processor"
)

var (
	// 全局参数
	configDir  string
	configFile string
	dataFile   string
	debug      bool

	// 已加载的配置
	cfg  *config.Config
	dcfg *config.DataConfig
)

var rootCmd = &cobra.Command{
	Use:   "socialinsights",
	Short: "Social Data Insights dashboard",
	Long: `SocialInsights loads town-level demographic statistics and renders
gender, family-size and elderly-population charts in a web dashboard.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
}

// Execute 由 main.main() 调用
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "config", "directory holding the configuration files")
	rootCmd.PersistentFlags().StringVar(&configFile, "config-file", "config.json", "runtime configuration file name")
	rootCmd.PersistentFlags().StringVar(&dataFile, "data-file", "dataconfig.json", "data configuration file name")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() error {
	c, d, err := config.LoadConfig(configDir, configFile, dataFile)
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	cfg, dcfg = c, d
	return nil
}

// newLoader 按配置选择数据源
func newLoader(c *config.Config) (processor.Loader, error) {
	src := c.Source
	switch src.Kind {
	case "", "url", "file":
		if src.Location == "" {
			return nil, fmt.Errorf("source.location 未配置")
		}
		return file.NewLoader(src.Location, src.Encoding, src.SheetName, src.HTTPTimeout), nil
	case "mail":
		if c.Email.Server == "" {
			return nil, fmt.Errorf("email.server 未配置")
		}
		client := email.NewEmailClient(c.Email.Server, c.Email.Username, c.Email.Password)
		return email.NewMailLoader(client, c.Email.TargetSubject, src.Encoding, src.SheetName), nil
	default:
		return nil, fmt.Errorf("未知的数据源类型: %q", src.Kind)
	}
}
