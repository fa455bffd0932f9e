package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/robfig/cron"
	"github.com/spf13/cobra"

	"SocialInsights/src/config"
	"SocialInsights/src/datapush"
	"SocialInsights/src/datasource/email"
	"SocialInsights/src/datasource/file"
	"SocialInsights/src/processor"
	"SocialInsights/src/snapshot"
	"SocialInsights/src/storage"
	"SocialInsights/src/utils"
	"SocialInsights/src/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}

	// 初始化日志系统
	logger, err := storage.NewLogger(cfg.LogName)
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	defer logger.Close()
	if debug {
		logger.SetEcho(os.Stderr)
	}

	if err := utils.WritePid(cfg.PidFile); err != nil {
		logger.Warning(fmt.Sprintf("写入pid文件失败: %v", err))
	} else {
		defer os.Remove(cfg.PidFile)
	}

	loader, err := newLoader(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	// 数据配置热加载
	monitor, err := file.NewFileMonitor(configDir, dataFile)
	if err != nil {
		logger.Warning(fmt.Sprintf("数据配置监控未启动: %v", err))
	} else {
		go func() {
			if err := monitor.Watch(ctx, func(path string) { reloadDataConfig(path, logger) }); err != nil {
				logger.Error("File monitoring error: " + err.Error())
			}
		}()
	}

	// 定时任务：日志轮转 + 快照
	c := cron.New()
	if err := c.AddFunc("@every 1m", func() {
		if err := logger.CheckRotate(cfg.LogMaxSize); err != nil {
			logger.Error("日志轮转失败: " + err.Error())
		}
	}); err != nil {
		return fmt.Errorf("创建定时任务失败: %w", err)
	}
	if cfg.Snapshot.Enabled {
		job := newSnapshotJob(cfg, dcfg, loader, logger)
		if err := snapshot.Schedule(c, cfg.Snapshot.Interval, job.Run); err != nil {
			return err
		}
		logger.Info(fmt.Sprintf("快照任务已启动(间隔: %v)", cfg.Snapshot.Interval))
	}
	c.Start()
	defer c.Stop()

	go waitForSignals(ctx, cancel, logger)

	srv := web.NewServer(cfg, dcfg, loader, logger)
	logger.Info(fmt.Sprintf("仪表盘服务已启动(数据源: %s %s)，按Ctrl+C退出", cfg.Source.Kind, cfg.Source.Location))
	return srv.ListenAndServe(ctx)
}

// waitForSignals SIGHUP 重新打开日志并重载数据配置，SIGINT/SIGTERM 退出
func waitForSignals(ctx context.Context, cancel context.CancelFunc, logger *storage.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-sigChan:
			if sig == syscall.SIGHUP {
				if err := logger.Reopen(""); err != nil {
					fmt.Fprintln(os.Stderr, "重新打开日志失败:", err)
				}
				logger.Info("Received SIGHUP, log file reopened")
				reloadDataConfig(filepath.Join(configDir, dataFile), logger)
				continue
			}
			logger.Info("Received signal: " + sig.String() + ", shutting down...")
			cancel()
			return
		}
	}
}

func reloadDataConfig(path string, logger *storage.Logger) {
	next, err := config.ReadDataConfig(path)
	if err != nil {
		logger.Error(fmt.Sprintf("重载数据配置失败，继续使用旧配置: %v", err))
		return
	}
	dcfg.Update(next)
	logger.Info("数据配置已重载: " + path)
}

func newSnapshotJob(c *config.Config, d *config.DataConfig, loader processor.Loader, logger *storage.Logger) *snapshot.Job {
	job := &snapshot.Job{
		Renderer: &snapshot.Renderer{Loader: loader, DC: d},
		Dir:      c.Snapshot.Dir,
		Logger:   logger,
	}
	if c.Snapshot.Mail {
		job.Mail = &email.SMTPSettings{
			Server:   c.SendEmail.Server,
			Username: c.SendEmail.Username,
			Password: c.SendEmail.Password,
			Subject:  c.SendEmail.Subject,
			To:       c.SendEmail.To,
		}
	}
	if c.Snapshot.WebhookURL != "" {
		job.Pusher = datapush.NewPusher(c.Snapshot.WebhookURL)
	}
	return job
}
