// Package snapshot 离线渲染图表并按计划投递
package snapshot

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron"

	"SocialInsights/src/charts"
	"SocialInsights/src/config"
	"SocialInsights/src/datapush"
	"SocialInsights/src/datasource/email"
	"SocialInsights/src/processor"
	"SocialInsights/src/storage"
	"SocialInsights/src/utils"
)

// 快照文件名
const (
	GenderFile = "gender.png"
	FamilyFile = "family.png"
	PieFile    = "pie.png"
	TableFile  = "towns.xlsx"
)

// Renderer 使用默认控件状态渲染全部图表
type Renderer struct {
	Loader processor.Loader
	DC     *config.DataConfig
}

// Render 把三张图写入 dir，返回文件路径。
// sampleTown 为空时使用示例表第一行；withTable 额外导出 xlsx。
func (r *Renderer) Render(ctx context.Context, dir, sampleTown string, withTable bool) ([]string, error) {
	state := processor.DefaultViewState(r.DC)
	state.Submitted = true
	if sampleTown != "" {
		state.SampleTown = sampleTown
	}

	res, err := processor.Run(ctx, r.Loader, r.DC, state)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建目录失败: %w", err)
	}

	outputs := []struct {
		name   string
		render func(io.Writer) error
	}{
		{GenderFile, func(w io.Writer) error { return charts.RenderGender(w, res.Visible) }},
		{FamilyFile, func(w io.Writer) error { return charts.RenderFamily(w, res.Towns, res.Annotated) }},
		{PieFile, func(w io.Writer) error { return charts.RenderPie(w, *res.Sample) }},
	}

	var files []string
	for _, o := range outputs {
		path := filepath.Join(dir, o.name)
		if err := writeFile(path, o.render); err != nil {
			return files, err
		}
		files = append(files, path)
	}

	if withTable {
		path := filepath.Join(dir, TableFile)
		if err := utils.SaveToExcel(res.Table, path, "Towns"); err != nil {
			return files, err
		}
		files = append(files, path)
	}
	return files, nil
}

func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建文件失败: %w", err)
	}
	if err := render(f); err != nil {
		f.Close()
		return fmt.Errorf("渲染 %s 失败: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// Job 定时快照任务，渲染后可通过邮件或 webhook 投递
type Job struct {
	Renderer *Renderer
	Dir      string
	Logger   *storage.Logger
	Mail     *email.SMTPSettings // nil 表示不发邮件
	Pusher   *datapush.Pusher    // nil 表示不推送
	Timeout  time.Duration
}

// Run 执行一次快照，投递失败只记录日志
func (j *Job) Run() {
	timeout := j.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	t1 := time.Now()
	dir := filepath.Join(j.Dir, t1.Format("20060102-150405"))
	files, err := j.Renderer.Render(ctx, dir, "", true)
	if err != nil {
		j.Logger.Error(fmt.Sprintf("生成快照失败: %v", err))
		return
	}
	j.Logger.Info(fmt.Sprintf("快照已生成: %s (耗时 %v)", dir, time.Since(t1)))

	title := fmt.Sprintf("Social Data Insights snapshot %s", t1.Format("2006-01-02 15:04"))
	if j.Mail != nil {
		if err := email.SendSnapshot(*j.Mail, title, files); err != nil {
			j.Logger.Error(fmt.Sprintf("快照邮件发送失败: %v", err))
		} else {
			j.Logger.Info(fmt.Sprintf("快照邮件已发送: %v", j.Mail.To))
		}
	}
	if j.Pusher != nil {
		if err := j.Pusher.Push(ctx, title, files); err != nil {
			j.Logger.Error(fmt.Sprintf("快照推送失败: %v", err))
		} else {
			j.Logger.Info("快照已推送到 webhook")
		}
	}
}

// Schedule 按固定间隔注册任务
func Schedule(c *cron.Cron, interval time.Duration, fn func()) error {
	if interval <= 0 {
		return fmt.Errorf("快照间隔无效: %v", interval)
	}
	cronSpec := fmt.Sprintf("@every %s", interval)
	if err := c.AddFunc(cronSpec, fn); err != nil {
		return fmt.Errorf("创建定时任务失败: %w", err)
	}
	return nil
}
