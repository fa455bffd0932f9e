package datapush

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// 常量定义
const (
	RETRY_TIMES    = 5
	RETRY_INTERVAL = 2 * time.Second
)

// WebhookResponse 兼容钉钉风格的响应体，非 JSON 响应只看状态码
type WebhookResponse struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

// Pusher 把快照图片推送到 webhook
type Pusher struct {
	URL      string
	Client   *http.Client
	Times    int
	Interval time.Duration
}

func NewPusher(url string) *Pusher {
	return &Pusher{
		URL:      url,
		Client:   &http.Client{Timeout: 30 * time.Second},
		Times:    RETRY_TIMES,
		Interval: RETRY_INTERVAL,
	}
}

// Push 以 multipart 表单上传标题和全部文件，失败时重试
func (p *Pusher) Push(ctx context.Context, title string, files []string) error {
	return retry(func() error {
		return p.upload(ctx, title, files)
	}, p.Times, p.Interval)
}

func (p *Pusher) upload(ctx context.Context, title string, files []string) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writer.WriteField("title", title); err != nil {
		return fmt.Errorf("写入表单字段失败: %w", err)
	}
	for _, path := range files {
		if err := addFile(writer, path); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("关闭写入器失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.URL, body)
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.Client.Do(req)
	if err != nil {
		return fmt.Errorf("发送请求失败: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("读取响应失败: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("推送失败: %s", resp.Status)
	}

	var result WebhookResponse
	if json.Unmarshal(respBody, &result) == nil && result.ErrCode != 0 {
		return fmt.Errorf("推送失败: %s", result.ErrMsg)
	}
	return nil
}

func addFile(writer *multipart.Writer, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("打开文件失败: %w", err)
	}
	defer file.Close()

	part, err := writer.CreateFormFile("media", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("创建表单文件失败: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("复制文件内容失败: %w", err)
	}
	return nil
}

// 重试函数
func retry(fn func() error, times int, interval time.Duration) error {
	var err error
	for i := 0; i < times; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < times-1 {
			time.Sleep(interval)
		}
	}
	return fmt.Errorf("重试 %d 次后失败: %v", times, err)
}
