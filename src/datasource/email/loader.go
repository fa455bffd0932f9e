package email

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-gota/gota/dataframe"

	"SocialInsights/src/datasource/file"
)

// ErrNoDataMail 没有找到带数据附件的目标邮件
var ErrNoDataMail = errors.New("没有找到包含数据附件的目标邮件")

// MailLoader 从最新的目标邮件附件中读取数据表。
// 多个请求共用同一个 MailService，连接、获取、断开在 mu 下串行完成。
type MailLoader struct {
	Service   MailService
	Subject   string // 主题关键词
	Encoding  string
	SheetName string

	mu sync.Mutex
}

// NewMailLoader 基于IMAP客户端创建加载器
func NewMailLoader(service MailService, subject, encoding, sheetName string) *MailLoader {
	return &MailLoader{
		Service:   service,
		Subject:   subject,
		Encoding:  encoding,
		SheetName: sheetName,
	}
}

// Load 每次调用都重新连接邮箱并读取最新附件
func (l *MailLoader) Load(ctx context.Context) (dataframe.DataFrame, error) {
	if err := ctx.Err(); err != nil {
		return dataframe.DataFrame{}, err
	}

	emails, err := l.fetch()
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	var withData []*Email
	for _, e := range emails {
		if dataAttachment(e) != nil {
			withData = append(withData, e)
		}
	}

	target := filterLatestTargetEmail(withData, l.Subject)
	if target == nil {
		return dataframe.DataFrame{}, ErrNoDataMail
	}

	att := dataAttachment(target)
	return file.ReadTable(att.Content, att.Filename, l.Encoding, l.SheetName)
}

// fetch 独占一次完整的邮箱会话
func (l *MailLoader) fetch() ([]*Email, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.Service.Connect(); err != nil {
		return nil, fmt.Errorf("连接失败: %w", err)
	}
	defer l.Service.Disconnect()

	emails, err := l.Service.FetchRecent(l.Subject)
	if err != nil {
		return nil, fmt.Errorf("获取邮件失败: %w", err)
	}
	return emails, nil
}

// dataAttachment 返回第一个 csv/xlsx/xls 附件
func dataAttachment(e *Email) *Attachment {
	for _, a := range e.Attachments {
		switch strings.ToLower(filepath.Ext(a.Filename)) {
		case ".csv", ".xlsx", ".xls":
			return a
		}
	}
	return nil
}
