package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
)

// SMTPSettings 发送邮件所需的参数
type SMTPSettings struct {
	Server   string // host 或 host:port，缺省端口465
	Username string
	Password string
	Subject  string
	To       []string
}

// NewSnapshotMail 组装一封带图表附件的快照邮件
func NewSnapshotMail(s SMTPSettings, body string, attachments []string) (*email.Email, error) {
	if len(s.To) == 0 {
		return nil, fmt.Errorf("没有配置收件人")
	}

	e := email.NewEmail()
	e.From = fmt.Sprintf("Social Insights <%s>", s.Username)
	e.To = s.To
	e.Subject = s.Subject
	e.Text = []byte(body)

	for _, path := range attachments {
		if _, err := e.AttachFile(path); err != nil {
			return nil, fmt.Errorf("附件添加失败 %s: %w", path, err)
		}
	}
	return e, nil
}

// SendSnapshot 通过显式TLS发送快照邮件
func SendSnapshot(s SMTPSettings, body string, attachments []string) error {
	e, err := NewSnapshotMail(s, body, attachments)
	if err != nil {
		return err
	}

	smtpAddr := s.Server
	if !strings.Contains(smtpAddr, ":") {
		smtpAddr += ":465"
	}
	host := strings.Split(smtpAddr, ":")[0]

	err = e.SendWithTLS(
		smtpAddr,
		smtp.PlainAuth("", s.Username, s.Password, host),
		&tls.Config{ServerName: host},
	)
	if err != nil {
		return fmt.Errorf("邮件发送失败: %w (Server: %s)", err, smtpAddr)
	}
	return nil
}
