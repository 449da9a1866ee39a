// Package mailer SMTP邮件发送的薄封装。
// 未启用SMTP时发送调用只记录日志，方便本地开发。
package mailer

import (
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Mailer 邮件发送器
type Mailer struct {
	enabled bool
	from    string
	dialer  *gomail.Dialer
	logger  *logrus.Logger
}

// Config 邮件发送配置
type Config struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// NewMailer 创建邮件发送器
func NewMailer(cfg Config, logger *logrus.Logger) *Mailer {
	m := &Mailer{
		enabled: cfg.Enabled,
		from:    cfg.From,
		logger:  logger,
	}
	if cfg.Enabled {
		m.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return m
}

// Send 发送纯文本邮件
func (m *Mailer) Send(to string, subject string, body string) error {
	if !m.enabled {
		m.logger.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("SMTP未启用，跳过邮件发送")
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return m.dialer.DialAndSend(msg)
}
