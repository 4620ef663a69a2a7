package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Message 邮件
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	Body    string
}

// Mailer 发送邮件
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer 通过SMTP发送
type SMTPMailer struct {
	client *mail.Client
	from   string
}

// NewSMTPMailer 创建SMTP发送器，timeout 为连接和读写超时
func NewSMTPMailer(host string, port int, username, password, from string, timeout time.Duration) (*SMTPMailer, error) {
	if timeout <= 0 {
		timeout = mail.DefaultTimeout
	}
	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTimeout(timeout),
		// 服务器支持时升级为STARTTLS
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(username),
			mail.WithPassword(password),
		)
	}
	client, err := mail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("创建SMTP客户端失败: %w", err)
	}
	return &SMTPMailer{client: client, from: from}, nil
}

// Send 发送邮件，ctx 取消时中断连接
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("收件人不能为空")
	}
	built, err := Build(m.from, msg)
	if err != nil {
		return err
	}
	if err := m.client.DialAndSendWithContext(ctx, built); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	return nil
}

// Build 生成纯文本邮件
func Build(from string, msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("发件人无效: %w", err)
	}
	if err := m.To(msg.To...); err != nil {
		return nil, fmt.Errorf("收件人无效: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("回复地址无效: %w", err)
		}
	}
	m.Subject(msg.Subject)
	m.SetDate()
	m.SetBodyString(mail.TypeTextPlain, msg.Body)
	return m, nil
}

// LogMailer 未配置SMTP时只记录日志
type LogMailer struct {
	logger *zap.SugaredLogger
}

// NewLogMailer 创建日志发送器
func NewLogMailer(logger *zap.SugaredLogger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send 记录邮件
func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.logger.Infow("邮件未发送(SMTP未启用)", "to", msg.To, "subject", msg.Subject)
	return nil
}
