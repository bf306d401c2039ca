package service

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"time"

	"logistician-server/internal/config"
	"logistician-server/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService 邮件服务
// 支持 SMTP 和 AWS SES 两种投递方式；未启用或未配置时退化为控制台输出
type EmailService struct {
	provider  string
	enabled   bool
	host      string
	port      int
	username  string
	password  string
	from      string
	fromName  string
	replyTo   string
	sesClient *sesv2.Client
}

// NewEmailService 创建邮件服务
func NewEmailService() *EmailService {
	cfg := config.Get()
	s := &EmailService{
		provider: cfg.Email.Provider,
		enabled:  cfg.Email.Enabled,
		host:     cfg.Email.SMTPHost,
		port:     cfg.Email.SMTPPort,
		username: cfg.Email.Username,
		password: cfg.Email.Password,
		from:     cfg.Email.From,
		fromName: cfg.Email.FromName,
		replyTo:  cfg.Email.ReplyTo,
	}

	if !s.enabled {
		log.Println("[Email] 邮件通知未启用，所有邮件将输出到控制台")
		return s
	}

	switch s.provider {
	case "ses":
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(cfg.Email.SESRegion),
		)
		if err != nil {
			log.Printf("[Email] AWS SES 初始化失败，退化为控制台输出: %v", err)
			s.enabled = false
			return s
		}
		s.sesClient = sesv2.NewFromConfig(awsCfg)
		log.Printf("[Email] AWS SES 已配置, region=%s", cfg.Email.SESRegion)
	default:
		if s.host == "" {
			log.Println("[Email] SMTP 未配置，退化为控制台输出")
			s.enabled = false
			return s
		}
		log.Printf("[Email] SMTP 已配置, host=%s:%d", s.host, s.port)
	}

	return s
}

// Enabled 邮件投递是否可用
func (s *EmailService) Enabled() bool {
	return s.enabled
}

// SendEmail 发送邮件
// 未启用投递时仅打印日志并返回 nil（软失败模式）
func (s *EmailService) SendEmail(to, subject, body string) error {
	if !s.enabled {
		s.logEmail(to, subject, body)
		return nil
	}

	if s.provider == "ses" {
		return s.sendSES(to, subject, body)
	}
	return s.sendSMTP(to, subject, body)
}

// logEmail 控制台输出模式
func (s *EmailService) logEmail(to, subject, body string) {
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	log.Printf("[Email] (mock) To: %s | Subject: %s | Body: %s", to, subject, body)
}

// sendSES 通过 AWS SES 发送
func (s *EmailService) sendSES(to, subject, body string) error {
	from := fmt.Sprintf("%s <%s>", s.fromName, s.from)

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(body),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}
	if s.replyTo != "" {
		input.ReplyToAddresses = []string{s.replyTo}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	out, err := s.sesClient.SendEmail(ctx, input)
	if err != nil {
		return err
	}
	log.Printf("[Email] SES 发送成功: %s, message_id=%s", to, aws.ToString(out.MessageId))
	return nil
}

// sendSMTP 通过 SMTP 发送
func (s *EmailService) sendSMTP(to, subject, body string) error {
	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)

	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	// 465 端口使用 TLS
	if s.port == 465 {
		return s.sendSMTPTLS(to, msg)
	}

	return smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg))
}

// sendSMTPTLS 通过 TLS 发送
func (s *EmailService) sendSMTPTLS(to, msg string) error {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: true,
		ServerName:         s.host,
	}

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return err
	}
	defer client.Close()

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err = client.Auth(auth); err != nil {
		return err
	}

	if err = client.Mail(s.from); err != nil {
		return err
	}
	if err = client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}

	if _, err = w.Write([]byte(msg)); err != nil {
		return err
	}

	return w.Close()
}

// accessLevelLabels 访问级别显示名
var accessLevelLabels = map[model.AccessLevel]string{
	model.AccessLevelView: "只读",
	model.AccessLevelEdit: "可编辑",
	model.AccessLevelSign: "可签署",
	model.AccessLevelFull: "完全访问",
}

// AccessLevelLabel 访问级别显示名，未知级别原样返回
func AccessLevelLabel(level model.AccessLevel) string {
	if label, ok := accessLevelLabels[level]; ok {
		return label
	}
	return string(level)
}

// 邀请邮件模板
const invitationTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #1890ff; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .footer { padding: 20px; text-align: center; color: #999; font-size: 12px; }
        .btn { display: inline-block; padding: 10px 20px; background: #1890ff; color: white; text-decoration: none; border-radius: 4px; }
        .message { padding: 10px; background: #fff; border-left: 3px solid #1890ff; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>合作邀请</h1>
        </div>
        <div class="content">
            <p>您好：</p>
            <p><strong>{{.IndustrialName}}</strong> 邀请您入驻平台，协同管理其物流订单：</p>
            <ul>
                <li>访问级别：{{.AccessLevel}}</li>
                <li>邀请有效期至：{{.ExpiresAt}}</li>
            </ul>
            {{if .Message}}<p class="message">{{.Message}}</p>{{end}}
            <p style="text-align: center; margin-top: 30px;">
                <a href="{{.InvitationURL}}" class="btn">接受邀请</a>
            </p>
        </div>
        <div class="footer">
            <p>此邮件由系统自动发送，请勿回复。</p>
        </div>
    </div>
</body>
</html>
`

// InvitationEmailData 邀请邮件数据
type InvitationEmailData struct {
	IndustrialName string
	AccessLevel    string
	Message        string
	InvitationURL  string
	ExpiresAt      string
}

// SendInvitation 发送邀请邮件
func (s *EmailService) SendInvitation(to string, data InvitationEmailData) error {
	tmpl, err := template.New("invitation").Parse(invitationTemplate)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return err
	}

	subject := fmt.Sprintf("【合作邀请】%s 邀请您入驻平台", data.IndustrialName)
	return s.SendEmail(to, subject, buf.String())
}

// 邀请到期提醒模板
const invitationReminderTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #faad14; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .footer { padding: 20px; text-align: center; color: #999; font-size: 12px; }
        .btn { display: inline-block; padding: 10px 20px; background: #1890ff; color: white; text-decoration: none; border-radius: 4px; }
        .warning { color: #ff4d4f; font-weight: bold; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>邀请即将过期</h1>
        </div>
        <div class="content">
            <p>您好：</p>
            <p><strong>{{.IndustrialName}}</strong> 向您发出的入驻邀请即将过期：</p>
            <ul>
                <li>剩余时间：<span class="warning">{{.RemainingDays}} 天</span></li>
                <li>过期时间：<span class="warning">{{.ExpiresAt}}</span></li>
            </ul>
            <p style="text-align: center; margin-top: 30px;">
                <a href="{{.InvitationURL}}" class="btn">立即接受</a>
            </p>
        </div>
        <div class="footer">
            <p>此邮件由系统自动发送，请勿回复。</p>
        </div>
    </div>
</body>
</html>
`

// InvitationReminderData 邀请到期提醒数据
type InvitationReminderData struct {
	IndustrialName string
	InvitationURL  string
	ExpiresAt      string
	RemainingDays  int
}

// SendInvitationReminder 发送邀请到期提醒
func (s *EmailService) SendInvitationReminder(to string, data InvitationReminderData) error {
	tmpl, err := template.New("reminder").Parse(invitationReminderTemplate)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return err
	}

	subject := fmt.Sprintf("【即将过期】%s 的入驻邀请还有 %d 天过期", data.IndustrialName, data.RemainingDays)
	return s.SendEmail(to, subject, buf.String())
}
