package services

import (
	"gopkg.in/gomail.v2"

	"operateease/internal/config"
)

// GomailSender delivers transactional mail over SMTP. Sends are best-effort
// and synchronous; there is no retry on transient relay failures.
type GomailSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewGomailSender(cfg *config.Config) *GomailSender {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	dialer.SSL = cfg.SMTPPort == 465

	return &GomailSender{
		dialer: dialer,
		from:   cfg.SMTPFrom,
	}
}

func (s *GomailSender) Send(to string, subject string, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	return s.dialer.DialAndSend(msg)
}
