package services

import (
	"fmt"
	"net/smtp"
	"strings"

	"bookshelf/internal/config"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type EmailService struct {
	auth smtp.Auth
	from string
	host string
	port string

	queue    chan EmailJob
	sendMail sendMailFunc
}

const emailQueueSize = 100

func NewEmailService(cfg *config.Config) *EmailService {
	auth := smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	return &EmailService{
		auth:     auth,
		from:     cfg.SMTPUser,
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		queue:    make(chan EmailJob, emailQueueSize),
		sendMail: smtp.SendMail,
	}
}

// Configured — есть ли куда отправлять письма.
func (s *EmailService) Configured() bool {
	return s.host != ""
}

func (s *EmailService) Send(to []string, subject, body string) error {
	return s.send(to, subject, "text/plain", body)
}

func (s *EmailService) SendHTML(to []string, subject, body string) error {
	return s.send(to, subject, "text/html", body)
}

func (s *EmailService) send(to []string, subject, contentType, body string) error {
	msg := []byte("From: " + s.from + "\r\n" +
		"To: " + strings.Join(to, ", ") + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: " + contentType + "; charset=\"utf-8\"\r\n\r\n" +
		body)

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return s.sendMail(addr, s.auth, s.from, to, msg)
}
