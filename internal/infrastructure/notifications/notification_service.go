package notifications

import (
	"fmt"
	"net/smtp"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/you/authsvc/domain"
)

// ServiceImpl implements domain.NotificationService. Email goes out over
// SMTP, SMS through Twilio. When a channel is unconfigured it logs the
// message instead of sending, which keeps local development working without
// credentials.
type ServiceImpl struct {
	smtpHost   string
	smtpPort   int
	smtpFrom   string
	smtpAuth   smtp.Auth
	twilio     *twilio.RestClient
	fromNumber string
}

// Config carries the delivery channel settings.
type Config struct {
	SMTPHost    string
	SMTPPort    int
	SMTPFrom    string
	SMTPUser    string
	SMTPPass    string
	TwilioSID   string
	TwilioToken string
	TwilioFrom  string
}

// NewService creates a new notification service.
func NewService(cfg Config) domain.NotificationService {
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioSID,
		Password: cfg.TwilioToken,
	})

	return &ServiceImpl{
		smtpHost:   cfg.SMTPHost,
		smtpPort:   cfg.SMTPPort,
		smtpFrom:   cfg.SMTPFrom,
		smtpAuth:   auth,
		twilio:     client,
		fromNumber: cfg.TwilioFrom,
	}
}

// SendEmail implements domain.NotificationService
func (s *ServiceImpl) SendEmail(to, subject, body string) error {
	if s.smtpHost == "" {
		fmt.Printf("[MOCK EMAIL] To: %s, Subject: %s, Body: %s\n", to, subject, body)
		return nil
	}

	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		s.smtpFrom, to, subject, body))
	addr := fmt.Sprintf("%s:%d", s.smtpHost, s.smtpPort)

	if err := smtp.SendMail(addr, s.smtpAuth, s.smtpFrom, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendSMS implements domain.NotificationService
func (s *ServiceImpl) SendSMS(to, message string) error {
	if s.fromNumber == "" {
		fmt.Printf("[MOCK SMS] To: %s, Message: %s\n", to, message)
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.fromNumber)
	params.SetBody(message)

	if _, err := s.twilio.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	return nil
}
