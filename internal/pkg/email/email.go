package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"

	"github.com/rs/zerolog"
)

// EmailService sends transactional mail. With no SMTP credentials
// configured the service logs the message instead, which keeps local
// development working without a mail server.
type EmailService interface {
	SendInviteEmail(toEmail, communityName, inviteURL string) error
	SendWelcomeEmail(toEmail, toName string) error
}

// SMTPConfig holds configuration for the SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
}

type emailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &emailServiceImpl{
		config: config,
		logger: logger,
	}
}

func (s *emailServiceImpl) configured() bool {
	return s.config.Username != "" && s.config.Password != ""
}

// SendInviteEmail delivers a community invite link
func (s *emailServiceImpl) SendInviteEmail(toEmail, communityName, inviteURL string) error {
	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("inviteURL", inviteURL).
			Msg("SMTP credentials not configured - invite email not sent. Use the URL above for testing.")
		return nil
	}

	subject := fmt.Sprintf("You're invited to join %s", communityName)
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">You're invited!</h2>
				<p>You have been invited to join the community <strong>%s</strong>.</p>
				<div style="text-align: center; margin: 30px 0;">
					<a href="%s" style="background-color: #4a86e8; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Join the community</a>
				</div>
				<p>If you were not expecting this invitation, you can ignore this email.</p>
			</div>
		</body>
		</html>
	`, communityName, inviteURL)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendWelcomeEmail greets a newly registered user
func (s *emailServiceImpl) SendWelcomeEmail(toEmail, toName string) error {
	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("toName", toName).
			Msg("SMTP credentials not configured - welcome email not sent.")
		return nil
	}

	subject := "Welcome - Your Account is Ready"
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Welcome!</h2>
				<p>Hello %s,</p>
				<p>Your account is ready. Log in to join communities, follow courses and keep track of your progress.</p>
			</div>
		</body>
		</html>
	`, toName)

	return s.sendHTMLEmail(toEmail, subject, body)
}

func (s *emailServiceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)

	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail),
		"To":           toEmail,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}

	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + htmlBody

	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if !s.config.UseTLS {
		if err := smtp.SendMail(serverAddress, auth, s.config.FromEmail, []string{toEmail}, []byte(message)); err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	tlsConfig := &tls.Config{ServerName: s.config.Host}
	conn, err := tls.Dial("tcp", serverAddress, tlsConfig)
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(toEmail); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write([]byte(message)); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	return w.Close()
}
