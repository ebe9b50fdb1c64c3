package email

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	sharedConfig "github.com/clubgate/clubgate/internal/shared/config"
)

// SMTPAlertService sends operational alerts to the channel administrator.
type SMTPAlertService struct {
	config sharedConfig.EmailConfig
	dialer *gomail.Dialer
}

func NewSMTPAlertService(config sharedConfig.EmailConfig) *SMTPAlertService {
	dialer := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUser, config.SMTPPassword)

	return &SMTPAlertService{
		config: config,
		dialer: dialer,
	}
}

// Enabled reports whether an admin address is configured.
func (s *SMTPAlertService) Enabled() bool {
	return s.config.AdminAddress != ""
}

// SendRefundAlert notifies the administrator that a refund revoked access.
func (s *SMTPAlertService) SendRefundAlert(userID int64, providerPaymentID string, when time.Time) error {
	subject := fmt.Sprintf("Refund processed for user %d", userID)
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Refund processed</h2>
			<p>User <b>%d</b> was refunded and removed from the channel.</p>
			<p>Provider payment: %s</p>
			<p>Time: %s</p>
		</body>
		</html>
	`, userID, providerPaymentID, when.Format(time.RFC3339))

	plainBody := fmt.Sprintf(`Refund processed

User %d was refunded and removed from the channel.
Provider payment: %s
Time: %s
`, userID, providerPaymentID, when.Format(time.RFC3339))

	return s.sendEmail(s.config.AdminAddress, subject, htmlBody, plainBody)
}

// SendRenewalExhaustedAlert notifies the administrator that a subscriber
// ran out of automatic renewal attempts.
func (s *SMTPAlertService) SendRenewalExhaustedAlert(userID int64, attempts int) error {
	subject := fmt.Sprintf("Auto-renewal exhausted for user %d", userID)
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Auto-renewal exhausted</h2>
			<p>User <b>%d</b> failed %d consecutive renewal charges and was removed from the channel.</p>
		</body>
		</html>
	`, userID, attempts)

	plainBody := fmt.Sprintf(`Auto-renewal exhausted

User %d failed %d consecutive renewal charges and was removed from the channel.
`, userID, attempts)

	return s.sendEmail(s.config.AdminAddress, subject, htmlBody, plainBody)
}

func (s *SMTPAlertService) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.FromAddress)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
