package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"coursedesk/config"
	"coursedesk/models"
)

// Mailer sends transactional mail over SMTP.
type Mailer struct {
	cfg *config.Config
}

// NewMailer returns nil when no sender is configured, in which case mail is
// silently skipped.
func NewMailer(cfg *config.Config) *Mailer {
	if cfg.EmailSender == "" || cfg.Password == "" {
		log.Println("Warning: EMAIL_SENDER not set. Booking receipts are disabled.")
		return nil
	}
	return &Mailer{cfg: cfg}
}

// SendEmail sends an HTML email to the given recipients.
func (m *Mailer) SendEmail(to []string, subject string, htmlBody string) error {
	from := m.cfg.EmailSender

	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: CourseDesk <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, m.cfg.Password, m.cfg.SMTPHost)

	err := smtp.SendMail(m.cfg.SMTPHost+":"+m.cfg.SMTPPort, auth, from, to, []byte(msg))
	if err != nil {
		log.Printf("[MAILER] Error sending email to %v: %v", to, err)
		return err
	}
	return nil
}

// SendBookingReceipt mails a payment receipt after a booking is confirmed.
// Best effort; failures are logged, never surfaced to the caller.
func (m *Mailer) SendBookingReceipt(booking models.Booking) {
	if m == nil || booking.Email == "" {
		return
	}

	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your payment was received and your enrollment is confirmed.</p>
		<div class="info-box">
			<strong>Booking ID:</strong> %s<br>
			<strong>Course:</strong> %s<br>
			<strong>Amount:</strong> %.2f
		</div>
		<p>Happy learning!</p>`,
		booking.StudentName, booking.BookingID, booking.CourseName, booking.Price)

	subject := fmt.Sprintf("Booking confirmed: %s", booking.CourseName)
	_ = m.SendEmail([]string{booking.Email}, subject, getEmailTemplate("Enrollment Confirmed", body))
}

// getEmailTemplate wraps body content in the shared HTML shell.
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1F2A44; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1F2A44; line-height: 1.6; }
			.content h2 { color: #1F2A44; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #5B8DEF; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>COURSEDESK</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 CourseDesk. All rights reserved.
			</div>
		</div>
	</body>
	</html>`, title, bodyContent)
}
