package utils

import (
	"fmt"
	"log"

	"lms/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail sends an HTML email through SendGrid. Callers treat failures
// as best-effort; nothing in the certificate flow blocks on email.
func SendEmail(toEmail, toName, subject, htmlBody string) error {
	if config.AppConfig.SendGridApiKey == "" {
		log.Println("[EMAIL] SENDGRID_API_KEY not set, skipping email")
		return nil
	}

	from := mail.NewEmail("LMS", config.AppConfig.EmailSender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendGridApiKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("[EMAIL] Error sending email to %s: %v", toEmail, err)
		return err
	}
	if resp.StatusCode >= 400 {
		log.Printf("[EMAIL] SendGrid rejected email to %s: %d %s", toEmail, resp.StatusCode, resp.Body)
		return fmt.Errorf("sendgrid responded with status %d", resp.StatusCode)
	}
	return nil
}

// SendCertificateIssuedEmail notifies a learner that their certificate
// is ready. Best-effort.
func SendCertificateIssuedEmail(email, name, courseName, certificateNumber string) {
	body := fmt.Sprintf(`
	<h2>Congratulations, %s!</h2>
	<p>You have completed <strong>%s</strong>.</p>
	<p>Your certificate number is <strong>%s</strong>. You can view and download it from your dashboard.</p>
	`, name, courseName, certificateNumber)

	if err := SendEmail(email, name, "Your certificate is ready", body); err != nil {
		log.Printf("[EMAIL] Failed to send certificate email to %s: %v", email, err)
	}
}
