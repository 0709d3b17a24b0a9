package utils

import (
	"log"

	"lms/config"

	"github.com/go-resty/resty/v2"
)

// CertificateIssuedEvent is posted to the configured webhook whenever a
// durable certificate is created.
type CertificateIssuedEvent struct {
	UserID            uint   `json:"user_id"`
	CourseID          uint   `json:"course_id"`
	CertificateNumber string `json:"certificate_number"`
	CourseName        string `json:"course_name"`
}

// NotifyCertificateIssued posts the issuance event to the external
// dashboard. Best-effort: failures are logged and swallowed.
func NotifyCertificateIssued(event CertificateIssuedEvent) {
	url := config.AppConfig.CertificateWebhookURL
	if url == "" {
		return
	}

	client := resty.New()
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(event).
		Post(url)
	if err != nil {
		log.Printf("[WEBHOOK] Failed to post certificate event for user %d: %v", event.UserID, err)
		return
	}
	if resp.StatusCode() >= 400 {
		log.Printf("[WEBHOOK] Certificate event for user %d rejected: %d %s", event.UserID, resp.StatusCode(), resp.String())
	}
}
