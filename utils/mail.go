package utils

import (
	"fmt"
	"net/smtp"
	"os"
)

// SendMail sends a plain-text email using SMTP (Gmail example)
func SendMail(to, subject, body string) error {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")

	if host == "" || port == "" || user == "" || pass == "" {
		return fmt.Errorf("smtp not configured")
	}

	addr := host + ":" + port
	from := user

	// Build message
	msg := "From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n" +
		body + "\r\n"

	auth := smtp.PlainAuth("", user, pass, host)
	return smtp.SendMail(addr, auth, from, []string{to}, []byte(msg))
}

// SendVerificationEmail mails the signup verification link for a token.
func SendVerificationEmail(to, token string) error {
	base := os.Getenv("BASE_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	link := base + "/api/auth/verify-email?token=" + token

	body := "Welcome to Eventbook!\n\n" +
		"Please verify your email by opening the link below:\n" +
		link + "\n\n" +
		"The link expires in 24 hours."
	return SendMail(to, "Verify your email", body)
}
