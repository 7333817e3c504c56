// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendIngestionFailure(fileName, patientId, reason string) error
	SendSweepReport(markedFiles []string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	alertEmail  string
}

func NewEmailService(host string, port int, username, password, senderEmail, alertEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		alertEmail:  alertEmail,
	}
}

func (s *emailService) SendIngestionFailure(fileName, patientId, reason string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", s.alertEmail)
	m.SetHeader("Subject", "Patient file ingestion failed")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Ingestion failure</h2>
			<p>A patient document could not be ingested into the vectorstore.</p>
			<p><b>File:</b> %s</p>
			<p><b>Patient:</b> %s</p>
			<p><b>Reason:</b> %s</p>
			<p>The file is marked as errored and can be retried from the admin panel.</p>
		</div>
	`, fileName, patientId, reason)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send ingestion failure alert for %s: %v\n", fileName, err)
		return err
	}

	fmt.Printf("[MAILER] Ingestion failure alert sent for %s\n", fileName)
	return nil
}

func (s *emailService) SendSweepReport(markedFiles []string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", s.alertEmail)
	m.SetHeader("Subject", "Stalled ingestions marked as errored")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Watchdog sweep report</h2>
			<p>The following files were still processing at sweep time and were marked as errored:</p>
			<p>%s</p>
			<p>They must be re-triggered manually.</p>
		</div>
	`, strings.Join(markedFiles, "<br/>"))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send sweep report: %v\n", err)
		return err
	}

	fmt.Printf("[MAILER] Sweep report sent (%d files)\n", len(markedFiles))
	return nil
}
