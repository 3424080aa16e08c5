package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/leadgen-api/internal/entity"
)

//go:embed templates/*.html
var templatesFS embed.FS

var jobFinishedTmpl = template.Must(template.ParseFS(templatesFS, "templates/job_finished.html"))

type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		dialer:   gomail.NewDialer(host, port, user, password),
	}
}

// SendJobFinished manda o resumo do job terminado para o dono do profile.
func (s *EmailSender) SendJobFinished(to, name string, evt entity.JobEvent) error {
	data := JobFinishedEmailData{
		Name:       name,
		JobID:      evt.JobID,
		Platform:   string(evt.Platform),
		City:       evt.City,
		Category:   evt.Category,
		Status:     string(evt.Status),
		LeadsFound: evt.LeadsFound,
	}

	var body bytes.Buffer
	if err := jobFinishedTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", jobFinishedSubject(data))
	m.SetBody("text/html", body.String())

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}

func jobFinishedSubject(d JobFinishedEmailData) string {
	if d.Status == string(entity.JobCompleted) {
		return fmt.Sprintf("Your job is done: %d leads for %s in %s", d.LeadsFound, d.Category, d.City)
	}
	return fmt.Sprintf("Your job for %s in %s ended as %s", d.Category, d.City, d.Status)
}
