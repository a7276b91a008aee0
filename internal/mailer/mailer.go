// Package mailer sends notification mail through the SMTP settings stored in
// the database.
package mailer

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"gopkg.in/gomail.v2"

	"kintai-backend/internal/model"
	"kintai-backend/internal/repository"
)

var ErrNotConfigured = errors.New("mail settings are not configured")

type Mailer struct {
	settings repository.MailSettingsRepository
}

func New(settings repository.MailSettingsRepository) *Mailer {
	return &Mailer{settings: settings}
}

// Send delivers one plain-text mail using the stored settings.
func (m *Mailer) Send(to, subject, body string) error {
	settings, err := m.settings.Get()
	if err != nil {
		return err
	}
	if settings == nil || settings.Server == "" || settings.Port == 0 {
		return ErrNotConfigured
	}

	from := settings.Username
	if from == "" {
		from = "noreply@example.com"
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(settings.Server, settings.Port, settings.Username, settings.Password)
	if !settings.UseTLS {
		d.SSL = false
	}
	return d.DialAndSend(msg)
}

// SendRegistration notifies a freshly created user, using the stored
// templates when present.
func (m *Mailer) SendRegistration(user *model.User) error {
	settings, err := m.settings.Get()
	if err != nil {
		return err
	}
	subject := "アカウントが作成されました"
	body := "{name} 様\n\n勤怠管理システムのアカウントが作成されました。"
	if settings != nil {
		if settings.SubjectTemplate != "" {
			subject = settings.SubjectTemplate
		}
		if settings.BodyTemplate != "" {
			body = settings.BodyTemplate
		}
	}
	vars := map[string]string{
		"name":  user.Name,
		"email": user.Email,
	}
	return m.Send(user.Email, FillTemplate(subject, vars), FillTemplate(body, vars))
}

// SendTest verifies the settings end to end.
func (m *Mailer) SendTest(to string) error {
	return m.Send(to, "テストメール", "メール設定は正常に動作しています。")
}

// FillTemplate substitutes {key} placeholders, HTML-escaping the values.
func FillTemplate(template string, vars map[string]string) string {
	out := template
	for key, value := range vars {
		out = strings.ReplaceAll(out, fmt.Sprintf("{%s}", key), html.EscapeString(value))
	}
	return out
}
