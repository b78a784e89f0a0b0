package mailer

import "embed"

const (
	FromName                    = "Tashteeb"
	maxRetries                  = 3
	ContactNotificationTemplate = "contact_notification.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, username, email string, data any) (int, error)
}
