package ports

import "context"

// Mail is a single outbound notification.
type Mail struct {
	To      string
	Subject string
	Body    string
}

// Mailer dispatches notifications to an external delivery service.
type Mailer interface {
	SendMail(ctx context.Context, mail Mail) error
}
