package mailer

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/classical-review/pkg/apperror"
	tpl "github.com/oksasatya/classical-review/pkg/mailer/templates"
)

const EmailTypeVerification = "verification"

// Sender delivers account emails.
type Sender interface {
	SendVerificationEmail(ctx context.Context, username, email, token string) error
}

// Publisher is satisfied by helpers.RabbitPublisher.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueSender enqueues email jobs for cmd/email_worker.
type QueueSender struct {
	Pub        Publisher
	AppName    string
	VerifyURL  string
	SupportURL string
	TokenTTL   time.Duration
}

func (s *QueueSender) SendVerificationEmail(ctx context.Context, username, email, token string) error {
	link := s.VerifyURL + "?token=" + token
	data := tpl.NewVerifyEmailData(s.AppName, username, email, link,
		tpl.WithExpiresIn(s.TokenTTL),
		tpl.WithSupportURL(s.SupportURL),
	)
	job := EmailJob{To: email, Template: tpl.VerifyEmail, Data: data}
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		return apperror.EmailDelivery(email, EmailTypeVerification, err)
	}
	return nil
}

// LogSender is used when MAIL_SEND_ENABLED=false: the link is logged instead of mailed.
type LogSender struct {
	Logger    *logrus.Logger
	VerifyURL string
}

func (s *LogSender) SendVerificationEmail(_ context.Context, username, email, token string) error {
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"username": username,
			"email":    email,
			"link":     s.VerifyURL + "?token=" + token,
		}).Info("mail sending disabled; verification link not emailed")
	}
	return nil
}
