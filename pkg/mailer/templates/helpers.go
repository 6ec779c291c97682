package templates

import (
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithExpiresIn(dur time.Duration) Option {
	return func(d *EmailData) {
		utc := time.Now().Add(dur).UTC()
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format("02 January 2006, 15:04 MST")
	}
}

func WithSupportURL(url string) Option { return func(d *EmailData) { d.SupportURL = url } }

func WithCompany(name string) Option { return func(d *EmailData) { d.CompanyName = name } }

// NewVerifyEmailData builds the data map for the verify_email template.
func NewVerifyEmailData(appName, username, email, verifyURL string, opts ...Option) map[string]any {
	d := EmailData{
		Username:  username,
		Email:     email,
		Type:      VerifyEmail,
		AppName:   appName,
		VerifyURL: verifyURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return ToMap(d)
}
