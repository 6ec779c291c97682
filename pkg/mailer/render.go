package mailer

import (
	"errors"

	tpl "github.com/oksasatya/classical-review/pkg/mailer/templates"
)

var ErrEmptyJob = errors.New("email job has neither template nor subject with body")

// RenderJob resolves the subject and bodies of a queued job.
func RenderJob(job EmailJob) (subject, text, html string, err error) {
	if job.To == "" {
		return "", "", "", errors.New("email job has no recipient")
	}
	if job.Template != "" {
		return tpl.Render(job.Template, job.Data)
	}
	if job.Subject == "" || (job.Text == "" && job.HTML == "") {
		return "", "", "", ErrEmptyJob
	}
	return job.Subject, job.Text, job.HTML, nil
}
