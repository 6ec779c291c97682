package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/classical-review/pkg/helpers"
	"github.com/oksasatya/classical-review/pkg/mailer"
)

type outcome int

const (
	ack outcome = iota
	requeue
	drop
)

type sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

type worker struct {
	mail    sender
	logger  *logrus.Logger
	timeout time.Duration
}

// handle decodes, renders and sends one queued job. Jobs that can never
// succeed are dropped; send failures are retried.
func (w *worker) handle(ctx context.Context, body []byte) outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.logger.WithError(err).Warn("bad message")
		return drop
	}

	subject, text, html, err := mailer.RenderJob(job)
	if err != nil {
		w.logger.WithError(err).WithField("template", job.Template).Warn("render failed")
		return drop
	}

	c, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	if err := w.mail.Send(c, job.To, subject, text, html); err != nil {
		helpers.LogError(w.logger, "send failed", err, logrus.Fields{"to": job.To, "template": job.Template})
		return requeue
	}
	helpers.LogInfo(w.logger, "email sent", logrus.Fields{"to": job.To, "template": job.Template})
	return ack
}
