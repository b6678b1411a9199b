package notifier

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/samarthyatrust/samarthya_backend/internal/form"
	"github.com/samarthyatrust/samarthya_backend/internal/repo"
	"github.com/samarthyatrust/samarthya_backend/internal/validate"
	"github.com/samarthyatrust/samarthya_backend/pkg/email"
)

// Mailer is the slice of the email client the notifier needs.
type Mailer interface {
	Send(ctx context.Context, m email.Message) error
}

type Config struct {
	// OrgName appears in email copy and signatures.
	OrgName string

	// BaseURL is the public site root used to build unsubscribe links.
	BaseURL string

	// Region is the default phone region for display formatting.
	Region string

	// Timeout bounds each send attempt.
	Timeout time.Duration
}

// Notifier sends submission lifecycle emails in the background.
// Sends are best-effort: a failed email is logged and never fails the
// request that triggered it.
type Notifier struct {
	mailer Mailer
	cfg    Config
	log    *slog.Logger

	wg sync.WaitGroup
}

func New(mailer Mailer, cfg Config, log *slog.Logger) *Notifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Notifier{mailer: mailer, cfg: cfg, log: log}
}

// SubmissionEvent dispatches the email configured for a trigger, which
// is either "submitted" or a status value. Triggers without a template
// are a no-op.
func (n *Notifier) SubmissionEvent(trigger string, desc form.Descriptor, rec *repo.Submission) {
	template, ok := desc.Notify[trigger]
	if !ok {
		return
	}

	data := email.SubmissionEmailData{
		Name:      rec.Name,
		Email:     rec.Email,
		Phone:     validate.FormatPhone(rec.Phone, n.cfg.Region),
		Reference: rec.Reference,
		FormLabel: desc.Label,
		Reason:    rec.Reason,
		OrgName:   n.cfg.OrgName,
		BaseURL:   n.cfg.BaseURL,
	}
	if rec.UnsubscribeToken != "" {
		data.UnsubscribeURL = n.unsubscribeURL(rec.UnsubscribeToken)
	}

	msg, ok := email.Build(template, data)
	if !ok {
		n.log.Warn("unknown email template",
			"template", template, "form_type", desc.Type, "trigger", trigger)
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.send(template, desc.Type, rec.Reference, msg)
	}()
}

func (n *Notifier) send(template, formType, reference string, msg email.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), n.cfg.Timeout)
	defer cancel()

	err := n.mailer.Send(ctx, msg)
	switch {
	case err == nil:
		n.log.Info("notification email sent",
			"template", template, "form_type", formType, "reference", reference)
	case isDisabled(err):
		n.log.Debug("email disabled, notification skipped",
			"template", template, "form_type", formType, "reference", reference)
	default:
		n.log.Warn("notification email failed",
			"template", template, "form_type", formType, "reference", reference, "error", err)
	}
}

// Close waits for in-flight sends to finish. Used on shutdown.
func (n *Notifier) Close() {
	n.wg.Wait()
}

func (n *Notifier) unsubscribeURL(token string) string {
	return strings.TrimRight(n.cfg.BaseURL, "/") + "/newsletter/unsubscribe/" + token
}

func isDisabled(err error) bool {
	var disabled email.ErrDisabled
	return errors.As(err, &disabled)
}
