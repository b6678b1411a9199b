package newsletter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/samarthyatrust/samarthya_backend/internal/form"
	"github.com/samarthyatrust/samarthya_backend/internal/repo"
	"github.com/samarthyatrust/samarthya_backend/internal/service/submission"
	"github.com/samarthyatrust/samarthya_backend/internal/validate"
	"github.com/samarthyatrust/samarthya_backend/pkg/reqctx"
	"github.com/samarthyatrust/samarthya_backend/pkg/util/refcode"
)

// Store is the persistence surface the newsletter service depends on.
type Store interface {
	Create(ctx context.Context, s *repo.Submission) error
	FindByEmail(ctx context.Context, formType, email string) (*repo.Submission, error)
	FindByToken(ctx context.Context, token string) (*repo.Submission, error)
	SetNewsletterStatus(ctx context.Context, id uuid.UUID, status, token, stampKey string, now time.Time) error
}

// Notifier dispatches the welcome email.
type Notifier interface {
	SubmissionEvent(trigger string, desc form.Descriptor, rec *repo.Submission)
}

// SubscribeResult is what a successful subscription returns.
// Reactivated is true when an unsubscribed address came back instead
// of a new record being created.
type SubscribeResult struct {
	Reference   string    `json:"reference"`
	SubmittedAt time.Time `json:"submittedAt"`
	Reactivated bool      `json:"-"`
}

// Service manages newsletter subscriptions. Unlike the other forms,
// subscribing twice reactivates an unsubscribed record rather than
// failing, and every record carries a rotating unsubscribe token.
type Service interface {
	Subscribe(ctx context.Context, input map[string]any) (*SubscribeResult, error)
	Unsubscribe(ctx context.Context, token string) error
}

type service struct {
	store    Store
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time
}

func New(store Store, notifier Notifier, log *slog.Logger) Service {
	return &service{store: store, notifier: notifier, log: log, now: time.Now}
}

func (s *service) Subscribe(ctx context.Context, input map[string]any) (*SubscribeResult, error) {
	desc := form.Newsletter

	res, ferr := validate.Submission(desc, input)
	if ferr != nil {
		return nil, &submission.ValidationError{Field: ferr.Field, Message: ferr.Message}
	}

	now := s.now().UTC()

	existing, err := s.store.FindByEmail(ctx, desc.Type, res.Email)
	switch {
	case err == nil:
		return s.reactivate(ctx, desc, existing, now)
	case errors.Is(err, repo.ErrNotFound):
		// fresh subscription
	default:
		return nil, fmt.Errorf("failed to look up subscription: %w", err)
	}

	reference, err := refcode.Generate(desc.Prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to generate reference: %w", err)
	}
	token, err := refcode.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to generate unsubscribe token: %w", err)
	}

	rec := &repo.Submission{
		ID:               uuid.New(),
		FormType:         desc.Type,
		Reference:        reference,
		Name:             res.Name,
		Email:            res.Email,
		Status:           form.NewsletterActive,
		Source:           desc.Source,
		DedupeKey:        res.Email,
		UnsubscribeToken: token,
		StatusTimes:      map[string]time.Time{desc.StatusTimes[form.NewsletterActive]: now},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if meta, ok := reqctx.RequestMetaFromContext(ctx); ok {
		rec.ClientIP = meta.ClientIP
		rec.UserAgent = meta.UserAgent
	}

	if err := s.store.Create(ctx, rec); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, ErrAlreadySubscribed
		}
		return nil, fmt.Errorf("failed to store subscription: %w", err)
	}

	s.log.Info("newsletter subscription created", "reference", reference)
	s.notifier.SubmissionEvent("submitted", desc, rec)

	return &SubscribeResult{Reference: reference, SubmittedAt: now}, nil
}

// reactivate handles a repeat subscribe for a known address: active
// records are a conflict, unsubscribed records come back with a fresh
// token and a new welcome email.
func (s *service) reactivate(ctx context.Context, desc form.Descriptor, rec *repo.Submission, now time.Time) (*SubscribeResult, error) {
	if rec.Status == form.NewsletterActive {
		return nil, ErrAlreadySubscribed
	}

	token, err := refcode.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to generate unsubscribe token: %w", err)
	}
	if err := s.store.SetNewsletterStatus(ctx, rec.ID, form.NewsletterActive, token, desc.StatusTimes[form.NewsletterActive], now); err != nil {
		return nil, fmt.Errorf("failed to reactivate subscription: %w", err)
	}

	rec.Status = form.NewsletterActive
	rec.UnsubscribeToken = token

	s.log.Info("newsletter subscription reactivated", "reference", rec.Reference)
	s.notifier.SubmissionEvent("submitted", desc, rec)

	return &SubscribeResult{
		Reference:   rec.Reference,
		SubmittedAt: now,
		Reactivated: true,
	}, nil
}

// Unsubscribe deactivates the subscription holding the token. The
// token is rotated in the same update, so the emailed link works
// exactly once.
func (s *service) Unsubscribe(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidToken
	}

	rec, err := s.store.FindByToken(ctx, token)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrInvalidToken
	}
	if err != nil {
		return fmt.Errorf("failed to look up token: %w", err)
	}

	replacement, err := refcode.Token()
	if err != nil {
		return fmt.Errorf("failed to rotate token: %w", err)
	}
	stampKey := form.Newsletter.StatusTimes[form.NewsletterUnsubscribed]
	if err := s.store.SetNewsletterStatus(ctx, rec.ID, form.NewsletterUnsubscribed, replacement, stampKey, s.now().UTC()); err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}

	s.log.Info("newsletter unsubscribed", "reference", rec.Reference)
	return nil
}
