package newsletter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/samarthyatrust/samarthya_backend/internal/form"
	"github.com/samarthyatrust/samarthya_backend/internal/repo"
	"github.com/samarthyatrust/samarthya_backend/internal/service/submission"
)

type fakeStore struct {
	created []*repo.Submission

	byEmail *repo.Submission
	byToken *repo.Submission

	createErr error

	lastID     uuid.UUID
	lastStatus string
	lastToken  string
	lastStamp  string
	setCalls   int
}

func (f *fakeStore) Create(_ context.Context, s *repo.Submission) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, s)
	return nil
}

func (f *fakeStore) FindByEmail(_ context.Context, _, _ string) (*repo.Submission, error) {
	if f.byEmail == nil {
		return nil, repo.ErrNotFound
	}
	return f.byEmail, nil
}

func (f *fakeStore) FindByToken(_ context.Context, token string) (*repo.Submission, error) {
	if f.byToken == nil || f.byToken.UnsubscribeToken != token {
		return nil, repo.ErrNotFound
	}
	return f.byToken, nil
}

func (f *fakeStore) SetNewsletterStatus(_ context.Context, id uuid.UUID, status, token, stampKey string, _ time.Time) error {
	f.lastID, f.lastStatus, f.lastToken, f.lastStamp = id, status, token, stampKey
	f.setCalls++
	return nil
}

type fakeNotifier struct {
	triggers []string
	records  []*repo.Submission
}

func (f *fakeNotifier) SubmissionEvent(trigger string, _ form.Descriptor, rec *repo.Submission) {
	f.triggers = append(f.triggers, trigger)
	f.records = append(f.records, rec)
}

func newService(store *fakeStore, notifier *fakeNotifier) Service {
	return New(store, notifier, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSubscribe(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	svc := newService(store, notifier)

	res, err := svc.Subscribe(context.Background(), map[string]any{
		"name":  "Asha Verma",
		"email": "Asha@Example.org",
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if !strings.HasPrefix(res.Reference, "SUB-") {
		t.Errorf("Reference = %q, want SUB- prefix", res.Reference)
	}
	if res.Reactivated {
		t.Error("fresh subscription marked reactivated")
	}

	if len(store.created) != 1 {
		t.Fatalf("created %d records, want 1", len(store.created))
	}
	rec := store.created[0]
	if rec.Status != form.NewsletterActive {
		t.Errorf("Status = %q", rec.Status)
	}
	if rec.Email != "asha@example.org" {
		t.Errorf("Email = %q", rec.Email)
	}
	if len(rec.UnsubscribeToken) != 32 {
		t.Errorf("UnsubscribeToken = %q, want 32 hex chars", rec.UnsubscribeToken)
	}
	if rec.DedupeKey != "asha@example.org" {
		t.Errorf("DedupeKey = %q", rec.DedupeKey)
	}
	if _, ok := rec.StatusTimes["subscribedAt"]; !ok {
		t.Errorf("StatusTimes = %v, want subscribedAt stamp", rec.StatusTimes)
	}

	if len(notifier.triggers) != 1 || notifier.triggers[0] != "submitted" {
		t.Errorf("triggers = %v, want [submitted]", notifier.triggers)
	}
}

func TestSubscribeInvalidEmail(t *testing.T) {
	svc := newService(&fakeStore{}, &fakeNotifier{})

	_, err := svc.Subscribe(context.Background(), map[string]any{"email": "not-an-email"})
	var verr *submission.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Subscribe() error = %v, want ValidationError", err)
	}
}

func TestSubscribeAlreadyActive(t *testing.T) {
	store := &fakeStore{byEmail: &repo.Submission{
		ID:     uuid.New(),
		Status: form.NewsletterActive,
	}}
	svc := newService(store, &fakeNotifier{})

	_, err := svc.Subscribe(context.Background(), map[string]any{"email": "a@b.co"})
	if !errors.Is(err, ErrAlreadySubscribed) {
		t.Fatalf("Subscribe() error = %v, want ErrAlreadySubscribed", err)
	}
	if store.setCalls != 0 || len(store.created) != 0 {
		t.Error("active subscription must not be touched")
	}
}

func TestSubscribeReactivates(t *testing.T) {
	id := uuid.New()
	store := &fakeStore{byEmail: &repo.Submission{
		ID:               id,
		Reference:        "SUB-12345678-ABCD",
		Email:            "a@b.co",
		Status:           form.NewsletterUnsubscribed,
		UnsubscribeToken: "oldtokenoldtokenoldtokenoldtoken",
	}}
	notifier := &fakeNotifier{}
	svc := newService(store, notifier)

	res, err := svc.Subscribe(context.Background(), map[string]any{"email": "a@b.co"})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if !res.Reactivated {
		t.Error("Reactivated = false")
	}
	if res.Reference != "SUB-12345678-ABCD" {
		t.Errorf("Reference = %q, want the original", res.Reference)
	}

	if store.lastID != id || store.lastStatus != form.NewsletterActive {
		t.Errorf("update = id %v status %q", store.lastID, store.lastStatus)
	}
	if store.lastStamp != "subscribedAt" {
		t.Errorf("stamp key = %q, want subscribedAt", store.lastStamp)
	}
	if store.lastToken == "oldtokenoldtokenoldtokenoldtoken" {
		t.Error("token was not rotated on reactivation")
	}
	if len(store.created) != 0 {
		t.Error("reactivation must not create a second record")
	}

	// welcome email goes out again, carrying the fresh token
	if len(notifier.triggers) != 1 || notifier.triggers[0] != "submitted" {
		t.Errorf("triggers = %v", notifier.triggers)
	}
	if notifier.records[0].UnsubscribeToken != store.lastToken {
		t.Error("welcome email record carries a stale token")
	}
}

func TestSubscribeLostRace(t *testing.T) {
	store := &fakeStore{createErr: repo.ErrConflict}
	svc := newService(store, &fakeNotifier{})

	_, err := svc.Subscribe(context.Background(), map[string]any{"email": "a@b.co"})
	if !errors.Is(err, ErrAlreadySubscribed) {
		t.Fatalf("Subscribe() error = %v, want ErrAlreadySubscribed", err)
	}
}

func TestUnsubscribe(t *testing.T) {
	id := uuid.New()
	store := &fakeStore{byToken: &repo.Submission{
		ID:               id,
		Status:           form.NewsletterActive,
		UnsubscribeToken: "cafecafecafecafecafecafecafecafe",
	}}
	svc := newService(store, &fakeNotifier{})

	if err := svc.Unsubscribe(context.Background(), "cafecafecafecafecafecafecafecafe"); err != nil {
		t.Fatalf("Unsubscribe() error = %v", err)
	}
	if store.lastStatus != form.NewsletterUnsubscribed {
		t.Errorf("status = %q", store.lastStatus)
	}
	if store.lastToken == "cafecafecafecafecafecafecafecafe" || store.lastToken == "" {
		t.Errorf("token not rotated: %q", store.lastToken)
	}
	if store.lastStamp != "unsubscribedAt" {
		t.Errorf("stamp key = %q, want unsubscribedAt", store.lastStamp)
	}
}

func TestUnsubscribeUnknownToken(t *testing.T) {
	svc := newService(&fakeStore{}, &fakeNotifier{})

	if err := svc.Unsubscribe(context.Background(), "nope"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Unsubscribe() error = %v, want ErrInvalidToken", err)
	}
	if err := svc.Unsubscribe(context.Background(), ""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Unsubscribe(empty) error = %v, want ErrInvalidToken", err)
	}
}
