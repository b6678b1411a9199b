package notifier

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/samarthyatrust/samarthya_backend/internal/form"
	"github.com/samarthyatrust/samarthya_backend/internal/repo"
	"github.com/samarthyatrust/samarthya_backend/pkg/email"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []email.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, m email.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m)
	return nil
}

func (f *fakeMailer) messages() []email.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]email.Message(nil), f.sent...)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSubmissionEventSends(t *testing.T) {
	mailer := &fakeMailer{}
	n := New(mailer, Config{OrgName: "Samarthya Trust", BaseURL: "https://samarthya.org"}, discard())

	n.SubmissionEvent("submitted", form.Donation, &repo.Submission{
		Name:      "Ravi Kumar",
		Email:     "ravi@example.org",
		Phone:     "9876543210",
		Reference: "DON-12345678-ABCD",
	})
	n.Close()

	sent := mailer.messages()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	if sent[0].To[0] != "ravi@example.org" {
		t.Errorf("To = %v", sent[0].To)
	}
	if !strings.Contains(sent[0].TextBody, "DON-12345678-ABCD") {
		t.Error("body does not carry the reference code")
	}
	// stored digits are rendered in international format
	if !strings.Contains(sent[0].TextBody, "+919876543210") {
		t.Error("body does not carry the formatted phone number")
	}
}

func TestSubmissionEventUnconfiguredTrigger(t *testing.T) {
	mailer := &fakeMailer{}
	n := New(mailer, Config{}, discard())

	// Media notifies on published only, never on submitted.
	n.SubmissionEvent("submitted", form.Media, &repo.Submission{Email: "a@b.co"})
	n.Close()

	if len(mailer.messages()) != 0 {
		t.Error("unconfigured trigger should not send")
	}
}

func TestSubmissionEventUnsubscribeLink(t *testing.T) {
	mailer := &fakeMailer{}
	n := New(mailer, Config{BaseURL: "https://samarthya.org/"}, discard())

	n.SubmissionEvent("submitted", form.Newsletter, &repo.Submission{
		Email:            "a@b.co",
		UnsubscribeToken: "deadbeefdeadbeefdeadbeefdeadbeef",
	})
	n.Close()

	sent := mailer.messages()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	want := "https://samarthya.org/newsletter/unsubscribe/deadbeefdeadbeefdeadbeefdeadbeef"
	if !strings.Contains(sent[0].TextBody, want) {
		t.Errorf("body missing unsubscribe link %s", want)
	}
}

func TestEveryConfiguredTriggerHasTemplate(t *testing.T) {
	for _, desc := range form.Registry() {
		for trigger, template := range desc.Notify {
			if _, ok := email.Build(template, email.SubmissionEmailData{}); !ok {
				t.Errorf("%s trigger %q names unknown template %q", desc.Type, trigger, template)
			}
		}
	}
}

func TestSubmissionEventFailureIsSwallowed(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("smtp down")}
	n := New(mailer, Config{}, discard())

	// must not panic or surface the error
	n.SubmissionEvent("submitted", form.Contact, &repo.Submission{Email: "a@b.co"})
	n.Close()
}
