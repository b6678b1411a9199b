package submission

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
	"github.com/samarthyatrust/samarthya_backend/pkg/reqctx"
)

type fakeStore struct {
	created []*repo.Submission

	existsKey   bool
	existsSince bool
	lastKeys    map[string]string
	lastSince   time.Time
	lastAny     bool

	createErr error

	rec    *repo.Submission
	getErr error

	lastUpd  repo.StatusUpdate
	updErr   error
	lastOpts repo.ListOptions
	items    []repo.Submission
	total    int
	counts   map[string]int
}

func (f *fakeStore) Create(_ context.Context, s *repo.Submission) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, s)
	return nil
}

func (f *fakeStore) ExistsKey(_ context.Context, _, _ string) (bool, error) {
	return f.existsKey, nil
}

func (f *fakeStore) ExistsSince(_ context.Context, _ string, keys map[string]string, matchAny bool, since time.Time) (bool, error) {
	f.lastKeys, f.lastAny, f.lastSince = keys, matchAny, since
	return f.existsSince, nil
}

func (f *fakeStore) GetByID(_ context.Context, _ string, _ uuid.UUID) (*repo.Submission, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.rec, nil
}

func (f *fakeStore) List(_ context.Context, opts repo.ListOptions) ([]repo.Submission, int, error) {
	f.lastOpts = opts
	return f.items, f.total, nil
}

func (f *fakeStore) CountByStatus(_ context.Context, _ string) (map[string]int, error) {
	return f.counts, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, _ string, _ uuid.UUID, upd repo.StatusUpdate) (*repo.Submission, error) {
	if f.updErr != nil {
		return nil, f.updErr
	}
	f.lastUpd = upd
	return f.rec, nil
}

type fakeNotifier struct {
	triggers []string
}

func (f *fakeNotifier) SubmissionEvent(trigger string, _ form.Descriptor, _ *repo.Submission) {
	f.triggers = append(f.triggers, trigger)
}

func newService(store *fakeStore, notifier *fakeNotifier) Service {
	return New(store, notifier, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func donationInput() map[string]any {
	return map[string]any{
		"name":     "Ravi Kumar",
		"email":    "Ravi@Example.org",
		"phone":    "9876543210",
		"amount":   float64(500),
		"currency": "INR",
		"purpose":  "education",
	}
}

func TestSubmit(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	svc := newService(store, notifier)

	res, err := svc.Submit(context.Background(), form.Donation, donationInput())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if !strings.HasPrefix(res.Reference, "DON-") {
		t.Errorf("Reference = %q, want DON- prefix", res.Reference)
	}

	if len(store.created) != 1 {
		t.Fatalf("created %d records, want 1", len(store.created))
	}
	rec := store.created[0]
	if rec.Status != "pending" {
		t.Errorf("Status = %q, want pending", rec.Status)
	}
	if rec.Email != "ravi@example.org" {
		t.Errorf("Email = %q", rec.Email)
	}
	if rec.DedupeKey != "ravi@example.org" {
		t.Errorf("DedupeKey = %q", rec.DedupeKey)
	}
	if rec.Source != "website-donation" {
		t.Errorf("Source = %q", rec.Source)
	}
	if rec.Fields["amount"] != float64(500) {
		t.Errorf("amount = %v", rec.Fields["amount"])
	}

	if len(notifier.triggers) != 1 || notifier.triggers[0] != "submitted" {
		t.Errorf("triggers = %v, want [submitted]", notifier.triggers)
	}
}

func TestSubmitValidationError(t *testing.T) {
	store := &fakeStore{}
	svc := newService(store, &fakeNotifier{})

	in := donationInput()
	delete(in, "email")

	_, err := svc.Submit(context.Background(), form.Donation, in)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Submit() error = %v, want ValidationError", err)
	}
	if verr.Field != "email" {
		t.Errorf("Field = %q, want email", verr.Field)
	}
	if len(store.created) != 0 {
		t.Error("invalid input must not be persisted")
	}
}

func TestSubmitHardDuplicate(t *testing.T) {
	store := &fakeStore{existsKey: true}
	notifier := &fakeNotifier{}
	svc := newService(store, notifier)

	_, err := svc.Submit(context.Background(), form.Donation, donationInput())
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("Submit() error = %v, want ErrDuplicate", err)
	}
	if len(store.created) != 0 || len(notifier.triggers) != 0 {
		t.Error("duplicate must neither persist nor notify")
	}
}

func TestSubmitWindowedDuplicate(t *testing.T) {
	store := &fakeStore{existsSince: true}
	svc := newService(store, &fakeNotifier{})

	in := map[string]any{
		"name":    "Asha Verma",
		"email":   "asha@example.org",
		"subject": "Hello again",
		"message": "Following up on my earlier message.",
	}

	_, err := svc.Submit(context.Background(), form.Contact, in)
	if !errors.Is(err, ErrDuplicateRecent) {
		t.Fatalf("Submit() error = %v, want ErrDuplicateRecent", err)
	}
	if store.lastKeys["email"] != "asha@example.org" {
		t.Errorf("guard keys = %v", store.lastKeys)
	}
	// contact guards a 5 minute window
	if since := time.Since(store.lastSince); since < 4*time.Minute || since > 6*time.Minute {
		t.Errorf("guard window start off by %v", since)
	}
}

func TestSubmitMatchAnyGuard(t *testing.T) {
	store := &fakeStore{}
	svc := newService(store, &fakeNotifier{})

	in := map[string]any{
		"name":             "Kiran Rao",
		"email":            "kiran@example.org",
		"organization":     "Helping Hands",
		"organizationType": "ngo",
		"proposal":         "We would like to run a joint health camp in your district.",
	}

	if _, err := svc.Submit(context.Background(), form.Collaboration, in); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if !store.lastAny {
		t.Error("collaboration guard should match any key")
	}
	if store.lastKeys["organization"] != "Helping Hands" {
		t.Errorf("guard keys = %v", store.lastKeys)
	}
}

func TestSubmitLostRace(t *testing.T) {
	store := &fakeStore{createErr: repo.ErrConflict}
	svc := newService(store, &fakeNotifier{})

	_, err := svc.Submit(context.Background(), form.Donation, donationInput())
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("Submit() error = %v, want ErrDuplicate", err)
	}
}

func TestSubmitRecordsRequestMeta(t *testing.T) {
	store := &fakeStore{}
	svc := newService(store, &fakeNotifier{})

	ctx := reqctx.WithRequestMeta(context.Background(), &reqctx.RequestMeta{
		ClientIP:  "203.0.113.7",
		UserAgent: "curl/8.0",
	})

	if _, err := svc.Submit(ctx, form.Donation, donationInput()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	rec := store.created[0]
	if rec.ClientIP != "203.0.113.7" || rec.UserAgent != "curl/8.0" {
		t.Errorf("meta not recorded: ip=%q ua=%q", rec.ClientIP, rec.UserAgent)
	}
}

func TestUpdateStatus(t *testing.T) {
	rec := &repo.Submission{Reference: "DON-12345678-ABCD", Status: "completed"}
	store := &fakeStore{rec: rec}
	notifier := &fakeNotifier{}
	svc := newService(store, notifier)

	got, err := svc.UpdateStatus(context.Background(), form.Donation, uuid.New(), StatusInput{
		Status: "completed",
		Notes:  "payment confirmed",
	})
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if got != rec {
		t.Error("UpdateStatus() did not return the stored record")
	}
	if store.lastUpd.StampKey != "completedAt" {
		t.Errorf("StampKey = %q, want completedAt", store.lastUpd.StampKey)
	}
	if store.lastUpd.Notes != "payment confirmed" {
		t.Errorf("Notes = %q", store.lastUpd.Notes)
	}
	if len(notifier.triggers) != 1 || notifier.triggers[0] != "completed" {
		t.Errorf("triggers = %v, want [completed]", notifier.triggers)
	}
}

func TestUpdateStatusUnstamped(t *testing.T) {
	store := &fakeStore{rec: &repo.Submission{}}
	svc := newService(store, &fakeNotifier{})

	_, err := svc.UpdateStatus(context.Background(), form.Donation, uuid.New(), StatusInput{Status: "contacted"})
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if store.lastUpd.StampKey != "" {
		t.Errorf("StampKey = %q, want none for contacted", store.lastUpd.StampKey)
	}
}

func TestUpdateStatusInvalid(t *testing.T) {
	svc := newService(&fakeStore{}, &fakeNotifier{})

	_, err := svc.UpdateStatus(context.Background(), form.Donation, uuid.New(), StatusInput{Status: "approved"})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("UpdateStatus() error = %v, want ErrInvalidStatus", err)
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	store := &fakeStore{updErr: repo.ErrNotFound}
	svc := newService(store, &fakeNotifier{})

	_, err := svc.UpdateStatus(context.Background(), form.Donation, uuid.New(), StatusInput{Status: "completed"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdateStatus() error = %v, want ErrNotFound", err)
	}
}

func TestGetNotFound(t *testing.T) {
	store := &fakeStore{getErr: repo.ErrNotFound}
	svc := newService(store, &fakeNotifier{})

	_, err := svc.Get(context.Background(), form.Contact, uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestList(t *testing.T) {
	store := &fakeStore{
		items:  []repo.Submission{{Reference: "DON-12345678-ABCD"}},
		total:  41,
		counts: map[string]int{"pending": 40, "completed": 1},
	}
	svc := newService(store, &fakeNotifier{})

	res, err := svc.List(context.Background(), form.Donation, ListQuery{
		Status:  "pending",
		Filters: map[string]string{"purpose": "education", "bogus": "x"},
		Page:    3,
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if store.lastOpts.PerPage != 20 {
		t.Errorf("default PerPage = %d, want 20", store.lastOpts.PerPage)
	}
	if store.lastOpts.FieldEquals["purpose"] != "education" {
		t.Errorf("FieldEquals = %v", store.lastOpts.FieldEquals)
	}
	if _, leaked := store.lastOpts.FieldEquals["bogus"]; leaked {
		t.Error("undeclared filter leaked into the query")
	}
	if len(store.lastOpts.SearchFields) == 0 {
		t.Error("descriptor search fields not passed through")
	}

	if res.Total != 41 || res.TotalPages != 3 || res.Page != 3 {
		t.Errorf("pagination = total %d pages %d page %d", res.Total, res.TotalPages, res.Page)
	}
	if res.Stats["pending"] != 40 {
		t.Errorf("stats = %v", res.Stats)
	}
}

func TestListPerPageCap(t *testing.T) {
	store := &fakeStore{}
	svc := newService(store, &fakeNotifier{})

	if _, err := svc.List(context.Background(), form.Contact, ListQuery{PerPage: 5000}); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if store.lastOpts.PerPage != 100 {
		t.Errorf("PerPage = %d, want capped at 100", store.lastOpts.PerPage)
	}
}
