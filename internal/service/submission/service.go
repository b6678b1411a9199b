package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/samarthyatrust/samarthya_backend/internal/form"
	"github.com/samarthyatrust/samarthya_backend/internal/repo"
	"github.com/samarthyatrust/samarthya_backend/internal/validate"
	"github.com/samarthyatrust/samarthya_backend/pkg/reqctx"
	"github.com/samarthyatrust/samarthya_backend/pkg/util/refcode"
)

// Store is the persistence surface the service depends on.
type Store interface {
	Create(ctx context.Context, s *repo.Submission) error
	ExistsKey(ctx context.Context, formType, dedupeKey string) (bool, error)
	ExistsSince(ctx context.Context, formType string, keys map[string]string, matchAny bool, since time.Time) (bool, error)
	GetByID(ctx context.Context, formType string, id uuid.UUID) (*repo.Submission, error)
	List(ctx context.Context, opts repo.ListOptions) ([]repo.Submission, int, error)
	CountByStatus(ctx context.Context, formType string) (map[string]int, error)
	UpdateStatus(ctx context.Context, formType string, id uuid.UUID, upd repo.StatusUpdate) (*repo.Submission, error)
}

// Notifier dispatches lifecycle emails. Implementations are
// fire-and-forget.
type Notifier interface {
	SubmissionEvent(trigger string, desc form.Descriptor, rec *repo.Submission)
}

// SubmitResult is what a successful public submission returns.
type SubmitResult struct {
	Reference   string    `json:"reference"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// StatusInput carries an admin status transition request.
type StatusInput struct {
	Status   string `json:"status"`
	Assignee string `json:"assignee"`
	Notes    string `json:"notes"`
	Reason   string `json:"reason"`
}

// ListQuery selects and pages an admin listing. Filters not declared
// by the form descriptor are ignored.
type ListQuery struct {
	Status  string
	Search  string
	Filters map[string]string
	Page    int
	PerPage int
}

// ListResult is one admin listing page plus per-status stats.
type ListResult struct {
	Items      []repo.Submission
	Stats      map[string]int
	Total      int
	Page       int
	PerPage    int
	TotalPages int
}

// Service runs the shared submission lifecycle for every form type.
type Service interface {
	Submit(ctx context.Context, desc form.Descriptor, input map[string]any) (*SubmitResult, error)
	List(ctx context.Context, desc form.Descriptor, q ListQuery) (*ListResult, error)
	Get(ctx context.Context, desc form.Descriptor, id uuid.UUID) (*repo.Submission, error)
	UpdateStatus(ctx context.Context, desc form.Descriptor, id uuid.UUID, in StatusInput) (*repo.Submission, error)
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

// Submit validates input, runs the duplicate guard, persists the record
// with a fresh reference code, and triggers the submitted notification.
func (s *service) Submit(ctx context.Context, desc form.Descriptor, input map[string]any) (*SubmitResult, error) {
	res, ferr := validate.Submission(desc, input)
	if ferr != nil {
		return nil, &ValidationError{Field: ferr.Field, Message: ferr.Message}
	}

	now := s.now().UTC()

	dedupeKey, err := s.guardDuplicates(ctx, desc, res, now)
	if err != nil {
		return nil, err
	}

	reference, err := refcode.Generate(desc.Prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to generate reference: %w", err)
	}

	rec := &repo.Submission{
		ID:        uuid.New(),
		FormType:  desc.Type,
		Reference: reference,
		Name:      res.Name,
		Email:     res.Email,
		Phone:     res.Phone,
		Status:    desc.Initial,
		Source:    desc.Source,
		Fields:    res.Fields,
		DedupeKey: dedupeKey,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if meta, ok := reqctx.RequestMetaFromContext(ctx); ok {
		rec.ClientIP = meta.ClientIP
		rec.UserAgent = meta.UserAgent
	}

	if err := s.store.Create(ctx, rec); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			// lost a check-then-create race; same outcome as the pre-check
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to store submission: %w", err)
	}

	s.log.Info("submission recorded",
		"form_type", desc.Type, "reference", reference, "status", desc.Initial)

	s.notifier.SubmissionEvent("submitted", desc, rec)

	return &SubmitResult{Reference: reference, SubmittedAt: now}, nil
}

// guardDuplicates enforces the form's duplicate policy and returns the
// dedupe key to store for hard-uniqueness forms.
func (s *service) guardDuplicates(ctx context.Context, desc form.Descriptor, res *validate.Result, now time.Time) (string, error) {
	if len(desc.Duplicate.Keys) == 0 {
		return "", nil
	}

	if desc.Duplicate.Hard() {
		key := dedupeKeyOf(desc.Duplicate.Keys, res)
		exists, err := s.store.ExistsKey(ctx, desc.Type, key)
		if err != nil {
			return "", fmt.Errorf("failed to check duplicates: %w", err)
		}
		if exists {
			return "", ErrDuplicate
		}
		return key, nil
	}

	keys := make(map[string]string, len(desc.Duplicate.Keys))
	for _, k := range desc.Duplicate.Keys {
		keys[k] = res.KeyValue(k)
	}
	exists, err := s.store.ExistsSince(ctx, desc.Type, keys, desc.Duplicate.MatchAny, now.Add(-desc.Duplicate.Window))
	if err != nil {
		return "", fmt.Errorf("failed to check duplicates: %w", err)
	}
	if exists {
		return "", ErrDuplicateRecent
	}
	return "", nil
}

func (s *service) List(ctx context.Context, desc form.Descriptor, q ListQuery) (*ListResult, error) {
	page, perPage := q.Page, q.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	opts := repo.ListOptions{
		FormType:     desc.Type,
		Status:       q.Status,
		Search:       q.Search,
		SearchFields: desc.SearchFields,
		Page:         page,
		PerPage:      perPage,
	}
	for _, name := range desc.Filters {
		if v, ok := q.Filters[name]; ok && v != "" {
			if opts.FieldEquals == nil {
				opts.FieldEquals = make(map[string]string)
			}
			opts.FieldEquals[name] = v
		}
	}

	items, total, err := s.store.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	stats, err := s.store.CountByStatus(ctx, desc.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	return &ListResult{
		Items:      items,
		Stats:      stats,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: (total + perPage - 1) / perPage,
	}, nil
}

func (s *service) Get(ctx context.Context, desc form.Descriptor, id uuid.UUID) (*repo.Submission, error) {
	rec, err := s.store.GetByID(ctx, desc.Type, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load submission: %w", err)
	}
	return rec, nil
}

// UpdateStatus applies an admin transition, stamping the configured
// timestamp for the new status and firing its notification, if any.
func (s *service) UpdateStatus(ctx context.Context, desc form.Descriptor, id uuid.UUID, in StatusInput) (*repo.Submission, error) {
	if !desc.ValidStatus(in.Status) {
		return nil, ErrInvalidStatus
	}

	rec, err := s.store.UpdateStatus(ctx, desc.Type, id, repo.StatusUpdate{
		Status:   in.Status,
		Assignee: in.Assignee,
		Notes:    in.Notes,
		Reason:   in.Reason,
		StampKey: desc.StatusTimes[in.Status],
		Now:      s.now().UTC(),
	})
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	s.log.Info("submission status updated",
		"form_type", desc.Type, "reference", rec.Reference, "status", in.Status)

	s.notifier.SubmissionEvent(in.Status, desc, rec)

	return rec, nil
}

// dedupeKeyOf builds the stored uniqueness key from the canonical
// values of the policy's key fields.
func dedupeKeyOf(keys []string, res *validate.Result) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, res.KeyValue(k))
	}
	return strings.Join(parts, "|")
}
