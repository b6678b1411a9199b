package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Submission is one stored form record of any type. ClientIP, UserAgent
// and the guard columns never leave the API.
type Submission struct {
	ID          uuid.UUID            `json:"id"`
	FormType    string               `json:"formType"`
	Reference   string               `json:"reference"`
	Name        string               `json:"name,omitempty"`
	Email       string               `json:"email"`
	Phone       string               `json:"phone,omitempty"`
	Status      string               `json:"status"`
	Source      string               `json:"source"`
	Assignee    string               `json:"assignee,omitempty"`
	Notes       string               `json:"notes,omitempty"`
	Reason      string               `json:"reason,omitempty"`
	Fields      map[string]any       `json:"fields,omitempty"`
	StatusTimes map[string]time.Time `json:"statusTimes,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`

	ClientIP         string `json:"-"`
	UserAgent        string `json:"-"`
	DedupeKey        string `json:"-"`
	UnsubscribeToken string `json:"-"`
}

// StatusUpdate carries an admin status transition. Assignee, Notes and
// Reason overwrite only when non-empty. StampKey, when set, records Now
// under that key in status_times.
type StatusUpdate struct {
	Status   string
	Assignee string
	Notes    string
	Reason   string
	StampKey string
	Now      time.Time
}

// ListOptions select and page an admin listing.
type ListOptions struct {
	FormType string
	Status   string

	// FieldEquals filters on values inside the fields column.
	FieldEquals map[string]string

	// Search matches name, email and reference, plus SearchFields
	// inside the fields column, case-insensitively.
	Search       string
	SearchFields []string

	Page    int
	PerPage int
}

const submissionColumns = `id, form_type, reference, name, email, phone, status, source,
	client_ip, user_agent, assignee, notes, reason, dedupe_key, unsubscribe_token,
	fields, status_times, created_at, updated_at`

// Repository persists submissions in PostgreSQL.
type Repository struct {
	conn *sql.DB
}

func New(conn *sql.DB) *Repository {
	return &Repository{conn: conn}
}

// Create inserts a new record. Unique index violations come back as
// ErrConflict so callers can report the duplicate instead of a 500.
func (r *Repository) Create(ctx context.Context, s *Submission) error {
	fieldsJSON, err := json.Marshal(orEmptyFields(s.Fields))
	if err != nil {
		return fmt.Errorf("failed to encode fields: %w", err)
	}
	timesJSON, err := json.Marshal(orEmptyTimes(s.StatusTimes))
	if err != nil {
		return fmt.Errorf("failed to encode status times: %w", err)
	}

	const query = `INSERT INTO submissions (
		id, form_type, reference, name, email, phone, status, source,
		client_ip, user_agent, assignee, notes, reason, dedupe_key, unsubscribe_token,
		fields, status_times, created_at, updated_at
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`

	_, err = r.conn.ExecContext(ctx, query,
		s.ID, s.FormType, s.Reference, s.Name, s.Email, s.Phone, s.Status, s.Source,
		s.ClientIP, s.UserAgent, s.Assignee, s.Notes, s.Reason,
		nullable(s.DedupeKey), nullable(s.UnsubscribeToken),
		fieldsJSON, timesJSON, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to insert submission: %w", err)
	}
	return nil
}

// ExistsKey reports whether a record of this form type already holds
// the dedupe key. Used as the friendly pre-check for hard uniqueness;
// the partial unique index still backs it up under races.
func (r *Repository) ExistsKey(ctx context.Context, formType, dedupeKey string) (bool, error) {
	const query = `SELECT EXISTS(
		SELECT 1 FROM submissions WHERE form_type = $1 AND dedupe_key = $2
	)`
	var exists bool
	if err := r.conn.QueryRowContext(ctx, query, formType, dedupeKey).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check dedupe key: %w", err)
	}
	return exists, nil
}

// ExistsSince reports whether a matching record of this form type was
// created at or after since. Keys named after core columns compare
// against those columns; everything else compares inside fields.
// matchAny ORs the key predicates instead of ANDing them.
func (r *Repository) ExistsSince(ctx context.Context, formType string, keys map[string]string, matchAny bool, since time.Time) (bool, error) {
	if len(keys) == 0 {
		return false, nil
	}

	args := []any{formType, since}
	var preds []string
	for _, name := range sortedKeys(keys) {
		args = append(args, keys[name])
		preds = append(preds, keyPredicate(name, len(args)))
	}

	joiner := " AND "
	if matchAny {
		joiner = " OR "
	}
	query := fmt.Sprintf(
		`SELECT EXISTS(SELECT 1 FROM submissions WHERE form_type = $1 AND created_at >= $2 AND (%s))`,
		strings.Join(preds, joiner),
	)

	var exists bool
	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check recent duplicates: %w", err)
	}
	return exists, nil
}

// GetByID fetches one record, scoped to a form type so an admin route
// for one form cannot read another form's records.
func (r *Repository) GetByID(ctx context.Context, formType string, id uuid.UUID) (*Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE form_type = $1 AND id = $2`
	return r.scanOne(r.conn.QueryRowContext(ctx, query, formType, id))
}

// FindByEmail fetches the record of a form type holding this email.
func (r *Repository) FindByEmail(ctx context.Context, formType, email string) (*Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE form_type = $1 AND email = $2`
	return r.scanOne(r.conn.QueryRowContext(ctx, query, formType, email))
}

// FindByToken fetches the record holding this unsubscribe token.
func (r *Repository) FindByToken(ctx context.Context, token string) (*Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE unsubscribe_token = $1`
	return r.scanOne(r.conn.QueryRowContext(ctx, query, token))
}

// List returns one page of matching records, newest first, plus the
// total match count for pagination.
func (r *Repository) List(ctx context.Context, opts ListOptions) ([]Submission, int, error) {
	where, args := buildListWhere(opts)

	var total int
	countQuery := `SELECT count(*) FROM submissions ` + where
	if err := r.conn.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	page, perPage := opts.Page, opts.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	query := fmt.Sprintf(
		`SELECT %s FROM submissions %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		submissionColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, perPage, (page-1)*perPage)

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var items []Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read submissions: %w", err)
	}
	return items, total, nil
}

// CountByStatus returns per-status record counts for one form type.
func (r *Repository) CountByStatus(ctx context.Context, formType string) (map[string]int, error) {
	const query = `SELECT status, count(*) FROM submissions WHERE form_type = $1 GROUP BY status`

	rows, err := r.conn.QueryContext(ctx, query, formType)
	if err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to read status counts: %w", err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read status counts: %w", err)
	}
	return counts, nil
}

// UpdateStatus applies a transition and returns the updated record.
func (r *Repository) UpdateStatus(ctx context.Context, formType string, id uuid.UUID, upd StatusUpdate) (*Submission, error) {
	set := []string{"status = $1", "updated_at = $2"}
	args := []any{upd.Status, upd.Now}

	if upd.StampKey != "" {
		stamp, err := json.Marshal(map[string]time.Time{upd.StampKey: upd.Now})
		if err != nil {
			return nil, fmt.Errorf("failed to encode status stamp: %w", err)
		}
		args = append(args, stamp)
		set = append(set, fmt.Sprintf("status_times = status_times || $%d", len(args)))
	}
	for _, opt := range []struct{ col, val string }{
		{"assignee", upd.Assignee},
		{"notes", upd.Notes},
		{"reason", upd.Reason},
	} {
		if opt.val == "" {
			continue
		}
		args = append(args, opt.val)
		set = append(set, fmt.Sprintf("%s = $%d", opt.col, len(args)))
	}

	args = append(args, formType, id)
	query := fmt.Sprintf(
		`UPDATE submissions SET %s WHERE form_type = $%d AND id = $%d RETURNING %s`,
		strings.Join(set, ", "), len(args)-1, len(args), submissionColumns,
	)

	return r.scanOne(r.conn.QueryRowContext(ctx, query, args...))
}

// SetNewsletterStatus flips a newsletter record between active and
// unsubscribed, rotating its token and stamping the transition time
// under stampKey in the same update.
func (r *Repository) SetNewsletterStatus(ctx context.Context, id uuid.UUID, status, token, stampKey string, now time.Time) error {
	stamp, err := json.Marshal(map[string]time.Time{stampKey: now})
	if err != nil {
		return fmt.Errorf("failed to encode status stamp: %w", err)
	}

	const query = `UPDATE submissions SET status = $1, unsubscribe_token = $2,
		status_times = status_times || $3, updated_at = $4 WHERE id = $5`

	res, err := r.conn.ExecContext(ctx, query, status, nullable(token), stamp, now, id)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to update newsletter status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *Repository) scanOne(row rowScanner) (*Submission, error) {
	s, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

func scanSubmission(row rowScanner) (*Submission, error) {
	var (
		s         Submission
		dedupeKey sql.NullString
		token     sql.NullString
		fieldsRaw []byte
		timesRaw  []byte
	)

	err := row.Scan(
		&s.ID, &s.FormType, &s.Reference, &s.Name, &s.Email, &s.Phone, &s.Status, &s.Source,
		&s.ClientIP, &s.UserAgent, &s.Assignee, &s.Notes, &s.Reason, &dedupeKey, &token,
		&fieldsRaw, &timesRaw, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan submission: %w", err)
	}

	s.DedupeKey = dedupeKey.String
	s.UnsubscribeToken = token.String

	if len(fieldsRaw) > 0 {
		if err := json.Unmarshal(fieldsRaw, &s.Fields); err != nil {
			return nil, fmt.Errorf("failed to decode fields: %w", err)
		}
	}
	if len(timesRaw) > 0 {
		if err := json.Unmarshal(timesRaw, &s.StatusTimes); err != nil {
			return nil, fmt.Errorf("failed to decode status times: %w", err)
		}
	}
	return &s, nil
}

func buildListWhere(opts ListOptions) (string, []any) {
	preds := []string{"form_type = $1"}
	args := []any{opts.FormType}

	if opts.Status != "" {
		args = append(args, opts.Status)
		preds = append(preds, fmt.Sprintf("status = $%d", len(args)))
	}
	for _, name := range sortedKeys(opts.FieldEquals) {
		args = append(args, opts.FieldEquals[name])
		preds = append(preds, fmt.Sprintf("fields->>'%s' = $%d", name, len(args)))
	}
	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		n := len(args)
		ors := []string{
			fmt.Sprintf("name ILIKE $%d", n),
			fmt.Sprintf("email ILIKE $%d", n),
			fmt.Sprintf("reference ILIKE $%d", n),
		}
		for _, f := range opts.SearchFields {
			ors = append(ors, fmt.Sprintf("fields->>'%s' ILIKE $%d", f, n))
		}
		preds = append(preds, "("+strings.Join(ors, " OR ")+")")
	}

	return "WHERE " + strings.Join(preds, " AND "), args
}

// keyPredicate compares a duplicate-guard key against its storage
// location: core columns for name, email and phone, the fields column
// for everything else.
func keyPredicate(name string, arg int) string {
	switch name {
	case "name", "email", "phone":
		return fmt.Sprintf("%s = $%d", name, arg)
	default:
		return fmt.Sprintf("fields->>'%s' = $%d", name, arg)
	}
}

// sortedKeys keeps generated SQL deterministic for a given option set.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func orEmptyFields(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

func orEmptyTimes(m map[string]time.Time) map[string]time.Time {
	if m == nil {
		return map[string]time.Time{}
	}
	return m
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
