package validate

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/samarthyatrust/samarthya_backend/internal/form"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// FieldError names the first failing field with an actionable message.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

// Result is the normalized, typed outcome of a successful validation.
// Name, Email and Phone map to core record columns; everything else
// lands in Fields.
type Result struct {
	Name   string
	Email  string
	Phone  string
	Fields map[string]any
}

// KeyValue returns the canonical value of a duplicate-guard key field.
func (r *Result) KeyValue(name string) string {
	switch name {
	case "name":
		return r.Name
	case "email":
		return r.Email
	case "phone":
		return r.Phone
	}
	if v, ok := r.Fields[name]; ok {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

// Submission validates raw form input against a descriptor. Rules run in
// order and short-circuit on the first failure: presence of required
// fields, sanitization, then per-field semantic checks in declared order.
// Pure: nothing is persisted here.
func Submission(desc form.Descriptor, input map[string]any) (*Result, *FieldError) {
	for _, f := range desc.Fields {
		if f.Required && isEmpty(input[f.Name]) {
			return nil, &FieldError{Field: f.Name, Message: "required fields missing"}
		}
	}

	res := &Result{Fields: make(map[string]any)}
	seen := make(map[string]string)

	for _, f := range desc.Fields {
		raw := input[f.Name]

		// Conditional requirement: the trigger was validated earlier
		// (descriptors declare dependents after their trigger).
		if isEmpty(raw) {
			if f.RequiredIf != nil && seen[f.RequiredIf.Field] == f.RequiredIf.Equals {
				return nil, &FieldError{Field: f.Name, Message: f.Name + " is required"}
			}
			continue
		}

		var canonical string
		switch f.Kind {
		case form.KindEmail:
			v, err := email(raw)
			if err != nil {
				return nil, &FieldError{Field: f.Name, Message: err.Error()}
			}
			canonical = v

		case form.KindPhone:
			v, err := phone(raw)
			if err != nil {
				return nil, &FieldError{Field: f.Name, Message: err.Error()}
			}
			canonical = v

		case form.KindEnum:
			v := Sanitize(asString(raw))
			if !contains(f.Enum, v) {
				return nil, &FieldError{
					Field:   f.Name,
					Message: fmt.Sprintf("must be one of: %s", strings.Join(f.Enum, ", ")),
				}
			}
			canonical = v

		case form.KindNumber:
			n, err := number(raw, f)
			if err != nil {
				return nil, &FieldError{Field: f.Name, Message: err.Error()}
			}
			seen[f.Name] = strconv.FormatFloat(n, 'f', -1, 64)
			res.Fields[f.Name] = n
			continue

		case form.KindURL:
			v, err := checkURL(raw, f)
			if err != nil {
				return nil, &FieldError{Field: f.Name, Message: err.Error()}
			}
			canonical = v

		default:
			v := Sanitize(asString(raw))
			if err := length(v, f); err != nil {
				return nil, &FieldError{Field: f.Name, Message: err.Error()}
			}
			canonical = v
		}

		seen[f.Name] = canonical

		switch f.Name {
		case "name":
			res.Name = canonical
		case "email":
			res.Email = canonical
		case "phone":
			res.Phone = canonical
		default:
			res.Fields[f.Name] = canonical
		}
	}

	return res, nil
}

func email(raw any) (string, error) {
	v := strings.ToLower(Sanitize(asString(raw)))
	if len(v) > 254 {
		return "", fmt.Errorf("email must be at most 254 characters")
	}
	if !emailRe.MatchString(v) {
		return "", fmt.Errorf("invalid email address")
	}
	return v, nil
}

func phone(raw any) (string, error) {
	var digits strings.Builder
	for _, r := range asString(raw) {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	v := digits.String()
	if len(v) < 10 || len(v) > 15 {
		return "", fmt.Errorf("phone number must have 10 to 15 digits")
	}
	if allSame(v) {
		return "", fmt.Errorf("phone number looks invalid")
	}
	return v, nil
}

func number(raw any, f form.Field) (float64, error) {
	var n float64
	switch v := raw.(type) {
	case float64:
		n = v
	case int:
		n = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("must be a number")
		}
		n = parsed
	default:
		return 0, fmt.Errorf("must be a number")
	}

	if n <= 0 {
		return 0, fmt.Errorf("must be a positive number")
	}
	if n < f.Min || n > f.Max {
		return 0, fmt.Errorf("must be between %v and %v", f.Min, f.Max)
	}
	return n, nil
}

func checkURL(raw any, f form.Field) (string, error) {
	v := strings.TrimSpace(asString(raw))

	u, err := url.Parse(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("must be a valid URL")
	}

	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
	for _, allowed := range f.URLHosts {
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return v, nil
		}
	}

	path := strings.ToLower(u.Path)
	for _, ext := range f.URLExts {
		if strings.HasSuffix(path, "."+ext) {
			return v, nil
		}
	}

	// no allowlists declared at all: a well-formed URL is enough
	if len(f.URLHosts) == 0 && len(f.URLExts) == 0 {
		return v, nil
	}

	return "", fmt.Errorf("link must be a direct file or from a supported platform")
}

func length(v string, f form.Field) error {
	if f.MinLen > 0 && len(v) < f.MinLen {
		return fmt.Errorf("must be at least %d characters", f.MinLen)
	}
	if f.MaxLen > 0 && len(v) > f.MaxLen {
		return fmt.Errorf("must be at most %d characters", f.MaxLen)
	}
	return nil
}

// FormatPhone renders a stored digits-only phone for display, using E.164
// when the number parses as valid for the region. Falls back to the raw
// canonical digits.
func FormatPhone(digits, region string) string {
	if digits == "" {
		return ""
	}
	if region == "" {
		region = "IN"
	}
	num, err := phonenumbers.Parse(digits, region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return digits
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

func asString(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func isEmpty(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	default:
		return false
	}
}

func allSame(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
