package form

import "time"

// Kind selects the semantic validation applied to a field.
type Kind string

const (
	KindString Kind = "string"
	KindEmail  Kind = "email"
	KindPhone  Kind = "phone"
	KindEnum   Kind = "enum"
	KindNumber Kind = "number"
	KindURL    Kind = "url"
)

// Condition makes a field required only when another field holds a value.
type Condition struct {
	Field  string
	Equals string
}

// Field describes one input field of a form type.
type Field struct {
	Name     string
	Kind     Kind
	Required bool

	// RequiredIf is evaluated only once the trigger field's value is known.
	RequiredIf *Condition

	// Length bounds for string-like kinds (0 = unbounded).
	MinLen int
	MaxLen int

	// Inclusive numeric bounds for KindNumber.
	Min float64
	Max float64

	// Closed value set for KindEnum.
	Enum []string

	// Allowlists for KindURL: a URL passes if its path extension OR its
	// host matches.
	URLExts  []string
	URLHosts []string
}

// DuplicatePolicy controls the duplicate guard for a form type.
type DuplicatePolicy struct {
	// Window is how recently an equivalent record may have been created.
	// Zero means hard uniqueness: a match at any time is rejected and the
	// key is also enforced by a storage-level unique index.
	Window time.Duration

	// Keys are the field names forming the equivalence key.
	Keys []string

	// MatchAny treats the keys as alternatives (any one matching counts)
	// instead of a composite key.
	MatchAny bool
}

// Hard reports whether the policy is a no-window uniqueness constraint.
func (p DuplicatePolicy) Hard() bool { return p.Window == 0 }

// Descriptor is the full configuration of one form type. The submission
// engine is generic; everything form-specific lives here.
type Descriptor struct {
	Type       string // storage discriminator, e.g. "donation"
	Label      string // human label used in messages and emails
	Slug       string // route segment, e.g. "donations"
	SubmitVerb string // public route verb: submit, apply, register, subscribe
	Prefix     string // reference code prefix
	Source     string // provenance tag written on every record

	Fields []Field

	Statuses    []string
	Initial     string
	StatusTimes map[string]string // status -> timestamp key stamped on entry

	Duplicate DuplicatePolicy

	// Notify maps a trigger to an email template name. The trigger is
	// either "submitted" or a status value.
	Notify map[string]string

	// Filters are form-specific admin list filters (field names).
	Filters []string

	// SearchFields are non-core fields included in free-text search,
	// alongside name, email and reference.
	SearchFields []string
}

// ValidStatus reports membership in the form's closed status set.
func (d Descriptor) ValidStatus(s string) bool {
	for _, v := range d.Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// FieldByName returns the named field definition.
func (d Descriptor) FieldByName(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// SubmitPath returns the public submission route for the form.
func (d Descriptor) SubmitPath() string {
	return "/" + d.Slug + "/" + d.SubmitVerb
}
