package form

import "time"

// Form type identifiers.
const (
	TypeContact           = "contact"
	TypeDonation          = "donation"
	TypeVolunteer         = "volunteer"
	TypeIntern            = "intern"
	TypeEventRegistration = "event-registration"
	TypeCollaboration     = "collaboration"
	TypeMedia             = "media"
	TypeNewsUpdate        = "news-update"
	TypeNewsletter        = "newsletter"
)

// Newsletter statuses are referenced by name from the newsletter service.
const (
	NewsletterActive       = "active"
	NewsletterUnsubscribed = "unsubscribed"
)

var areaOfInterestValues = []string{"education", "health", "events", "fundraising", "content", "field-work"}

func nameField() Field {
	return Field{Name: "name", Kind: KindString, Required: true, MinLen: 2, MaxLen: 100}
}

func emailField() Field {
	return Field{Name: "email", Kind: KindEmail, Required: true}
}

func phoneField(required bool) Field {
	return Field{Name: "phone", Kind: KindPhone, Required: required}
}

var Contact = Descriptor{
	Type:       TypeContact,
	Label:      "message",
	Slug:       "contact",
	SubmitVerb: "submit",
	Prefix:     "CON",
	Source:     "website-contact",
	Fields: []Field{
		nameField(),
		emailField(),
		phoneField(false),
		{Name: "subject", Kind: KindString, Required: true, MinLen: 2, MaxLen: 200},
		{Name: "message", Kind: KindString, Required: true, MinLen: 10, MaxLen: 1000},
	},
	Statuses:     []string{"new", "read", "replied", "closed"},
	Initial:      "new",
	StatusTimes:  map[string]string{"replied": "repliedAt"},
	Duplicate:    DuplicatePolicy{Window: 5 * time.Minute, Keys: []string{"email"}},
	Notify:       map[string]string{"submitted": "submission-received"},
	SearchFields: []string{"subject", "message"},
}

var Donation = Descriptor{
	Type:       TypeDonation,
	Label:      "donation",
	Slug:       "donations",
	SubmitVerb: "submit",
	Prefix:     "DON",
	Source:     "website-donation",
	Fields: []Field{
		nameField(),
		emailField(),
		phoneField(true),
		{Name: "amount", Kind: KindNumber, Required: true, Min: 1, Max: 10000000},
		{Name: "currency", Kind: KindEnum, Required: true, Enum: []string{"INR", "USD", "EUR"}},
		{Name: "purpose", Kind: KindEnum, Required: true, Enum: []string{"general", "education", "health", "disability-support"}},
		{Name: "message", Kind: KindString, MaxLen: 1000},
		{Name: "pan", Kind: KindString, MinLen: 10, MaxLen: 10},
	},
	Statuses:    []string{"pending", "contacted", "completed", "cancelled"},
	Initial:     "pending",
	StatusTimes: map[string]string{"completed": "completedAt"},
	Duplicate:   DuplicatePolicy{Keys: []string{"email"}},
	Notify: map[string]string{
		"submitted": "submission-received",
		"completed": "donation-completed",
	},
	Filters:      []string{"purpose"},
	SearchFields: []string{"message"},
}

var Volunteer = Descriptor{
	Type:       TypeVolunteer,
	Label:      "volunteer application",
	Slug:       "volunteers",
	SubmitVerb: "apply",
	Prefix:     "VOL",
	Source:     "website-volunteer",
	Fields: []Field{
		nameField(),
		emailField(),
		phoneField(true),
		{Name: "areaOfInterest", Kind: KindEnum, Required: true, Enum: areaOfInterestValues},
		{Name: "availability", Kind: KindEnum, Required: true, Enum: []string{"weekdays", "weekends", "both"}},
		{Name: "motivation", Kind: KindString, Required: true, MinLen: 20, MaxLen: 1000},
		{Name: "hasDisability", Kind: KindEnum, Required: true, Enum: []string{"Yes", "No"}},
		{Name: "disabilityType", Kind: KindEnum, Enum: []string{"visual", "hearing", "mobility", "cognitive", "Other"},
			RequiredIf: &Condition{Field: "hasDisability", Equals: "Yes"}},
		{Name: "otherDisability", Kind: KindString, MinLen: 2, MaxLen: 200,
			RequiredIf: &Condition{Field: "disabilityType", Equals: "Other"}},
	},
	Statuses:    []string{"pending", "approved", "active", "inactive", "rejected"},
	Initial:     "pending",
	StatusTimes: map[string]string{"approved": "approvedAt"},
	Duplicate:   DuplicatePolicy{Keys: []string{"email"}},
	Notify: map[string]string{
		"submitted": "submission-received",
		"approved":  "volunteer-approved",
		"rejected":  "volunteer-rejected",
	},
	Filters:      []string{"areaOfInterest"},
	SearchFields: []string{"motivation"},
}

var Intern = Descriptor{
	Type:       TypeIntern,
	Label:      "internship application",
	Slug:       "interns",
	SubmitVerb: "apply",
	Prefix:     "INT",
	Source:     "website-intern",
	Fields: []Field{
		nameField(),
		emailField(),
		phoneField(true),
		{Name: "university", Kind: KindString, Required: true, MinLen: 2, MaxLen: 200},
		{Name: "course", Kind: KindString, Required: true, MinLen: 2, MaxLen: 200},
		{Name: "duration", Kind: KindEnum, Required: true, Enum: []string{"1-month", "3-months", "6-months"}},
		{Name: "areaOfInterest", Kind: KindEnum, Required: true, Enum: areaOfInterestValues},
		{Name: "motivation", Kind: KindString, Required: true, MinLen: 20, MaxLen: 1000},
		{Name: "resumeUrl", Kind: KindURL, URLExts: []string{"pdf", "doc", "docx"},
			URLHosts: []string{"drive.google.com", "docs.google.com"}},
	},
	Statuses: []string{"pending", "under-review", "interview-scheduled", "accepted", "rejected", "completed"},
	Initial:  "pending",
	StatusTimes: map[string]string{
		"under-review": "reviewedAt",
		"completed":    "completedAt",
	},
	Duplicate: DuplicatePolicy{Keys: []string{"email"}},
	Notify: map[string]string{
		"submitted": "submission-received",
		"accepted":  "intern-accepted",
		"rejected":  "intern-rejected",
	},
	Filters:      []string{"areaOfInterest"},
	SearchFields: []string{"university", "motivation"},
}

var EventRegistration = Descriptor{
	Type:       TypeEventRegistration,
	Label:      "event registration",
	Slug:       "events",
	SubmitVerb: "register",
	Prefix:     "REG",
	Source:     "website-event",
	Fields: []Field{
		nameField(),
		emailField(),
		phoneField(true),
		{Name: "eventId", Kind: KindString, Required: true, MinLen: 1, MaxLen: 64},
		{Name: "attendees", Kind: KindNumber, Required: true, Min: 1, Max: 10},
		{Name: "specialNeeds", Kind: KindString, MaxLen: 500},
	},
	Statuses:    []string{"registered", "attended", "cancelled"},
	Initial:     "registered",
	StatusTimes: map[string]string{"attended": "attendedAt"},
	Duplicate:   DuplicatePolicy{Keys: []string{"email", "eventId"}},
	Notify:      map[string]string{"submitted": "submission-received"},
	Filters:     []string{"eventId"},
}

var Collaboration = Descriptor{
	Type:       TypeCollaboration,
	Label:      "collaboration proposal",
	Slug:       "collaborations",
	SubmitVerb: "submit",
	Prefix:     "COL",
	Source:     "website-collaboration",
	Fields: []Field{
		nameField(),
		emailField(),
		phoneField(false),
		{Name: "organization", Kind: KindString, Required: true, MinLen: 2, MaxLen: 200},
		{Name: "organizationType", Kind: KindEnum, Required: true,
			Enum: []string{"ngo", "corporate", "school", "government", "individual"}},
		{Name: "proposal", Kind: KindString, Required: true, MinLen: 20, MaxLen: 2000},
		{Name: "website", Kind: KindURL},
	},
	Statuses: []string{"pending", "in-discussion", "accepted", "declined", "closed"},
	Initial:  "pending",
	Duplicate: DuplicatePolicy{
		Window:   24 * time.Hour,
		Keys:     []string{"email", "organization"},
		MatchAny: true,
	},
	Notify: map[string]string{
		"submitted": "submission-received",
		"accepted":  "collaboration-accepted",
		"declined":  "collaboration-declined",
	},
	Filters:      []string{"organizationType"},
	SearchFields: []string{"organization", "proposal"},
}

var Media = Descriptor{
	Type:       TypeMedia,
	Label:      "media submission",
	Slug:       "media",
	SubmitVerb: "submit",
	Prefix:     "MED",
	Source:     "website-media",
	Fields: []Field{
		nameField(),
		emailField(),
		phoneField(false),
		{Name: "title", Kind: KindString, Required: true, MinLen: 2, MaxLen: 200},
		{Name: "description", Kind: KindString, Required: true, MinLen: 10, MaxLen: 1000},
		{Name: "mediaUrl", Kind: KindURL, Required: true,
			URLExts:  []string{"jpg", "jpeg", "png", "gif", "webp", "mp4", "mov", "webm"},
			URLHosts: []string{"youtube.com", "youtu.be", "vimeo.com", "drive.google.com", "instagram.com"}},
		{Name: "category", Kind: KindEnum, Required: true, Enum: []string{"event", "story", "testimonial", "awareness"}},
	},
	Statuses:     []string{"pending", "approved", "published", "rejected"},
	Initial:      "pending",
	StatusTimes:  map[string]string{"published": "publishedAt"},
	Duplicate:    DuplicatePolicy{Window: time.Hour, Keys: []string{"email"}},
	Notify:       map[string]string{"published": "media-published"},
	Filters:      []string{"category"},
	SearchFields: []string{"title", "description"},
}

var NewsUpdate = Descriptor{
	Type:       TypeNewsUpdate,
	Label:      "news update",
	Slug:       "news",
	SubmitVerb: "submit",
	Prefix:     "NWS",
	Source:     "website-news",
	Fields: []Field{
		nameField(),
		emailField(),
		{Name: "title", Kind: KindString, Required: true, MinLen: 2, MaxLen: 200},
		{Name: "content", Kind: KindString, Required: true, MinLen: 20, MaxLen: 5000},
		{Name: "category", Kind: KindEnum, Required: true, Enum: []string{"announcement", "achievement", "event", "press"}},
	},
	Statuses: []string{"pending", "reviewed", "published", "rejected"},
	Initial:  "pending",
	StatusTimes: map[string]string{
		"reviewed":  "reviewedAt",
		"published": "publishedAt",
	},
	Duplicate:    DuplicatePolicy{Window: time.Hour, Keys: []string{"email"}},
	Notify:       map[string]string{"published": "news-published"},
	Filters:      []string{"category"},
	SearchFields: []string{"title", "content"},
}

// Newsletter has its own service (reactivation and token-based unsubscribe)
// but shares the descriptor machinery for validation and admin listing.
var Newsletter = Descriptor{
	Type:       TypeNewsletter,
	Label:      "newsletter subscription",
	Slug:       "newsletter",
	SubmitVerb: "subscribe",
	Prefix:     "SUB",
	Source:     "website-newsletter",
	Fields: []Field{
		{Name: "name", Kind: KindString, MinLen: 2, MaxLen: 100},
		emailField(),
	},
	Statuses: []string{NewsletterActive, NewsletterUnsubscribed},
	Initial:  NewsletterActive,
	StatusTimes: map[string]string{
		NewsletterActive:       "subscribedAt",
		NewsletterUnsubscribed: "unsubscribedAt",
	},
	Duplicate: DuplicatePolicy{Keys: []string{"email"}},
	Notify:    map[string]string{"submitted": "newsletter-welcome"},
}

// Registry returns the descriptors of every form type, in route order.
func Registry() []Descriptor {
	return []Descriptor{
		Contact,
		Donation,
		Volunteer,
		Intern,
		EventRegistration,
		Collaboration,
		Media,
		NewsUpdate,
		Newsletter,
	}
}

// ByType returns the descriptor for a form type identifier.
func ByType(t string) (Descriptor, bool) {
	for _, d := range Registry() {
		if d.Type == t {
			return d, true
		}
	}
	return Descriptor{}, false
}

// BySlug returns the descriptor for a route slug.
func BySlug(slug string) (Descriptor, bool) {
	for _, d := range Registry() {
		if d.Slug == slug {
			return d, true
		}
	}
	return Descriptor{}, false
}
