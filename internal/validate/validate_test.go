package validate

import (
	"strings"
	"testing"

	"github.com/samarthyatrust/samarthya_backend/internal/form"
)

func contactInput() map[string]any {
	return map[string]any{
		"name":    "Asha Verma",
		"email":   "Asha.Verma@Example.org",
		"subject": "Question about programs",
		"message": "I would like to know more about your education programs.",
	}
}

func TestSubmissionContact(t *testing.T) {
	res, ferr := Submission(form.Contact, contactInput())
	if ferr != nil {
		t.Fatalf("Submission() error = %v", ferr)
	}
	if res.Name != "Asha Verma" {
		t.Errorf("Name = %q", res.Name)
	}
	if res.Email != "asha.verma@example.org" {
		t.Errorf("Email not lowercased: %q", res.Email)
	}
	if res.Fields["subject"] != "Question about programs" {
		t.Errorf("subject = %v", res.Fields["subject"])
	}
}

func TestSubmissionRequiredMissing(t *testing.T) {
	for _, field := range []string{"name", "email", "subject", "message"} {
		t.Run(field, func(t *testing.T) {
			in := contactInput()
			delete(in, field)

			_, ferr := Submission(form.Contact, in)
			if ferr == nil {
				t.Fatal("expected rejection for missing required field")
			}
			if ferr.Message != "required fields missing" {
				t.Errorf("message = %q", ferr.Message)
			}
		})
	}
}

func TestSubmissionEmail(t *testing.T) {
	tests := []struct {
		email string
		ok    bool
	}{
		{"a@b.co", true},
		{"not-an-email", false},
		{"missing@tld", false},
		{strings.Repeat("x", 250) + "@example.com", false}, // over 254
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			in := contactInput()
			in["email"] = tt.email

			_, ferr := Submission(form.Contact, in)
			if (ferr == nil) != tt.ok {
				t.Errorf("email %q: error = %v, want ok=%v", tt.email, ferr, tt.ok)
			}
			if ferr != nil && ferr.Field != "email" {
				t.Errorf("failing field = %q, want email", ferr.Field)
			}
		})
	}
}

func TestSubmissionPhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		ok    bool
		want  string
	}{
		{"valid 10 digits", "9876543210", true, "9876543210"},
		{"formatted input canonicalized", "+91 98765-43210", true, "919876543210"},
		{"all zeros", "0000000000", false, ""},
		{"all ones", "1111111111", false, ""},
		{"repeated digit", "9999999999", false, ""},
		{"too short", "12345", false, ""},
		{"too long", "1234567890123456", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := contactInput()
			in["phone"] = tt.phone

			res, ferr := Submission(form.Contact, in)
			if (ferr == nil) != tt.ok {
				t.Fatalf("phone %q: error = %v, want ok=%v", tt.phone, ferr, tt.ok)
			}
			if tt.ok && res.Phone != tt.want {
				t.Errorf("canonical phone = %q, want %q", res.Phone, tt.want)
			}
		})
	}
}

func donationInput() map[string]any {
	return map[string]any{
		"name":     "Ravi Kumar",
		"email":    "ravi@example.org",
		"phone":    "9876543210",
		"amount":   float64(500),
		"currency": "INR",
		"purpose":  "education",
	}
}

func TestSubmissionDonationAmountBounds(t *testing.T) {
	tests := []struct {
		amount float64
		ok     bool
	}{
		{0, false},
		{1, true},
		{10000000, true},
		{10000001, false},
		{-5, false},
	}

	for _, tt := range tests {
		in := donationInput()
		in["amount"] = tt.amount

		_, ferr := Submission(form.Donation, in)
		if (ferr == nil) != tt.ok {
			t.Errorf("amount %v: error = %v, want ok=%v", tt.amount, ferr, tt.ok)
		}
	}
}

func TestSubmissionDonationAmountString(t *testing.T) {
	in := donationInput()
	in["amount"] = "2500"

	res, ferr := Submission(form.Donation, in)
	if ferr != nil {
		t.Fatalf("Submission() error = %v", ferr)
	}
	if res.Fields["amount"] != float64(2500) {
		t.Errorf("amount = %v, want 2500", res.Fields["amount"])
	}

	in["amount"] = "a lot"
	if _, ferr := Submission(form.Donation, in); ferr == nil {
		t.Error("non-numeric amount should be rejected")
	}
}

func TestSubmissionEnum(t *testing.T) {
	in := donationInput()
	in["purpose"] = "world-domination"

	_, ferr := Submission(form.Donation, in)
	if ferr == nil || ferr.Field != "purpose" {
		t.Errorf("unlisted enum value: error = %v, want purpose rejection", ferr)
	}
}

func volunteerInput() map[string]any {
	return map[string]any{
		"name":           "Meera Joshi",
		"email":          "meera@example.org",
		"phone":          "9812345678",
		"areaOfInterest": "education",
		"availability":   "weekends",
		"motivation":     "I want to help children in my neighbourhood learn to read.",
		"hasDisability":  "No",
	}
}

func TestSubmissionConditionalRequired(t *testing.T) {
	t.Run("not required when trigger is No", func(t *testing.T) {
		if _, ferr := Submission(form.Volunteer, volunteerInput()); ferr != nil {
			t.Errorf("Submission() error = %v", ferr)
		}
	})

	t.Run("required when trigger is Yes", func(t *testing.T) {
		in := volunteerInput()
		in["hasDisability"] = "Yes"

		_, ferr := Submission(form.Volunteer, in)
		if ferr == nil || ferr.Field != "disabilityType" {
			t.Errorf("error = %v, want disabilityType rejection", ferr)
		}
	})

	t.Run("chained conditional on Other", func(t *testing.T) {
		in := volunteerInput()
		in["hasDisability"] = "Yes"
		in["disabilityType"] = "Other"

		_, ferr := Submission(form.Volunteer, in)
		if ferr == nil || ferr.Field != "otherDisability" {
			t.Errorf("error = %v, want otherDisability rejection", ferr)
		}

		in["otherDisability"] = "chronic fatigue"
		if _, ferr := Submission(form.Volunteer, in); ferr != nil {
			t.Errorf("Submission() error = %v", ferr)
		}
	})
}

func TestSubmissionMessageLength(t *testing.T) {
	in := contactInput()
	in["message"] = "too short"
	if _, ferr := Submission(form.Contact, in); ferr == nil {
		t.Error("9-char message should fail the [10,1000] bound")
	}

	in["message"] = strings.Repeat("a", 1001)
	if _, ferr := Submission(form.Contact, in); ferr == nil {
		t.Error("1001-char message should fail the [10,1000] bound")
	}
}

func mediaInput() map[string]any {
	return map[string]any{
		"name":        "Kiran Rao",
		"email":       "kiran@example.org",
		"title":       "Annual sports day",
		"description": "Photos from the annual sports day for our students.",
		"mediaUrl":    "https://example.org/photos/sports-day.jpg",
		"category":    "event",
	}
}

func TestSubmissionMediaURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		ok   bool
	}{
		{"direct image file", "https://example.org/p/a.jpg", true},
		{"uppercase extension path", "https://example.org/p/A.PNG", true},
		{"video platform host", "https://www.youtube.com/watch?v=abc123", true},
		{"short video host", "https://youtu.be/abc123", true},
		{"unknown host no extension", "https://example.org/page", false},
		{"not a url", "not a url at all", false},
		{"ftp scheme", "ftp://example.org/a.jpg", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := mediaInput()
			in["mediaUrl"] = tt.url

			_, ferr := Submission(form.Media, in)
			if (ferr == nil) != tt.ok {
				t.Errorf("url %q: error = %v, want ok=%v", tt.url, ferr, tt.ok)
			}
		})
	}
}

func TestSubmissionSanitizesFreeText(t *testing.T) {
	in := contactInput()
	in["message"] = "Hello <script>alert(1)</script> javascript:run() onload=x there"

	res, ferr := Submission(form.Contact, in)
	if ferr != nil {
		t.Fatalf("Submission() error = %v", ferr)
	}

	msg := res.Fields["message"].(string)
	for _, bad := range []string{"<", ">", "javascript:", "onload="} {
		if strings.Contains(msg, bad) {
			t.Errorf("sanitized message still contains %q: %q", bad, msg)
		}
	}
}

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		digits string
		want   string
	}{
		{"9876543210", "+919876543210"},
		{"919876543210", "+919876543210"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := FormatPhone(tt.digits, "IN"); got != tt.want {
			t.Errorf("FormatPhone(%q) = %q, want %q", tt.digits, got, tt.want)
		}
	}
}

func TestKeyValue(t *testing.T) {
	res := &Result{
		Email:  "a@b.co",
		Fields: map[string]any{"eventId": "ev-42", "organization": "Helping Hands"},
	}

	if got := res.KeyValue("email"); got != "a@b.co" {
		t.Errorf("KeyValue(email) = %q", got)
	}
	if got := res.KeyValue("eventId"); got != "ev-42" {
		t.Errorf("KeyValue(eventId) = %q", got)
	}
	if got := res.KeyValue("absent"); got != "" {
		t.Errorf("KeyValue(absent) = %q", got)
	}
}
