package form

import "testing"

func TestRegistryInvariants(t *testing.T) {
	prefixes := make(map[string]string)
	slugs := make(map[string]string)

	for _, d := range Registry() {
		t.Run(d.Type, func(t *testing.T) {
			if d.Prefix == "" || d.Slug == "" || d.Source == "" {
				t.Fatalf("descriptor %s missing identity fields", d.Type)
			}

			if prev, dup := prefixes[d.Prefix]; dup {
				t.Errorf("prefix %s shared by %s and %s", d.Prefix, prev, d.Type)
			}
			prefixes[d.Prefix] = d.Type

			if prev, dup := slugs[d.Slug]; dup {
				t.Errorf("slug %s shared by %s and %s", d.Slug, prev, d.Type)
			}
			slugs[d.Slug] = d.Type

			if !d.ValidStatus(d.Initial) {
				t.Errorf("initial status %q not in status set", d.Initial)
			}

			for status := range d.StatusTimes {
				if !d.ValidStatus(status) {
					t.Errorf("timestamp stamp references unknown status %q", status)
				}
			}

			for trigger := range d.Notify {
				if trigger != "submitted" && !d.ValidStatus(trigger) {
					t.Errorf("notification trigger %q is neither submitted nor a status", trigger)
				}
			}

			for _, key := range d.Duplicate.Keys {
				if _, ok := d.FieldByName(key); !ok {
					t.Errorf("duplicate key %q is not a declared field", key)
				}
			}

			for _, f := range d.Fields {
				if f.RequiredIf == nil {
					continue
				}
				trigger, ok := d.FieldByName(f.RequiredIf.Field)
				if !ok {
					t.Errorf("field %s depends on unknown field %q", f.Name, f.RequiredIf.Field)
					continue
				}
				// dependent fields must come after their trigger so the
				// validator sees the trigger value first
				if indexOf(d.Fields, trigger.Name) > indexOf(d.Fields, f.Name) {
					t.Errorf("field %s declared before its trigger %s", f.Name, trigger.Name)
				}
			}
		})
	}

	if len(prefixes) != 9 {
		t.Errorf("expected 9 form types, got %d", len(prefixes))
	}
}

func TestByTypeAndBySlug(t *testing.T) {
	d, ok := ByType(TypeDonation)
	if !ok || d.Prefix != "DON" {
		t.Errorf("ByType(donation) = %+v, %v", d, ok)
	}

	d, ok = BySlug("volunteers")
	if !ok || d.Type != TypeVolunteer {
		t.Errorf("BySlug(volunteers) = %+v, %v", d, ok)
	}

	if _, ok := BySlug("unknown"); ok {
		t.Error("BySlug(unknown) should not resolve")
	}
}

func TestSubmitPath(t *testing.T) {
	tests := []struct {
		desc Descriptor
		want string
	}{
		{Donation, "/donations/submit"},
		{Volunteer, "/volunteers/apply"},
		{EventRegistration, "/events/register"},
		{Newsletter, "/newsletter/subscribe"},
	}
	for _, tt := range tests {
		if got := tt.desc.SubmitPath(); got != tt.want {
			t.Errorf("SubmitPath(%s) = %q, want %q", tt.desc.Type, got, tt.want)
		}
	}
}

func indexOf(fields []Field, name string) int {
	for i, f := range fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}
