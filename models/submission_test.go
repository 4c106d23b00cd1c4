package models

import "testing"

func TestContactSubmission_Validate(t *testing.T) {
	valid := func() *ContactSubmission {
		return &ContactSubmission{
			Email:   "jordan@example.com",
			Name:    "Jordan",
			Subject: "Question about pricing",
			Message: "How much does the platform cost?",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*ContactSubmission)
		wantErr bool
	}{
		{"valid", func(c *ContactSubmission) {}, false},
		{"missing email", func(c *ContactSubmission) { c.Email = "" }, true},
		{"invalid email", func(c *ContactSubmission) { c.Email = "not-an-email" }, true},
		{"email with display name rejected", func(c *ContactSubmission) { c.Email = "Jordan <jordan@example.com>" }, true},
		{"missing name", func(c *ContactSubmission) { c.Name = "" }, true},
		{"missing subject", func(c *ContactSubmission) { c.Subject = "" }, true},
		{"missing message", func(c *ContactSubmission) { c.Message = "" }, true},
		{"company optional", func(c *ContactSubmission) { c.Company = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := valid()
			tt.mutate(sub)

			err := sub.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewsletterSubscription_Validate(t *testing.T) {
	sub := &NewsletterSubscription{Email: "reader@example.com"}
	if err := sub.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	sub.Email = "bad@@example"
	if err := sub.Validate(); err == nil {
		t.Error("expected error for invalid email")
	}
}

func TestTrialWaitlistEntry_Validate(t *testing.T) {
	entry := &TrialWaitlistEntry{Email: "trial@example.com", FullName: "Sam Smith"}
	if err := entry.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	entry.FullName = ""
	if err := entry.Validate(); err == nil {
		t.Error("expected error for missing full_name")
	}

	entry = &TrialWaitlistEntry{Email: "", FullName: "Sam Smith"}
	if err := entry.Validate(); err == nil {
		t.Error("expected error for missing email")
	}
}
