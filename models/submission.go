package models

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
)

// ContactSubmission is an inbound contact form submission
type ContactSubmission struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Company   string    `json:"company,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the contact submission payload
func (c *ContactSubmission) Validate() error {
	if err := validateEmail(c.Email); err != nil {
		return err
	}
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.Subject == "" {
		return fmt.Errorf("subject is required")
	}
	if c.Message == "" {
		return fmt.Errorf("message is required")
	}
	return nil
}

// NewsletterSubscription is a newsletter signup
type NewsletterSubscription struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the subscription payload
func (n *NewsletterSubscription) Validate() error {
	return validateEmail(n.Email)
}

// TrialWaitlistEntry is a trial waitlist signup
type TrialWaitlistEntry struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Company      string    `json:"company,omitempty"`
	SelectedPlan string    `json:"selected_plan,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Validate checks the waitlist payload
func (t *TrialWaitlistEntry) Validate() error {
	if err := validateEmail(t.Email); err != nil {
		return err
	}
	if t.FullName == "" {
		return fmt.Errorf("full_name is required")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("invalid email address")
	}
	return nil
}
