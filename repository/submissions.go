package repository

import (
	"context"
	"fmt"
	"time"

	"api-registry/models"

	"github.com/google/uuid"
)

// CreateContactSubmission persists a contact form submission
func (r *Repository) CreateContactSubmission(ctx context.Context, sub *models.ContactSubmission) (err error) {
	if err := r.checkDB(); err != nil {
		return err
	}
	start := time.Now()
	defer func() { observe("insert", "contact_submissions", start, err) }()

	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	sub.CreatedAt = time.Now().UTC()

	_, err = r.db.Exec(ctx, `
		INSERT INTO contact_submissions (id, email, name, subject, message, company, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, sub.ID, sub.Email, sub.Name, sub.Subject, sub.Message, sub.Company, sub.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create contact submission: %w", err)
	}

	return nil
}

// CreateNewsletterSubscription persists a newsletter signup.
// Subscribing an already-subscribed email is idempotent and returns the
// existing subscription id.
func (r *Repository) CreateNewsletterSubscription(ctx context.Context, sub *models.NewsletterSubscription) (err error) {
	if err := r.checkDB(); err != nil {
		return err
	}
	start := time.Now()
	defer func() { observe("insert", "newsletter_subscriptions", start, err) }()

	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	sub.CreatedAt = time.Now().UTC()

	err = r.db.QueryRow(ctx, `
		INSERT INTO newsletter_subscriptions (id, email, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING id, created_at
	`, sub.ID, sub.Email, sub.CreatedAt).Scan(&sub.ID, &sub.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create newsletter subscription: %w", err)
	}

	return nil
}

// CreateTrialWaitlistEntry persists a trial waitlist signup
func (r *Repository) CreateTrialWaitlistEntry(ctx context.Context, entry *models.TrialWaitlistEntry) (err error) {
	if err := r.checkDB(); err != nil {
		return err
	}
	start := time.Now()
	defer func() { observe("insert", "trial_waitlist", start, err) }()

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = time.Now().UTC()

	_, err = r.db.Exec(ctx, `
		INSERT INTO trial_waitlist (id, email, full_name, company, selected_plan, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, entry.ID, entry.Email, entry.FullName, entry.Company, entry.SelectedPlan, entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create trial waitlist entry: %w", err)
	}

	return nil
}
