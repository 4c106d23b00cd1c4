package repository

import (
	"context"

	"api-registry/models"

	"github.com/google/uuid"
)

// RepositoryInterface defines all repository operations
type RepositoryInterface interface {
	// Health and lifecycle
	Close()
	Health(ctx context.Context) error

	// API registrations
	CreateAPI(ctx context.Context, api *models.API) error
	ListAPIs(ctx context.Context) ([]models.API, error)
	GetAPI(ctx context.Context, id uuid.UUID) (*models.API, error)
	UpdateAPI(ctx context.Context, api *models.API) error
	DeleteAPI(ctx context.Context, id uuid.UUID) error

	// Health checks
	CreateHealthCheck(ctx context.Context, result *models.HealthCheckResult) error
	GetHealthChecks(ctx context.Context, apiID uuid.UUID, limit int) ([]models.HealthCheckResult, error)

	// Submissions
	CreateContactSubmission(ctx context.Context, sub *models.ContactSubmission) error
	CreateNewsletterSubscription(ctx context.Context, sub *models.NewsletterSubscription) error
	CreateTrialWaitlistEntry(ctx context.Context, entry *models.TrialWaitlistEntry) error
}

// Compile-time interface verification
var _ RepositoryInterface = (*Repository)(nil)
