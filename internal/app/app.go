package app

import (
	"context"
	"fmt"

	"api-registry/config"
	"api-registry/models"
	"api-registry/repository"

	"github.com/google/uuid"
)

// RepositoryInterface defines the repository operations needed by App
type RepositoryInterface interface {
	Close()
	Health(ctx context.Context) error
	CreateAPI(ctx context.Context, api *models.API) error
	ListAPIs(ctx context.Context) ([]models.API, error)
	GetAPI(ctx context.Context, id uuid.UUID) (*models.API, error)
	UpdateAPI(ctx context.Context, api *models.API) error
	DeleteAPI(ctx context.Context, id uuid.UUID) error
	CreateHealthCheck(ctx context.Context, result *models.HealthCheckResult) error
	GetHealthChecks(ctx context.Context, apiID uuid.UUID, limit int) ([]models.HealthCheckResult, error)
	CreateContactSubmission(ctx context.Context, sub *models.ContactSubmission) error
	CreateNewsletterSubscription(ctx context.Context, sub *models.NewsletterSubscription) error
	CreateTrialWaitlistEntry(ctx context.Context, entry *models.TrialWaitlistEntry) error
}

// App struct holds application dependencies using interfaces for testability
type App struct {
	cfg  *config.Config
	repo RepositoryInterface
}

// New creates a new App application struct
func New(cfg *config.Config, repo RepositoryInterface) *App {
	return &App{
		cfg:  cfg,
		repo: repo,
	}
}

// Shutdown releases application resources
func (a *App) Shutdown() {
	if a.repo != nil {
		a.repo.Close()
	}
}

// Repo returns the repository interface for API handlers
func (a *App) Repo() RepositoryInterface {
	return a.repo
}

// Health reports database connectivity
func (a *App) Health(ctx context.Context) error {
	if a.repo == nil {
		return fmt.Errorf("database not initialized")
	}
	return a.repo.Health(ctx)
}

// RegisterAPI creates a new API registration record from a validated payload
func (a *App) RegisterAPI(ctx context.Context, reg *models.APIRegistration) (*models.API, error) {
	if a.repo == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	api := reg.ToAPI()
	if err := a.repo.CreateAPI(ctx, api); err != nil {
		return nil, err
	}

	return api, nil
}

// ListAPIs returns all registered APIs in insertion order
func (a *App) ListAPIs(ctx context.Context) ([]models.API, error) {
	if a.repo == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	return a.repo.ListAPIs(ctx)
}

// GetAPI returns a registered API by its id string.
// An unparseable id cannot match any record, so it reports not found.
func (a *App) GetAPI(ctx context.Context, id string) (*models.API, error) {
	if a.repo == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	apiID, err := uuid.Parse(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	return a.repo.GetAPI(ctx, apiID)
}

// UpdateAPI replaces the mutable fields of an existing registration
func (a *App) UpdateAPI(ctx context.Context, id string, reg *models.APIRegistration) (*models.API, error) {
	if a.repo == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	apiID, err := uuid.Parse(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	api, err := a.repo.GetAPI(ctx, apiID)
	if err != nil {
		return nil, err
	}

	reg.Apply(api)
	if err := a.repo.UpdateAPI(ctx, api); err != nil {
		return nil, err
	}

	return api, nil
}

// DeleteAPI removes a registration record
func (a *App) DeleteAPI(ctx context.Context, id string) error {
	if a.repo == nil {
		return fmt.Errorf("database not initialized")
	}

	apiID, err := uuid.Parse(id)
	if err != nil {
		return repository.ErrNotFound
	}

	return a.repo.DeleteAPI(ctx, apiID)
}

// GetHealthChecks returns recorded probe results for an API, newest first
func (a *App) GetHealthChecks(ctx context.Context, id string, limit int) ([]models.HealthCheckResult, error) {
	if a.repo == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	apiID, err := uuid.Parse(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	return a.repo.GetHealthChecks(ctx, apiID, limit)
}

// SubmitContact persists a contact form submission
func (a *App) SubmitContact(ctx context.Context, sub *models.ContactSubmission) error {
	if a.repo == nil {
		return fmt.Errorf("database not initialized")
	}
	return a.repo.CreateContactSubmission(ctx, sub)
}

// SubscribeNewsletter persists a newsletter signup
func (a *App) SubscribeNewsletter(ctx context.Context, sub *models.NewsletterSubscription) error {
	if a.repo == nil {
		return fmt.Errorf("database not initialized")
	}
	return a.repo.CreateNewsletterSubscription(ctx, sub)
}

// JoinTrialWaitlist persists a trial waitlist signup
func (a *App) JoinTrialWaitlist(ctx context.Context, entry *models.TrialWaitlistEntry) error {
	if a.repo == nil {
		return fmt.Errorf("database not initialized")
	}
	return a.repo.CreateTrialWaitlistEntry(ctx, entry)
}
