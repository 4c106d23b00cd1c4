package models

import (
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// API is a registration record for an API managed by the platform.
// Metadata is an opaque structured payload supplied by the registrant;
// it is stored as-is and never inspected.
type API struct {
	ID               uuid.UUID      `json:"id"`
	Name             string         `json:"name"`
	Description      string         `json:"description"`
	BaseURL          string         `json:"base_url"`
	Version          string         `json:"version"`
	OwnerID          string         `json:"owner_id"`
	DocumentationURL string         `json:"documentation_url,omitempty"`
	Tags             []string       `json:"tags"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// APIRegistration is the payload accepted when registering or updating an API
type APIRegistration struct {
	Name             string         `json:"name"`
	Description      string         `json:"description"`
	BaseURL          string         `json:"base_url"`
	Version          string         `json:"version"`
	OwnerID          string         `json:"owner_id"`
	DocumentationURL string         `json:"documentation_url,omitempty"`
	Tags             []string       `json:"tags"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

// Validate checks the registration payload
func (r *APIRegistration) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.OwnerID == "" {
		return fmt.Errorf("owner_id is required")
	}
	if r.BaseURL != "" {
		u, err := url.Parse(r.BaseURL)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return fmt.Errorf("base_url must be an absolute URL")
		}
	}
	return nil
}

// ToAPI builds a new API record from the registration payload.
// The store assigns the identifier and timestamps at insert.
func (r *APIRegistration) ToAPI() *API {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return &API{
		Name:             r.Name,
		Description:      r.Description,
		BaseURL:          r.BaseURL,
		Version:          r.Version,
		OwnerID:          r.OwnerID,
		DocumentationURL: r.DocumentationURL,
		Tags:             tags,
		Metadata:         r.Metadata,
	}
}

// Apply overwrites the mutable fields of an existing record with the
// payload's values. Identity and creation time are preserved.
func (r *APIRegistration) Apply(api *API) {
	api.Name = r.Name
	api.Description = r.Description
	api.BaseURL = r.BaseURL
	api.Version = r.Version
	api.OwnerID = r.OwnerID
	api.DocumentationURL = r.DocumentationURL
	if r.Tags != nil {
		api.Tags = r.Tags
	} else {
		api.Tags = []string{}
	}
	api.Metadata = r.Metadata
}
