package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"api-registry/config"
	"api-registry/internal/app"
	"api-registry/models"
	"api-registry/observability"
	"api-registry/repository"

	"github.com/go-chi/chi/v5"
)

const (
	serviceName    = "api-management-service"
	serviceTitle   = "API Management Service"
	serviceVersion = "1.0.0"
)

// Handler handles HTTP API requests
type Handler struct {
	app     *app.App
	cfg     *config.Config
	started time.Time
}

// NewHandler creates a new Handler
func NewHandler(application *app.App, cfg *config.Config) *Handler {
	return &Handler{app: application, cfg: cfg, started: time.Now()}
}

// HandleRoot reports basic service identity
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, map[string]string{
		"service": serviceTitle,
		"status":  "running",
		"version": serviceVersion,
	})
}

// HandleHealth reports process liveness. It always succeeds while the
// process is up; database connectivity is reported as data, not as a
// failure.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	dbStatus := "UP"
	if err := h.app.Health(r.Context()); err != nil {
		dbStatus = "DOWN"
	}

	h.jsonResponse(w, map[string]any{
		"status":   "UP",
		"version":  serviceVersion,
		"uptime":   time.Since(h.started).Seconds(),
		"service":  serviceName,
		"database": dbStatus,
	})
}

// HandleServiceStatus reports a composite service + database status.
// A broken database yields a FAILURE payload, never a server error.
func (h *Handler) HandleServiceStatus(w http.ResponseWriter, r *http.Request) {
	dbStatus := "UP"
	status := "SUCCESS"
	message := serviceTitle + " is operational with database connectivity"

	if err := h.app.Health(r.Context()); err != nil {
		dbStatus = "DOWN"
		status = "FAILURE"
		message = serviceTitle + " is degraded - database connectivity issue: " + err.Error()
	}

	h.jsonResponse(w, map[string]string{
		"service":   serviceName,
		"timestamp": time.Now().UTC().Format("2006-01-02 15:04:05"),
		"database":  dbStatus,
		"status":    status,
		"message":   message,
	})
}

// HandleRegisterAPI registers a new API
func (h *Handler) HandleRegisterAPI(w http.ResponseWriter, r *http.Request) {
	var reg models.APIRegistration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		h.jsonError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	if err := reg.Validate(); err != nil {
		observability.GetMetrics().RecordRegistration("create", "validation_error")
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	api, err := h.app.RegisterAPI(r.Context(), &reg)
	if err != nil {
		observability.GetMetrics().RecordRegistration("create", "error")
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	observability.GetMetrics().RecordRegistration("create", "success")
	h.jsonResponseStatus(w, http.StatusCreated, api)
}

// HandleListAPIs returns all registered APIs
func (h *Handler) HandleListAPIs(w http.ResponseWriter, r *http.Request) {
	apis, err := h.app.ListAPIs(r.Context())
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.jsonResponse(w, map[string]any{
		"data":  apis,
		"total": len(apis),
	})
}

// HandleGetAPI returns a registered API by id
func (h *Handler) HandleGetAPI(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "apiID")

	api, err := h.app.GetAPI(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.jsonError(w, "API not found", http.StatusNotFound)
			return
		}
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.jsonResponse(w, api)
}

// HandleUpdateAPI replaces an existing registration
func (h *Handler) HandleUpdateAPI(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "apiID")

	var reg models.APIRegistration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		h.jsonError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	if err := reg.Validate(); err != nil {
		observability.GetMetrics().RecordRegistration("update", "validation_error")
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	api, err := h.app.UpdateAPI(r.Context(), id, &reg)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.jsonError(w, "API not found", http.StatusNotFound)
			return
		}
		observability.GetMetrics().RecordRegistration("update", "error")
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	observability.GetMetrics().RecordRegistration("update", "success")
	h.jsonResponse(w, api)
}

// HandleDeleteAPI removes a registration
func (h *Handler) HandleDeleteAPI(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "apiID")

	if err := h.app.DeleteAPI(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.jsonError(w, "API not found", http.StatusNotFound)
			return
		}
		observability.GetMetrics().RecordRegistration("delete", "error")
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	observability.GetMetrics().RecordRegistration("delete", "success")
	h.jsonResponse(w, map[string]string{
		"message": "API " + id + " deleted successfully",
	})
}

// HandleGetAPIHealthChecks returns recorded health checks for an API
func (h *Handler) HandleGetAPIHealthChecks(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "apiID")
	limit := h.ParseLimitParam(r, 50)

	checks, err := h.app.GetHealthChecks(r.Context(), id, limit)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.jsonError(w, "API not found", http.StatusNotFound)
			return
		}
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.jsonResponse(w, map[string]any{
		"data":  checks,
		"total": len(checks),
	})
}

// HandleContactSubmission accepts a contact form submission
func (h *Handler) HandleContactSubmission(w http.ResponseWriter, r *http.Request) {
	var sub models.ContactSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		h.jsonError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	if err := sub.Validate(); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.app.SubmitContact(r.Context(), &sub); err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.jsonResponseStatus(w, http.StatusCreated, map[string]string{
		"message":       "Contact form submitted successfully",
		"submission_id": sub.ID.String(),
	})
}

// HandleNewsletterSubscription accepts a newsletter signup
func (h *Handler) HandleNewsletterSubscription(w http.ResponseWriter, r *http.Request) {
	var sub models.NewsletterSubscription
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		h.jsonError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	if err := sub.Validate(); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.app.SubscribeNewsletter(r.Context(), &sub); err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.jsonResponseStatus(w, http.StatusCreated, map[string]string{
		"message":         "Subscribed to newsletter successfully",
		"subscription_id": sub.ID.String(),
	})
}

// HandleTrialWaitlist accepts a trial waitlist signup
func (h *Handler) HandleTrialWaitlist(w http.ResponseWriter, r *http.Request) {
	var entry models.TrialWaitlistEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		h.jsonError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	if err := entry.Validate(); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.app.JoinTrialWaitlist(r.Context(), &entry); err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.jsonResponseStatus(w, http.StatusCreated, map[string]string{
		"message":     "Added to trial waitlist successfully",
		"waitlist_id": entry.ID.String(),
	})
}

// Helper functions

// ParseLimitParam parses the limit query parameter
func (h *Handler) ParseLimitParam(r *http.Request, defaultLimit int) int {
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			return l
		}
	}
	return defaultLimit
}

func (h *Handler) jsonResponse(w http.ResponseWriter, data interface{}) {
	h.jsonResponseStatus(w, http.StatusOK, data)
}

func (h *Handler) jsonResponseStatus(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
