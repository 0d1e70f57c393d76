package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/nutshell-sh/nutshell/internal/application"
	"github.com/nutshell-sh/nutshell/internal/domain"
)

type Handlers struct {
	service       *application.LinkService
	repo          domain.LinkRepository
	indexRedirect string
}

func NewHandlers(service *application.LinkService, repo domain.LinkRepository, indexRedirect string) *Handlers {
	return &Handlers{
		service:       service,
		repo:          repo,
		indexRedirect: indexRedirect,
	}
}

// HandleIndex redirects the bare host to the project page.
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.indexRedirect, http.StatusFound)
}

// HandleHealth handles the health check endpoint.
//
//	@Summary		Health check endpoint
//	@Description	Check if the service is running
//	@Tags			health
//	@Produce		plain
//	@Success		200	{string}	string	"OK"
//	@Router			/health [get]
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// HandleReady handles the readiness check endpoint.
//
//	@Summary		Readiness check endpoint
//	@Description	Check if the service is ready to serve requests (includes database connectivity)
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	object{status=string,timestamp=string}	"Service is ready"
//	@Failure		503	{object}	ErrorResponse							"Service is not ready"
//	@Router			/ready [get]
func (h *Handlers) HandleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.HealthCheck(ctx); err != nil {
		slog.Error("Readiness check failed", "error", err)
		respondWithError(w, http.StatusServiceUnavailable, "Service not ready: database unavailable")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":    "ready",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// HandleCreateLink handles link creation.
//
//	@Summary		Create a link
//	@Description	Register a short code mapped to a destination URL. The code is generated when omitted.
//	@Tags			links
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		application.CreateLinkRequest	true	"Link to create"
//	@Success		200		{object}	domain.Link						"Created link record"
//	@Failure		400		{object}	ValidationErrorResponse			"Invalid request or validation error"
//	@Failure		409		{object}	ErrorResponse					"Code is taken"
//	@Router			/links/ [post]
func (h *Handlers) HandleCreateLink(w http.ResponseWriter, r *http.Request) {
	var req application.CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode request", "error", err)
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	link, err := h.service.CreateLink(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrCodeExists) {
			respondWithError(w, http.StatusConflict, "Code is taken.")
			return
		}

		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			handleValidationError(w, validationErrors)
			return
		}

		slog.Error("Failed to create link", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to create link")
		return
	}

	respondWithJSON(w, http.StatusOK, link)
}

// HandleGetLink returns a single link record.
//
//	@Summary		Get a link
//	@Description	Fetch the link record for a code
//	@Tags			links
//	@Produce		json
//	@Security		BearerAuth
//	@Param			code	path		string			true	"Short code"
//	@Success		200		{object}	domain.Link		"Link record"
//	@Failure		404		{object}	ErrorResponse	"Link not found"
//	@Router			/links/{code} [get]
func (h *Handlers) HandleGetLink(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	link, err := h.service.GetLink(r.Context(), code)
	if err != nil {
		if errors.Is(err, domain.ErrLinkNotFound) {
			respondWithError(w, http.StatusNotFound, "Link not found.")
			return
		}
		slog.Error("Failed to get link", "code", code, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to get link")
		return
	}

	respondWithJSON(w, http.StatusOK, link)
}

// HandleListLinks returns every stored link.
//
//	@Summary		List links
//	@Description	Return all link records from the store
//	@Tags			links
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}	domain.Link	"Link records"
//	@Router			/links/ [get]
func (h *Handlers) HandleListLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.service.ListLinks(r.Context())
	if err != nil {
		slog.Error("Failed to list links", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to list links")
		return
	}

	respondWithJSON(w, http.StatusOK, links)
}

// HandleUpdateLink applies a partial update to a link. The code, creation
// timestamp and visit statistics are immutable through this endpoint and
// are silently dropped from the patch.
//
//	@Summary		Update a link
//	@Description	Patch a link record; immutable fields are stripped
//	@Tags			links
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			code	path		string							true	"Short code"
//	@Param			request	body		application.UpdateLinkRequest	true	"Fields to update"
//	@Success		200		{object}	domain.Link						"Updated link record"
//	@Failure		400		{object}	ValidationErrorResponse			"Validation error"
//	@Failure		404		{object}	ErrorResponse					"Link not found"
//	@Router			/links/{code} [patch]
func (h *Handlers) HandleUpdateLink(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		slog.Error("Failed to decode request", "error", err)
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var req application.UpdateLinkRequest
	if err := json.Unmarshal(body, &req); err != nil {
		slog.Error("Failed to decode request", "error", err)
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	// An explicit "password": null clears the password; an absent key
	// leaves it alone.
	_, req.PasswordSet = fields["password"]

	link, err := h.service.UpdateLink(r.Context(), code, req)
	if err != nil {
		if errors.Is(err, domain.ErrLinkNotFound) {
			respondWithError(w, http.StatusNotFound, "Link not found.")
			return
		}

		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			handleValidationError(w, validationErrors)
			return
		}

		slog.Error("Failed to update link", "code", code, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to update link")
		return
	}

	respondWithJSON(w, http.StatusOK, link)
}

// HandleDeleteLink removes a link from the cache and the store.
//
//	@Summary		Delete a link
//	@Description	Remove a link record
//	@Tags			links
//	@Security		BearerAuth
//	@Param			code	path	string	true	"Short code"
//	@Success		204		"Link deleted"
//	@Failure		404		{object}	ErrorResponse	"Link not found"
//	@Router			/links/{code} [delete]
func (h *Handlers) HandleDeleteLink(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	if err := h.service.DeleteLink(r.Context(), code); err != nil {
		if errors.Is(err, domain.ErrLinkNotFound) {
			respondWithError(w, http.StatusNotFound, "Link not found.")
			return
		}
		slog.Error("Failed to delete link", "code", code, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to delete link")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error     map[string]string `json:"error"`
	Timestamp string            `json:"timestamp" example:"2024-01-31T12:00:00Z"`
}

// ValidationErrorResponse represents a validation error response.
type ValidationErrorResponse struct {
	Details map[string]string `json:"details"`
	Error   string            `json:"error" example:"Validation failed"`
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]interface{}{
		"error": map[string]string{
			"message": message,
		},
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func handleValidationError(w http.ResponseWriter, validationErrors validator.ValidationErrors) {
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		field := getJSONFieldName(e)
		switch e.Tag() {
		case "required":
			errorMessages[field] = fmt.Sprintf("%s is required", field)
		case "url":
			errorMessages[field] = fmt.Sprintf("%s must be a valid URL", field)
		case "alphanum":
			errorMessages[field] = fmt.Sprintf("%s must contain only alphanumeric characters", field)
		case "min":
			errorMessages[field] = fmt.Sprintf("%s must be at least %s characters long", field, e.Param())
		case "max":
			errorMessages[field] = fmt.Sprintf("%s must be at most %s characters long", field, e.Param())
		default:
			errorMessages[field] = fmt.Sprintf("%s is invalid", field)
		}
	}

	respondWithJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":   "Validation failed",
		"details": errorMessages,
	})
}

// getJSONFieldName extracts the JSON tag name from a validation error
func getJSONFieldName(e validator.FieldError) string {
	structType := getStructTypeFromError(e)
	if structType == nil {
		return e.Field()
	}

	field, found := structType.FieldByName(e.StructField())
	if !found {
		return e.Field()
	}

	jsonTag := field.Tag.Get("json")
	if jsonTag == "" {
		return e.Field()
	}

	if commaIndex := strings.Index(jsonTag, ","); commaIndex != -1 {
		jsonTag = jsonTag[:commaIndex]
	}

	return jsonTag
}

// getStructTypeFromError extracts the struct type from a validation error
func getStructTypeFromError(e validator.FieldError) reflect.Type {
	// The StructNamespace gives us something like "CreateLinkRequest.URL"
	namespace := e.StructNamespace()

	parts := strings.Split(namespace, ".")
	if len(parts) < 2 {
		return nil
	}

	return getTypeFromStructName(parts[0])
}

// getTypeFromStructName returns the reflect.Type for a given struct name
// This acts as a registry for known request types
func getTypeFromStructName(structName string) reflect.Type {
	switch structName {
	case "CreateLinkRequest":
		return reflect.TypeOf(application.CreateLinkRequest{})
	case "UpdateLinkRequest":
		return reflect.TypeOf(application.UpdateLinkRequest{})
	default:
		return nil
	}
}
