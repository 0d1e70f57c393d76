package http

import (
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nutshell-sh/nutshell/internal/domain"
)

//go:embed templates/password.html
var templateFS embed.FS

var passwordTemplate = template.Must(template.ParseFS(templateFS, "templates/password.html"))

type passwordPage struct {
	Code    string
	Invalid bool
}

// HandleAccess resolves a short code for a visitor. GET serves the redirect
// directly, or the password form when the link is gated; POST checks the
// submitted password. Serving the GET counts as a raw visit regardless of
// the password gate; only a completed redirect counts as a visit.
//
//	@Summary		Resolve a short link
//	@Description	Redirect to the destination URL, or serve the password form for gated links
//	@Tags			access
//	@Param			code		path		string	true	"Short code"
//	@Param			Password	formData	string	false	"Password for gated links (POST only)"
//	@Success		302			"Redirect to destination URL"
//	@Success		200			{string}	string	"Password form (HTML)"
//	@Failure		404			{object}	ErrorResponse	"Unknown code"
//	@Failure		503			{object}	ErrorResponse	"Link deactivated"
//	@Router			/{code} [get]
func (h *Handlers) HandleAccess(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	ctx := r.Context()

	link, err := h.service.ResolveLink(ctx, code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLinkNotFound):
			respondWithError(w, http.StatusNotFound, "Don't know what are you up to but that link DOES NOT exist!")
		case errors.Is(err, domain.ErrLinkInactive):
			respondWithError(w, http.StatusServiceUnavailable, "This link is currently unavailable.")
		default:
			slog.Error("Failed to resolve link", "code", code, "error", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to resolve link")
		}
		return
	}

	if r.Method != http.MethodPost {
		if err := h.service.RegisterAttempt(ctx, link); err != nil {
			slog.Error("Failed to record visit attempt", "code", code, "error", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to resolve link")
			return
		}
		if link.HasPassword() {
			h.renderPasswordForm(w, code, false)
			return
		}
		h.redirect(w, r, link)
		return
	}

	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid form submission")
		return
	}
	if !link.CheckPassword(r.PostFormValue("Password")) {
		h.renderPasswordForm(w, code, true)
		return
	}
	h.redirect(w, r, link)
}

func (h *Handlers) redirect(w http.ResponseWriter, r *http.Request, link *domain.Link) {
	if err := h.service.RegisterVisit(r.Context(), link); err != nil {
		slog.Error("Failed to record visit", "code", link.Code, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to resolve link")
		return
	}
	slog.Info("Redirecting", "code", link.Code, "url", link.URL, "visit_count", link.VisitCount)
	http.Redirect(w, r, link.URL, http.StatusFound)
}

func (h *Handlers) renderPasswordForm(w http.ResponseWriter, code string, invalid bool) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := passwordTemplate.Execute(w, passwordPage{Code: code, Invalid: invalid}); err != nil {
		slog.Error("Failed to render password form", "code", code, "error", err)
	}
}
