package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/nutshell-sh/nutshell/internal/domain"
)

func fetchLink(t *testing.T, router chi.Router, code string) domain.Link {
	t.Helper()
	w := doJSON(t, router, http.MethodGet, "/links/"+code, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d fetching %s, got %d", http.StatusOK, code, w.Code)
	}
	var link domain.Link
	if err := json.Unmarshal(w.Body.Bytes(), &link); err != nil {
		t.Fatalf("failed to unmarshal link: %v", err)
	}
	return link
}

func TestHandleAccess_Redirect(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/links/", `{"code": "plain1", "url": "https://example.com/target"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/plain1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status %d, got %d", http.StatusFound, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "https://example.com/target" {
		t.Errorf("unexpected redirect target: %s", loc)
	}

	// A direct redirect counts as both a raw visit and a visit.
	link := fetchLink(t, router, "plain1")
	if link.RawVisitCount != 1 || link.VisitCount != 1 {
		t.Errorf("expected raw=1 visit=1, got raw=%d visit=%d", link.RawVisitCount, link.VisitCount)
	}
}

func TestHandleAccess_UnknownCode(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/nosuch", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "DOES NOT exist") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestHandleAccess_InactiveLink(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/links/", `{"code": "paused", "url": "https://example.com", "active": false}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/paused", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}

	// A refused resolution does not touch the counters.
	link := fetchLink(t, router, "paused")
	if link.RawVisitCount != 0 || link.VisitCount != 0 {
		t.Errorf("expected untouched counters, got raw=%d visit=%d", link.RawVisitCount, link.VisitCount)
	}
}

func TestHandleAccess_PasswordGate(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/links/", `{"code": "gated1", "url": "https://example.com/secret", "password": "letmein"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	// GET serves the form and records a raw visit, but not a visit.
	req := httptest.NewRequest(http.MethodGet, "/gated1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `name="Password"`) {
		t.Errorf("expected password form, got: %s", rec.Body.String())
	}

	link := fetchLink(t, router, "gated1")
	if link.RawVisitCount != 1 || link.VisitCount != 0 {
		t.Errorf("expected raw=1 visit=0 after form, got raw=%d visit=%d", link.RawVisitCount, link.VisitCount)
	}

	// A wrong password re-renders the form and leaves the counters alone.
	rec = postPassword(router, "gated1", "wrong")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `name="Password"`) {
		t.Errorf("expected password form again, got: %s", rec.Body.String())
	}

	link = fetchLink(t, router, "gated1")
	if link.RawVisitCount != 1 || link.VisitCount != 0 {
		t.Errorf("expected counters unchanged after wrong password, got raw=%d visit=%d", link.RawVisitCount, link.VisitCount)
	}

	// The right password redirects and records the visit.
	rec = postPassword(router, "gated1", "letmein")
	if rec.Code != http.StatusFound {
		t.Fatalf("expected status %d, got %d", http.StatusFound, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "https://example.com/secret" {
		t.Errorf("unexpected redirect target: %s", loc)
	}

	link = fetchLink(t, router, "gated1")
	if link.RawVisitCount != 1 || link.VisitCount != 1 {
		t.Errorf("expected raw=1 visit=1 after redirect, got raw=%d visit=%d", link.RawVisitCount, link.VisitCount)
	}
}

func postPassword(router chi.Router, code, password string) *httptest.ResponseRecorder {
	form := url.Values{}
	form.Set("Password", password)
	req := httptest.NewRequest(http.MethodPost, "/"+code, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
