package routing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-leadform/pkg/model"
)

type handlerResponse struct {
	Data []model.Link `json:"data"`
}

var testRoutes = []model.Link{
	{Title: "Request Proposal", Href: "/proposal", Description: "Management assessment"},
	{Title: "Rescale Documents", Href: "https://docs.example.com", External: true},
	{Title: "Contractor Application", Href: "/contractor-application", Description: "Join our vendor list"},
	{Title: "General Inquiries", Href: "/general-inquiry", Description: "Questions about a proposal"},
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) handlerResponse {
	t.Helper()
	var payload handlerResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return payload
}

func hrefs(links []model.Link) []string {
	out := make([]string, 0, len(links))
	for _, link := range links {
		out = append(out, link.Href)
	}
	return out
}

func TestNewHandler_EmptyQueryReturnsAllRoutes(t *testing.T) {
	h := NewHandler(WithRoutes(testRoutes))

	req := httptest.NewRequest(http.MethodGet, "/api/contact/routes", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := strings.TrimSpace(rec.Header().Get("Content-Type")); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected JSON content-type, got %q", ct)
	}
	payload := decode(t, rec)
	if diff := cmp.Diff(hrefs(testRoutes), hrefs(payload.Data)); diff != "" {
		t.Fatalf("routes mismatch (-want +got):\n%s", diff)
	}
	if !payload.Data[1].External {
		t.Fatalf("expected external flag to survive encoding")
	}
}

func TestNewHandler_EmptySearchNone(t *testing.T) {
	h := NewHandler(WithRoutes(testRoutes), WithEmptySearchMode(EmptySearchNone))

	req := httptest.NewRequest(http.MethodGet, "/api/contact/routes", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	payload := decode(t, rec)
	if payload.Data == nil || len(payload.Data) != 0 {
		t.Fatalf("expected empty data array, got %#v", payload.Data)
	}
}

func TestNewHandler_SearchPrefersTitlePrefix(t *testing.T) {
	h := NewHandler(WithRoutes(testRoutes))

	req := httptest.NewRequest(http.MethodGet, "/api/contact/routes?q=proposal&limit=5", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	want := []string{"/proposal", "/general-inquiry"}
	if diff := cmp.Diff(want, hrefs(decode(t, rec).Data)); diff != "" {
		t.Fatalf("routes mismatch (-want +got):\n%s", diff)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/contact/routes?q=g", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	want = []string{"/general-inquiry", "/proposal"}
	if diff := cmp.Diff(want, hrefs(decode(t, rec).Data)); diff != "" {
		t.Fatalf("prefix ordering mismatch (-want +got):\n%s", diff)
	}
}

func TestNewHandler_LimitClamped(t *testing.T) {
	h := NewHandler(WithRoutes(testRoutes), WithMaxLimit(2))

	req := httptest.NewRequest(http.MethodGet, "/api/contact/routes?limit=10", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := len(decode(t, rec).Data); got != 2 {
		t.Fatalf("expected 2 results, got %d", got)
	}
}

func TestNewHandler_DefaultsToCatalog(t *testing.T) {
	h := NewHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/contact/routes?q=contractor", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	payload := decode(t, rec)
	if len(payload.Data) != 1 || payload.Data[0].Href != "/contractor-application" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestNewHandler_GuardRejects(t *testing.T) {
	h := NewHandler(
		WithRoutes(testRoutes),
		WithGuard(func(r *http.Request) error {
			return StatusError{Code: http.StatusUnauthorized}
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/contact/routes", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestNewHandler_MethodNotAllowed(t *testing.T) {
	h := NewHandler(WithRoutes(testRoutes))

	req := httptest.NewRequest(http.MethodPost, "/api/contact/routes", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "GET, HEAD" {
		t.Fatalf("unexpected Allow header %q", allow)
	}
}
