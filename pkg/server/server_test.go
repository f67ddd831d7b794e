package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-leadform/pkg/lifecycle"
	"github.com/goliatone/go-leadform/pkg/model"
	"github.com/goliatone/go-leadform/pkg/render"
	"github.com/goliatone/go-leadform/pkg/server"
	"github.com/goliatone/go-leadform/pkg/submission"
	"github.com/goliatone/go-leadform/pkg/testsupport"
)

var csrfPattern = regexp.MustCompile(`name="_csrf" value="([^"]+)"`)

func newServer(t *testing.T, gateway submission.Gateway, opts ...server.Option) *server.Server {
	t.Helper()
	base := []server.Option{
		server.WithGateway(gateway),
		server.WithClock(testsupport.Clock()),
		server.WithLocation(time.UTC),
		server.WithRegistry(prometheus.NewRegistry()),
		server.WithCSRFKey([]byte("test-key")),
		server.WithTimings(lifecycle.Timings{NotifyDelay: 5 * time.Millisecond, ResetDelay: 20 * time.Millisecond}),
	}
	srv, err := server.New(append(base, opts...)...)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv
}

func serve(t *testing.T, srv *server.Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func csrfToken(t *testing.T, srv *server.Server, route string) string {
	t.Helper()
	rec := serve(t, srv, httptest.NewRequest(http.MethodGet, route, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s status = %d", route, rec.Code)
	}
	match := csrfPattern.FindStringSubmatch(rec.Body.String())
	if match == nil {
		t.Fatalf("no csrf token in %s", route)
	}
	return match[1]
}

func postForm(t *testing.T, srv *server.Server, route string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, route, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return serve(t, srv, req)
}

func inquiryValues(token string) url.Values {
	return url.Values{
		"_form":       {"general-inquiry"},
		"_csrf":       {token},
		"firstName":   {"Ada"},
		"lastName":    {"Lovelace"},
		"email":       {"ada@example.com"},
		"mobilePhone": {"2406613222"},
		"message":     {"<b>Hello</b> there"},
	}
}

func TestContactPage(t *testing.T) {
	srv := newServer(t, &testsupport.Gateway{})

	for _, path := range []string{"/", "/contact-us"} {
		rec := serve(t, srv, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d", path, rec.Code)
		}
		body := rec.Body.String()
		for _, want := range []string{"Request Proposal", `href="/proposal"`, `href="/contractor-application"`} {
			if !strings.Contains(body, want) {
				t.Errorf("GET %s: expected %q in body", path, want)
			}
		}
	}
}

func TestFormPage_RendersLiveFormWithToken(t *testing.T) {
	srv := newServer(t, &testsupport.Gateway{})

	rec := serve(t, srv, httptest.NewRequest(http.MethodGet, "/proposal", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/html") {
		t.Errorf("content type = %q", got)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`data-live="/forms/proposal/live"`,
		`name="_form" value="proposal"`,
		`name="_csrf"`,
		`min="2026-10-17"`,
		" disabled",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in body", want)
		}
	}
}

func TestFormPage_WithoutLiveKeepsSubmitEnabled(t *testing.T) {
	srv := newServer(t, &testsupport.Gateway{}, server.WithLive(false))

	body := serve(t, srv, httptest.NewRequest(http.MethodGet, "/general-inquiry", nil)).Body.String()
	if strings.Contains(body, "data-live=") {
		t.Errorf("expected no live endpoint when disabled")
	}
	if strings.Contains(body, `type="submit" disabled`) {
		t.Errorf("expected enabled submit button without the live script")
	}

	rec := serve(t, srv, httptest.NewRequest(http.MethodGet, "/forms/general-inquiry/live", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("live endpoint status = %d, want 404", rec.Code)
	}
}

func TestFormPost_Success(t *testing.T) {
	gateway := &testsupport.Gateway{}
	srv := newServer(t, gateway)
	token := csrfToken(t, srv, "/general-inquiry")

	rec := postForm(t, srv, "/general-inquiry", inquiryValues(token))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != "/general-inquiry?sent=1" {
		t.Errorf("location = %q", got)
	}

	calls := gateway.Calls()
	if len(calls) != 1 {
		t.Fatalf("gateway calls = %d, want 1", len(calls))
	}
	want := map[string]string{
		"firstName":   "Ada",
		"lastName":    "Lovelace",
		"email":       "ada@example.com",
		"mobilePhone": "240-661-3222",
		"message":     "Hello there",
	}
	if diff := cmp.Diff(want, calls[0].Values); diff != "" {
		t.Errorf("submission mismatch (-want +got):\n%s", diff)
	}

	sent := serve(t, srv, httptest.NewRequest(http.MethodGet, "/general-inquiry?sent=1", nil)).Body.String()
	if !strings.Contains(sent, "We have received your message and will be in touch with you shortly.") {
		t.Errorf("expected success notice on the sent page")
	}
}

func TestFormPost_InvalidRerendersWithErrors(t *testing.T) {
	gateway := &testsupport.Gateway{}
	srv := newServer(t, gateway)
	token := csrfToken(t, srv, "/general-inquiry")

	values := inquiryValues(token)
	values.Set("firstName", "  ")
	values.Set("email", "ada@example")
	values.Set("mobilePhone", "24066")

	rec := postForm(t, srv, "/general-inquiry", values)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"First name is required",
		"Please enter a valid email address",
		"Mobile phone must be in format XXX-XXX-XXXX",
		`value="Lovelace"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in body", want)
		}
	}
	if len(gateway.Calls()) != 0 {
		t.Errorf("gateway must not be called for invalid input")
	}
}

func TestFormPost_RejectsBadToken(t *testing.T) {
	gateway := &testsupport.Gateway{}
	srv := newServer(t, gateway)

	rec := postForm(t, srv, "/general-inquiry", inquiryValues("forged"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}

	// A token issued for another form does not transfer.
	token := csrfToken(t, srv, "/proposal")
	rec = postForm(t, srv, "/general-inquiry", inquiryValues(token))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("cross-form token status = %d, want 403", rec.Code)
	}
	if len(gateway.Calls()) != 0 {
		t.Errorf("gateway must not be called")
	}
}

func TestFormPost_GatewayFailureKeepsValues(t *testing.T) {
	gateway := &testsupport.Gateway{Errors: []error{submission.ErrUnavailable}}
	srv := newServer(t, gateway)
	token := csrfToken(t, srv, "/general-inquiry")

	rec := postForm(t, srv, "/general-inquiry", inquiryValues(token))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, lifecycle.DefaultFailureMessage) {
		t.Errorf("expected failure notice")
	}
	if !strings.Contains(body, `value="Ada"`) {
		t.Errorf("expected values to be kept")
	}
}

func TestFormPost_RejectionMapsFieldErrors(t *testing.T) {
	gateway := &testsupport.Gateway{Errors: []error{&submission.RejectionError{
		Message: "rejected",
		Fields:  map[string][]string{"email": {"Address bounced"}},
	}}}
	srv := newServer(t, gateway)
	token := csrfToken(t, srv, "/general-inquiry")

	rec := postForm(t, srv, "/general-inquiry", inquiryValues(token))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Address bounced") {
		t.Errorf("expected mapped field error")
	}
}

func TestAPI_ListAndGetForms(t *testing.T) {
	srv := newServer(t, &testsupport.Gateway{})

	rec := serve(t, srv, httptest.NewRequest(http.MethodGet, "/api/forms", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var list struct {
		Data []struct {
			ID    string `json:"id"`
			Route string `json:"route"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var ids []string
	for _, item := range list.Data {
		ids = append(ids, item.ID)
	}
	if diff := cmp.Diff([]string{"contractor-application", "general-inquiry", "proposal"}, ids); diff != "" {
		t.Errorf("forms mismatch (-want +got):\n%s", diff)
	}

	rec = serve(t, srv, httptest.NewRequest(http.MethodGet, "/api/forms/proposal", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"deadlineDate"`) {
		t.Errorf("get proposal: status = %d", rec.Code)
	}

	rec = serve(t, srv, httptest.NewRequest(http.MethodGet, "/api/forms/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing form status = %d, want 404", rec.Code)
	}
}

func TestAPI_Validate(t *testing.T) {
	srv := newServer(t, &testsupport.Gateway{})

	tests := []struct {
		name        string
		contentType string
		body        string
		status      int
		want        server.ValidationResult
	}{
		{
			name:        "valid json",
			contentType: "application/json",
			body:        `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","mobilePhone":"240-661-3222","message":"Hi","extra":"ignored"}`,
			status:      http.StatusOK,
			want:        server.ValidationResult{Message: server.MessageValid, Errors: map[string]string{}},
		},
		{
			name:        "invalid json",
			contentType: "application/json",
			body:        `{"firstName":"Ada","lastName":"","email":"nope","mobilePhone":"2406613222","message":"Hi"}`,
			status:      http.StatusBadRequest,
			want: server.ValidationResult{Message: server.MessageInvalid, Errors: map[string]string{
				"lastName":    "Last name is required",
				"email":       "Please enter a valid email address",
				"mobilePhone": "Mobile phone must be in format XXX-XXX-XXXX",
			}},
		},
		{
			name:        "form encoded",
			contentType: "application/x-www-form-urlencoded",
			body:        "firstName=Ada&lastName=Lovelace&email=ada%40example.com&message=Hi",
			status:      http.StatusOK,
			want:        server.ValidationResult{Message: server.MessageValid, Errors: map[string]string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/forms/general-inquiry/validate", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			rec := serve(t, srv, req)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			var got server.ValidationResult
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAPI_ValidateBadBody(t *testing.T) {
	srv := newServer(t, &testsupport.Gateway{})

	req := httptest.NewRequest(http.MethodPost, "/api/forms/general-inquiry/validate", strings.NewReader(`{"firstName": {"nested": true}}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(t, srv, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error"`) {
		t.Errorf("expected error envelope, got %s", rec.Body.String())
	}
}

func TestOpenAPIHealthAndMetrics(t *testing.T) {
	srv := newServer(t, &testsupport.Gateway{})

	rec := serve(t, srv, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("openapi status = %d", rec.Code)
	}
	doc, err := openapi3.NewLoader().LoadFromData(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("load openapi: %v", err)
	}
	if doc.Paths.Value("/api/forms/{id}/validate") == nil {
		t.Errorf("expected validate path in document")
	}

	rec = serve(t, srv, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("health = %d %q", rec.Code, rec.Body.String())
	}

	rec = serve(t, srv, httptest.NewRequest(http.MethodGet, "/api/contact/routes?q=proposal", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"/proposal"`) {
		t.Errorf("contact routes = %d %s", rec.Code, rec.Body.String())
	}

	rec = serve(t, srv, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `leadform_http_requests_total{method="GET",route="/healthz",status="200"} 1`) {
		t.Errorf("expected request counter for /healthz, got:\n%s", rec.Body.String())
	}
}

func TestAssets(t *testing.T) {
	srv := newServer(t, &testsupport.Gateway{})

	rec := serve(t, srv, httptest.NewRequest(http.MethodGet, "/assets/leadform-live.js", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "WebSocket") {
		t.Errorf("expected the live script")
	}
}

func TestNew_RejectsRendererWithoutContactPage(t *testing.T) {
	_, err := server.New(server.WithRenderer(plainRenderer{}), server.WithRegistry(prometheus.NewRegistry()))
	if err == nil || !strings.Contains(err.Error(), "contact page") {
		t.Fatalf("expected an error for a renderer without RenderContact, got %v", err)
	}
}

type plainRenderer struct{}

func (plainRenderer) Name() string        { return "plain" }
func (plainRenderer) ContentType() string { return "text/plain" }
func (plainRenderer) Render(context.Context, model.FormDefinition, render.RenderOptions) ([]byte, error) {
	return nil, nil
}
