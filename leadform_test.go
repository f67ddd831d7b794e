package leadform

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-leadform/pkg/catalog"
	"github.com/goliatone/go-leadform/pkg/testsupport"
	"github.com/goliatone/go-leadform/pkg/validation"
)

func TestAssetsFSContainsLiveScript(t *testing.T) {
	data, err := fs.ReadFile(AssetsFS(), "leadform-live.js")
	if err != nil {
		t.Fatalf("expected live script to be readable: %v", err)
	}
	if !strings.Contains(string(data), "applyState") {
		t.Fatalf("expected live script to apply state frames")
	}
}

func TestEmbeddedTemplatesIncludeForm(t *testing.T) {
	if _, err := fs.Stat(EmbeddedTemplates(), "templates/form.tpl"); err != nil {
		t.Fatalf("expected form template: %v", err)
	}
}

func TestRenderHTML(t *testing.T) {
	out, err := RenderHTML(context.Background(), "general-inquiry", RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	for _, want := range []string{`name="firstName"`, "General Inquiries", ">Send<"} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in output", want)
		}
	}

	if _, err := RenderHTML(context.Background(), "missing", RenderOptions{}); !errors.Is(err, catalog.ErrFormNotFound) {
		t.Errorf("expected ErrFormNotFound, got %v", err)
	}
}

func TestRenderContactHTML(t *testing.T) {
	out, err := RenderContactHTML(context.Background(), RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), "https://www.homewisedocs.com/login") {
		t.Errorf("expected external documents link")
	}
}

func TestValidate_Strict(t *testing.T) {
	errs, err := Validate("general-inquiry", map[string]string{
		"firstName":   "Ada",
		"lastName":    "Lovelace",
		"email":       "ada@example.com",
		"mobilePhone": "2406613222",
		"message":     "Hi",
	}, validation.WithClock(testsupport.Clock()), validation.WithLocation(time.UTC))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	want := Errors{"mobilePhone": "Mobile phone must be in format XXX-XXX-XXXX"}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}
