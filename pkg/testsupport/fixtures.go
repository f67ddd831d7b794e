package testsupport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	pkgmodel "github.com/goliatone/go-leadform/pkg/model"
)

// Today is the fixed day tests run against.
var Today = time.Date(2026, time.October, 17, 14, 0, 0, 0, time.UTC)

// Clock returns a clock stuck at Today.
func Clock() func() time.Time {
	return func() time.Time { return Today }
}

// MustLoadDefinition reads a YAML form definition fixture.
func MustLoadDefinition(t *testing.T, path string) pkgmodel.FormDefinition {
	t.Helper()

	def, err := LoadDefinition(path)
	if err != nil {
		t.Fatalf("load definition: %v", err)
	}
	return def
}

// LoadDefinition reads a YAML (or JSON) form definition and normalises it.
func LoadDefinition(path string) (pkgmodel.FormDefinition, error) {
	if path == "" {
		return pkgmodel.FormDefinition{}, errors.New("testsupport: definition path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return pkgmodel.FormDefinition{}, fmt.Errorf("testsupport: read definition: %w", err)
	}
	var def pkgmodel.FormDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return pkgmodel.FormDefinition{}, fmt.Errorf("testsupport: decode definition: %w", err)
	}
	return pkgmodel.NewNormalizer().Normalize(def)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a context cancelled when the test ends.
func Context(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
