package vanilla

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// DefaultThemeName is the site theme.
const DefaultThemeName = "leadform"

// DefaultManifest is the site palette: a blue brand colour with a lime
// accent, plus a high-contrast variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":         "#3183B7",
			"brand-light":   "#6fb3e0",
			"accent":        "#c0e04c",
			"text":          "#000000",
			"surface":       "#ffffff",
			"error":         "#dc2626",
			"success":       "#16a34a",
			"radius":        "24px",
			"font-family":   "system-ui, sans-serif",
			"input-border":  "#d1d5db",
			"input-padding": "0.75rem 1rem",
		},
		Assets: theme.Assets{
			Prefix: "/assets",
			Files: map[string]string{
				"stylesheet": StylesheetName,
				"live":       RuntimeScriptName,
			},
		},
		Variants: map[string]theme.Variant{
			"contrast": {
				Tokens: map[string]string{
					"brand":        "#0b4f7c",
					"input-border": "#000000",
				},
			},
		},
	}
}

// Themes selects among a fixed set of manifests. It satisfies
// theme.ThemeSelector.
type Themes struct {
	mu        sync.RWMutex
	manifests map[string]*theme.Manifest
	fallback  string
}

var _ theme.ThemeSelector = (*Themes)(nil)

// NewThemes registers manifests; the first one is the fallback when a
// selection names no theme.
func NewThemes(manifests ...*theme.Manifest) (*Themes, error) {
	t := &Themes{manifests: make(map[string]*theme.Manifest)}
	for _, manifest := range manifests {
		if manifest == nil {
			continue
		}
		name := strings.TrimSpace(manifest.Name)
		if name == "" {
			return nil, fmt.Errorf("vanilla: theme name is required")
		}
		if _, exists := t.manifests[name]; exists {
			return nil, fmt.Errorf("vanilla: theme %q already registered", name)
		}
		t.manifests[name] = manifest
		if t.fallback == "" {
			t.fallback = name
		}
	}
	if t.fallback == "" {
		return nil, fmt.Errorf("vanilla: at least one theme is required")
	}
	return t, nil
}

// Select resolves a theme and variant. An empty name picks the fallback; an
// unknown variant is an error.
func (t *Themes) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if name = strings.TrimSpace(name); name == "" {
		name = t.fallback
	}
	manifest, ok := t.manifests[name]
	if !ok {
		return nil, fmt.Errorf("vanilla: theme %q not found", name)
	}
	variant = strings.TrimSpace(variant)
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("vanilla: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// RendererConfig flattens a selection into the tokens, CSS variables and
// asset resolver the templates use. Variant tokens override the base
// tokens; overrides (from configuration) win over both.
func RendererConfig(selection *theme.Selection, overrides map[string]string) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest

	tokens := make(map[string]string, len(manifest.Tokens))
	for key, value := range manifest.Tokens {
		tokens[key] = value
	}
	prefix := manifest.Assets.Prefix
	files := make(map[string]string, len(manifest.Assets.Files))
	for key, value := range manifest.Assets.Files {
		files[key] = value
	}
	partials := make(map[string]string, len(manifest.Templates))
	for key, value := range manifest.Templates {
		partials[key] = value
	}

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		for key, value := range variant.Tokens {
			tokens[key] = value
		}
		for key, value := range variant.Templates {
			partials[key] = value
		}
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
		for key, value := range variant.Assets.Files {
			files[key] = value
		}
	}
	for key, value := range overrides {
		tokens[key] = value
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok {
				file = key
			}
			if file == "" {
				return ""
			}
			return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
		},
	}
}

// DefaultRendererConfig is the site theme without a variant.
func DefaultRendererConfig() *theme.RendererConfig {
	return RendererConfig(&theme.Selection{Theme: DefaultThemeName, Manifest: DefaultManifest()}, nil)
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s: %s; ", key, vars[key])
	}
	return strings.TrimSpace(b.String())
}
