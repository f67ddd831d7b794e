package vanilla

import (
	"strconv"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-leadform/pkg/model"
	"github.com/goliatone/go-leadform/pkg/notify"
	"github.com/goliatone/go-leadform/pkg/render"
)

type pageView struct {
	Title      string               `json:"title"`
	Form       *formView            `json:"form,omitempty"`
	Contact    *contactView         `json:"contact,omitempty"`
	Hidden     []render.HiddenField `json:"hidden"`
	FormErrors []string             `json:"formErrors"`
	Notice     *notify.Notification `json:"notice,omitempty"`
	Theme      themeView            `json:"theme"`
	LiveURL    string               `json:"liveUrl"`
	Classes    map[string]string    `json:"classes"`
}

type formView struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Heading        string        `json:"heading"`
	Summary        string        `json:"summary"`
	Action         string        `json:"action"`
	SubmitLabel    string        `json:"submitLabel"`
	SubmitDisabled bool          `json:"submitDisabled"`
	Sections       []sectionView `json:"sections"`
}

type sectionView struct {
	Title  string      `json:"title"`
	Fields []fieldView `json:"fields"`
}

type fieldView struct {
	Name        string       `json:"name"`
	ID          string       `json:"id"`
	Kind        string       `json:"kind"`
	InputType   string       `json:"inputType"`
	InputMode   string       `json:"inputMode"`
	Label       string       `json:"label"`
	Placeholder string       `json:"placeholder"`
	Help        string       `json:"help"`
	Value       string       `json:"value"`
	Error       string       `json:"error"`
	Required    bool         `json:"required"`
	MaxLength   string       `json:"maxLength"`
	Min         string       `json:"min"`
	Choices     []choiceView `json:"choices"`
}

type choiceView struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type contactView struct {
	Title   string         `json:"title"`
	Intro   string         `json:"intro"`
	Links   []model.Link   `json:"links"`
	Offices []model.Office `json:"offices"`
}

type themeView struct {
	Name       string `json:"name"`
	Variant    string `json:"variant"`
	Style      string `json:"style"`
	Stylesheet string `json:"stylesheet"`
	Script     string `json:"script"`
}

func buildFormView(def model.FormDefinition, opts render.RenderOptions) *formView {
	view := &formView{
		ID:             def.ID,
		Title:          def.Title,
		Heading:        def.Metadata["heading"],
		Summary:        def.Summary,
		Action:         opts.Action,
		SubmitLabel:    opts.SubmitLabel,
		SubmitDisabled: opts.SubmitDisabled,
	}
	if view.Action == "" {
		view.Action = def.Route
	}
	if view.SubmitLabel == "" {
		view.SubmitLabel = def.SubmitLabel
	}

	index := make(map[string]int)
	for _, field := range def.Fields {
		name := field.Section
		pos, ok := index[name]
		if !ok {
			pos = len(view.Sections)
			index[name] = pos
			view.Sections = append(view.Sections, sectionView{Title: name})
		}
		view.Sections[pos].Fields = append(view.Sections[pos].Fields, buildFieldView(field, opts))
	}
	return view
}

func buildFieldView(field model.Field, opts render.RenderOptions) fieldView {
	value, ok := opts.Values[field.Name]
	if !ok {
		value = field.Default
	}
	view := fieldView{
		Name:        field.Name,
		ID:          controlID(field.Name),
		Kind:        string(field.Kind),
		Label:       field.Label,
		Placeholder: field.Placeholder,
		Help:        field.Help,
		Value:       value,
		Error:       opts.Errors[field.Name],
		Required:    field.Required,
		MaxLength:   maxLength(field),
	}
	view.InputType, view.InputMode = inputType(field.Kind)
	if field.Kind == model.FieldKindDate {
		view.Min = opts.MinDate
	}
	for _, choice := range field.Choices {
		view.Choices = append(view.Choices, choiceView{
			Value:    choice.Value,
			Label:    choice.Label,
			Selected: choice.Value == value,
		})
	}
	return view
}

func inputType(kind model.FieldKind) (string, string) {
	switch kind {
	case model.FieldKindEmail:
		return "email", "email"
	case model.FieldKindPhone:
		return "tel", "tel"
	case model.FieldKindNumber:
		// type=number accepts "e" and "-"; the keystroke guard is in the
		// live script.
		return "text", "numeric"
	case model.FieldKindDate:
		return "date", ""
	case model.FieldKindURL:
		return "text", "url"
	default:
		return "text", ""
	}
}

func maxLength(field model.Field) string {
	for _, rule := range field.Validations {
		if rule.Kind != model.ValidationRuleMaxLength {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimSpace(rule.Params["value"])); err == nil && n > 0 {
			return strconv.Itoa(n)
		}
	}
	return ""
}

func buildThemeView(cfg *theme.RendererConfig) themeView {
	if cfg == nil {
		cfg = DefaultRendererConfig()
	}
	view := themeView{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Style:   cssVarsStyle(cfg.CSSVars),
	}
	if cfg.AssetURL != nil {
		view.Stylesheet = cfg.AssetURL("stylesheet")
		view.Script = cfg.AssetURL("live")
	}
	return view
}

func controlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return "lf-" + trimmed
}
