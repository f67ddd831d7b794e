package model

// FieldKind is the input kind a field renders as. It also selects the
// formatter and the default rules applied during validation.
type FieldKind string

const (
	FieldKindText     FieldKind = "text"
	FieldKindTextArea FieldKind = "textarea"
	FieldKindEmail    FieldKind = "email"
	FieldKindPhone    FieldKind = "phone"
	FieldKindNumber   FieldKind = "number"
	FieldKindDate     FieldKind = "date"
	FieldKindSelect   FieldKind = "select"
	FieldKindRadio    FieldKind = "radio"
	FieldKindURL      FieldKind = "url"
	FieldKindZip      FieldKind = "zip"
)

const (
	ValidationRuleMin       = "min"
	ValidationRuleMax       = "max"
	ValidationRuleMaxLength = "maxLength"
	ValidationRulePattern   = "pattern"
	ValidationRuleNotPast   = "notPast"
	ValidationRuleOneOf     = "oneOf"
)

// ValidationRule is a declarative constraint attached to a field. Numeric
// thresholds live in Params["value"], patterns in Params["pattern"].
// Message overrides the generated error text.
type ValidationRule struct {
	Kind    string            `json:"kind" yaml:"kind"`
	Params  map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	Message string            `json:"message,omitempty" yaml:"message,omitempty"`
}

// Choice is a selectable value for select and radio fields.
type Choice struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Field describes one input of a form definition. GuardExempt fields are
// ignored when deciding whether the form is empty.
type Field struct {
	Name            string            `json:"name" yaml:"name"`
	Kind            FieldKind         `json:"kind" yaml:"kind"`
	Label           string            `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder     string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Help            string            `json:"help,omitempty" yaml:"help,omitempty"`
	Required        bool              `json:"required" yaml:"required"`
	RequiredMessage string            `json:"requiredMessage,omitempty" yaml:"requiredMessage,omitempty"`
	Default         string            `json:"default,omitempty" yaml:"default,omitempty"`
	Choices         []Choice          `json:"choices,omitempty" yaml:"choices,omitempty"`
	Formatter       string            `json:"formatter,omitempty" yaml:"formatter,omitempty"`
	Validations     []ValidationRule  `json:"validations,omitempty" yaml:"validations,omitempty"`
	GuardExempt     bool              `json:"guardExempt,omitempty" yaml:"guardExempt,omitempty"`
	Section         string            `json:"section,omitempty" yaml:"section,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// FormDefinition parameterises the generic form engine.
type FormDefinition struct {
	ID              string            `json:"id" yaml:"id"`
	Title           string            `json:"title" yaml:"title"`
	Summary         string            `json:"summary,omitempty" yaml:"summary,omitempty"`
	Route           string            `json:"route" yaml:"route"`
	SubmitLabel     string            `json:"submitLabel,omitempty" yaml:"submitLabel,omitempty"`
	SubmittingLabel string            `json:"submittingLabel,omitempty" yaml:"submittingLabel,omitempty"`
	SuccessMessage  string            `json:"successMessage,omitempty" yaml:"successMessage,omitempty"`
	Fields          []Field           `json:"fields" yaml:"fields"`
	Metadata        map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Field returns the named field.
func (d FormDefinition) Field(name string) (Field, bool) {
	for _, field := range d.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Defaults returns the initial value of every field keyed by name.
func (d FormDefinition) Defaults() map[string]string {
	out := make(map[string]string, len(d.Fields))
	for _, field := range d.Fields {
		out[field.Name] = field.Default
	}
	return out
}

// Link is a navigation card on the contact routing page.
type Link struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Href        string `json:"href" yaml:"href"`
	External    bool   `json:"external,omitempty" yaml:"external,omitempty"`
	Icon        string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// Office is a contact block shown beside the routing cards.
type Office struct {
	Name  string   `json:"name" yaml:"name"`
	Lines []string `json:"lines,omitempty" yaml:"lines,omitempty"`
	Email string   `json:"email,omitempty" yaml:"email,omitempty"`
	Phone string   `json:"phone,omitempty" yaml:"phone,omitempty"`
}

// ContactPage is the pure navigation page that routes visitors to a form.
type ContactPage struct {
	Title   string   `json:"title" yaml:"title"`
	Intro   string   `json:"intro,omitempty" yaml:"intro,omitempty"`
	Links   []Link   `json:"links" yaml:"links"`
	Offices []Office `json:"offices,omitempty" yaml:"offices,omitempty"`
}
