package vanilla

// ChromeClass is a semantic CSS class emitted by the templates.
type ChromeClass string

const (
	ClassPage    ChromeClass = "leadform-page"
	ClassForm    ChromeClass = "leadform-form"
	ClassHeader  ChromeClass = "leadform-header"
	ClassSection ChromeClass = "leadform-section"
	ClassField   ChromeClass = "leadform-field"
	ClassInvalid ChromeClass = "leadform-invalid"
	ClassActions ChromeClass = "leadform-actions"
	ClassErrors  ChromeClass = "leadform-errors"
	ClassNotice  ChromeClass = "leadform-notice"
	ClassCards   ChromeClass = "leadform-cards"
)

func classes() map[string]string {
	return map[string]string{
		"page":    string(ClassPage),
		"form":    string(ClassForm),
		"header":  string(ClassHeader),
		"section": string(ClassSection),
		"field":   string(ClassField),
		"invalid": string(ClassInvalid),
		"actions": string(ClassActions),
		"errors":  string(ClassErrors),
		"notice":  string(ClassNotice),
		"cards":   string(ClassCards),
	}
}
