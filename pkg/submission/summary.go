package submission

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-leadform/pkg/format"
	"github.com/goliatone/go-leadform/pkg/model"
)

const summaryRule = "================================================================"

// Summary renders a submission as the plain-text report a staff member would
// read: one block per field section, values sanitised, blanks shown as
// "Not provided". Fields without a section are grouped under "Details".
func Summary(def model.FormDefinition, sub Submission) string {
	var b strings.Builder
	title := def.Title
	if title == "" {
		title = def.ID
	}
	fmt.Fprintf(&b, "New %s submission\n", title)
	fmt.Fprintf(&b, "Reference: %s\n", sub.ID)

	for _, section := range sections(def.Fields) {
		b.WriteString("\n" + summaryRule + "\n")
		b.WriteString(strings.ToUpper(section.name) + "\n")
		b.WriteString(summaryRule + "\n")
		for _, field := range section.fields {
			value := format.Sanitize(sub.Values[field.Name])
			if value == "" {
				value = "Not provided"
			} else if label := choiceLabel(field, value); label != "" {
				value = label
			}
			if field.Kind == model.FieldKindTextArea {
				fmt.Fprintf(&b, "%s:\n%s\n", field.Label, value)
				continue
			}
			fmt.Fprintf(&b, "%s: %s\n", field.Label, value)
		}
	}

	b.WriteString("\n" + summaryRule + "\n")
	if !sub.SubmittedAt.IsZero() {
		fmt.Fprintf(&b, "Submitted on: %s\n", sub.SubmittedAt.Format("2006-01-02 15:04:05"))
	}
	return b.String()
}

type summarySection struct {
	name   string
	fields []model.Field
}

func sections(fields []model.Field) []summarySection {
	var out []summarySection
	index := make(map[string]int)
	for _, field := range fields {
		name := field.Section
		if name == "" {
			name = "Details"
		}
		pos, ok := index[name]
		if !ok {
			pos = len(out)
			index[name] = pos
			out = append(out, summarySection{name: name})
		}
		out[pos].fields = append(out[pos].fields, field)
	}
	return out
}

func choiceLabel(field model.Field, value string) string {
	for _, choice := range field.Choices {
		if choice.Value == value && choice.Label != choice.Value {
			return choice.Label
		}
	}
	return ""
}
