package validation

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-leadform/pkg/model"
)

var fixedNow = func() time.Time { return time.Date(2026, time.October, 17, 9, 0, 0, 0, time.UTC) }

func testDefinition() model.FormDefinition {
	return model.FormDefinition{
		ID: "sample",
		Fields: []model.Field{
			{Name: "companyName", Label: "Company name", Kind: model.FieldKindText, Required: true,
				Validations: []model.ValidationRule{{Kind: model.ValidationRuleMaxLength, Params: map[string]string{"value": "10"}}}},
			{Name: "email", Label: "Email", Kind: model.FieldKindEmail, Required: true, RequiredMessage: "Email is required"},
			{Name: "mobilePhone", Label: "Mobile phone", Kind: model.FieldKindPhone},
			{Name: "zipCode", Label: "Zip code", Kind: model.FieldKindZip, Required: true},
			{Name: "units", Label: "Number of units", Kind: model.FieldKindNumber, Required: true,
				Validations: []model.ValidationRule{
					{Kind: model.ValidationRuleMin, Params: map[string]string{"value": "1"}},
					{Kind: model.ValidationRuleMax, Params: map[string]string{"value": "100000"}},
				}},
			{Name: "state", Label: "State", Kind: model.FieldKindSelect, Required: true,
				Choices: []model.Choice{{Value: "Maryland"}, {Value: "Virginia"}, {Value: "DC"}}},
			{Name: "deadlineDate", Label: "Deadline date", Kind: model.FieldKindDate, Required: true,
				RequiredMessage: "Deadline date is required",
				Validations:     []model.ValidationRule{{Kind: model.ValidationRuleNotPast, Message: "Deadline date must be in the future"}}},
			{Name: "website", Label: "Website", Kind: model.FieldKindURL},
		},
	}
}

func validValues() map[string]string {
	return map[string]string{
		"companyName":  "Acme",
		"email":        "ops@acme.com",
		"mobilePhone":  "",
		"zipCode":      "21030",
		"units":        "120",
		"state":        "Maryland",
		"deadlineDate": "2026-10-17",
		"website":      "",
	}
}

func TestValidate_ValidValuesProduceNoErrors(t *testing.T) {
	for _, mode := range []Mode{ModeClient, ModeStrict} {
		errs := Validate(testDefinition(), validValues(), WithMode(mode), WithClock(fixedNow), WithLocation(time.UTC))
		if !errs.Empty() {
			t.Fatalf("mode %d: unexpected errors %v", mode, errs)
		}
	}
}

func TestValidate_EachBlankRequiredFieldReportsOnlyItself(t *testing.T) {
	want := map[string]string{
		"companyName":  "Company name is required",
		"email":        "Email is required",
		"zipCode":      "Zip code is required",
		"units":        "Number of units is required",
		"state":        "State is required",
		"deadlineDate": "Deadline date is required",
	}
	for field, msg := range want {
		values := validValues()
		values[field] = "   "
		got := Validate(testDefinition(), values, WithClock(fixedNow), WithLocation(time.UTC))
		if diff := cmp.Diff(Errors{field: msg}, got); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", field, diff)
		}
	}
}

func TestValidate_ReportsAllErrorsAtOnce(t *testing.T) {
	got := Validate(testDefinition(), map[string]string{}, WithClock(fixedNow), WithLocation(time.UTC))
	want := []string{"companyName", "deadlineDate", "email", "state", "units", "zipCode"}
	if diff := cmp.Diff(want, got.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_ClientModeSkipsStrictRules(t *testing.T) {
	values := validValues()
	values["zipCode"] = "2103"
	values["mobilePhone"] = "240-66"
	values["units"] = "0"
	values["website"] = "ftp://x"

	client := Validate(testDefinition(), values, WithClock(fixedNow), WithLocation(time.UTC))
	if !client.Empty() {
		t.Fatalf("client mode should ignore format rules, got %v", client)
	}

	strict := Validate(testDefinition(), values, WithMode(ModeStrict), WithClock(fixedNow), WithLocation(time.UTC))
	want := Errors{
		"zipCode":     MessageZip,
		"mobilePhone": "Mobile phone must be in format XXX-XXX-XXXX",
		"units":       "Number of units must be at least 1",
		"website":     MessageWebsite,
	}
	if diff := cmp.Diff(want, strict); diff != "" {
		t.Fatalf("strict mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_StrictMessages(t *testing.T) {
	values := validValues()
	values["companyName"] = "Acme Property Group"
	values["units"] = "many"
	values["state"] = "Texas"
	values["email"] = "ops@acme"

	got := Validate(testDefinition(), values, WithMode(ModeStrict), WithClock(fixedNow), WithLocation(time.UTC))
	want := Errors{
		"companyName": "Company name must not exceed 10 characters",
		"units":       "Number of units must be a valid number",
		"state":       "State must be one of: Maryland, Virginia, DC",
		"email":       MessageEmail,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("strict mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_DeadlineDate(t *testing.T) {
	cases := map[string]string{
		"2026-10-16": "Deadline date must be in the future",
		"2026-10-17": "",
		"2026-12-01": "",
		"":           "Deadline date is required",
		"10/20/2026": "Deadline date must be a valid date",
	}
	field, _ := testDefinition().Field("deadlineDate")
	for value, want := range cases {
		msg, ok := ValidateField(field, value, WithClock(fixedNow), WithLocation(time.UTC))
		if want == "" && !ok {
			t.Errorf("%q should pass, got %q", value, msg)
		}
		if want != "" && msg != want {
			t.Errorf("%q: got %q, want %q", value, msg, want)
		}
	}
}

func TestErrors_Messages(t *testing.T) {
	errs := Errors{"email": MessageEmail}
	want := map[string][]string{"email": {MessageEmail}}
	if diff := cmp.Diff(want, errs.Messages()); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
	if Errors(nil).Messages() != nil {
		t.Fatalf("empty errors should produce nil messages")
	}
}
