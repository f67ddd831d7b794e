package forms

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-leadform/pkg/model"
)

var today = time.Date(2026, time.October, 17, 14, 0, 0, 0, time.UTC)

func proposalLike() model.FormDefinition {
	return model.FormDefinition{
		ID:              "proposal",
		SubmitLabel:     "Send",
		SubmittingLabel: "Sending..",
		Fields: []model.Field{
			{Name: "communityName", Label: "Community name", Kind: model.FieldKindText, Required: true},
			{Name: "state", Label: "State", Kind: model.FieldKindSelect, Required: true, Default: "Maryland", GuardExempt: true,
				Choices: []model.Choice{{Value: "Maryland"}, {Value: "Virginia"}, {Value: "DC"}}},
			{Name: "numberOfUnits", Label: "Number of units", Kind: model.FieldKindNumber, Required: true},
			{Name: "onSiteStaff", Label: "On-site staff", Kind: model.FieldKindRadio, Default: "yes", GuardExempt: true,
				Choices: []model.Choice{{Value: "yes"}, {Value: "no"}}},
			{Name: "officePhone", Label: "Office phone", Kind: model.FieldKindPhone, Formatter: "phone"},
			{Name: "deadlineDate", Label: "Deadline date", Kind: model.FieldKindDate, Required: true,
				RequiredMessage: "Deadline date is required",
				Validations:     []model.ValidationRule{{Kind: model.ValidationRuleNotPast, Message: "Deadline date must be in the future"}}},
			{Name: "contactEmail", Label: "Email", Kind: model.FieldKindEmail, Required: true},
		},
	}
}

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(proposalLike(), WithClock(func() time.Time { return today }), WithLocation(time.UTC))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func fill(t *testing.T, e *Engine) {
	t.Helper()
	for name, value := range map[string]string{
		"communityName": "Oak Ridge",
		"numberOfUnits": "120",
		"officePhone":   "4105551234",
		"deadlineDate":  "2026-10-20",
		"contactEmail":  "board@oakridge.org",
	} {
		if err := e.Change(name, value); err != nil {
			t.Fatalf("change %s: %v", name, err)
		}
	}
}

func TestEngine_StartsAtDefaults(t *testing.T) {
	e := newEngine(t)
	want := map[string]string{
		"communityName": "",
		"state":         "Maryland",
		"numberOfUnits": "",
		"onSiteStaff":   "yes",
		"officePhone":   "",
		"deadlineDate":  "",
		"contactEmail":  "",
	}
	if diff := cmp.Diff(want, e.Values()); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if e.Status() != StatusIdle {
		t.Fatalf("expected idle status")
	}
}

func TestEngine_ChangeClearsOnlyThatFieldsError(t *testing.T) {
	e := newEngine(t)
	errs := e.Validate()
	if len(errs) != 4 {
		t.Fatalf("expected 4 errors, got %v", errs)
	}

	if err := e.Change("communityName", "Oak Ridge"); err != nil {
		t.Fatalf("change: %v", err)
	}

	want := ErrorMap{
		"numberOfUnits": "Number of units is required",
		"deadlineDate":  "Deadline date is required",
		"contactEmail":  "Email is required",
	}
	if diff := cmp.Diff(want, e.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_ChangeDoesNotRevalidate(t *testing.T) {
	e := newEngine(t)
	e.Validate()
	if err := e.Change("contactEmail", "not-an-email"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if _, ok := e.Errors()["contactEmail"]; ok {
		t.Fatalf("error should be cleared optimistically, not recomputed")
	}
}

func TestEngine_PhoneFormatting(t *testing.T) {
	e := newEngine(t)
	if err := e.Change("officePhone", "(410) 555-12345678"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if got := e.Value("officePhone"); got != "410-555-1234" {
		t.Fatalf("unexpected phone %q", got)
	}
}

func TestEngine_NumericEntryGuard(t *testing.T) {
	e := newEngine(t)
	if err := e.Change("numberOfUnits", "12"); err != nil {
		t.Fatalf("change: %v", err)
	}
	for _, bad := range []string{"-3", "2.5", "1e4"} {
		err := e.Change("numberOfUnits", bad)
		if !errors.Is(err, ErrRejectedInput) {
			t.Fatalf("%q: expected ErrRejectedInput, got %v", bad, err)
		}
	}
	if got := e.Value("numberOfUnits"); got != "12" {
		t.Fatalf("rejected input must not change the value, got %q", got)
	}
	if e.AcceptKey("numberOfUnits", "-") || !e.AcceptKey("numberOfUnits", "7") {
		t.Fatalf("unexpected key guard result")
	}
	if !e.AcceptKey("communityName", "-") {
		t.Fatalf("text fields accept every key")
	}
}

func TestEngine_DateHandler(t *testing.T) {
	e := newEngine(t)

	picker, err := e.Picker("deadlineDate")
	if err != nil {
		t.Fatalf("picker: %v", err)
	}
	if !picker.Min.Equal(time.Date(2026, time.October, 17, 0, 0, 0, 0, time.UTC)) || picker.Selected != nil {
		t.Fatalf("unexpected picker %+v", picker)
	}

	day := time.Date(2026, time.November, 2, 15, 4, 0, 0, time.UTC)
	if err := e.ChangeDate("deadlineDate", &day); err != nil {
		t.Fatalf("change date: %v", err)
	}
	if got := e.Value("deadlineDate"); got != "2026-11-02" {
		t.Fatalf("unexpected iso value %q", got)
	}
	picker, _ = e.Picker("deadlineDate")
	if picker.Selected == nil || picker.Selected.Day() != 2 {
		t.Fatalf("picker selection not stored: %+v", picker)
	}

	if err := e.ChangeDate("deadlineDate", nil); err != nil {
		t.Fatalf("clear date: %v", err)
	}
	if got := e.Value("deadlineDate"); got != "" {
		t.Fatalf("clearing the picker should clear the string, got %q", got)
	}
	if err := e.ChangeDate("communityName", &day); err == nil {
		t.Fatalf("expected error for non-date field")
	}
}

func TestEngine_DateValidation(t *testing.T) {
	e := newEngine(t)
	fill(t, e)

	past := today.AddDate(0, 0, -1)
	_ = e.ChangeDate("deadlineDate", &past)
	if got := e.Validate()["deadlineDate"]; got != "Deadline date must be in the future" {
		t.Fatalf("past date: got %q", got)
	}

	_ = e.ChangeDate("deadlineDate", &today)
	if _, ok := e.Validate()["deadlineDate"]; ok {
		t.Fatalf("today should be accepted")
	}

	_ = e.ChangeDate("deadlineDate", nil)
	if got := e.Validate()["deadlineDate"]; got != "Deadline date is required" {
		t.Fatalf("missing date: got %q", got)
	}
}

func TestEngine_UnknownField(t *testing.T) {
	e := newEngine(t)
	if err := e.Change("nope", "x"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestEngine_EmptyGuard(t *testing.T) {
	e := newEngine(t)
	if !e.IsEmpty() || !e.SubmitDisabled() {
		t.Fatalf("defaults only form should be empty and disabled")
	}

	e.MergeErrors(ErrorMap{"communityName": "Community name is required"})
	if !e.SubmitDisabled() {
		t.Fatalf("empty form stays disabled regardless of errors")
	}

	_ = e.Change("communityName", "  ")
	if !e.IsEmpty() {
		t.Fatalf("whitespace counts as blank")
	}

	_ = e.Change("communityName", "Oak")
	if e.IsEmpty() || e.SubmitDisabled() {
		t.Fatalf("non-empty invalid form keeps submit enabled")
	}
}

func TestEngine_BeginSubmit(t *testing.T) {
	e := newEngine(t)
	if _, err := e.BeginSubmit(); !errors.Is(err, ErrFormEmpty) {
		t.Fatalf("expected ErrFormEmpty, got %v", err)
	}

	_ = e.Change("communityName", "Oak Ridge")
	if _, err := e.BeginSubmit(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if e.Status() != StatusIdle {
		t.Fatalf("invalid submit must not change status")
	}
	if len(e.Errors()) == 0 {
		t.Fatalf("invalid submit should surface errors")
	}

	fill(t, e)
	values, err := e.BeginSubmit()
	if err != nil {
		t.Fatalf("begin submit: %v", err)
	}
	if values["officePhone"] != "410-555-1234" || values["state"] != "Maryland" {
		t.Fatalf("unexpected submitted values %v", values)
	}
	if e.Status() != StatusSubmitting || !e.SubmitDisabled() || e.SubmitLabel() != "Sending.." {
		t.Fatalf("expected submitting state, got %+v", e.Snapshot())
	}
	if _, err := e.BeginSubmit(); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("expected ErrSubmitInFlight, got %v", err)
	}

	e.FinishSubmit()
	if e.Status() != StatusIdle || e.SubmitLabel() != "Send" {
		t.Fatalf("expected idle after finish")
	}
}

func TestEngine_BeginSubmitAppliesStrictRules(t *testing.T) {
	e := newEngine(t)
	fill(t, e)
	_ = e.Change("officePhone", "41055")
	_ = e.Change("state", "Nowhere")

	if _, err := e.BeginSubmit(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if e.Status() != StatusIdle {
		t.Fatalf("strict failure must not change status")
	}
	want := ErrorMap{
		"officePhone": "Office phone must be in format XXX-XXX-XXXX",
		"state":       "State must be one of: Maryland, Virginia, DC",
	}
	if diff := cmp.Diff(want, e.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	_ = e.Change("officePhone", "4105551234")
	_ = e.Change("state", "Virginia")
	if _, err := e.BeginSubmit(); err != nil {
		t.Fatalf("begin submit after fixing: %v", err)
	}
}

func TestEngine_ResetIsIdempotent(t *testing.T) {
	e := newEngine(t)
	fill(t, e)
	_ = e.Change("state", "Virginia")
	e.MergeErrors(ErrorMap{"contactEmail": "Please enter a valid email address"})

	e.Reset()
	first := e.Snapshot()
	e.Reset()
	second := e.Snapshot()

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("reset not idempotent (-first +second):\n%s", diff)
	}
	if first.Values["state"] != "Maryland" || first.Values["onSiteStaff"] != "yes" || first.Values["communityName"] != "" {
		t.Fatalf("unexpected reset values %v", first.Values)
	}
	if len(first.Errors) != 0 {
		t.Fatalf("reset should clear errors")
	}
	picker, _ := e.Picker("deadlineDate")
	if picker.Selected != nil {
		t.Fatalf("reset should clear picker selection")
	}
}

func TestEngine_MergeErrorsIgnoresUnknownFields(t *testing.T) {
	e := newEngine(t)
	e.MergeErrors(ErrorMap{"contactEmail": "taken", "ghost": "boo"})
	if diff := cmp.Diff(ErrorMap{"contactEmail": "taken"}, e.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_RejectsUnknownFormatter(t *testing.T) {
	def := model.FormDefinition{ID: "x", Fields: []model.Field{{Name: "a", Kind: model.FieldKindText, Formatter: "shout"}}}
	if _, err := New(def); err == nil {
		t.Fatalf("expected unknown formatter error")
	}
}
