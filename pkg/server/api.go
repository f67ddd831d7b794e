package server

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-leadform/pkg/validation"
)

// Messages returned by the validate endpoint.
const (
	MessageValid   = "Valid"
	MessageInvalid = "Validation failed. Please check the errors below."
)

// maxValidateBody bounds the validate request body.
const maxValidateBody = 1 << 20

type formSummary struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Route   string `json:"route"`
	Summary string `json:"summary,omitempty"`
}

// ValidationResult is the validate endpoint response body.
type ValidationResult struct {
	Message string            `json:"message"`
	Errors  validation.Errors `json:"errors"`
}

func (s *Server) handleListForms(w http.ResponseWriter, r *http.Request) {
	defs := s.catalog.Forms()
	out := make([]formSummary, 0, len(defs))
	for _, def := range defs {
		out = append(out, formSummary{ID: def.ID, Title: def.Title, Route: def.Route, Summary: def.Summary})
	}
	writeJSON(w, r, http.StatusOK, dataResponse{Data: out})
}

func (s *Server) handleGetForm(w http.ResponseWriter, r *http.Request) {
	def, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dataResponse{Data: def})
}

// handleValidate checks a JSON object (or form-encoded body) of field values
// with the strict rules. Fields the form does not declare are ignored.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	def, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, r, err)
		return
	}

	values, err := decodeValues(w, r)
	if err != nil {
		writeJSONError(w, r, StatusError{Code: http.StatusBadRequest, Err: err})
		return
	}

	errs := validation.Validate(def, values, s.strict()...)
	if !errs.Empty() {
		writeJSON(w, r, http.StatusBadRequest, ValidationResult{Message: MessageInvalid, Errors: errs})
		return
	}
	writeJSON(w, r, http.StatusOK, ValidationResult{Message: MessageValid, Errors: validation.Errors{}})
}

func decodeValues(w http.ResponseWriter, r *http.Request) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxValidateBody)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("server: parse form body: %w", err)
		}
		values := make(map[string]string, len(r.PostForm))
		for name := range r.PostForm {
			values[name] = r.PostForm.Get(name)
		}
		return values, nil
	}

	var raw map[string]any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("server: decode body: %w", err)
	}
	values := make(map[string]string, len(raw))
	for name, value := range raw {
		switch v := value.(type) {
		case nil:
			values[name] = ""
		case string:
			values[name] = v
		case json.Number:
			values[name] = v.String()
		case bool:
			values[name] = strconv.FormatBool(v)
		default:
			return nil, fmt.Errorf("server: field %q must be a string", name)
		}
	}
	return values, nil
}
