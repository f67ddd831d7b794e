package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-leadform/pkg/format"
	"github.com/goliatone/go-leadform/pkg/forms"
	"github.com/goliatone/go-leadform/pkg/model"
	"github.com/goliatone/go-leadform/pkg/notify"
	"github.com/goliatone/go-leadform/pkg/render"
	"github.com/goliatone/go-leadform/pkg/submission"
	"github.com/goliatone/go-leadform/pkg/validation"
)

// SentParam is appended to a form route after a successful classic post.
const SentParam = "sent"

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	body, err := s.pages.RenderContact(r.Context(), s.catalog.Contact(), render.RenderOptions{Theme: s.opts.Theme})
	if err != nil {
		writeTextError(w, r, err)
		return
	}
	s.writeHTML(w, r, http.StatusOK, body)
}

func (s *Server) handleFormPage(id string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		def, err := s.lookup(id)
		if err != nil {
			writeTextError(w, r, err)
			return
		}
		engine, err := s.newEngine(def)
		if err != nil {
			writeTextError(w, r, err)
			return
		}

		opts := s.pageOptions(def, engine)
		if r.URL.Query().Get(SentParam) != "" {
			n := notify.Success(def.SuccessMessage)
			opts.Notice = &n
		}
		s.renderForm(w, r, http.StatusOK, def, opts)
	}
}

// handleFormPost is the no-script path: strict validation, delivery through
// the gateway, then a redirect to the sent page. Invalid input re-renders
// the form with 422.
func (s *Server) handleFormPost(id string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		def, err := s.lookup(id)
		if err != nil {
			writeTextError(w, r, err)
			return
		}
		if err := r.ParseForm(); err != nil {
			writeTextError(w, r, StatusError{Code: http.StatusBadRequest, Err: err})
			return
		}
		if err := s.tokens.Verify(def.ID, r.PostForm.Get(render.CSRFField)); err != nil {
			writeTextError(w, r, StatusError{Code: http.StatusForbidden, Err: err})
			return
		}

		engine, err := s.newEngine(def)
		if err != nil {
			writeTextError(w, r, err)
			return
		}
		values, err := collect(engine, r.PostForm)
		if err != nil {
			writeTextError(w, r, StatusError{Code: http.StatusBadRequest, Err: err})
			return
		}

		logger := zerolog.Ctx(r.Context()).With().Str("form", def.ID).Logger()
		opts := s.pageOptions(def, engine)
		opts.Values = values

		errs := validation.Validate(def, values, s.strict()...)
		if !errs.Empty() {
			logger.Info().Strs("fields", errs.Fields()).Msg("form post rejected")
			opts.Errors = errs
			opts.SubmitDisabled = false
			s.renderForm(w, r, http.StatusUnprocessableEntity, def, opts)
			return
		}

		sub := submission.New(def.ID, format.SanitizeValues(values), s.opts.Now())
		receipt, err := s.gateway.Submit(logger.WithContext(r.Context()), sub)
		if err != nil {
			logger.Error().Err(err).Str("submission_id", sub.ID).Msg("form post delivery failed")
			status := http.StatusBadGateway
			if errors.Is(err, submission.ErrTimeout) {
				status = http.StatusGatewayTimeout
			}
			var rejection *submission.RejectionError
			if errors.As(err, &rejection) {
				mapped := render.MapErrorPayload(def, rejection.Fields)
				opts.Errors = mapped.FieldErrors()
				opts.FormErrors = mapped.Form
				status = http.StatusUnprocessableEntity
			}
			n := notify.Failure(s.opts.FailureMessage)
			opts.Notice = &n
			opts.SubmitDisabled = false
			s.renderForm(w, r, status, def, opts)
			return
		}

		logger.Info().
			Str("submission_id", receipt.SubmissionID).
			Int("attempts", receipt.Attempts).
			Msg("form post accepted")
		http.Redirect(w, r, def.Route+"?"+SentParam+"=1", http.StatusSeeOther)
	}
}

// collect runs posted values through the engine change handlers so phone
// numbers and dates are normalised the same way the live session does.
// Values a guard refuses are kept verbatim for validation to report.
func collect(engine *forms.Engine, posted url.Values) (map[string]string, error) {
	rejected := make(map[string]string)
	for _, field := range engine.Definition().Fields {
		raw := posted.Get(field.Name)
		if err := engine.Change(field.Name, raw); err != nil {
			if errors.Is(err, forms.ErrRejectedInput) {
				rejected[field.Name] = strings.TrimSpace(raw)
				continue
			}
			return nil, err
		}
	}
	values := engine.Values()
	for name, raw := range rejected {
		values[name] = raw
	}
	return values, nil
}

func (s *Server) newEngine(def model.FormDefinition) (*forms.Engine, error) {
	engine, err := forms.New(def,
		forms.WithClock(s.opts.Now),
		forms.WithLocation(s.opts.Location),
	)
	if err != nil {
		return nil, fmt.Errorf("server: form %s: %w", def.ID, err)
	}
	return engine, nil
}

func (s *Server) strict() []validation.Option {
	return []validation.Option{
		validation.WithMode(validation.ModeStrict),
		validation.WithClock(s.opts.Now),
		validation.WithLocation(s.opts.Location),
	}
}

func (s *Server) pageOptions(def model.FormDefinition, engine *forms.Engine) render.RenderOptions {
	snap := engine.Snapshot()
	today := format.StartOfDay(s.opts.Now().In(s.opts.Location))
	opts := render.RenderOptions{
		Values: snap.Values,
		Errors: snap.Errors,
		HiddenFields: render.MergeHiddenFields(nil,
			render.FormID(def.ID),
			render.CSRFToken(s.tokens.Issue(def.ID)),
		),
		SubmitLabel: snap.SubmitLabel,
		// Only the live script re-enables the button.
		SubmitDisabled: s.opts.Live && snap.SubmitDisabled,
		MinDate:        format.ISODate(&today),
		Theme:          s.opts.Theme,
	}
	if s.opts.Live {
		opts.LiveURL = "/forms/" + url.PathEscape(def.ID) + "/live"
	}
	return opts
}

func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, status int, def model.FormDefinition, opts render.RenderOptions) {
	body, err := s.renderer.Render(r.Context(), def, opts)
	if err != nil {
		writeTextError(w, r, err)
		return
	}
	s.writeHTML(w, r, status, body)
}

func (s *Server) writeHTML(w http.ResponseWriter, r *http.Request, status int, body []byte) {
	w.Header().Set("Content-Type", s.renderer.ContentType())
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("write page")
	}
}
