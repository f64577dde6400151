package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/goliatone/go-churnform/pkg/formstate"
	"github.com/goliatone/go-churnform/pkg/lifecycle"
	"github.com/goliatone/go-churnform/pkg/predict"
	"github.com/goliatone/go-churnform/pkg/render"
)

// Form-level messages shown on the page.
const (
	MessageBusy           = "A prediction is already in progress."
	MessageSessionExpired = "Your session expired. Review the values and submit again."
	MessageInvalidToken   = "The form token is invalid. Reload the page and try again."
)

// StateResponse is the JSON view of a session.
type StateResponse struct {
	Phase       lifecycle.Phase     `json:"phase"`
	Busy        bool                `json:"busy"`
	Values      map[string]any      `json:"values"`
	Result      *int                `json:"result,omitempty"`
	Alert       string              `json:"alert,omitempty"`
	Failure     predict.FailureKind `json:"failure,omitempty"`
	Attempt     int                 `json:"attempt"`
	Banner      render.BannerState  `json:"banner"`
	ButtonLabel string              `json:"buttonLabel"`
}

type fieldRequest struct {
	Value any `json:"value"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	session, _, err := s.session(w, r)
	if err != nil {
		s.internalError(w, err)
		return
	}
	s.renderPage(w, r, session, http.StatusOK, nil, nil)
}

func (s *Server) handlePageSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	session, created, err := s.session(w, r)
	if err != nil {
		s.internalError(w, err)
		return
	}

	if !created && r.PostForm.Get(CSRFField) != session.CSRFToken {
		s.renderPage(w, r, session, http.StatusForbidden, nil, []string{MessageInvalidToken})
		return
	}

	fieldErrs := s.applyForm(session.Controller, r)
	mapping := render.MapFieldErrors(s.form, fieldErrs)

	switch {
	case created:
		s.renderPage(w, r, session, http.StatusConflict, mapping.Fields, render.MergeFormErrors(mapping.Form, MessageSessionExpired))
		return
	case len(fieldErrs) > 0:
		s.renderPage(w, r, session, http.StatusUnprocessableEntity, mapping.Fields, mapping.Form)
		return
	}

	if _, err := session.Controller.Submit(r.Context()); err != nil {
		if errors.Is(err, lifecycle.ErrBusy) {
			s.renderPage(w, r, session, http.StatusConflict, nil, []string{MessageBusy})
			return
		}
		s.internalError(w, err)
		return
	}
	s.renderPage(w, r, session, http.StatusOK, nil, nil)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	session, _, err := s.session(w, r)
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.stateResponse(r, session.Controller.Snapshot()))
}

func (s *Server) handleSetField(w http.ResponseWriter, r *http.Request) {
	session, _, err := s.session(w, r)
	if err != nil {
		s.internalError(w, err)
		return
	}

	var req fieldRequest
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	name := chi.URLParam(r, "name")
	if err := session.Controller.SetField(name, req.Value); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, formstate.ErrUnknownField) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.stateResponse(r, session.Controller.Snapshot()))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	session, _, err := s.session(w, r)
	if err != nil {
		s.internalError(w, err)
		return
	}
	snap, err := session.Controller.Submit(r.Context())
	if err != nil {
		if errors.Is(err, lifecycle.ErrBusy) {
			writeJSON(w, http.StatusConflict, s.stateResponse(r, snap))
			return
		}
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.stateResponse(r, snap))
}

// session resolves the caller's session, opening one when the cookie is
// missing or expired. created reports whether a new session was opened.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*Session, bool, error) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if session, ok := s.sessions.Lookup(cookie.Value); ok {
			return session, false, nil
		}
	}
	session, err := s.sessions.Create()
	if err != nil {
		return nil, false, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return session, true, nil
}

// applyForm copies posted values for known fields into the controller.
func (s *Server) applyForm(ctrl *lifecycle.Controller, r *http.Request) map[string]error {
	errs := make(map[string]error)
	for _, field := range s.form.Fields {
		values, ok := r.PostForm[field.Name]
		if !ok || len(values) == 0 {
			continue
		}
		if err := ctrl.SetField(field.Name, values[0]); err != nil {
			errs[field.Name] = err
		}
	}
	return errs
}

func (s *Server) renderOptions(r *http.Request) render.RenderOptions {
	return render.RenderOptions{
		Locale:     s.requestLocale(r),
		Translator: s.translator,
		Action:     "/",
	}
}

func (s *Server) requestLocale(r *http.Request) string {
	if lang := strings.TrimSpace(r.URL.Query().Get("lang")); lang != "" {
		return lang
	}
	if negotiator, ok := s.translator.(LocaleNegotiator); ok {
		if header := r.Header.Get("Accept-Language"); header != "" {
			return negotiator.Negotiate(header)
		}
	}
	return s.locale
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, session *Session, status int, fieldErrs map[string][]string, formErrs []string) {
	opts := s.renderOptions(r)
	opts.HiddenFields = render.MergeHiddenFields(nil, render.CSRFToken(CSRFField, session.CSRFToken))
	opts.Errors = fieldErrs
	opts.FormErrors = formErrs

	view := render.ViewFromSnapshot(s.form, session.Controller.Snapshot())
	body, contentType, err := s.pages.Render(r.Context(), "vanilla", view, opts)
	if err != nil {
		s.internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (s *Server) stateResponse(r *http.Request, snap lifecycle.Snapshot) StateResponse {
	opts := s.renderOptions(r)
	view := render.ViewFromSnapshot(s.form, snap)
	return StateResponse{
		Phase:       snap.Phase,
		Busy:        snap.Busy(),
		Values:      snap.Values,
		Result:      snap.Result,
		Alert:       render.AlertMessage(view, opts),
		Failure:     snap.Failure,
		Attempt:     snap.Attempt,
		Banner:      render.Banner(view, opts),
		ButtonLabel: render.ButtonLabel(view, opts),
	}
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.logger.Error("request failed", zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
