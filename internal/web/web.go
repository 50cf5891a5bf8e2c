// Package web is the browser-facing registration page. It renders the form
// and the student list server-side and talks to the API through
// internal/client.
package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/students-registration/internal/client"
	"github.com/aanand-mishra/students-registration/internal/http/middleware"
	"github.com/aanand-mishra/students-registration/internal/logger"
	"github.com/aanand-mishra/students-registration/internal/types"
)

//go:embed templates/*.html
var templatesFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// maxFormBytes caps the registration form body.
const maxFormBytes = 64 << 10

// API is what the page needs from the students API.
type API interface {
	List(ctx context.Context) ([]types.Student, error)
	Create(ctx context.Context, student types.Student) (types.Student, error)
}

type page struct {
	Students []types.Student
	Form     types.Student
	Error    string
}

// New returns the web client's handler.
func New(api API, log *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", Index(api))
	mux.HandleFunc("POST /register", Register(api))

	var h http.Handler = mux
	h = middleware.Recover(h)
	h = middleware.AccessLog(h)
	return middleware.RequestID(log)(h)
}

// Index handles GET /: fetch the list and render the page. When the API
// cannot be reached the page still renders, with an error banner.
func Index(api API) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		students, err := api.List(r.Context())
		if err != nil {
			middleware.Logger(r.Context()).Error("failed to list students", logger.Err(err))
			render(w, r, http.StatusBadGateway, page{Error: "Could not load students: " + describe(err)})
			return
		}

		render(w, r, http.StatusOK, page{Students: students})
	}
}

// Register handles POST /register: submit the form to the API, then
// redirect to / so the browser re-fetches the full list. On failure the
// form is rendered again with the submitted values and an error banner.
func Register(api API) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := middleware.Logger(r.Context())

		r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
		if err := r.ParseForm(); err != nil {
			render(w, r, http.StatusBadRequest, page{Error: "Invalid form submission."})
			return
		}

		// Values go to the API exactly as typed.
		form := types.Student{
			Name:   r.PostFormValue("name"),
			Email:  r.PostFormValue("email"),
			Course: r.PostFormValue("course"),
		}

		created, err := api.Create(r.Context(), form)
		if err != nil {
			log.Error("failed to register student", logger.Err(err))

			status := http.StatusBadGateway
			var apiErr *client.APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
				status = http.StatusUnprocessableEntity
			}

			// Best effort: show whatever list is available alongside the error.
			students, _ := api.List(r.Context())
			render(w, r, status, page{
				Students: students,
				Form:     form,
				Error:    "Registration failed: " + describe(err),
			})
			return
		}

		log.Info("student registered", slog.Uint64("id", created.ID))
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// describe turns a client error into something fit for the page.
func describe(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "the registration service is unavailable."
}

// render executes the template into a buffer first so a template failure
// still produces a clean 500 rather than a half-written page.
func render(w http.ResponseWriter, r *http.Request, status int, p page) {
	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, p); err != nil {
		middleware.Logger(r.Context()).Error("failed to render page", logger.Err(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
