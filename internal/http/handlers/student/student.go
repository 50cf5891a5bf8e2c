// Package student contains the HTTP handlers for the student resource.
//
// Handlers are built by factory functions that take their dependencies as
// arguments and return an http.HandlerFunc closing over them:
//
//	router.HandleFunc("POST /api/users", student.New(store, 5*time.Second))
//
// The factory runs once at startup; the returned closure runs per request.
// Nothing is shared between requests except the storage handle.
package student

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/students-registration/internal/http/middleware"
	"github.com/aanand-mishra/students-registration/internal/logger"
	"github.com/aanand-mishra/students-registration/internal/storage"
	"github.com/aanand-mishra/students-registration/internal/types"
	"github.com/aanand-mishra/students-registration/internal/utils/response"
)

// maxBodyBytes caps the create payload. Three 255-character fields fit
// comfortably.
const maxBodyBytes = 64 << 10

var errEmptyBody = errors.New("request body is empty")

// createRequest is the POST /api/users body. The store assigns ids, so a
// client "id" of any JSON type is read and dropped.
type createRequest struct {
	ID     json.RawMessage `json:"id"`
	Name   string          `json:"name"   validate:"max=255"`
	Email  string          `json:"email"  validate:"max=255"`
	Course string          `json:"course" validate:"max=255"`
}

func (req createRequest) student() types.Student {
	return types.Student{Name: req.Name, Email: req.Email, Course: req.Course}
}

// validate reports field errors by their JSON names.
var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

// New handles POST /api/users.
//
// Request body:
//
//	{ "name": "Alice", "email": "alice@example.com", "course": "Physics" }
//
// Response 200, the stored record:
//
//	{ "id": 1, "name": "Alice", "email": "alice@example.com", "course": "Physics" }
//
// Any "id" in the body is ignored. Field contents are not checked beyond
// the column width, so empty names and odd emails are stored as given.
//
//	400  empty body, malformed JSON, or a field longer than its column
//	500  data store failure
func New(store storage.Storage, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := middleware.Logger(r.Context())

		// MaxBytesReader turns an oversized body into a decode error instead
		// of reading it all into memory.
		var req createRequest
		err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req)
		// Decode returns exactly io.EOF only when the body had no bytes at all.
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errEmptyBody))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		// Only the column widths are checked. Empty and odd values pass.
		if err := validate.Struct(req); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(verrs))
				return
			}
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		student := req.student()

		// The store call gets its own deadline on top of the request context,
		// so a stalled database cannot hold the handler past timeout.
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		// CreateStudent fills in student.ID. The cause of a failure is logged
		// here and never returned to the client.
		if err := store.CreateStudent(ctx, &student); err != nil {
			log.Error("failed to create student", logger.Err(err))
			response.WriteJSON(w, http.StatusInternalServerError, response.InternalError())
			return
		}

		log.Info("student created", slog.Uint64("id", student.ID))
		response.WriteJSON(w, http.StatusOK, student)
	}
}

// GetList handles GET /api/users.
//
// Response 200 is a JSON array of every stored student, [] when there are
// none. No ordering, paging or filtering.
//
//	500  data store failure
func GetList(store storage.Storage, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := middleware.Logger(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		students, err := store.ListStudents(ctx)
		if err != nil {
			log.Error("failed to list students", logger.Err(err))
			response.WriteJSON(w, http.StatusInternalServerError, response.InternalError())
			return
		}
		// Encode [] rather than null for an empty table.
		if students == nil {
			students = []types.Student{}
		}

		log.Debug("students listed", slog.Int("count", len(students)))
		response.WriteJSON(w, http.StatusOK, students)
	}
}
