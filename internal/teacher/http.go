package teacher

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"teacher-service/internal/httputil"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Route("/teacher", func(r chi.Router) {
		r.Get("/", h.ListTeachers)
		r.Post("/", h.CreateTeacher)
		r.Get("/exists/empno/{empNo}", h.EmployeeNumberExists)
		r.Get("/{id}", h.GetTeacher)
		r.Put("/{id}", h.UpdateTeacher)
		r.Delete("/{id}", h.DeleteTeacher)
	})
}

func (h *Handler) ListTeachers(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "fetching all teachers")

	teachers, err := h.service.List(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, teachers)
}

func (h *Handler) GetTeacher(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "fetching teacher", "teacher_id", id)
	teacher, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, teacher)
}

func (h *Handler) EmployeeNumberExists(w http.ResponseWriter, r *http.Request) {
	empNo := chi.URLParam(r, "empNo")

	exists, err := h.service.EmployeeNumberExists(r.Context(), empNo)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, exists)
}

func (h *Handler) CreateTeacher(w http.ResponseWriter, r *http.Request) {
	var teacher Teacher
	if !h.decode(w, r, &teacher) {
		return
	}

	h.logger.InfoContext(r.Context(), "creating teacher", "employee_number", teacher.EmployeeNumber)
	created, err := h.service.Create(r.Context(), &teacher)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("%s/%d", teacherCollectionPath(r), created.ID))
	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateTeacher(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var teacher Teacher
	if !h.decode(w, r, &teacher) {
		return
	}

	h.logger.InfoContext(r.Context(), "updating teacher", "teacher_id", id)
	if err := h.service.Update(r.Context(), id, &teacher); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteTeacher(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "deleting teacher", "teacher_id", id)
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid teacher ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, teacher *Teacher) bool {
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(teacher)
	if errors.Is(err, io.EOF) {
		httputil.RespondWithError(w, http.StatusBadRequest, "Teacher data is required.")
		return false
	}
	if err == nil && dec.More() {
		err = errors.New("unexpected data after JSON body")
	}
	if err != nil {
		h.logger.WarnContext(r.Context(), "failed to decode request", "error", err)
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *ValidationError
		notFoundErr   *NotFoundError
		conflictErr   *ConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		h.logger.InfoContext(r.Context(), "invalid input", "field", validationErr.Field, "reason", validationErr.Message)
		httputil.RespondWithFieldError(w, http.StatusBadRequest, validationErr.Field, validationErr.Message)
	case errors.As(err, &notFoundErr):
		h.logger.InfoContext(r.Context(), "teacher not found", "teacher_id", notFoundErr.ID)
		httputil.RespondWithError(w, http.StatusNotFound, "Teacher not found.")
	case errors.As(err, &conflictErr):
		h.logger.InfoContext(r.Context(), "employee number conflict")
		httputil.RespondWithFieldError(w, http.StatusConflict, conflictErr.Field, conflictErr.Error())
	default:
		h.logger.ErrorContext(r.Context(), "internal error", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// teacherCollectionPath is the mounted path of the collection, e.g. /api/teacher.
func teacherCollectionPath(r *http.Request) string {
	path := r.URL.Path
	for len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	return path
}
