package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"teacher-service/internal/teacher"

	"github.com/go-chi/chi/v5"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"list", "details", "new", "edit", "delete", "notfound"}

// Pages renders the HTML surface over the same teacher service the JSON API uses.
type Pages struct {
	service   teacher.Service
	logger    *slog.Logger
	templates map[string]*template.Template
}

func NewPages(service teacher.Service, logger *slog.Logger) (*Pages, error) {
	templates := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		templates[name] = tmpl
	}

	return &Pages{
		service:   service,
		logger:    logger,
		templates: templates,
	}, nil
}

var funcs = template.FuncMap{
	"phone": func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	},
	"money": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 2, 64)
	},
	"fieldError": func(err *teacher.ValidationError, field string) string {
		if err == nil || err.Field != field {
			return ""
		}
		return err.Message
	},
}

func (p *Pages) RegisterRoutes(router chi.Router) {
	router.Route("/teachers", func(r chi.Router) {
		r.Get("/", p.List)
		r.Get("/new", p.New)
		r.Post("/new", p.Create)
		r.Get("/{id}", p.Details)
		r.Get("/{id}/edit", p.Edit)
		r.Post("/{id}/edit", p.Update)
		r.Get("/{id}/delete", p.ConfirmDelete)
		r.Post("/{id}/delete", p.Delete)
	})
}

type pageData struct {
	Title    string
	Flash    string
	Teachers []teacher.Teacher
	Teacher  *teacher.Teacher
	Form     teacherForm
	Error    *teacher.ValidationError
	ID       int
}

func (p *Pages) List(w http.ResponseWriter, r *http.Request) {
	teachers, err := p.service.List(r.Context())
	if err != nil {
		p.renderServiceError(w, r, err)
		return
	}

	p.render(w, r, http.StatusOK, "list", pageData{
		Title:    "Teachers",
		Flash:    popFlash(w, r),
		Teachers: teachers,
	})
}

func (p *Pages) Details(w http.ResponseWriter, r *http.Request) {
	id, ok := p.pathID(w, r)
	if !ok {
		return
	}

	t, err := p.service.Get(r.Context(), id)
	if err != nil {
		p.renderServiceError(w, r, err)
		return
	}

	p.render(w, r, http.StatusOK, "details", pageData{
		Title:   "Teacher details",
		Flash:   popFlash(w, r),
		Teacher: t,
		ID:      id,
	})
}

func (p *Pages) New(w http.ResponseWriter, r *http.Request) {
	p.render(w, r, http.StatusOK, "new", pageData{Title: "New teacher"})
}

func (p *Pages) Create(w http.ResponseWriter, r *http.Request) {
	form, t, err := parseTeacherForm(r)
	if err == nil {
		_, err = p.service.Create(r.Context(), t)
	}
	if err != nil {
		p.renderFormError(w, r, "new", pageData{Title: "New teacher", Form: form}, err)
		return
	}

	setFlash(w, "Teacher added.")
	http.Redirect(w, r, "/teachers", http.StatusSeeOther)
}

func (p *Pages) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := p.pathID(w, r)
	if !ok {
		return
	}

	t, err := p.service.Get(r.Context(), id)
	if err != nil {
		p.renderServiceError(w, r, err)
		return
	}

	p.render(w, r, http.StatusOK, "edit", pageData{
		Title: "Edit teacher",
		Form:  formFromTeacher(t),
		ID:    id,
	})
}

func (p *Pages) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := p.pathID(w, r)
	if !ok {
		return
	}

	form, t, err := parseTeacherForm(r)
	if err == nil {
		err = p.service.Update(r.Context(), id, t)
	}
	if err != nil {
		p.renderFormError(w, r, "edit", pageData{Title: "Edit teacher", Form: form, ID: id}, err)
		return
	}

	setFlash(w, "Teacher updated.")
	http.Redirect(w, r, fmt.Sprintf("/teachers/%d", id), http.StatusSeeOther)
}

func (p *Pages) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := p.pathID(w, r)
	if !ok {
		return
	}

	t, err := p.service.Get(r.Context(), id)
	if err != nil && !errors.Is(err, teacher.ErrTeacherNotFound) {
		p.renderServiceError(w, r, err)
		return
	}

	status := http.StatusOK
	if t == nil {
		status = http.StatusNotFound
	}
	p.render(w, r, status, "delete", pageData{
		Title:   "Delete teacher",
		Teacher: t,
		ID:      id,
	})
}

func (p *Pages) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := p.pathID(w, r)
	if !ok {
		return
	}

	err := p.service.Delete(r.Context(), id)
	switch {
	case err == nil:
		setFlash(w, "Teacher deleted.")
	case errors.Is(err, teacher.ErrTeacherNotFound):
		setFlash(w, "Teacher not found.")
	default:
		p.renderServiceError(w, r, err)
		return
	}

	http.Redirect(w, r, "/teachers", http.StatusSeeOther)
}

func (p *Pages) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		p.render(w, r, http.StatusNotFound, "notfound", pageData{Title: "Not found"})
		return 0, false
	}
	return id, true
}

// renderFormError re-renders a form with the submitted values when the
// failure belongs to the user; anything else goes to renderServiceError.
func (p *Pages) renderFormError(w http.ResponseWriter, r *http.Request, page string, data pageData, err error) {
	var (
		validationErr *teacher.ValidationError
		conflictErr   *teacher.ConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		data.Error = validationErr
		p.render(w, r, http.StatusBadRequest, page, data)
	case errors.As(err, &conflictErr):
		data.Error = &teacher.ValidationError{Field: conflictErr.Field, Message: conflictErr.Error()}
		p.render(w, r, http.StatusConflict, page, data)
	default:
		p.renderServiceError(w, r, err)
	}
}

func (p *Pages) renderServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, teacher.ErrTeacherNotFound) {
		p.render(w, r, http.StatusNotFound, "notfound", pageData{Title: "Not found"})
		return
	}

	p.logger.ErrorContext(r.Context(), "page request failed", "path", r.URL.Path, "error", err)
	http.Error(w, "Something went wrong. Please try again later.", http.StatusInternalServerError)
}

func (p *Pages) render(w http.ResponseWriter, r *http.Request, status int, page string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := p.templates[page].ExecuteTemplate(w, "layout", data); err != nil {
		p.logger.ErrorContext(r.Context(), "failed to render page", "page", page, "error", err)
	}
}
