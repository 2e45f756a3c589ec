package teacher_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"teacher-service/internal/httputil"
	"teacher-service/internal/teacher"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (chi.Router, serviceFixture) {
	t.Helper()

	f := setupService(t)
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	handler := teacher.NewHandler(f.service, logger)

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		handler.RegisterRoutes(r)
	})
	return router, f
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var response httputil.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	return response
}

const alexJSON = `{"firstName":"Alex","lastName":"Morgan","employeeNumber":"T5005","hireDate":"2020-09-01","salary":65000,"workPhone":"555-0100"}`

func TestTeacherHandler(t *testing.T) {
	t.Run("CreateTeacher_Success", func(t *testing.T) {
		router, _ := setupRouter(t)

		w := doJSON(t, router, http.MethodPost, "/api/teacher", alexJSON)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "/api/teacher/1", w.Header().Get("Location"))

		var created teacher.Teacher
		require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
		assert.Equal(t, 1, created.ID)
		assert.Equal(t, "T5005", created.EmployeeNumber)
		assert.Equal(t, "2020-09-01", created.HireDate.String())
	})

	t.Run("CreateTeacher_InvalidEmployeeNumber", func(t *testing.T) {
		router, f := setupRouter(t)

		body := strings.Replace(alexJSON, `"T5005"`, `"5005"`, 1)
		w := doJSON(t, router, http.MethodPost, "/api/teacher", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		response := decodeError(t, w)
		assert.Equal(t, "employeeNumber", response.Field)
		assert.Equal(t, "Employee number must start with 'T' followed by digits (e.g., T5005).", response.Error)
		assert.Zero(t, countTeachers(t, f.db))
	})

	t.Run("CreateTeacher_Duplicate", func(t *testing.T) {
		router, f := setupRouter(t)

		require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/api/teacher", alexJSON).Code)
		w := doJSON(t, router, http.MethodPost, "/api/teacher", alexJSON)

		assert.Equal(t, http.StatusConflict, w.Code)
		response := decodeError(t, w)
		assert.Equal(t, "employeeNumber", response.Field)
		assert.Equal(t, "Employee number already exists.", response.Error)
		assert.Equal(t, 1, countTeachers(t, f.db))
	})

	t.Run("CreateTeacher_EmptyBody", func(t *testing.T) {
		router, _ := setupRouter(t)

		w := doJSON(t, router, http.MethodPost, "/api/teacher", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Teacher data is required.", decodeError(t, w).Error)
	})

	t.Run("CreateTeacher_NullBody", func(t *testing.T) {
		router, _ := setupRouter(t)

		w := doJSON(t, router, http.MethodPost, "/api/teacher", "null")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("CreateTeacher_MalformedJSON", func(t *testing.T) {
		router, _ := setupRouter(t)

		w := doJSON(t, router, http.MethodPost, "/api/teacher", `{"firstName":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid request body", decodeError(t, w).Error)
	})

	t.Run("CreateTeacher_BadHireDateFormat", func(t *testing.T) {
		router, _ := setupRouter(t)

		body := strings.Replace(alexJSON, `"2020-09-01"`, `"09/01/2020"`, 1)
		w := doJSON(t, router, http.MethodPost, "/api/teacher", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("CreateTeacher_SalaryAboveColumnLimit", func(t *testing.T) {
		router, f := setupRouter(t)

		body := strings.Replace(alexJSON, `"salary":65000`, `"salary":100000000`, 1)
		w := doJSON(t, router, http.MethodPost, "/api/teacher", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "salary", decodeError(t, w).Field)
		assert.Zero(t, countTeachers(t, f.db))

		list := doJSON(t, router, http.MethodGet, "/api/teacher", nil)
		assert.Equal(t, http.StatusOK, list.Code)
		assert.JSONEq(t, `[]`, list.Body.String())
	})

	t.Run("CreateTeacher_TrailingGarbage", func(t *testing.T) {
		router, f := setupRouter(t)

		w := doJSON(t, router, http.MethodPost, "/api/teacher", alexJSON+"xyz")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid request body", decodeError(t, w).Error)
		assert.Zero(t, countTeachers(t, f.db))
	})

	t.Run("CreateTeacher_TrailingWhitespace", func(t *testing.T) {
		router, _ := setupRouter(t)

		w := doJSON(t, router, http.MethodPost, "/api/teacher", alexJSON+"\n")
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("UpdateTeacher_TrailingSecondObject", func(t *testing.T) {
		router, _ := setupRouter(t)
		require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/api/teacher", alexJSON).Code)

		w := doJSON(t, router, http.MethodPut, "/api/teacher/1", alexJSON+alexJSON)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("GetTeacher", func(t *testing.T) {
		router, _ := setupRouter(t)
		require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/api/teacher", alexJSON).Code)

		w := doJSON(t, router, http.MethodGet, "/api/teacher/1", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var got map[string]interface{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, float64(1), got["id"])
		assert.Equal(t, "Alex", got["firstName"])
		assert.Equal(t, "2020-09-01", got["hireDate"])
		assert.Equal(t, "555-0100", got["workPhone"])
	})

	t.Run("GetTeacher_NotFound", func(t *testing.T) {
		router, _ := setupRouter(t)

		w := doJSON(t, router, http.MethodGet, "/api/teacher/999", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Teacher not found.", decodeError(t, w).Error)
	})

	t.Run("GetTeacher_InvalidID", func(t *testing.T) {
		router, _ := setupRouter(t)

		w := doJSON(t, router, http.MethodGet, "/api/teacher/abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ListTeachers", func(t *testing.T) {
		router, _ := setupRouter(t)

		w := doJSON(t, router, http.MethodGet, "/api/teacher", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())

		require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/api/teacher", alexJSON).Code)
		second := strings.Replace(alexJSON, `"T5005"`, `"T6006"`, 1)
		require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/api/teacher", second).Code)

		w = doJSON(t, router, http.MethodGet, "/api/teacher", nil)
		var teachers []teacher.Teacher
		require.NoError(t, json.NewDecoder(w.Body).Decode(&teachers))
		require.Len(t, teachers, 2)
		assert.Equal(t, 1, teachers[0].ID)
		assert.Equal(t, 2, teachers[1].ID)
	})

	t.Run("EmployeeNumberExists", func(t *testing.T) {
		router, _ := setupRouter(t)

		w := doJSON(t, router, http.MethodGet, "/api/teacher/exists/empno/T5005", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `false`, w.Body.String())

		require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/api/teacher", alexJSON).Code)

		w = doJSON(t, router, http.MethodGet, "/api/teacher/exists/empno/T5005", nil)
		assert.JSONEq(t, `true`, w.Body.String())
	})

	t.Run("UpdateTeacher", func(t *testing.T) {
		router, _ := setupRouter(t)
		require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/api/teacher", alexJSON).Code)

		body := `{"id":1,"firstName":"Alexis","lastName":"Morgan","employeeNumber":"T5005","hireDate":"2020-09-01","salary":70000,"workPhone":null}`
		w := doJSON(t, router, http.MethodPut, "/api/teacher/1", body)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doJSON(t, router, http.MethodGet, "/api/teacher/1", nil)
		var got teacher.Teacher
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, "Alexis", got.FirstName)
		assert.InDelta(t, 70000.0, got.Salary, 0.001)
		assert.Nil(t, got.WorkPhone)
	})

	t.Run("UpdateTeacher_IDMismatch", func(t *testing.T) {
		router, _ := setupRouter(t)

		body := strings.Replace(alexJSON, `{`, `{"id":6,`, 1)
		w := doJSON(t, router, http.MethodPut, "/api/teacher/5", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "id", decodeError(t, w).Field)
	})

	t.Run("UpdateTeacher_NotFound", func(t *testing.T) {
		router, _ := setupRouter(t)

		w := doJSON(t, router, http.MethodPut, "/api/teacher/5", alexJSON)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("UpdateTeacher_Conflict", func(t *testing.T) {
		router, _ := setupRouter(t)
		require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/api/teacher", alexJSON).Code)
		second := strings.Replace(alexJSON, `"T5005"`, `"T6006"`, 1)
		require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/api/teacher", second).Code)

		w := doJSON(t, router, http.MethodPut, "/api/teacher/2", alexJSON)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("DeleteTeacher", func(t *testing.T) {
		router, _ := setupRouter(t)
		require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/api/teacher", alexJSON).Code)

		w := doJSON(t, router, http.MethodDelete, "/api/teacher/1", nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doJSON(t, router, http.MethodDelete, "/api/teacher/1", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("DeleteTeacher_InvalidID", func(t *testing.T) {
		router, _ := setupRouter(t)

		w := doJSON(t, router, http.MethodDelete, "/api/teacher/x", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
