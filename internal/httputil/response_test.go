package httputil_test

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"teacher-service/internal/httputil"

	"github.com/stretchr/testify/assert"
)

func TestRespondWithJSON(t *testing.T) {
	t.Run("Encodes", func(t *testing.T) {
		w := httptest.NewRecorder()
		httputil.RespondWithJSON(w, http.StatusCreated, map[string]int{"id": 1})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"id":1}`, w.Body.String())
	})

	t.Run("UnencodablePayload", func(t *testing.T) {
		w := httptest.NewRecorder()
		httputil.RespondWithJSON(w, http.StatusOK, map[string]float64{"salary": math.Inf(1)})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
	})

	t.Run("FieldError", func(t *testing.T) {
		w := httptest.NewRecorder()
		httputil.RespondWithFieldError(w, http.StatusBadRequest, "salary", "Salary must be >= 0.")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Salary must be >= 0.","field":"salary"}`, w.Body.String())
	})
}
