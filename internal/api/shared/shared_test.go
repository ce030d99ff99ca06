package shared

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceID(t *testing.T) {
	t.Run("set and get", func(t *testing.T) {
		ctx := context.Background()
		assert.Empty(t, GetTraceID(ctx))

		withTrace := SetTraceID(ctx)
		traceID := GetTraceID(withTrace)
		assert.Len(t, traceID, 2*TraceIDLength)

		_, err := hex.DecodeString(traceID)
		assert.NoError(t, err)

		// Parent context stays untouched.
		assert.Empty(t, GetTraceID(ctx))
	})

	t.Run("non-string context value", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), TraceIDKey, 123)
		assert.Empty(t, GetTraceID(ctx))
	})

	t.Run("ids are unique", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			id := GetTraceID(SetTraceID(context.Background()))
			assert.False(t, seen[id])
			seen[id] = true
		}
	})

	t.Run("fallback is valid hex", func(t *testing.T) {
		id := generateFallbackTraceID()
		require.Len(t, id, 2*TraceIDLength)
		_, err := hex.DecodeString(id)
		assert.NoError(t, err)
	})
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("valid body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))

		var p payload
		require.NoError(t, DecodeJSON(r, &p))
		assert.Equal(t, "x", p.Name)
	})

	t.Run("malformed body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{not json`))

		var p payload
		assert.Error(t, DecodeJSON(r, &p))
	})
}

func TestValidateRequest(t *testing.T) {
	type tagged struct {
		Email string `validate:"required,email"`
	}

	t.Run("struct tags pass", func(t *testing.T) {
		assert.NoError(t, ValidateRequest(tagged{Email: "a@x.com"}))
	})

	t.Run("struct tags fail", func(t *testing.T) {
		assert.Error(t, ValidateRequest(tagged{Email: "not-an-email"}))
	})
}

func TestRespondWithJSON(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	RespondWithJSON(w, r, http.StatusCreated, map[string]string{"id": "1"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "1", body["id"])
}

func TestRespondWithError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(SetTraceID(r.Context()))

	RespondWithError(w, r, http.StatusNotFound, "Task not found")

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Task not found", body.Error)
	assert.NotEmpty(t, body.TraceID)
}

func TestRespondWithErrorAndLog(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
		"Something went wrong", assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Something went wrong", body.Error)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}
