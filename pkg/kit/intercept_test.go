package kit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestIntercept_RunsInOrderAndContinues(t *testing.T) {
	var order []string
	record := func(name string) Interceptor {
		return func(*http.Request) *Reply {
			order = append(order, name)
			return nil
		}
	}

	h := Intercept(record("logger"), record("auth"))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		order = append(order, "handler")
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"logger", "auth", "handler"}, order)
}

func TestIntercept_ShortCircuit(t *testing.T) {
	called := false
	stop := func(*http.Request) *Reply {
		return &Reply{Status: http.StatusUnauthorized, Body: ErrorResponse{Message: "Unauthorized"}}
	}
	never := func(*http.Request) *Reply {
		t.Fatal("interceptor after short-circuit must not run")
		return nil
	}

	h := Intercept(stop, never)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Unauthorized", body.Message)
}

func TestRequestLogger_LogsOneLinePerRequest(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ic := RequestLogger(zap.New(core))

	before := time.Now().UTC().Add(-time.Second)
	assert.Nil(t, ic(httptest.NewRequest(http.MethodDelete, "/api/products/1?force=1", nil)))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "request", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, http.MethodDelete, fields["method"])
	assert.Equal(t, "/api/products/1?force=1", fields["path"])

	stamp, ok := fields["time"].(string)
	require.True(t, ok, "time field missing: %v", fields)
	ts, err := time.Parse(time.RFC3339Nano, stamp)
	require.NoError(t, err)
	assert.True(t, ts.After(before), "time=%s", stamp)
}
