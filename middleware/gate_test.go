package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type orderKey struct{}

func appendGate(name string, order *[]string) Gate {
	return GateFunc(func(r *http.Request) (context.Context, *Rejection) {
		*order = append(*order, name)
		seen, _ := r.Context().Value(orderKey{}).(string)
		return context.WithValue(r.Context(), orderKey{}, seen+name), nil
	})
}

func TestGuard_RunsGatesInOrder(t *testing.T) {
	var order []string
	var seen string

	handler := Guard(appendGate("a", &order), appendGate("b", &order), appendGate("c", &order))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = r.Context().Value(orderKey{}).(string)
			w.WriteHeader(http.StatusNoContent)
		}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, "abc", seen)
}

func TestGuard_StopsAtFirstRejection(t *testing.T) {
	var order []string
	reject := GateFunc(func(r *http.Request) (context.Context, *Rejection) {
		order = append(order, "reject")
		return nil, Forbidden("nope")
	})
	called := false

	handler := Guard(appendGate("a", &order), reject, appendGate("c", &order))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"forbidden","message":"nope"}`, w.Body.String())
	assert.Equal(t, []string{"a", "reject"}, order)
	assert.False(t, called)
}

func TestGuard_NoGates(t *testing.T) {
	handler := Guard()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestRejection(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, Unauthenticated("x").Status)
	assert.Equal(t, http.StatusForbidden, Forbidden("x").Status)
	assert.Equal(t, http.StatusInternalServerError, Internal().Status)
	assert.Equal(t, "x", Forbidden("x").Error())
}
