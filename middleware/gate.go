package middleware

import (
	"context"
	"net/http"

	"github.com/medimart/medi-server/utils"
)

// Rejection is a terminal gate outcome written as the response
type Rejection struct {
	Status  int
	Message string
}

// Error implements the error interface
func (r *Rejection) Error() string {
	return r.Message
}

// Unauthenticated rejects with 401
func Unauthenticated(message string) *Rejection {
	return &Rejection{Status: http.StatusUnauthorized, Message: message}
}

// Forbidden rejects with 403
func Forbidden(message string) *Rejection {
	return &Rejection{Status: http.StatusForbidden, Message: message}
}

// Internal rejects with 500 and a generic message
func Internal() *Rejection {
	return &Rejection{Status: http.StatusInternalServerError, Message: "Internal server error"}
}

// Gate inspects a request and either returns the context for the next stage or a rejection
type Gate interface {
	Check(r *http.Request) (context.Context, *Rejection)
}

// GateFunc adapts a function to the Gate interface
type GateFunc func(r *http.Request) (context.Context, *Rejection)

// Check calls f(r)
func (f GateFunc) Check(r *http.Request) (context.Context, *Rejection) {
	return f(r)
}

// Guard runs gates strictly in order. The first rejection ends the request;
// otherwise each gate sees the context produced by the one before it.
func Guard(gates ...Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, gate := range gates {
				ctx, rejection := gate.Check(r)
				if rejection != nil {
					_ = utils.WriteError(w, rejection.Status, rejection.Message, nil)
					return
				}
				if ctx != nil {
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
