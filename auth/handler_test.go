package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubVerifier struct {
	err error
}

func (s stubVerifier) Verify(ctx context.Context, payload Payload) (Payload, error) {
	if s.err != nil {
		return nil, s.err
	}
	return payload, nil
}

func TestHandler_HandleIssueToken(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		verifier   CredentialVerifier
		wantStatus int
	}{
		{name: "trusted payload", body: `{"email":"ana@example.com"}`, wantStatus: http.StatusOK},
		{name: "payload without email", body: `{"name":"x"}`, wantStatus: http.StatusOK},
		{name: "malformed body", body: `{"email":`, wantStatus: http.StatusBadRequest},
		{name: "null body", body: `null`, wantStatus: http.StatusBadRequest},
		{name: "array body", body: `[1,2]`, wantStatus: http.StatusBadRequest},
		{
			name:       "rejected credentials",
			body:       `{"email":"ana@example.com","password":"x"}`,
			verifier:   stubVerifier{err: ErrInvalidCredentials},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "store failure",
			body:       `{"email":"ana@example.com","password":"x"}`,
			verifier:   stubVerifier{err: errors.New("connection reset")},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issuer, verifier := newTestPair(t, "secret")
			handler := NewHandler(issuer, tt.verifier, zap.NewNop())

			req := httptest.NewRequest(http.MethodPost, "/jwt", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			handler.HandleIssueToken(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp map[string]interface{}
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.NotContains(t, resp, "data")
			token, ok := resp["token"].(string)
			require.True(t, ok, "token must be a top-level string")
			_, err := verifier.Verify(token)
			assert.NoError(t, err)
		})
	}
}
