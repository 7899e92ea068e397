package auth

import (
	"errors"
	"net/http"

	"github.com/medimart/medi-server/utils"
	"go.uber.org/zap"
)

// TokenResponse is the body returned by the token endpoint
type TokenResponse struct {
	Token string `json:"token"`
}

// Handler serves token issuance
type Handler struct {
	issuer      *Issuer
	credentials CredentialVerifier
	logger      *zap.Logger
}

// NewHandler creates a new auth handler. A nil verifier trusts every payload.
func NewHandler(issuer *Issuer, credentials CredentialVerifier, logger *zap.Logger) *Handler {
	if credentials == nil {
		credentials = TrustVerifier{}
	}
	return &Handler{
		issuer:      issuer,
		credentials: credentials,
		logger:      logger,
	}
}

// HandleIssueToken signs the posted identity payload after credential verification
func (h *Handler) HandleIssueToken(w http.ResponseWriter, r *http.Request) {
	var payload Payload
	if err := utils.DecodeJSON(r, &payload); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if payload == nil {
		_ = utils.WriteBadRequest(w, "Identity payload must be a JSON object", nil)
		return
	}

	signed, err := h.credentials.Verify(r.Context(), payload)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			h.logger.Info("token request rejected", zap.String("email", payload.Email()))
			_ = utils.WriteUnauthorized(w, "Invalid credentials")
			return
		}
		h.logger.Error("credential verification failed", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	token, err := h.issuer.Issue(signed)
	if err != nil {
		h.logger.Error("failed to issue token", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	h.logger.Debug("token issued", zap.String("email", signed.Email()))
	// Existing clients read the token at the top level, so no data envelope here
	_ = utils.WriteJSON(w, http.StatusOK, TokenResponse{Token: token})
}
