package http

import (
	"net/http"

	"github.com/marketloop/auth-service/internal/application"
)

// verifyEmailBody accepts both historic field names for the code; the
// boundary resolves them into one canonical value before the engine runs.
type verifyEmailBody struct {
	Email            string `json:"email"`
	Code             string `json:"code"`
	VerificationCode string `json:"verification_code"`
}

func (h *Handler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailBody
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "verify_email", err)
		return
	}
	code := req.Code
	if code == "" {
		code = req.VerificationCode
	}

	res, err := h.service.VerifyEmail(r.Context(), application.VerifyEmailRequest{
		Email: req.Email,
		Code:  code,
	})
	if err != nil {
		writeMappedError(r.Context(), w, "verify_email", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) resendVerification(w http.ResponseWriter, r *http.Request) {
	var req emailBody
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "resend_verification", err)
		return
	}
	if err := h.service.ResendVerification(r.Context(), req.Email); err != nil {
		writeMappedError(r.Context(), w, "resend_verification", err)
		return
	}
	writeMessage(w, http.StatusOK, uniformRecoveryMessage)
}
