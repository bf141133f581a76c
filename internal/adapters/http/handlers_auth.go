package http

import (
	"net/http"

	"github.com/marketloop/auth-service/internal/application"
)

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req application.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "login", err)
		return
	}
	if req.IP == "" {
		req.IP = readIP(r)
	}
	if req.Device == "" {
		req.Device = r.UserAgent()
	}

	res, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "login", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

type refreshTokenBody struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshTokenBody
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "refresh", err)
		return
	}
	res, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeMappedError(r.Context(), w, "refresh", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	var req refreshTokenBody
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "logout", err)
		return
	}
	res, err := h.service.Logout(r.Context(), req.RefreshToken)
	if err != nil {
		writeMappedError(r.Context(), w, "logout", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) logoutAll(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "logout_all")
		return
	}
	res, err := h.service.LogoutAll(r.Context(), claims.UserID)
	if err != nil {
		writeMappedError(r.Context(), w, "logout_all", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) logoutOthers(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "logout_others")
		return
	}
	var req refreshTokenBody
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "logout_others", err)
		return
	}
	res, err := h.service.LogoutOthers(r.Context(), claims.UserID, req.RefreshToken)
	if err != nil {
		writeMappedError(r.Context(), w, "logout_others", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) listSessions(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "list_sessions")
		return
	}
	limit := parseIntDefault(r.URL.Query().Get("limit"), 50)
	offset := parseIntDefault(r.URL.Query().Get("offset"), 0)

	res, err := h.service.ListSessions(r.Context(), claims.UserID, limit, offset)
	if err != nil {
		writeMappedError(r.Context(), w, "list_sessions", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}
