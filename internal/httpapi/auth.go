package httpapi

import (
	"errors"
	"net/http"

	"github.com/ShivanshKaul/ai-task-backend/internal/auth"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	if _, err := s.creds.Register(r.Context(), req.Username, req.Password); err != nil {
		s.log.Error(r.Context(), "register failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to register user")
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Success: true, Message: "User registered"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	account, err := s.creds.Authenticate(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		writeError(w, http.StatusBadRequest, "user_not_found", "User not found")
		return
	case errors.Is(err, auth.ErrBadCredentials):
		writeError(w, http.StatusBadRequest, "invalid_credentials", "Invalid credentials")
		return
	case err != nil:
		s.log.Error(r.Context(), "login failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to look up user")
		return
	}

	token, err := s.tokens.Issue(account.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}
