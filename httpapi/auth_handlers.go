package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"github.com/tasknest/tasknest/auth"
	"github.com/tasknest/tasknest/core"
	"github.com/tasknest/tasknest/storage"
)

const minPasswordLength = 8

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	UserID core.ID `json:"user_id"`
	Token  string  `json:"token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, fmt.Errorf("%w: invalid json", errBadRequest))
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))
	if _, err := mail.ParseAddress(body.Email); err != nil {
		writeError(w, fmt.Errorf("%w: invalid email", errBadRequest))
		return
	}
	if len(body.Password) < minPasswordLength {
		writeError(w, fmt.Errorf("%w: password must be at least %d characters", errBadRequest, minPasswordLength))
		return
	}

	hash, err := auth.HashPassword(body.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	user := &core.User{
		Email:        body.Email,
		PasswordHash: hash,
	}
	if err := core.ValidateUser(user); err != nil {
		writeError(w, err)
		return
	}

	user, err = s.users.AddUser(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := auth.GenerateToken(s.secret, user.Id, s.tokenTTL)
	if err != nil {
		writeError(w, err)
		return
	}

	s.logger.Info("user registered", "user", user.Id)
	writeJSON(w, http.StatusCreated, tokenResponse{UserID: user.Id, Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, fmt.Errorf("%w: invalid json", errBadRequest))
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	user, err := s.users.GetUserByEmail(r.Context(), body.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Same answer as a wrong password
			writeError(w, auth.ErrInvalidCredentials)
			return
		}
		writeError(w, err)
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, body.Password); err != nil {
		writeError(w, err)
		return
	}

	token, err := auth.GenerateToken(s.secret, user.Id, s.tokenTTL)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{UserID: user.Id, Token: token})
}
