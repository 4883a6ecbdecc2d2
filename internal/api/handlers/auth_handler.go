package handlers

import (
	"net/http"

	middleware "github.com/markdave123-py/Appcraft/internal/api/middlewares"
	"github.com/markdave123-py/Appcraft/internal/apperr"
	"github.com/markdave123-py/Appcraft/internal/logger"
	"github.com/markdave123-py/Appcraft/internal/services"
)

type AuthHandler struct {
	users *services.UserService
	log   *logger.Logger
}

func NewAuthHandler(users *services.UserService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{users: users, log: log}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	User    any    `json:"user"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}

	res, err := h.users.Signup(r.Context(), services.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	h.log.Info("user signed up", "userId", res.User.ID)
	writeJSON(w, http.StatusCreated, authResponse{Success: true, Token: res.Token, User: res.User})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}

	res, err := h.users.Login(r.Context(), services.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		IP:        r.RemoteAddr,
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Success: true, Token: res.Token, User: res.User})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, h.log, apperr.ErrUnauthorized)
		return
	}
	user, err := h.users.Me(r.Context(), userID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}
