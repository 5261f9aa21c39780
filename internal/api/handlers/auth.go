package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mpetrov/taskhub/internal/api/middleware"
	"github.com/mpetrov/taskhub/internal/domain"
	"github.com/mpetrov/taskhub/internal/metrics"
	"github.com/mpetrov/taskhub/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	collector   *metrics.Collector
}

func NewAuthHandler(authService *service.AuthService, collector *metrics.Collector) *AuthHandler {
	return &AuthHandler{authService: authService, collector: collector}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.authService.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.collector.RecordRegistration()

	writeJSON(w, http.StatusCreated, AuthResponse{
		User:  result.User,
		Token: result.Token,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.collector.RecordLogin(false)
			// Uniform message regardless of whether the email or the
			// password was wrong.
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeServiceError(w, err)
		return
	}

	h.collector.RecordLogin(true)

	writeJSON(w, http.StatusOK, AuthResponse{
		User:  result.User,
		Token: result.Token,
	})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	writeJSON(w, http.StatusOK, map[string]*domain.User{"user": user})
}
