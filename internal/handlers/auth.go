package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"moodjournal/internal/models"
	"moodjournal/internal/store"
)

type AuthHandler struct {
	store     *store.Store
	jwtSecret []byte
	logger    *zap.Logger
}

func NewAuthHandler(s *store.Store, jwtSecret []byte, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{store: s, jwtSecret: jwtSecret, logger: logger}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("password hash failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	user, err := h.store.CreateUser(r.Context(), req.Username, req.Email, string(hashed))
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusConflict, "user already exists")
			return
		}
		h.logger.Error("create user failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	token, err := h.issueJWT(user.ID)
	if err != nil {
		h.logger.Error("token issue failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":              "User registered successfully",
		"access_token":         token,
		"user_id":              user.ID,
		"trial_days_remaining": models.TrialDays,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing email or password")
		return
	}

	user, err := h.store.UserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.logger.Error("login lookup failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.issueJWT(user.ID)
	if err != nil {
		h.logger.Error("token issue failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "Login successful",
		"access_token": token,
		"user_id":      user.ID,
		"username":     user.Username,
	})
}

func (h *AuthHandler) issueJWT(userID int) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.jwtSecret)
}
