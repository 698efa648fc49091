package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	username      string
	passwordHash  []byte
	jwtSecret     string
	tokenDuration time.Duration
}

// NewAuthHandler creates the admin login handler. When passwordHash is empty
// the plain password is hashed once here so the login path only ever compares
// bcrypt hashes.
func NewAuthHandler(username, password, passwordHash, jwtSecret string, tokenDuration time.Duration) (*AuthHandler, error) {
	hash := []byte(passwordHash)
	if passwordHash == "" {
		if password == "" {
			return nil, fmt.Errorf("admin password or password hash is required")
		}
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		hash = h
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, fmt.Errorf("invalid admin password hash: %w", err)
	}

	return &AuthHandler{username: username, passwordHash: hash, jwtSecret: jwtSecret, tokenDuration: tokenDuration}, nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    string `json:"user"`
}

// Login accepts form fields or a JSON body with username and password.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid form data")
			return
		}
		req.Username = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	// compare the hash even on a wrong username so both failures cost the same
	pwErr := bcrypt.CompareHashAndPassword(h.passwordHash, []byte(req.Password))
	if req.Username != h.username || pwErr != nil {
		logger.Warn("admin login failed", slog.String("username", req.Username), slog.String("remote", r.RemoteAddr))
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	tokenStr, err := h.issueToken(time.Now())
	if err != nil {
		internalError(w, r, "sign admin token", err)
		return
	}

	writeJSON(w, loginResponse{Message: "Login successful", Token: tokenStr, User: h.username}, http.StatusOK)
}

func (h *AuthHandler) issueToken(now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  h.username,
		"role": adminRole,
		"iat":  now.Unix(),
		"exp":  now.Add(h.tokenDuration).Unix(),
	})
	return token.SignedString([]byte(h.jwtSecret))
}
