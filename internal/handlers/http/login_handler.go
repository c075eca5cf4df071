// internal/handlers/http/login_handler.go
package http

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"dca-reserves/internal/config"
	"dca-reserves/internal/middleware"
)

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"` // epoch seconds
	User      string `json:"user"`
	Role      string `json:"role"`
}

// NewLoginHandler menukar username/password admin (bcrypt) dengan JWT 24 jam.
func NewLoginHandler(admin config.Admin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in loginReq
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if admin.User == "" || admin.PassHash == "" || admin.JWTSecret == "" {
			http.Error(w, "admin not configured", http.StatusForbidden)
			return
		}
		if subtle.ConstantTimeCompare([]byte(in.Username), []byte(admin.User)) != 1 {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(admin.PassHash), []byte(in.Password)) != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		token, exp, err := middleware.GenerateAdminToken(admin.JWTSecret, admin.User, 24*time.Hour)
		if err != nil {
			http.Error(w, "token error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(loginResp{
			Token:     token,
			ExpiresAt: exp,
			User:      admin.User,
			Role:      "admin",
		})
	}
}
