package server

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type tokenRequest struct {
	Secret string `json:"secret"`
	UserID string `json:"user_id,omitempty"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// handleAuthToken exchanges the shared secret for a short-lived JWT.
func (s *Server) handleAuthToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.Secret), []byte(s.secret)) != 1 {
		s.logger.Warn("auth token request with invalid secret", "ip", clientIP(r))
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid secret")
		return
	}
	if !s.gate.UserAllowed(req.UserID) {
		s.logger.Warn("auth token request from unauthorized user", "user", req.UserID, "ip", clientIP(r))
		writeError(w, http.StatusForbidden, "forbidden", "user not authorized")
		return
	}

	subject := req.UserID
	if subject == "" {
		subject = s.cfg.AgentID
	}
	expiry := time.Now().Add(time.Duration(s.cfg.JWTExpiryMinutes) * time.Minute)
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiry),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		s.logger.Error("failed to sign token", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: signed, ExpiresAt: expiry})
}

// authMiddleware rejects requests without a valid token. Websocket
// clients cannot always set headers, so a token query parameter is
// accepted when the Authorization header is absent.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error
		if header := r.Header.Get("Authorization"); header != "" {
			err = s.verifyBearer(header)
		} else if raw := r.URL.Query().Get("token"); raw != "" {
			err = s.verifyToken(raw)
		} else {
			err = fmt.Errorf("missing bearer token")
		}
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) verifyBearer(header string) error {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return fmt.Errorf("missing bearer token")
	}
	return s.verifyToken(raw)
}

func (s *Server) verifyToken(raw string) error {
	_, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return fmt.Errorf("invalid token")
	}
	return nil
}
