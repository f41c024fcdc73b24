// Package auth guards graphd's mutating HTTP routes with a single
// hardcoded credential checked via HTTP Basic Auth. There is no user
// store, no tokens, and no roles — read routes are open, writes require
// the one configured username and password.
package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned by Check when the username or password
// doesn't match.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// Credentials holds the single configured username and a bcrypt hash of
// its password.
type Credentials struct {
	username     string
	passwordHash []byte
}

// NewCredentials hashes password with bcrypt at startup so the plaintext
// never lives longer than this call.
func NewCredentials(username, password string) (*Credentials, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Credentials{username: username, passwordHash: hash}, nil
}

// Check reports whether username and password match the configured
// credential. The username comparison is constant-time; the password
// comparison goes through bcrypt, which is constant-time by construction.
func (c *Credentials) Check(username, password string) error {
	if subtle.ConstantTimeCompare([]byte(username), []byte(c.username)) != 1 {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(c.passwordHash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Middleware wraps next, requiring a valid Basic Auth header before
// forwarding the request. On failure it writes 401 with a WWW-Authenticate
// challenge and never calls next.
func (c *Credentials) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok || c.Check(username, password) != nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="graphd"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
