package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lucaspiller/exprscript/server/result"
)

// AuthKey is a key in the context of a request populated by an AuthHandler.
type AuthKey int64

const (
	AuthLoggedIn AuthKey = iota
)

// AuthHandler is middleware that accepts a request, extracts the bearer
// token used for authentication, and validates it against the server's
// signing secret.
//
// AuthLoggedIn is added to the request context before the request is passed
// to the next step in the chain; it is only false when auth is optional and
// no valid token was presented (non-optional auth that fails never reaches
// next).
type AuthHandler struct {
	secret        []byte
	required      bool
	unauthedDelay time.Duration
	next          http.Handler
}

func (ah *AuthHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var loggedIn bool

	tok, err := getBearerToken(req)
	if err == nil {
		err = validateJWT(tok, ah.secret)
		if err == nil {
			loggedIn = true
		}
	}

	if !loggedIn && ah.required {
		res := result.Unauthorized("", err.Error())
		time.Sleep(ah.unauthedDelay)
		res.WriteResponse(w)
		return
	}

	ctx := context.WithValue(req.Context(), AuthLoggedIn, loggedIn)
	req = req.WithContext(ctx)
	ah.next.ServeHTTP(w, req)
}

func RequireAuth(secret []byte, unauthDelay time.Duration, next http.Handler) *AuthHandler {
	return &AuthHandler{secret: secret, unauthedDelay: unauthDelay, required: true, next: next}
}

func validateJWT(tok string, secret []byte) error {
	_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer("exprserve"), jwt.WithLeeway(time.Minute))

	return err
}

func getBearerToken(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))

	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}

	authParts := strings.SplitN(authHeader, " ", 2)
	if len(authParts) != 2 {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	scheme := strings.TrimSpace(strings.ToLower(authParts[0]))
	token := strings.TrimSpace(authParts[1])

	if scheme != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	return token, nil
}

// generateToken mints a bearer token for a caller who has already
// authenticated with a valid API key.
func generateToken(secret []byte) (string, error) {
	claims := &jwt.MapClaims{
		"iss": "exprserve",
		"exp": time.Now().Add(time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)

	tokStr, err := tok.SignedString(secret)
	if err != nil {
		return "", err
	}
	return tokStr, nil
}
