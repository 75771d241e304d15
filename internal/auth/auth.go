// Package auth provides middleware and helpers for JWT-based sessions. The
// token carries the username and travels in a cookie or in the Authorization
// header.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/patric-chuzhbe/studydesk/internal/logger"
)

// ErrInvalidTokenOrJwtParsing is returned when a token is malformed, expired or badly signed.
var ErrInvalidTokenOrJwtParsing = errors.New("invalid token or JWT parsing error")

const sessionTTL = 7 * 24 * time.Hour

// Auth issues and verifies session tokens.
type Auth struct {
	// authCookieName is the name of the cookie used to store the JWT.
	authCookieName string

	// authCookieSigningSecretKey is the key used to sign JWTs.
	authCookieSigningSecretKey []byte

	now func() time.Time
}

// Claims represents the JWT claims used by the system.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// ContextKey is a custom type for storing values in context to avoid collisions.
type ContextKey string

// UsernameKey is the context key holding the authenticated username.
const UsernameKey ContextKey = "username"

func New(authCookieName string, authCookieSigningSecretKey []byte) *Auth {
	return &Auth{
		authCookieName:             authCookieName,
		authCookieSigningSecretKey: authCookieSigningSecretKey,
		now:                        time.Now,
	}
}

// UsernameFromContext returns the username stored by AuthenticateUser.
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok && username != ""
}

// AuthenticateUser is an HTTP middleware that puts the username of a valid
// session token into the request context. Requests without a valid token pass
// through unauthenticated.
func (a *Auth) AuthenticateUser(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		tokenString := a.getTokenStringFromAuthorizationHeaderOrCookie(request)
		if tokenString == "" {
			h.ServeHTTP(response, request)
			return
		}

		username, err := a.GetUsernameFromToken(tokenString)
		if err != nil {
			logger.Log.Debugln("Error calling the `a.GetUsernameFromToken()`: ", zap.Error(err))
			h.ServeHTTP(response, request)
			return
		}

		ctx := context.WithValue(request.Context(), UsernameKey, username)
		h.ServeHTTP(response, request.WithContext(ctx))
	}

	return http.HandlerFunc(middleware)
}

// RequireUser rejects requests that AuthenticateUser did not authenticate.
func (a *Auth) RequireUser(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		if _, ok := UsernameFromContext(request.Context()); !ok {
			response.Header().Set("Content-Type", "application/json")
			response.WriteHeader(http.StatusUnauthorized)
			_, _ = response.Write([]byte(`{"error":"Unauthorized"}` + "\n"))
			return
		}

		h.ServeHTTP(response, request)
	}

	return http.HandlerFunc(middleware)
}

// IssueSession signs a token for username and hands it to the client both as
// a cookie and in the Authorization header.
func (a *Auth) IssueSession(response http.ResponseWriter, username string) error {
	now := a.now()
	JWTString, err := a.BuildJWTString(&Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
		Username: username,
	})
	if err != nil {
		return fmt.Errorf("in internal/auth/auth.go/IssueSession(): error while `a.BuildJWTString()` calling: %w", err)
	}

	response.Header().Set("Authorization", JWTString)
	http.SetCookie(
		response,
		&http.Cookie{
			Name:     a.authCookieName,
			Value:    JWTString,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Expires:  now.Add(sessionTTL),
		},
	)

	return nil
}

// ClearSession expires the session cookie.
func (a *Auth) ClearSession(response http.ResponseWriter) {
	http.SetCookie(
		response,
		&http.Cookie{
			Name:     a.authCookieName,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			MaxAge:   -1,
		},
	)
}

func (a *Auth) getTokenStringFromAuthorizationHeaderOrCookie(request *http.Request) string {
	tokenString := strings.TrimPrefix(request.Header.Get("Authorization"), "Bearer ")
	if tokenString != "" {
		return tokenString
	}
	cookie, err := request.Cookie(a.authCookieName)
	if err == nil {
		tokenString = cookie.Value
	}

	return tokenString
}

// GetUsernameFromToken validates tokenString and returns the username it carries.
func (a *Auth) GetUsernameFromToken(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return a.authCookieSigningSecretKey, nil
		},
	)
	if err != nil || !token.Valid || claims.Username == "" {
		return "", ErrInvalidTokenOrJwtParsing
	}

	return claims.Username, nil
}

func (a *Auth) BuildJWTString(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, *claims)

	tokenString, err := token.SignedString(a.authCookieSigningSecretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}
