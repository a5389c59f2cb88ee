// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

// Package auth binds a caller to the first name they registered with.
//
// There are no passwords. Registering sets a long-lived cookie carrying the
// name; with an identity secret configured the cookie is an HS256 JWT so it
// cannot be edited to act as someone else.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/dinnerroulette/internal/config"
	"github.com/tomtom215/dinnerroulette/internal/validation"
)

// ErrInvalidName is returned when a name fails registration rules.
var ErrInvalidName = errors.New("first name must be 2-50 letters, spaces, hyphens or apostrophes")

// ErrInvalidToken is returned for cookies that fail verification.
var ErrInvalidToken = errors.New("invalid identity cookie")

const issuer = "dinnerroulette"

// Claims is the identity token payload.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Identity issues and reads identity cookies.
type Identity struct {
	cookieName string
	maxAge     time.Duration
	secure     bool
	secret     []byte
	now        func() time.Time
}

// NewIdentity creates an Identity from security settings.
func NewIdentity(cfg config.SecurityConfig) *Identity {
	return &Identity{
		cookieName: cfg.CookieName,
		maxAge:     cfg.CookieMaxAge,
		secure:     cfg.CookieSecure,
		secret:     []byte(cfg.IdentitySecret),
		now:        time.Now,
	}
}

// Signed reports whether cookies are signed.
func (id *Identity) Signed() bool {
	return len(id.secret) > 0
}

// NormalizeName trims name and checks it against registration rules.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if err := validation.ValidateVar(name, "required,min=2,max=50,personname"); err != nil {
		return "", ErrInvalidName
	}
	return name, nil
}

// Issue encodes username as a cookie value.
func (id *Identity) Issue(username string) (string, error) {
	if !id.Signed() {
		return url.QueryEscape(username), nil
	}

	now := id.now()
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(id.maxAge)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(id.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign identity: %w", err)
	}
	return signed, nil
}

// Parse decodes a cookie value back into a username.
func (id *Identity) Parse(value string) (string, error) {
	if value == "" {
		return "", ErrInvalidToken
	}
	if !id.Signed() {
		name, err := url.QueryUnescape(value)
		if err != nil {
			return "", ErrInvalidToken
		}
		if name, err = NormalizeName(name); err != nil {
			return "", ErrInvalidToken
		}
		return name, nil
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(value, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return id.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(id.now),
	)
	if err != nil || !token.Valid {
		return "", errors.Join(ErrInvalidToken, err)
	}
	if _, err := NormalizeName(claims.Username); err != nil {
		return "", ErrInvalidToken
	}
	return claims.Username, nil
}

// SetCookie writes the identity cookie for username.
func (id *Identity) SetCookie(w http.ResponseWriter, username string) error {
	value, err := id.Issue(username)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     id.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(id.maxAge.Seconds()),
		Expires:  id.now().Add(id.maxAge),
		HttpOnly: true,
		Secure:   id.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearCookie removes the identity cookie.
func (id *Identity) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     id.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   id.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest returns the verified username carried by r, if any.
func (id *Identity) FromRequest(r *http.Request) (string, bool) {
	c, err := r.Cookie(id.cookieName)
	if err != nil {
		return "", false
	}
	name, err := id.Parse(c.Value)
	if err != nil {
		return "", false
	}
	return name, true
}
