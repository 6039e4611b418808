package config

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// Player tokens are split in two cookies: header.payload readable by the
// client and an http-only signature.
const (
	authCookie = "auth"
	signCookie = "sign"
)

type Cookies struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
	jwt      *JWT
}

func parseSameSite(s string) (http.SameSite, error) {
	switch strings.ToUpper(s) {
	case "DEFAULT":
		return http.SameSiteDefaultMode, nil
	case "LAX":
		return http.SameSiteLaxMode, nil
	case "STRICT", "":
		return http.SameSiteStrictMode, nil
	case "NONE":
		return http.SameSiteNoneMode, nil
	}
	return 0, fmt.Errorf("unknown COOKIES_SAMESITE value %q", s)
}

func NewCookies(jwt *JWT) (*Cookies, error) {
	domain, ok := os.LookupEnv("COOKIES_DOMAIN")
	if !ok {
		return nil, fmt.Errorf("no COOKIES_DOMAIN env variable set")
	}

	secure := true
	if s, ok := os.LookupEnv("COOKIES_SECURE"); ok {
		secure = s != "0"
	}

	sameSite, err := parseSameSite(os.Getenv("COOKIES_SAMESITE"))
	if err != nil {
		return nil, err
	}

	return &Cookies{
		Domain:   domain,
		Secure:   secure,
		SameSite: sameSite,
		jwt:      jwt,
	}, nil
}

func (c *Cookies) cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Path:     "/",
		Value:    value,
		Domain:   c.Domain,
		Secure:   c.Secure,
		SameSite: c.SameSite,
		HttpOnly: name == signCookie,
	}
}

func (c *Cookies) Clear(w http.ResponseWriter) {
	for _, name := range []string{authCookie, signCookie} {
		cookie := c.cookie(name, "delete")
		cookie.MaxAge = -1
		http.SetCookie(w, cookie)
	}
}

// Refresh signs claims and sets both halves of the token.
func (c *Cookies) Refresh(w http.ResponseWriter, claims *PlayerClaims) error {
	token, err := c.jwt.Sign(claims)
	if err != nil {
		return fmt.Errorf("unable to sign player claims: %w", err)
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return fmt.Errorf("malformed JWT token generated")
	}

	expires := time.Now().Add(c.jwt.TokenLifetime)
	auth := c.cookie(authCookie, parts[0]+"."+parts[1])
	auth.Expires = expires
	sign := c.cookie(signCookie, parts[2])
	sign.Expires = expires

	http.SetCookie(w, auth)
	http.SetCookie(w, sign)
	return nil
}

func (c *Cookies) ParsePlayerClaims(r *http.Request) (*PlayerClaims, error) {
	auth, err := r.Cookie(authCookie)
	if err != nil {
		return nil, err
	}
	sign, err := r.Cookie(signCookie)
	if err != nil {
		return nil, err
	}
	return c.jwt.ParsePlayerClaims(auth.Value + "." + sign.Value)
}
