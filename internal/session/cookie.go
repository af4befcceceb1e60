package session

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"fieldops-console/internal/modal"
)

const CookieName = "fieldops_session"

var ErrNoSession = errors.New("no session")

type claims struct {
	jwt.RegisteredClaims
	User modal.User `json:"user"`
}

// Codec stores a session in a signed cookie so the console server keeps no
// per-user state. The signature only detects tampering; the backend still
// authorizes every call.
type Codec struct {
	key    []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewCodec(secret string, ttl time.Duration, secure bool) *Codec {
	return &Codec{key: []byte(secret), ttl: ttl, secure: secure, now: time.Now}
}

func (c *Codec) Encode(sess Session) (string, error) {
	u, ok := sess.User()
	if !ok {
		return "", ErrNoSession
	}
	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.EmployeeID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		User: u,
	})
	signed, err := token.SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, nil
}

func (c *Codec) Decode(value string) (Session, error) {
	var cl claims
	_, err := jwt.ParseWithClaims(value, &cl, func(token *jwt.Token) (any, error) {
		return c.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return Anonymous, fmt.Errorf("invalid session: %w", err)
	}
	return New(cl.User), nil
}

// Read returns the session carried by r, or Anonymous with ErrNoSession when
// there is none.
func (c *Codec) Read(r *http.Request) (Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return Anonymous, ErrNoSession
	}
	return c.Decode(cookie.Value)
}

func (c *Codec) Write(w http.ResponseWriter, sess Session) error {
	value, err := c.Encode(sess)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(c.ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (c *Codec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
	})
}
