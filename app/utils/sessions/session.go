package sessions

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	sessionCookieName = "ecobazaarx-session"

	sessionIDKey = "sid"
	tokenKey     = "token"
)

// SessionStore keeps the browser side of a shopper session: an opaque id
// that keys the server-side state, and the backend bearer token so the
// session survives a storefront restart.
type SessionStore interface {
	SessionID(w http.ResponseWriter, r *http.Request) (string, error)
	GetToken(r *http.Request) string
	SetToken(w http.ResponseWriter, r *http.Request, token string) error
	ClearToken(w http.ResponseWriter, r *http.Request) error
	ClearSession(w http.ResponseWriter, r *http.Request) error
}

type CookieSessionStore struct {
	store *sessions.CookieStore
}

func NewCookieSessionStore(maxAge time.Duration, secure bool, keyPairs ...[]byte) *CookieSessionStore {
	store := sessions.NewCookieStore(keyPairs...)

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieSessionStore{store: store}
}

func (c *CookieSessionStore) getSession(r *http.Request) *sessions.Session {
	session, err := c.store.Get(r, sessionCookieName)
	if err != nil {
		// A cookie signed with old keys decodes to a fresh session.
		log.Printf("CookieSessionStore.getSession: %v", err)
	}
	return session
}

// SessionID returns the id stored in the cookie, issuing a new one when the
// browser has none.
func (c *CookieSessionStore) SessionID(w http.ResponseWriter, r *http.Request) (string, error) {
	session := c.getSession(r)
	if id, ok := session.Values[sessionIDKey].(string); ok && id != "" {
		return id, nil
	}

	id := uuid.NewString()
	session.Values[sessionIDKey] = id
	if err := session.Save(r, w); err != nil {
		return "", err
	}
	return id, nil
}

func (c *CookieSessionStore) GetToken(r *http.Request) string {
	token, _ := c.getSession(r).Values[tokenKey].(string)
	return token
}

func (c *CookieSessionStore) SetToken(w http.ResponseWriter, r *http.Request, token string) error {
	session := c.getSession(r)
	session.Values[tokenKey] = token
	return session.Save(r, w)
}

func (c *CookieSessionStore) ClearToken(w http.ResponseWriter, r *http.Request) error {
	session := c.getSession(r)
	delete(session.Values, tokenKey)
	return session.Save(r, w)
}

func (c *CookieSessionStore) ClearSession(w http.ResponseWriter, r *http.Request) error {
	session := c.getSession(r)
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
