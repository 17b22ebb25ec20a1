package sessions

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore() *CookieSessionStore {
	return NewCookieSessionStore(time.Hour, false, securecookie.GenerateRandomKey(64), securecookie.GenerateRandomKey(32))
}

// replay sends the cookies set by rec back on a new request.
func replay(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestSessionIDIsStable(t *testing.T) {
	store := newStore()

	rec := httptest.NewRecorder()
	id, err := store.SessionID(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	again, err := store.SessionID(httptest.NewRecorder(), replay(rec))
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

func TestTokenRoundTrip(t *testing.T) {
	store := newStore()

	rec := httptest.NewRecorder()
	require.NoError(t, store.SetToken(rec, httptest.NewRequest(http.MethodGet, "/", nil), "tok-1"))
	assert.Equal(t, "tok-1", store.GetToken(replay(rec)))

	cleared := httptest.NewRecorder()
	require.NoError(t, store.ClearToken(cleared, replay(rec)))
	assert.Empty(t, store.GetToken(replay(cleared)))
}

func TestForeignCookieStartsFreshSession(t *testing.T) {
	rec := httptest.NewRecorder()
	_, err := newStore().SessionID(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	other := newStore()
	assert.Empty(t, other.GetToken(replay(rec)))

	id, err := other.SessionID(httptest.NewRecorder(), replay(rec))
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}
