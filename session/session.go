package session

import (
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "session-cookie"
	// CurrUserKey holds the logged in user's id inside the session.
	CurrUserKey = "curr_user"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

// Manager reads and writes the signed session cookie.
type Manager struct {
	store *sessions.CookieStore
}

func NewManager(secret []byte, secure bool) *Manager {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store}
}

func (m *Manager) get(r *http.Request) *sessions.Session {
	// A cookie that fails to decode yields a fresh session.
	sess, _ := m.store.Get(r, CookieName)
	return sess
}

// Login stores userID in the session.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, userID uint) error {
	sess := m.get(r)
	sess.Values[CurrUserKey] = userID
	return sess.Save(r, w)
}

// Logout removes the user from the session, keeping pending flashes.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	sess := m.get(r)
	delete(sess.Values, CurrUserKey)
	return sess.Save(r, w)
}

// CurrentUserID returns the logged in user's id, if any.
func (m *Manager) CurrentUserID(r *http.Request) (uint, bool) {
	id, ok := m.get(r).Values[CurrUserKey].(uint)
	return id, ok && id != 0
}

// AddFlash queues a message for the next page.
func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, category, message string) error {
	sess := m.get(r)
	sess.AddFlash(category+"|"+message)
	return sess.Save(r, w)
}

// Flashes pops the queued messages.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	sess := m.get(r)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = sess.Save(r, w)

	flashes := make([]Flash, 0, len(raw))
	for _, f := range raw {
		s, ok := f.(string)
		if !ok {
			continue
		}
		category, message, found := strings.Cut(s, "|")
		if !found {
			category, message = "info", s
		}
		flashes = append(flashes, Flash{Category: category, Message: message})
	}
	return flashes
}
