package services

import (
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
)

const sessionName = "topmovies-session"

// Flash levels map onto alert styles in the layout.
const (
	FlashSuccess = "success"
	FlashWarning = "warning"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Level   string
	Message string
}

// SessionStore keeps flash messages across redirects in a signed cookie.
type SessionStore struct {
	store *sessions.CookieStore
}

func NewSessionStore(secret string, secure bool) *SessionStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionStore{store: store}
}

// AddFlash queues a message for the next page the client loads.
func (s *SessionStore) AddFlash(w http.ResponseWriter, r *http.Request, level, message string) error {
	session, err := s.store.Get(r, sessionName)
	if err != nil && session == nil {
		return err
	}
	session.AddFlash(level+"|"+message)
	return session.Save(r, w)
}

// Flashes pops all queued messages. A broken or tampered cookie yields none.
func (s *SessionStore) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	session, err := s.store.Get(r, sessionName)
	if err != nil {
		return nil
	}
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(r, w); err != nil {
		return nil
	}

	flashes := make([]Flash, 0, len(raw))
	for _, v := range raw {
		str, ok := v.(string)
		if !ok {
			continue
		}
		level, msg, found := strings.Cut(str, "|")
		if !found {
			level, msg = FlashSuccess, str
		}
		flashes = append(flashes, Flash{Level: level, Message: msg})
	}
	return flashes
}
