package network

import (
	"errors"
	"sync"

	"github.com/cbodonnell/rocketjam/pkg/game/types"
	"github.com/cbodonnell/rocketjam/pkg/log"
	"github.com/cbodonnell/rocketjam/pkg/messages"
	"github.com/google/uuid"
)

const (
	// SessionChannelSize is the buffer of each session's push channel
	SessionChannelSize = 64
)

// ErrUnknownSession is returned for tokens that were never registered.
var ErrUnknownSession = errors.New("unknown session")

// Session is a login of a user. Channel is nil until a push stream attaches.
type Session struct {
	Token   string
	UserID  types.UserID
	Channel chan messages.Envelope
}

// SessionManager tracks sessions by token and pushes updates to the
// channels of attached streams.
type SessionManager struct {
	sessions     map[string]*Session
	sessionsLock sync.RWMutex
}

// NewSessionManager creates a new SessionManager
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
	}
}

// NewToken returns a fresh random session token.
func NewToken() string {
	return uuid.NewString()
}

// RegisterOrSupersede records a session for userID under token. A session
// already registered under the same token is replaced and its stream, if
// any, is told it has been superseded.
func (sm *SessionManager) RegisterOrSupersede(token string, userID types.UserID) {
	sm.sessionsLock.Lock()
	defer sm.sessionsLock.Unlock()

	if previous, ok := sm.sessions[token]; ok && previous.Channel != nil {
		supersede(previous)
	}
	sm.sessions[token] = &Session{
		Token:  token,
		UserID: userID,
	}
}

// AttachChannel makes ch the push channel of the session. A channel that
// was attached before is sent the supersession signal and dropped.
func (sm *SessionManager) AttachChannel(token string, ch chan messages.Envelope) error {
	sm.sessionsLock.Lock()
	defer sm.sessionsLock.Unlock()

	session, ok := sm.sessions[token]
	if !ok {
		return ErrUnknownSession
	}
	if session.Channel != nil && session.Channel != ch {
		supersede(session)
	}
	session.Channel = ch
	return nil
}

// Open creates a push channel for the session and attaches it.
func (sm *SessionManager) Open(token string) (chan messages.Envelope, error) {
	ch := make(chan messages.Envelope, SessionChannelSize)
	if err := sm.AttachChannel(token, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

// DetachChannel clears the session's channel when its stream ends. It does
// nothing if another stream has attached since.
func (sm *SessionManager) DetachChannel(token string, ch chan messages.Envelope) {
	sm.sessionsLock.Lock()
	defer sm.sessionsLock.Unlock()

	session, ok := sm.sessions[token]
	if !ok || session.Channel != ch {
		return
	}
	session.Channel = nil
}

// GetSession returns a copy of the session registered under token.
func (sm *SessionManager) GetSession(token string) (Session, bool) {
	sm.sessionsLock.RLock()
	defer sm.sessionsLock.RUnlock()

	session, ok := sm.sessions[token]
	if !ok {
		return Session{}, false
	}
	return *session, true
}

// Deliver pushes update to every attached session of userID without
// blocking and returns how many sessions received it. Full channels drop
// the update.
func (sm *SessionManager) Deliver(userID types.UserID, update messages.Update) int {
	sm.sessionsLock.RLock()
	defer sm.sessionsLock.RUnlock()

	envelope := messages.NewAppEnvelope(update)
	delivered := 0
	attached := 0
	for _, session := range sm.sessions {
		if session.UserID != userID || session.Channel == nil {
			continue
		}
		attached++
		select {
		case session.Channel <- envelope:
			delivered++
		default:
			log.Warn("Push channel of user %d is full, dropping %s", userID, update.Type)
		}
	}
	if attached == 0 {
		log.Warn("User %d has no open stream, dropping %s", userID, update.Type)
	}
	return delivered
}

// supersede signals the session's current channel without blocking and
// detaches it. The caller must hold the write lock.
func supersede(session *Session) {
	log.Info("Superseding stream of session for user %d", session.UserID)
	for attempt := 0; attempt < 2; attempt++ {
		select {
		case session.Channel <- messages.NewSupersededEnvelope():
			session.Channel = nil
			return
		default:
		}
		// full: drop the oldest pending update so the signal fits
		select {
		case <-session.Channel:
		default:
		}
	}
	log.Warn("Could not signal superseded stream of user %d", session.UserID)
	session.Channel = nil
}
