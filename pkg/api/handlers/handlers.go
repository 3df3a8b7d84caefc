package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/cbodonnell/rocketjam/pkg/api/middleware"
	"github.com/cbodonnell/rocketjam/pkg/auth"
	"github.com/cbodonnell/rocketjam/pkg/game/types"
	"github.com/cbodonnell/rocketjam/pkg/log"
	"github.com/cbodonnell/rocketjam/pkg/messages"
	"github.com/cbodonnell/rocketjam/pkg/network"
	"github.com/cbodonnell/rocketjam/pkg/queue"
	"github.com/cbodonnell/rocketjam/pkg/repositories"
	"github.com/cbodonnell/rocketjam/pkg/version"
	"github.com/gorilla/mux"
	"nhooyr.io/websocket"
)

// MaxActionBytes bounds the body of an action request.
const MaxActionBytes = 4096

// SessionRegistrar records logins.
type SessionRegistrar interface {
	RegisterOrSupersede(token string, userID types.UserID)
}

// Credentials is the body of the login and register endpoints.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse holds exactly one of Success and Failure.
type LoginResponse struct {
	Success *LoginSuccess `json:"success,omitempty"`
	Failure *LoginFailure `json:"failure,omitempty"`
}

type LoginSuccess struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

type LoginFailure struct {
	Msg string `json:"msg"`
}

type RegisterResponse struct {
	ID       types.UserID `json:"id"`
	Username string       `json:"username"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// readCredentials accepts a JSON body or form values.
func readCredentials(r *http.Request) (Credentials, error) {
	creds := Credentials{}
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			return creds, err
		}
		return creds, nil
	}
	creds.Username = r.FormValue("username")
	creds.Password = r.FormValue("password")
	return creds, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response: %v", err)
	}
}

func HandleRegister(identities auth.IdentityResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creds, err := readCredentials(r)
		if err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		user, err := identities.Register(r.Context(), creds.Username, creds.Password)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrInvalidUsername), errors.Is(err, auth.ErrWeakPassword):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case repositories.IsNameExists(err):
				http.Error(w, "Username already exists", http.StatusConflict)
			default:
				log.Error("failed to register user: %v", err)
				http.Error(w, "Failed to register", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, RegisterResponse{ID: user.ID, Username: user.Username})
	}
}

// HandleLogin checks a username and password and opens a session. Failed
// logins are answered with a LoginResponse failure, not an HTTP error.
func HandleLogin(identities auth.IdentityResolver, sessions SessionRegistrar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creds, err := readCredentials(r)
		if err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		user, err := identities.Authenticate(r.Context(), creds.Username, creds.Password)
		if err != nil {
			if !errors.Is(err, auth.ErrUserNotFound) && !errors.Is(err, auth.ErrWrongPassword) {
				log.Error("failed to authenticate %s: %v", creds.Username, err)
				http.Error(w, "Failed to log in", http.StatusInternalServerError)
				return
			}
			log.Debug("Login of %s failed: %v", creds.Username, err)
			writeJSON(w, http.StatusOK, LoginResponse{Failure: &LoginFailure{Msg: err.Error()}})
			return
		}

		token := network.NewToken()
		sessions.RegisterOrSupersede(token, user.ID)
		log.Info("User %d logged in", user.ID)
		writeJSON(w, http.StatusOK, LoginResponse{Success: &LoginSuccess{Token: token, Username: user.Username}})
	}
}

// HandleTokenLogin opens a session for the user put in the request context
// by the token auth middleware.
func HandleTokenLogin(sessions SessionRegistrar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFromContext(r.Context())
		if !ok {
			log.Error("failed to get user from context")
			http.Error(w, "Failed to get user from context", http.StatusInternalServerError)
			return
		}

		token := network.NewToken()
		sessions.RegisterOrSupersede(token, user.ID)
		log.Info("User %d logged in with an ID token", user.ID)
		writeJSON(w, http.StatusOK, LoginResponse{Success: &LoginSuccess{Token: token, Username: user.Username}})
	}
}

// HandleAction queues an action for the action worker and echoes it.
func HandleAction(actionQueue queue.Queue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, MaxActionBytes))
		if err != nil {
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}

		action, err := messages.DeserializeActionEnvelope(body)
		if err != nil {
			log.Debug("Rejected action: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := actionQueue.Enqueue(action); err != nil {
			if queue.IsQueueFull(err) {
				log.Warn("Action queue is full, rejecting %s", action.Command.Type)
				http.Error(w, "Server is busy", http.StatusServiceUnavailable)
				return
			}
			log.Error("failed to enqueue action: %v", err)
			http.Error(w, "Failed to queue action", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, action)
	}
}

// HandleEvents streams the session's updates as server-sent events.
func HandleEvents(sessions *network.SessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := mux.Vars(r)["token"]
		ch, err := sessions.Open(token)
		if err != nil {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		defer sessions.DetachChannel(token, ch)

		writer, err := network.NewSSEWriter(w)
		if err != nil {
			log.Error("failed to open event stream: %v", err)
			http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
			return
		}

		if err := network.Pump(r.Context(), writer, ch); err != nil {
			log.Debug("Event stream closed: %v", err)
		}
	}
}

// HandleWebsocket streams the session's updates as compressed websocket frames.
func HandleWebsocket(sessions *network.SessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := mux.Vars(r)["token"]
		if _, ok := sessions.GetSession(token); !ok {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			log.Error("Failed to upgrade to WebSocket: %v", err)
			return
		}
		defer conn.CloseNow()

		ch, err := sessions.Open(token)
		if err != nil {
			conn.Close(websocket.StatusPolicyViolation, "session not found")
			return
		}
		defer sessions.DetachChannel(token, ch)

		// reads are not expected; CloseRead cancels ctx when the peer goes away
		ctx := conn.CloseRead(r.Context())
		if err := network.Pump(ctx, network.NewWebsocketWriter(conn), ch); err != nil {
			log.Debug("Websocket stream closed: %v", err)
			return
		}
		conn.Close(websocket.StatusNormalClosure, "")
	}
}

func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: version.Get()})
	}
}
