package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cbodonnell/rocketjam/pkg/api/handlers"
	"github.com/cbodonnell/rocketjam/pkg/api/middleware"
	"github.com/cbodonnell/rocketjam/pkg/auth"
	"github.com/cbodonnell/rocketjam/pkg/log"
	"github.com/cbodonnell/rocketjam/pkg/network"
	"github.com/cbodonnell/rocketjam/pkg/queue"
	"github.com/gorilla/mux"
)

type APIServer struct {
	server *http.Server
	tls    *TLSConfig
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewAPIServerOptions struct {
	Port        int
	TLS         *TLSConfig
	Identities  auth.IdentityResolver
	Sessions    *network.SessionManager
	ActionQueue queue.Queue
	// StaticDir, when set, is served at the root for the browser client.
	StaticDir string
}

// NewRouter builds the routes of the API.
func NewRouter(opts NewAPIServerOptions) *mux.Router {
	tokenAuth := middleware.NewTokenAuthMiddleware(opts.Identities)

	r := mux.NewRouter()
	r.Use(middleware.RequestLogger, middleware.CORS)

	r.HandleFunc("/healthz", handlers.HandleHealthz()).Methods(http.MethodGet)
	r.HandleFunc("/register", handlers.HandleRegister(opts.Identities)).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/login", handlers.HandleLogin(opts.Identities, opts.Sessions)).Methods(http.MethodPost, http.MethodOptions)
	r.Handle("/login/token", tokenAuth(handlers.HandleTokenLogin(opts.Sessions))).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/action", handlers.HandleAction(opts.ActionQueue)).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/events/{token}", handlers.HandleEvents(opts.Sessions)).Methods(http.MethodGet)
	r.HandleFunc("/ws/{token}", handlers.HandleWebsocket(opts.Sessions)).Methods(http.MethodGet)

	if opts.StaticDir != "" {
		log.Info("Serving static files from %s", opts.StaticDir)
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(opts.StaticDir))).Methods(http.MethodGet)
	}

	return r
}

// NewAPIServer creates a new http.Server for handling API requests
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: NewRouter(opts),
	}
	return &APIServer{
		server: server,
		tls:    opts.TLS,
	}
}

// Start starts the APIServer
func (s *APIServer) Start() {
	var listenAndServe func() error
	if s.tls != nil {
		log.Info("API server listening on %s with TLS", s.server.Addr)
		listenAndServe = func() error {
			return s.server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("API server listening on %s", s.server.Addr)
		listenAndServe = s.server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("API server closed")
			return
		}
		log.Error("API server error: %v", err)
	}
}

// Stop stops the APIServer
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
