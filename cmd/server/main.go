package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cbodonnell/rocketjam/pkg/api"
	"github.com/cbodonnell/rocketjam/pkg/auth"
	authproviders "github.com/cbodonnell/rocketjam/pkg/auth/providers"
	"github.com/cbodonnell/rocketjam/pkg/config"
	"github.com/cbodonnell/rocketjam/pkg/game"
	"github.com/cbodonnell/rocketjam/pkg/log"
	"github.com/cbodonnell/rocketjam/pkg/messages"
	"github.com/cbodonnell/rocketjam/pkg/network"
	"github.com/cbodonnell/rocketjam/pkg/queue"
	"github.com/cbodonnell/rocketjam/pkg/repositories"
	"github.com/cbodonnell/rocketjam/pkg/state"
	"github.com/cbodonnell/rocketjam/pkg/version"
	"github.com/cbodonnell/rocketjam/pkg/workers"
)

func main() {
	port := flag.Int("port", 8080, "port to listen on")
	logLevel := flag.String("log-level", "info", "Log level")
	tickInterval := flag.Duration("tick-interval", time.Second, "interval between game ticks")
	actionQueueSize := flag.Int("action-queue-size", queue.QueueBufferSize, "number of actions that can wait for the action worker")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting server version %s", version.Get())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	kind, location, err := cfg.Database()
	if err != nil {
		panic(fmt.Sprintf("Failed to read database config: %v", err))
	}

	var repository repositories.Repository
	switch kind {
	case config.DatabaseKindSQLite:
		repository, err = repositories.NewSQLiteRepository(ctx, location, cfg.MigrationsFor(kind))
		if err != nil {
			panic(fmt.Sprintf("Failed to create SQLite repository: %v", err))
		}
	case config.DatabaseKindPostgres:
		repository, err = repositories.NewPostgresRepository(ctx, location, cfg.MigrationsFor(kind))
		if err != nil {
			panic(fmt.Sprintf("Failed to create Postgres repository: %v", err))
		}
	}
	defer repository.Close(context.Background())

	resolverOpts := auth.NewResolverOptions{
		Repository: repository,
		CacheSize:  cfg.UserCacheSize,
	}
	if cfg.TokenLoginEnabled() {
		authProvider, err := authproviders.NewFirebaseAuthProvider(ctx, authproviders.NewFirebaseAuthProviderOptions{
			ProjectID: cfg.FirebaseProjectID,
			APIKey:    cfg.FirebaseAPIKey,
		})
		if err != nil {
			panic(fmt.Sprintf("Failed to create Firebase auth provider: %v", err))
		}
		resolverOpts.AuthProvider = authProvider
		log.Info("ID token login enabled for project %s", cfg.FirebaseProjectID)
	}
	resolver, err := auth.NewResolver(resolverOpts)
	if err != nil {
		panic(fmt.Sprintf("Failed to create identity resolver: %v", err))
	}

	sessions := network.NewSessionManager()
	registry := state.NewInMemoryRoundRegistry(state.NewInMemoryRoundRegistryOptions{})
	actionQueue := queue.NewInMemoryQueue(*actionQueueSize)

	serverMessageChannelSize := 1024
	serverMessageChan := make(chan messages.ClientMessage, serverMessageChannelSize)

	serverMessageWorker := workers.NewServerMessageWorker(workers.NewServerMessageWorkerOptions{
		Deliverer:         sessions,
		ServerMessageChan: serverMessageChan,
	})
	go serverMessageWorker.Start(ctx)

	actionWorker := workers.NewActionWorker(workers.NewActionWorkerOptions{
		ActionQueue:       actionQueue,
		Sessions:          sessions,
		Identities:        resolver,
		Registry:          registry,
		ServerMessageChan: serverMessageChan,
	})
	go actionWorker.Start(ctx)

	gameManager := game.NewGameManager(game.NewGameManagerOptions{
		Registry:          registry,
		ServerMessageChan: serverMessageChan,
		GameLoopInterval:  *tickInterval,
	})
	go func() {
		log.Info("Starting game manager")
		if err := gameManager.Start(ctx); err != nil {
			log.Error("Game manager stopped: %v", err)
			stop()
		}
	}()

	apiServerOpts := api.NewAPIServerOptions{
		Port:        *port,
		Identities:  resolver,
		Sessions:    sessions,
		ActionQueue: actionQueue,
		StaticDir:   cfg.StaticDir,
	}
	if cfg.TLSEnabled() {
		apiServerOpts.TLS = &api.TLSConfig{
			CertFile: cfg.TLSCertFile,
			KeyFile:  cfg.TLSKeyFile,
		}
	}
	server := api.NewAPIServer(apiServerOpts)
	go server.Start()

	<-ctx.Done()
	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop server: %v", err)
	}
}
