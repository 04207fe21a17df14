package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/newnow-platform/newnow-web/backend"
	"github.com/newnow-platform/newnow-web/credentials"
	"github.com/newnow-platform/newnow-web/internal/config"
	"github.com/newnow-platform/newnow-web/server"
	"github.com/newnow-platform/newnow-web/session"
	"github.com/newnow-platform/newnow-web/transport"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	configureLogging(c)
	displayAppname(c.GetAppName())

	webServer, err := buildServer(c)
	if err != nil {
		return err
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: webServer}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

// buildServer wires the front-end: credential store, session service,
// request authenticator and backend client behind the page server.
func buildServer(c config.Config) (*server.Server, error) {
	store, err := credentials.NewFileStore(c.GetCredentialFile())
	if err != nil {
		return nil, fmt.Errorf("credentials.NewFileStore: %w", err)
	}

	// The session service talks to the backend directly: its calls are
	// all auth endpoints and never need a bearer token.
	authAPI, err := backend.New(c.GetBackendBaseURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("backend.New: %w", err)
	}

	sessions, err := session.New(store, authAPI)
	if err != nil {
		return nil, fmt.Errorf("session.New: %w", err)
	}

	authenticator, err := transport.NewAuthenticator(sessions,
		transport.WithLoginRoute(server.RouteLogin),
		transport.WithNavigator(func(target string) {
			zlog.Info().Str("target", target).Msg("Session ended, user will be sent to login")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("transport.NewAuthenticator: %w", err)
	}

	api, err := backend.New(c.GetBackendBaseURL(), &http.Client{
		Transport: authenticator,
		Timeout:   30 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("backend.New: %w", err)
	}

	return server.New(c, sessions, api)
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func configureLogging(c config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if c.GetEnv() == "DEV" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
