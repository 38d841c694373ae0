// internal/app/app.go

// Package app wires the client together: local stores, API client, views and
// the interactive command loop.
package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/groupie-app/groupie-client/internal/activelobby"
	"github.com/groupie-app/groupie-client/internal/api"
	"github.com/groupie-app/groupie-client/internal/config"
	"github.com/groupie-app/groupie-client/internal/identity"
	"github.com/groupie-app/groupie-client/internal/store"
)

// App owns the long-lived client components shared by every view.
type App struct {
	cfg     *config.Config
	client  *api.Client
	ident   *identity.Store
	pointer *activelobby.Pointer
	out     io.Writer
	logger  *logrus.Logger
}

// New builds the App: picks the store backend from config, hydrates the
// guest identity and constructs the API client.
func New(ctx context.Context, cfg *config.Config, out io.Writer, logger *logrus.Logger) (*App, error) {
	kv, err := openStore(cfg.Store)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:     cfg,
		client:  api.New(cfg.API.BaseURL, logger),
		ident:   identity.NewStore(ctx, kv, logger),
		pointer: activelobby.New(kv, logger),
		out:     out,
		logger:  logger,
	}, nil
}

func openStore(cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Backend {
	case "redis":
		return store.ConnectRedis(cfg.RedisAddr, cfg.RedisDB, "groupie:")
	case "memory":
		return store.NewMemory(), nil
	default:
		return store.NewFile(cfg.FilePath), nil
	}
}

// Logout clears the guest identity and the active-lobby pointer together, as
// one user-facing action. The caller should rebuild views afterwards so no
// in-memory cache survives.
func (a *App) Logout(ctx context.Context) error {
	if err := a.ident.Logout(ctx); err != nil {
		return err
	}
	if err := a.pointer.Clear(ctx); err != nil {
		return err
	}
	a.logger.Info("logged out")
	return nil
}

// CreateLobby creates a lobby led by the current identity and marks it
// active. businessID may be empty.
func (a *App) CreateLobby(ctx context.Context, businessID string) (string, error) {
	user := a.ident.Current()
	if user == nil {
		return "", fmt.Errorf("log in before creating a group")
	}
	resp, err := a.client.CreateLobby(ctx, user.Name, businessID)
	if err != nil {
		return "", err
	}
	if err := a.pointer.Set(ctx, resp.LobbyCode, businessID); err != nil {
		a.logger.WithError(err).Warn("app: failed to persist new lobby pointer")
	}
	return resp.LobbyCode, nil
}

// Run is the interactive loop. One view is mounted at a time; opening a
// lobby closes the home view's timers and vice versa, so every mount/unmount
// pair has exactly one start/stop.
func (a *App) Run(ctx context.Context, in io.Reader, initialCode string) error {
	home := NewHomeView(a.client, a.ident, a.pointer, a.cfg.Poll.Validity, a.out, a.logger)
	var current *LobbyView

	openLobby := func(code string) {
		if current != nil {
			current.Close()
		}
		home.Close()
		current = NewLobbyView(code, a.client, a.ident, a.pointer, a.cfg.Poll.Lobby, a.out, a.logger)
		current.Open(ctx)
	}
	goHome := func() {
		if current != nil {
			current.Close()
			current = nil
		}
		home.Open(ctx)
		home.Render(ctx)
	}

	if initialCode != "" {
		openLobby(strings.ToUpper(initialCode))
	} else {
		goHome()
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		var err error
		switch cmd {
		case "login":
			_, err = a.ident.Login(ctx, arg)
		case "logout":
			err = a.Logout(ctx)
			goHome()
		case "create":
			var code string
			if code, err = a.CreateLobby(ctx, arg); err == nil {
				fmt.Fprintf(a.out, "Gruppe opprettet! Del koden: %s\n", code)
				openLobby(code)
			}
		case "open":
			openLobby(strings.ToUpper(arg))
		case "join":
			if current == nil {
				err = fmt.Errorf("open a lobby first")
			} else {
				err = current.Join(ctx, arg)
			}
		case "ready":
			if current == nil {
				err = fmt.Errorf("open a lobby first")
			} else {
				err = current.Ready(ctx)
			}
		case "choose":
			if current == nil {
				err = fmt.Errorf("open a lobby first")
			} else {
				err = current.ChooseBusiness(ctx, arg)
			}
		case "home":
			goHome()
		case "quit", "exit":
			if current != nil {
				current.Close()
			}
			home.Close()
			return nil
		default:
			fmt.Fprintf(a.out, "Ukjent kommando: %s\n", cmd)
		}
		if err != nil {
			fmt.Fprintf(a.out, "Feil: %v\n", err)
		}
	}

	if current != nil {
		current.Close()
	}
	home.Close()
	return scanner.Err()
}
