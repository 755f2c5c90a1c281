// Package app assembles the client from its parts: profile storage, the
// HTTP client, the stores, and the TUI shell.
package app

import (
	"context"

	"github.com/kshzz24/scalable-chat-app/internal/api"
	"github.com/kshzz24/scalable-chat-app/internal/bus"
	"github.com/kshzz24/scalable-chat-app/internal/contacts"
	"github.com/kshzz24/scalable-chat-app/internal/lock"
	"github.com/kshzz24/scalable-chat-app/internal/logging"
	"github.com/kshzz24/scalable-chat-app/internal/profile"
	"github.com/kshzz24/scalable-chat-app/internal/session"
	"github.com/kshzz24/scalable-chat-app/internal/status"
	"github.com/kshzz24/scalable-chat-app/internal/store"
	"github.com/kshzz24/scalable-chat-app/internal/tui"
	"github.com/kshzz24/scalable-chat-app/internal/tui/model"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Params holds the resolved profile configuration passed to the fx module.
type Params struct {
	ProfileName string
	APIBaseURL  string
}

// Module returns the fx module for the TUI client, composing all providers
// and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("app",
		fx.Supply(p),
		fx.Provide(
			provideLogger,
			provideBus,
			provideStateMachine,
			provideLock,
			provideStore,
			provideSessionStore,
			provideContactsStore,
			provideClient,
			provideViewModel,
			provideApp,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideLogger(p Params) (*zap.Logger, error) {
	// The TUI owns the terminal, so logs go to the file only.
	return logging.NewFileOnly(profile.LogPath(p.ProfileName), p.ProfileName)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideStateMachine(b *bus.Bus) *status.Machine {
	return status.NewMachine(b)
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	if err := profile.EnsureDir(p.ProfileName); err != nil {
		return nil, err
	}
	logger.Info("acquiring profile lock", zap.String("profile", p.ProfileName))
	l, err := lock.Acquire(profile.Dir(p.ProfileName))
	if err != nil {
		return nil, err
	}
	logger.Info("profile lock acquired")
	return l, nil
}

func provideStore(p Params, _ *lock.Lock, logger *zap.Logger) (*store.DB, error) {
	dbPath := profile.DBPath(p.ProfileName)
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Info("migrations up to date", zap.Uint("version", result.Version))
	}
	logger.Info("store initialized", zap.String("path", dbPath))
	return db, nil
}

func provideSessionStore(db *store.DB, b *bus.Bus) (*session.Store, error) {
	return session.New(db, b)
}

func provideContactsStore(db *store.DB, b *bus.Bus) (*contacts.Store, error) {
	return contacts.New(db, b)
}

func provideClient(p Params, sess *session.Store, logger *zap.Logger) *api.Client {
	return api.New(p.APIBaseURL, sess, logger)
}

func provideViewModel(c *api.Client, sess *session.Store, cts *contacts.Store, b *bus.Bus, logger *zap.Logger) *model.ViewModel {
	return model.NewViewModel(c, sess, cts, b, logger)
}

func provideApp(p Params, vm *model.ViewModel, machine *status.Machine) *tui.App {
	return tui.NewApp(vm, machine, p.ProfileName)
}

func registerLifecycle(lc fx.Lifecycle, shutdowner fx.Shutdowner, a *tui.App, vm *model.ViewModel, sess *session.Store, db *store.DB, lk *lock.Lock, machine *status.Machine, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			vm.Start(context.Background())

			// A rehydrated session boots straight to ready.
			if sess.User() != nil {
				_ = machine.Transition(status.Ready)
			} else {
				_ = machine.Transition(status.LoggedOut)
			}

			go func() {
				if err := a.Run(); err != nil {
					logger.Error("tui error", zap.Error(err))
				}
				_ = shutdowner.Shutdown()
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			a.Stop()
			vm.Stop()
			if err := db.Close(); err != nil {
				logger.Warn("error closing store", zap.Error(err))
			}
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("client stopped")
			return nil
		},
	})
}
