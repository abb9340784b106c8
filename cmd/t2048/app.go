package main

import (
	"context"
	"fmt"

	"github.com/vovakirdan/tile2048/internal/identity"
	"github.com/vovakirdan/tile2048/internal/storage"
)

// app holds the collaborators shared by the account and score commands.
type app struct {
	store *storage.Store
	ids   *identity.Provider
}

// openApp opens the score database and restores the persisted session.
func openApp(ctx context.Context) (*app, error) {
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("could not open scores database: %w", err)
	}

	secret := []byte(cfg.Session.Secret)
	if len(secret) == 0 && cfg.Session.Path != "" {
		if secret, err = identity.LoadOrCreateSecret(cfg.Session.KeyPath); err != nil {
			store.Close()
			return nil, err
		}
	}

	ids := identity.NewProvider(store, identity.Options{
		SessionPath: cfg.Session.Path,
		Secret:      secret,
		TTL:         cfg.Session.TTL,
		BcryptCost:  cfg.Session.BcryptCost,
		Logger:      logger,
	})
	if _, err := ids.Restore(ctx); err != nil {
		store.Close()
		return nil, err
	}

	return &app{store: store, ids: ids}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logger.Warn("failed to close database", "error", err)
	}
}
