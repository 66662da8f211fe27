package cmd

import (
	"database/sql"
	"fmt"

	"github.com/iksnae/captain-session/internal"
	"github.com/iksnae/captain-session/internal/api"
)

// app is everything one command invocation needs
type app struct {
	cfg      *internal.Config
	db       *sql.DB
	store    *internal.Store
	client   *api.Client
	sessions *internal.SessionManager
	ctrl     *internal.Controller
	forms    *internal.Forms
}

// loadConfig applies the --api and --state overrides on top of the config file
func loadConfig() (*internal.Config, error) {
	cfg, err := internal.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.BaseURL = apiURL
	}
	if statePath != "" {
		cfg.StatePath = statePath
	}
	return cfg, nil
}

// newApp wires the store, client and controller over view. A state
// database that cannot be opened leaves the store memory-only.
func newApp(view internal.View) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}
	db, err := internal.OpenDatabase(cfg.StatePath)
	if err != nil {
		internal.PrintWarning(fmt.Sprintf("State will not persist: %v", err))
		a.store = internal.NewStore(nil)
	} else {
		a.db = db
		a.store = internal.NewStore(internal.NewSQLiteKV(db))
	}

	a.client, err = api.New(api.Config{BaseURL: cfg.BaseURL, Timeout: cfg.HTTPTimeout})
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to create api client: %w", err)
	}
	internal.LogDebug("Using backend %s", a.client.BaseURL())

	a.sessions = internal.NewSessionManager(a.store)
	a.ctrl = internal.NewController(a.sessions, a.client, view)
	a.forms = internal.NewForms(a.client, a.sessions)
	return a, nil
}

func (a *app) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			internal.LogWarn("Failed to close state database: %v", err)
		}
	}
}
