package cmd

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"salamyar/lib/locale"
	"salamyar/lib/platforms/authapi"
	"salamyar/lib/platforms/catalog"
	"salamyar/lib/restyutil"
	"salamyar/services/render"
	"salamyar/services/session"
	"sync"
)

// App holds everything a command needs, it is built once per invocation.
type App struct {
	cfg     Config
	verbose bool
	db      *sql.DB

	Auth    *authapi.Client
	Session *session.Session
	Render  render.Renderer

	mutex   sync.Mutex
	catalog *catalog.Client
}

func NewApp(ctx context.Context, cfg Config, verbose bool) (*App, error) {
	database, err := cfg.Database.OpenDB()
	if err != nil {
		return nil, err
	}
	store, err := session.NewSqlTokenStore(ctx, database)
	if err != nil {
		database.Close()
		return nil, err
	}

	app := &App{
		cfg:     cfg,
		verbose: verbose,
		db:      database,
		Render:  render.New(os.Stdout, locale.Persian),
	}
	app.Auth = authapi.NewClient(authapi.ClientOptions{
		BaseUrl: cfg.AuthUrl,
		Timeout: cfg.Timeout(),
		Output:  app.output("auth"),
	})
	app.Session = session.New(app.Auth, store, session.Options{
		OnToken: app.setCatalogToken,
	})
	app.Session.Init(ctx)

	return app, nil
}

// output is where a client's http exchanges get dumped, nil unless verbose.
func (a *App) output(client string) restyutil.InstrumentOutput {
	if !a.verbose {
		return nil
	}
	out, err := restyutil.NewFilesystemOutput(filepath.Join(a.cfg.DumpDir, client))
	if err != nil {
		slog.Warn("failed to create http dump directory", "client", client, "err", err)
		return nil
	}
	slog.Debug("dumping http exchanges", "client", client, "dir", out.Dir())
	return out
}

func (a *App) setCatalogToken(token string) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if a.catalog != nil {
		a.catalog.SetToken(token)
	}
}

// Catalog creates the catalog client on first use, so that auth commands
// work without a catalog url.
func (a *App) Catalog() (*catalog.Client, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if a.catalog != nil {
		return a.catalog, nil
	}

	client, err := catalog.NewClient(catalog.ClientOptions{
		BaseUrl: a.cfg.ApiUrl,
		Timeout: a.cfg.Timeout(),
		Token:   a.Session.Token(),
		Output:  a.output("catalog"),
	})
	if err != nil {
		return nil, err
	}
	a.catalog = client
	return client, nil
}

func (a *App) Close() {
	err := a.db.Close()
	if err != nil {
		slog.Warn("failed to close database", "err", err)
	}
}
