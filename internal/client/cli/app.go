package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/taskkeeper/internal/client/client"
	"github.com/dmitrijs2005/taskkeeper/internal/client/config"
	"github.com/dmitrijs2005/taskkeeper/internal/client/guard"
	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/client/notify"
	"github.com/dmitrijs2005/taskkeeper/internal/client/repositories/session"
	"github.com/dmitrijs2005/taskkeeper/internal/client/services"
	"github.com/dmitrijs2005/taskkeeper/internal/client/storage"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	api     client.Client
	session *services.SessionStore
	tokens  *session.SQLiteRepository
	slot    *notify.Slot

	// engine exists only while the dashboard is mounted.
	engine *services.TaskEngine
	view   models.View

	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	return newApp(context.Background(), c, os.Stdin, os.Stdout, logging.NewText(os.Stderr, c.LogLevel))
}

func newApp(ctx context.Context, c *config.Config, in io.Reader, out io.Writer, logger logging.Logger) (*App, error) {
	db, err := storage.InitDatabase(ctx, c.SessionDBPath, logger)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	a := &App{
		config: c,
		logger: logger,
		db:     db,
		api:    client.NewHTTPClient(c.APIBaseURL, c.RequestTimeout),
		tokens: session.NewSQLiteRepository(db),
		slot:   notify.New(notify.DefaultTTL),
		view:   models.ViewSignIn,
		reader: bufio.NewReader(in),
		out:    out,
	}
	a.session = services.NewSessionStore(a.api, a.tokens, a, logger)
	a.slot.Subscribe(func(n models.Notification) { printlnFn(formatNotification(n)) })

	return a, nil
}

// Navigate switches the current screen. The dashboard is mounted or
// unmounted by syncView once the running command returns.
func (a *App) Navigate(view models.View, replace bool) {
	a.logger.Debug(context.Background(), "navigate", "view", view, "replace", replace)
	a.view = view
}

func (a *App) currentView() models.View {
	return a.view
}

// start restores the persisted session and opens the screen the guard
// allows.
func (a *App) start(ctx context.Context) {
	if err := a.session.Restore(ctx); err != nil {
		a.logger.Warn(ctx, "session restore failed", "error", err)
	}

	if d := guard.Check(a.session); d.Outcome == guard.Allow {
		a.Navigate(models.ViewDashboard, false)
	} else {
		a.Navigate(models.ViewSignIn, true)
	}
	a.syncView(ctx)
}

// syncView mounts a task engine when the dashboard is shown and the guard
// allows it, and detaches it when the dashboard is left. Mounting loads the
// list, which may sign the user out again, hence the bounded loop.
func (a *App) syncView(ctx context.Context) {
	for range 3 {
		switch {
		case a.view == models.ViewDashboard && a.engine == nil:
			d := guard.Check(a.session)
			if d.Outcome == guard.Pending {
				return
			}
			if d.Outcome == guard.Redirect {
				a.Navigate(d.Target, d.Replace)
				continue
			}
			a.engine = services.NewTaskEngine(a.api, a.session, a.slot, a.logger)
			if err := a.engine.List(ctx); err == nil {
				a.printTasks()
			}

		case a.view != models.ViewDashboard && a.engine != nil:
			a.engine.Detach()
			a.engine = nil

		default:
			return
		}
	}
}

// status is shown in the prompt: the screen, then the user and the form
// state while on the dashboard.
func (a *App) status() string {
	if a.view != models.ViewDashboard {
		return string(a.view)
	}
	who := "?"
	if u := a.session.User(); u != nil {
		who = u.Email
	}
	modal := services.Modal(services.Closed{})
	if a.engine != nil {
		modal = a.engine.Modal()
	}
	return fmt.Sprintf("%s (%s, %s)", a.view, who, modal)
}

// Run blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.close(ctx)

	printlnFn("Welcome to the task client (type 'help' for commands)")
	a.start(ctx)
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) close(ctx context.Context) {
	if a.engine != nil {
		a.engine.Detach()
		a.engine = nil
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error(ctx, "db close failed", "error", err)
	}
}
