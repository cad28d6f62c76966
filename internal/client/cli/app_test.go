package cli

import (
	"context"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/config"
	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	srvconfig "github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/httpserver"
	"github.com/dmitrijs2005/taskkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	srvservices "github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startAPI runs the real API server over an in-memory database.
func startAPI(t *testing.T) (*httptest.Server, *srvconfig.Config) {
	t.Helper()
	ctx := context.Background()

	cfg := &srvconfig.Config{}
	cfg.LoadDefaults()
	cfg.AuthRateLimit = 0

	db, err := dbx.OpenSQLite(ctx, ":memory:", migrations.FS(), logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m := repomanager.NewSQLiteRepositoryManager()
	us := srvservices.NewUserService(db, m, cfg, logging.Nop())
	require.NoError(t, us.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword))
	ts := srvservices.NewTaskService(db, m)

	srv := httptest.NewServer(httpserver.NewHTTPServer(cfg, logging.Nop(), us, ts, prometheus.NewRegistry()).Handler())
	t.Cleanup(srv.Close)
	return srv, cfg
}

func clientConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	return &config.Config{
		APIBaseURL:     baseURL,
		SessionDBPath:  filepath.Join(t.TempDir(), "session.db"),
		RequestTimeout: 5 * time.Second,
		LogLevel:       "error",
	}
}

// runScript runs a full session with script as stdin and returns every
// printed line.
func runScript(t *testing.T, cfg *config.Config, script ...string) []string {
	t.Helper()

	oldIs := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = oldIs })
	out := capturePrint(t)

	app, err := newApp(context.Background(), cfg, strings.NewReader(strings.Join(script, "\n")+"\n"), io.Discard, logging.Nop())
	require.NoError(t, err)
	app.Run(context.Background())

	return *out
}

func containsLine(lines []string, substr string) bool {
	for _, l := range lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

func TestApp_TaskLifecycle(t *testing.T) {
	srv, _ := startAPI(t)
	cfg := clientConfig(t, srv.URL)

	out := runScript(t, cfg,
		"register", "alice@x.io", "password1",
		"login", "alice@x.io", "password1",
		"new",
		"title", "Buy milk",
		"description", "2 liters", "",
		"submit",
		"l",
		"done 1",
		"done 1",
		"edit 1",
		"status pending",
		"submit",
		"delete 1",
		"logout",
		"exit",
	)

	for _, want := range []string{
		"Registered. You can now login.",
		"Signed in as alice@x.io",
		"No tasks yet",
		"[success] Task created",
		"Buy milk",
		"[success] Task updated",
		"Task is already completed",
		`editing #1: title="Buy milk" status=completed`,
		"[success] Task deleted",
		"Signed out",
		"tk> dashboard (alice@x.io, creating) > ",
		"tk> sign-in > ",
	} {
		assert.True(t, containsLine(out, want), "missing %q in output:\n%s", want, strings.Join(out, "\n"))
	}
	assert.Equal(t, "Bye!", out[len(out)-1])
}

func TestApp_SignInErrors(t *testing.T) {
	srv, _ := startAPI(t)
	cfg := clientConfig(t, srv.URL)

	out := runScript(t, cfg,
		"login", "", "",
		"login", "nobody@x.io", "password1",
		"register", "bad", "short",
		"list",
		"exit",
	)

	assert.True(t, containsLine(out, "Please enter email and password"))
	assert.True(t, containsLine(out, "Failed to login"))
	assert.True(t, containsLine(out, "email: Please enter a valid email"))
	assert.True(t, containsLine(out, "password: Password must be at least 8 characters"))
	assert.True(t, containsLine(out, "Unknown command: list"))
}

func TestApp_SessionSurvivesRestart(t *testing.T) {
	srv, _ := startAPI(t)
	cfg := clientConfig(t, srv.URL)

	runScript(t, cfg,
		"register", "bob@x.io", "password1",
		"login", "bob@x.io", "password1",
		"exit",
	)

	out := runScript(t, cfg, "whoami", "exit")
	assert.True(t, containsLine(out, "bob@x.io (user)"), strings.Join(out, "\n"))
	assert.True(t, containsLine(out, "Signed in "), strings.Join(out, "\n"))
	assert.True(t, containsLine(out, "tk> dashboard (bob@x.io, closed) > "))
}

func TestApp_AdminSeesOwners(t *testing.T) {
	srv, apiCfg := startAPI(t)
	cfg := clientConfig(t, srv.URL)

	out := runScript(t, cfg,
		"register", "carol@x.io", "password1",
		"login", "carol@x.io", "password1",
		"new", "title", "Carol's task", "description", "d", "", "submit",
		"logout",
		"login", apiCfg.AdminEmail, apiCfg.AdminPassword,
		"l",
		"exit",
	)

	assert.True(t, containsLine(out, "CREATED BY"), strings.Join(out, "\n"))
	assert.True(t, containsLine(out, "carol@x.io"))
}

func TestApp_UnreachableServer(t *testing.T) {
	srv, _ := startAPI(t)
	cfg := clientConfig(t, srv.URL)
	srv.Close()

	out := runScript(t, cfg, "login", "dan@x.io", "password1", "exit")
	assert.True(t, containsLine(out, "Failed to login"))
}

func TestApp_NavigateAndStatus(t *testing.T) {
	srv, _ := startAPI(t)
	cfg := clientConfig(t, srv.URL)

	app, err := newApp(context.Background(), cfg, strings.NewReader(""), io.Discard, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { app.close(context.Background()) })

	assert.Equal(t, "sign-in", app.status())

	app.start(context.Background())
	assert.Equal(t, models.ViewSignIn, app.currentView())

	// The guard refuses the dashboard without a token.
	app.Navigate(models.ViewDashboard, false)
	app.syncView(context.Background())
	assert.Equal(t, models.ViewSignIn, app.currentView())
	assert.Nil(t, app.engine)
}
