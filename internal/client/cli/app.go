package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sermonmate/sermonmate/internal/client/api"
	"github.com/sermonmate/sermonmate/internal/client/config"
	"github.com/sermonmate/sermonmate/internal/client/events"
	"github.com/sermonmate/sermonmate/internal/client/localdb"
	"github.com/sermonmate/sermonmate/internal/client/models"
	"github.com/sermonmate/sermonmate/internal/client/securestore"
	"github.com/sermonmate/sermonmate/internal/client/services"
	"github.com/sermonmate/sermonmate/internal/filex"
	"github.com/sermonmate/sermonmate/internal/logging"
)

const cacheFile = "cache.db"

type App struct {
	config   *config.Config
	log      logging.Logger
	db       *sql.DB
	auth     services.AuthService
	sermons  services.SermonService
	credits  services.CreditsService
	theme    services.ThemeService
	coaching services.CoachingService
	reader   *bufio.Reader
	out      io.Writer
}

// NewApp opens the local cache in the configured data directory and builds
// every service once. The services share one session-ended bus.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	dataDir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare data directory: %w", err)
	}

	db, err := localdb.InitDatabase(ctx, filepath.Join(dataDir, cacheFile))
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	tokens, err := securestore.Open(db, dataDir)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	repos := localdb.NewRepositories(db)
	bus := events.NewBus()
	apiClient := api.NewClient(c.APIBaseURL, c.RequestTimeout, tokens, bus, log)

	auth := services.NewAuthService(apiClient, tokens, bus, log)

	return &App{
		config:   c,
		log:      log,
		db:       db,
		auth:     auth,
		sermons:  services.NewSermonService(apiClient, repos.Drafts, bus, log),
		credits:  services.NewCreditsService(apiClient, auth, bus, log),
		theme:    services.NewThemeService(repos.Metadata, systemTheme, log),
		coaching: services.NewCoachingService(apiClient, c.AgentID, log),
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

// Run restores the previous session and serves the REPL until exit.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.theme.Initialize(ctx)
	if err := a.auth.LoadUser(ctx); err != nil {
		a.log.Info(ctx, "previous session not restored", "error", err)
	}

	printlnFn("Welcome to SermonMate CLI (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.auth.State().Authenticated
}

func (a *App) status() string {
	st := a.auth.State()
	parts := make([]string, 0, 3)
	if st.User != nil {
		parts = append(parts, st.User.Name, fmt.Sprintf("%d credits", st.User.Credits))
	}
	parts = append(parts, string(a.theme.Theme()))
	return "(" + strings.Join(parts, " ") + ")"
}

// systemTheme derives the terminal's colour scheme from COLORFGBG
// ("fg;bg"), where background colours 0-6 and 8 are dark.
func systemTheme() models.Theme {
	v := os.Getenv("COLORFGBG")
	if v == "" {
		return models.ThemeLight
	}
	fields := strings.Split(v, ";")
	switch fields[len(fields)-1] {
	case "0", "1", "2", "3", "4", "5", "6", "8":
		return models.ThemeDark
	default:
		return models.ThemeLight
	}
}

// fail prints the user-facing message for err and returns it.
func (a *App) fail(err error) error {
	fmt.Fprintln(a.out, "Error:", api.Message(err))
	return err
}
