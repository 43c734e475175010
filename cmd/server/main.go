package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	blogpulse "github.com/goliatone/blog-pulse"
	"github.com/goliatone/blog-pulse/federated"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-router"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/schema"
)

type App struct {
	config *Config
	bunDB  *bun.DB
	auth   *blogpulse.Auther
	repo   blogpulse.RepositoryManager
	srv    router.Server[*fiber.App]
	logger *glog.BaseLogger
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {

	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("blog-pulse"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg, err := LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.JWTSecret == "" {
		log.Fatal("FATAL ERROR: JWT_SECRET is not defined.")
	}

	app := &App{
		config: cfg,
		logger: lgr,
	}

	ctx := context.Background()

	if err := WithPersistence(ctx, app); err != nil {
		log.Fatal(err)
	}

	if err := WithAuth(ctx, app); err != nil {
		log.Fatal(err)
	}

	if err := WithHTTPServer(ctx, app); err != nil {
		log.Fatal(err)
	}

	app.srv.Serve(cfg.HTTPAddr)

	WaitExitSignal()
}

func WithPersistence(ctx context.Context, app *App) error {
	lgr := app.GetLogger("persistence")

	var db *sql.DB
	var dialect schema.Dialect
	var err error

	switch app.config.DBDriver {
	case "postgres":
		db = sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(app.config.DBDSN)))
		dialect = pgdialect.New()
	default:
		db, err = sql.Open(sqliteshim.ShimName, app.config.DBDSN)
		if err != nil {
			return err
		}
		dialect = sqlitedialect.New()
	}

	persistence.RegisterModel((*blogpulse.User)(nil))
	persistence.RegisterModel((*blogpulse.Post)(nil))

	client, err := persistence.New(PersistenceConfig{
		DSN:         app.config.DBDSN,
		PingTimeout: app.config.DBPingTimeout,
		Debug:       app.config.Debug,
	}, db, dialect)
	if err != nil {
		return err
	}

	client.SetLogger(lgr)

	migrationsFS, err := fs.Sub(blogpulse.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return err
	}
	client.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)
	if err := client.ValidateDialects(ctx); err != nil {
		return err
	}

	if err := client.Migrate(ctx); err != nil {
		return err
	}

	app.bunDB = client.DB()
	app.repo = blogpulse.NewRepositoryManager(client.DB())

	return nil
}

func WithAuth(ctx context.Context, app *App) error {
	lgr := app.GetLogger("auth")

	var verifier blogpulse.AssertionVerifier
	if app.config.GoogleClientID != "" {
		gv, err := federated.NewGoogleVerifier(federated.GoogleConfig{
			ClientID: app.config.GoogleClientID,
			Logger:   loggerAdapter{app.GetLogger("federated")},
		})
		if err != nil {
			return err
		}
		verifier = gv
	} else {
		lgr.Warn("GOOGLE_CLIENT_ID not set, federated login disabled")
	}

	auther, err := blogpulse.NewAuthenticator(
		app.repo.Users(),
		verifier,
		AuthConfig{cfg: app.config},
	)
	if err != nil {
		return err
	}

	app.auth = auther.WithLogger(loggerAdapter{lgr})

	return nil
}

func WithHTTPServer(ctx context.Context, app *App) error {
	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:      true,
			EnablePrintRoutes: app.config.Debug,
			StrictRouting:     false,
		}))
	})

	srv.Router().WithLogger(app.GetLogger("router"))

	gate := blogpulse.NewHTTPGate(AuthConfig{cfg: app.config}, app.auth.TokenService()).
		WithLogger(loggerAdapter{app.GetLogger("gate")})

	blogpulse.RegisterAuthRoutes(
		srv.Router(),
		gate.ProtectedRoute(),
		blogpulse.WithControllerRepo(app.repo),
		blogpulse.WithControllerAuther(app.auth),
		blogpulse.WithControllerLogger(loggerAdapter{app.GetLogger("auth:ctrl")}),
		blogpulse.WithControllerDebug(app.config.Debug),
	)

	app.srv = srv

	return nil
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}

// loggerAdapter bridges the structured app logger to the printf-style
// logger the auth components expect.
type loggerAdapter struct {
	lgr glog.Logger
}

func (a loggerAdapter) Debug(format string, args ...any) {
	a.lgr.Debug(fmt.Sprintf(format, args...))
}

func (a loggerAdapter) Info(format string, args ...any) {
	a.lgr.Info(fmt.Sprintf(format, args...))
}

func (a loggerAdapter) Warn(format string, args ...any) {
	a.lgr.Warn(fmt.Sprintf(format, args...))
}

func (a loggerAdapter) Error(format string, args ...any) {
	a.lgr.Error(fmt.Sprintf(format, args...))
}
