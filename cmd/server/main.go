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
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-print"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	workhive "github.com/workhive/workhive"
	"github.com/workhive/workhive/middleware/jwtware"
	"github.com/workhive/workhive/rest"
)

type App struct {
	config AppConfig
	bunDB  *bun.DB
	auth   workhive.Authenticator
	tokens workhive.TokenService
	repo   workhive.RepositoryManager
	srv    *fiber.App
	logger *glog.BaseLogger
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Info),
		glog.WithName("workhive"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := LoadConfig()

	if cfg.Debug {
		fmt.Println("============")
		fmt.Println(print.MaybeHighlightJSON(cfg))
		fmt.Println("============")
	}

	app := &App{
		config: cfg,
		logger: lgr,
	}

	ctx := context.Background()

	if err := WithPersistence(ctx, app); err != nil {
		panic(err)
	}

	if err := WithAuth(ctx, app); err != nil {
		panic(err)
	}

	WithHTTPServer(app)

	go func() {
		if err := app.srv.Listen(cfg.Addr); err != nil {
			log.Fatal(err)
		}
	}()

	WaitExitSignal()

	if err := app.srv.Shutdown(); err != nil {
		app.GetLogger("server").Error("shutdown error", "error", err)
	}
}

func WithPersistence(ctx context.Context, app *App) error {
	db, err := sql.Open(sqliteshim.ShimName, app.config.Persistence.GetDSN())
	if err != nil {
		return err
	}

	persistence.RegisterModel((*workhive.Account)(nil))
	persistence.RegisterModel((*workhive.Notification)(nil))

	client, err := persistence.New(app.config.Persistence, db, sqlitedialect.New())
	if err != nil {
		return err
	}

	client.SetLogger(app.GetLogger("persistence"))

	migrationsFS, err := fs.Sub(workhive.GetMigrationsFS(), "data/sql/migrations")
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
	app.repo = workhive.NewRepositoryManager(client.DB())

	return app.repo.Validate()
}

func WithAuth(ctx context.Context, app *App) error {
	provider := workhive.NewAccountProvider(app.repo.Accounts())
	provider.WithLogger(app.GetLogger("auth:prv"))

	authenticator := workhive.NewAuthenticator(provider, app.config.Auth)
	authenticator.WithLogger(app.GetLogger("auth:authz"))
	authenticator.WithActivitySink(activityLogger(app.GetLogger("activity")))

	app.auth = authenticator
	app.tokens = authenticator.TokenService()

	return nil
}

func WithHTTPServer(app *App) {
	srv := fiber.New(fiber.Config{
		AppName:           "workhive",
		EnablePrintRoutes: app.config.Debug,
	})

	authCtrl := rest.NewAuthController(
		rest.WithAuthLogger(app.GetLogger("auth:ctrl")),
		rest.WithAuthenticator(app.auth),
		rest.WithRegistrar(workhive.NewRegisterAccountHandler(app.repo).
			WithActivitySink(activityLogger(app.GetLogger("activity")))),
		rest.WithAuthDebug(app.config.Debug),
	)
	authCtrl.RegisterRoutes(srv)

	guard := func(roles ...string) fiber.Handler {
		return jwtware.New(jwtware.Config{
			TokenValidator:  workhive.GuardValidator(app.tokens),
			ContextEnricher: workhive.ContextEnricherAdapter,
			ContextKey:      app.config.Auth.GetContextKey(),
			TokenLookup:     app.config.Auth.GetTokenLookup(),
			AuthScheme:      app.config.Auth.GetAuthScheme(),
			AllowedRoles:    roles,
		})
	}

	protected := srv.Group("/", guard())

	rest.NewNotificationsController(app.repo, app.GetLogger("notifications")).
		RegisterRoutes(protected)

	rest.NewConversationsController(app.config.MessagingURL, app.GetLogger("conversations")).
		RegisterRoutes(protected)

	// Role-gated areas. Admin passes the peer-role gates too so support staff
	// can see what either side of the marketplace sees.
	candidate := srv.Group("/candidate", guard(string(workhive.RoleCandidate), string(workhive.RoleAdmin)))
	employer := srv.Group("/employer", guard(string(workhive.RoleEmployer), string(workhive.RoleAdmin)))
	admin := srv.Group("/admin", guard(string(workhive.RoleAdmin)))

	candidate.Get("/dashboard", roleArea(app, "candidate"))
	employer.Get("/dashboard", roleArea(app, "employer"))
	admin.Get("/dashboard", roleArea(app, "admin"))

	app.srv = srv
}

func roleArea(app *App, area string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := workhive.GetClaims(c.UserContext())
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authentication required",
			})
		}

		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"area":       area,
			"account_id": claims.AccountID(),
			"role":       claims.Role(),
		})
	}
}

// activityLogger forwards audit events to the structured log. A real
// deployment could swap this for a queue or database sink.
func activityLogger(lgr glog.Logger) workhive.ActivitySink {
	return workhive.ActivitySinkFunc(func(ctx context.Context, event workhive.ActivityEvent) error {
		lgr.Info("activity",
			"event", string(event.EventType),
			"account_id", event.AccountID,
			"occurred_at", event.OccurredAt,
		)
		return nil
	})
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
