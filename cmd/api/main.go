package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"go-expense-sync/internal/codat"
	common_api "go-expense-sync/internal/common/api"
	"go-expense-sync/internal/config"
	"go-expense-sync/internal/database"
	"go-expense-sync/internal/features/company"
	"go-expense-sync/internal/features/configuration"
	"go-expense-sync/internal/features/expense"
	"go-expense-sync/internal/features/webhook"
	"go-expense-sync/internal/logger"
	"go-expense-sync/internal/middleware"
	"go-expense-sync/internal/repository"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
	log.Printf("Registered %d routes\n", len(routes))
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// InitializeIndexes ensures that necessary storage indexes are created
func InitializeIndexes(lc fx.Lifecycle, repo repository.Repository, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := repo.EnsureIndexes(ctx); err != nil {
					log.Error("Failed to ensure storage indexes", zap.Error(err))
				}
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			NewFiberServer,
			database.NewDatabase,
			repository.NewRepository,
			codat.NewClient,

			company.NewCompanyService,
			configuration.NewConfigurationService,
			expense.NewExpenseService,
			webhook.NewWebhookService,

			company.NewCompanyController,
			configuration.NewConfigurationController,
			expense.NewExpenseController,
			webhook.NewWebhookController,

			AsRoute(company.NewCompanyApi),
			AsRoute(configuration.NewConfigurationApi),
			AsRoute(expense.NewExpenseApi),
			AsRoute(webhook.NewWebhookApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			RegisterAllRoutesWithAnnotation,
			InitializeIndexes,
			StartServer,
		),
	)

	app.Run()
}
