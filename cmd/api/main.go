package main

import (
	"context"
	"fmt"
	common_api "go-orgadmin/internal/common/api"
	"go-orgadmin/internal/config"
	"go-orgadmin/internal/database"
	"go-orgadmin/internal/features/audit"
	"go-orgadmin/internal/features/auth"
	"go-orgadmin/internal/features/role"
	"go-orgadmin/internal/features/template"
	"go-orgadmin/internal/features/user"
	"go-orgadmin/internal/logger"
	"go-orgadmin/internal/middleware"
	"go-orgadmin/pkg/utils"
	"log"
	"time"

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
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	log.Printf("Registering %d routes...\n", len(routes))
	for _, route := range routes {
		route.Setup(app)
	}
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
			utils.SetSecret(cfg.JWTSecret)
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

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(lc fx.Lifecycle, templateRepo template.TemplateRepository) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := templateRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure template indexes: %v", err)
				}
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Initialize Repository
			audit.NewAuditRepository,
			user.NewUserRepository,
			role.NewRoleRepository,
			template.NewTemplateRepository,

			audit.NewAuditService,
			auth.NewAuthService,
			role.NewRoleService,
			user.NewUserService,
			template.NewApproverResolver,
			template.NewTemplateService,
			audit.NewRetentionJob,

			// Interface Adapters to break circular dependencies and satisfy Fx
			func(r user.UserRepository) audit.UserFinder { return r },
			func(r user.UserRepository) role.MemberSource { return r },
			func(s role.RoleService) template.RoleMembership { return s },
			func(s user.UserService) template.Organization { return s },

			// Initialize Controller
			auth.NewAuthController,
			role.NewRoleController,
			user.NewUserController,
			audit.NewAuditController,
			template.NewTemplateController,

			// Initialize API Routes
			AsRoute(auth.NewAuthApi),
			AsRoute(role.NewRoleApi),
			AsRoute(user.NewUserApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(template.NewTemplateApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			func(lc fx.Lifecycle, job *audit.RetentionJob) {
				lc.Append(fx.Hook{
					OnStart: job.Start,
					OnStop: func(ctx context.Context) error {
						return job.Stop()
					},
				})
			},
			InitializeIndexes,
		),
	)

	app.Run()
}
