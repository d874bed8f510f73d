package main

import (
	"context"
	"fmt"
	common_api "go-medidiagnose/internal/common/api"
	"go-medidiagnose/internal/config"
	"go-medidiagnose/internal/database"
	emails "go-medidiagnose/internal/email"
	"go-medidiagnose/internal/features/appointment"
	"go-medidiagnose/internal/features/audit"
	"go-medidiagnose/internal/features/auth"
	"go-medidiagnose/internal/features/dashboard"
	"go-medidiagnose/internal/features/notification"
	"go-medidiagnose/internal/features/permission"
	"go-medidiagnose/internal/features/record"
	"go-medidiagnose/internal/features/role"
	"go-medidiagnose/internal/features/system"
	"go-medidiagnose/internal/features/user"
	"go-medidiagnose/internal/logger"
	"go-medidiagnose/internal/middleware"
	"go-medidiagnose/internal/recaptcha"
	"go-medidiagnose/pkg/utils"
	"log"
	"time"

	_ "go-medidiagnose/docs" // Import swagger docs

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

	// Use custom CORS middleware
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
	for i, route := range routes {
		log.Printf("Setting up route %d: %T\n", i+1, route)
		route.Setup(app)
	}
	log.Println("All routes registered successfully")
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// ConfigureJWT wires the signing secret before any route starts serving.
func ConfigureJWT(cfg *config.Config) {
	utils.SetSecret(cfg.JWTSecret)
}

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

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(
	lc fx.Lifecycle,
	userRepo user.UserRepository,
	roleRepo role.RoleRepository,
	permissionRepo permission.PermissionRepository,
	authRepo auth.AuthRecordRepository,
	recordRepo record.RecordRepository,
	appointmentRepo appointment.AppointmentRepository,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				// Use a background context with timeout for index creation
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				ensure := map[string]func(context.Context) error{
					"user":        userRepo.EnsureIndexes,
					"role":        roleRepo.EnsureIndexes,
					"permission":  permissionRepo.EnsureIndexes,
					"auth":        authRepo.EnsureIndexes,
					"record":      recordRepo.EnsureIndexes,
					"appointment": appointmentRepo.EnsureIndexes,
				}
				for name, fn := range ensure {
					if err := fn(ctx); err != nil {
						log.Printf("Failed to ensure %s indexes: %v", name, err)
					}
				}
			}()
			return nil
		},
	})
}

// @title           MediDiagnose API
// @version         1.0
// @description     Hospital portal backend serving authentication, user administration, diagnostic scan browsing and appointment booking.

// @contact.name    API Support
// @contact.email   support@medidiagnose.local

// @host            localhost:8000
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
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
			user.NewUserRepository,
			role.NewRoleRepository,
			permission.NewPermissionRepository,
			auth.NewAuthRecordRepository,
			record.NewRecordRepository,
			appointment.NewAppointmentRepository,
			notification.NewNotificationRepository,
			audit.NewAuditRepository,
			emails.NewRepository,

			// Initialize Services
			emails.NewService,
			recaptcha.NewVerifier,
			notification.NewHub,
			audit.NewAuditService,
			permission.NewPermissionService,
			role.NewRoleService,
			user.NewUserService,
			auth.NewAuthService,
			record.NewRecordService,
			notification.NewNotificationService,
			appointment.NewAppointmentService,
			dashboard.NewDashboardService,

			// Interface Adapters to break circular dependencies and satisfy Fx
			func(r user.UserRepository) audit.UserFinder { return r },
			func(s notification.NotificationService) appointment.Notifier { return s },

			// Initialize Controller
			audit.NewAuditController,
			auth.NewAuthController,
			user.NewUserController,
			role.NewRoleController,
			permission.NewPermissionController,
			record.NewRecordController,
			appointment.NewAppointmentController,
			notification.NewNotificationController,
			dashboard.NewDashboardController,

			// Initialize API Routes
			AsRoute(audit.NewAuditApi),
			AsRoute(auth.NewAuthApi),
			AsRoute(user.NewUserApi),
			AsRoute(role.NewRoleApi),
			AsRoute(permission.NewPermissionApi),
			AsRoute(record.NewRecordApi),
			AsRoute(appointment.NewAppointmentApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(dashboard.NewDashboardApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			ConfigureJWT,
			RegisterAllRoutesWithAnnotation,
			InitializeIndexes,
			StartServer,
		),
	)

	app.Run()
}
