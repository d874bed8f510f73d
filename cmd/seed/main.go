package main

import (
	"context"
	"log"
	"os"
	"time"

	common_models "go-medidiagnose/internal/common/models"
	"go-medidiagnose/internal/config"
	"go-medidiagnose/internal/database"
	"go-medidiagnose/internal/features/permission"
	"go-medidiagnose/internal/features/role"
	"go-medidiagnose/internal/features/user"
	"go-medidiagnose/internal/logger"
	"go-medidiagnose/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Baseline permissions granted to the built-in roles. Administrators get
// everything; doctors get the clinical set; staff get scheduling.
var seedPermissions = []struct {
	Name        string
	Description string
	Roles       []string
}{
	{"users.manage", "Create, update, suspend and delete portal accounts", []string{common_models.RoleAdministrator}},
	{"roles.manage", "Create roles and edit their permission bundles", []string{common_models.RoleAdministrator}},
	{"audit.view", "Read the administrative audit trail", []string{common_models.RoleAdministrator}},
	{"scans.view", "Browse diagnostic scans and patient records", []string{common_models.RoleAdministrator, common_models.RoleDoctor}},
	{"appointments.manage", "Confirm, cancel and complete appointments", []string{common_models.RoleAdministrator, common_models.RoleDoctor, common_models.RoleStaff}},
	{"appointments.book", "Book appointments for oneself", []string{common_models.RoleAdministrator, common_models.RoleDoctor, common_models.RoleStaff, common_models.RolePatient}},
}

var seedRoles = []struct {
	Name        string
	Description string
}{
	{common_models.RoleAdministrator, "Full portal access including user and role management"},
	{common_models.RoleDoctor, "Clinical access to scans, patients and appointment workflow"},
	{common_models.RoleStaff, "Front desk access to appointment scheduling"},
	{common_models.RolePatient, "Self-service access to own appointments"},
}

// Seed runs the database seeding
func Seed(
	lc fx.Lifecycle,
	roleRepo role.RoleRepository,
	userRepo user.UserRepository,
	permissionRepo permission.PermissionRepository,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				logger.Info("Starting database seeding...")

				// 1. Permissions
				permIDs := map[string]primitive.ObjectID{}
				for _, p := range seedPermissions {
					existing, err := permissionRepo.FindByName(ctx, p.Name)
					if err == nil {
						permIDs[p.Name] = existing.ID
						continue
					}
					perm := &permission.Permission{
						ID:          primitive.NewObjectID(),
						Name:        p.Name,
						Description: p.Description,
						CreatedAt:   time.Now(),
					}
					if err := permissionRepo.Create(ctx, perm); err != nil {
						logger.Error("Failed to create permission", zap.String("name", p.Name), zap.Error(err))
						continue
					}
					permIDs[p.Name] = perm.ID
					logger.Info("Created permission", zap.String("name", p.Name))
				}

				// 2. Roles with their permission bundles
				roleIDs := map[string]primitive.ObjectID{}
				for _, r := range seedRoles {
					existing, err := roleRepo.FindByName(ctx, r.Name)
					if err == nil {
						logger.Info("Role exists, skipping", zap.String("role", r.Name))
						roleIDs[r.Name] = existing.ID
						continue
					}

					var perms []primitive.ObjectID
					for _, p := range seedPermissions {
						for _, rName := range p.Roles {
							if rName == r.Name {
								if id, ok := permIDs[p.Name]; ok {
									perms = append(perms, id)
								}
							}
						}
					}

					newRole := &role.Role{
						ID:          primitive.NewObjectID(),
						Name:        r.Name,
						Description: r.Description,
						Permissions: perms,
						CreatedAt:   time.Now(),
					}
					if err := roleRepo.Create(ctx, newRole); err != nil {
						logger.Error("Failed to create role", zap.String("role", r.Name), zap.Error(err))
						continue
					}
					roleIDs[r.Name] = newRole.ID
					logger.Info("Created role", zap.String("role", r.Name))
				}

				// 3. Initial superuser
				adminEmail := os.Getenv("SEED_ADMIN_EMAIL")
				if adminEmail == "" {
					adminEmail = "admin@medidiagnose.local"
				}
				adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
				if adminPassword == "" {
					adminPassword = "ChangeMe123!"
				}

				if _, err := userRepo.FindByEmail(ctx, adminEmail); err == nil {
					logger.Info("Admin user exists, skipping", zap.String("email", adminEmail))
					return
				}

				hashed, err := utils.HashPassword(adminPassword)
				if err != nil {
					logger.Error("Failed to hash admin password", zap.Error(err))
					return
				}

				isSuperuser, isStaff := common_models.FlagsForRole(common_models.RoleAdministrator)
				admin := &common_models.User{
					ID:               primitive.NewObjectID(),
					Email:            adminEmail,
					Password:         hashed,
					FullName:         "Portal Administrator",
					IsActive:         true,
					IsSuperuser:      isSuperuser,
					IsStaff:          isStaff,
					Roles:            []primitive.ObjectID{roleIDs[common_models.RoleAdministrator]},
					ExtraPermissions: []primitive.ObjectID{},
					CreatedAt:        time.Now(),
					UpdatedAt:        time.Now(),
				}
				if err := userRepo.Create(ctx, admin); err != nil {
					logger.Error("Failed to create admin user", zap.Error(err))
					return
				}
				logger.Info("Created admin user", zap.String("email", adminEmail))
				logger.Info("Database seeding completed")
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
			database.NewDatabase,
			role.NewRoleRepository,
			user.NewUserRepository,
			permission.NewPermissionRepository,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}

	<-app.Done()
}
