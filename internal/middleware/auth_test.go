package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	common_models "go-medidiagnose/internal/common/models"
	"go-medidiagnose/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New()
	chain := append(handlers, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/protected", chain...)
	return app
}

func tokenFor(t *testing.T, isSuperuser, isStaff bool) string {
	t.Helper()
	user := &common_models.User{
		ID:          primitive.NewObjectID(),
		Email:       "user@example.com",
		IsSuperuser: isSuperuser,
		IsStaff:     isStaff,
	}
	token, err := utils.GenerateToken(user, []string{"Doctor"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

func TestAuthMiddleware(t *testing.T) {
	utils.SetSecret("middleware-test-secret")

	expiredClaims := utils.UserClaims{
		UserID: primitive.NewObjectID().Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	expiredToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expiredClaims).
		SignedString([]byte("middleware-test-secret"))
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"missing header", "", fiber.StatusUnauthorized},
		{"wrong scheme", "Basic abc123", fiber.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", fiber.StatusUnauthorized},
		{"expired token", "Bearer " + expiredToken, fiber.StatusUnauthorized},
		{"valid token", "Bearer " + tokenFor(t, false, true), fiber.StatusOK},
	}

	app := newTestApp(AuthMiddleware())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestRequireStaff(t *testing.T) {
	utils.SetSecret("middleware-test-secret")

	tests := []struct {
		name        string
		isSuperuser bool
		isStaff     bool
		wantStatus  int
	}{
		{"patient blocked", false, false, fiber.StatusForbidden},
		{"staff allowed", false, true, fiber.StatusOK},
		{"admin allowed", true, true, fiber.StatusOK},
	}

	app := newTestApp(AuthMiddleware(), RequireStaff())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+tokenFor(t, tt.isSuperuser, tt.isStaff))
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	utils.SetSecret("middleware-test-secret")

	tests := []struct {
		name        string
		isSuperuser bool
		isStaff     bool
		wantStatus  int
	}{
		{"patient blocked", false, false, fiber.StatusForbidden},
		{"staff blocked", false, true, fiber.StatusForbidden},
		{"admin allowed", true, true, fiber.StatusOK},
	}

	app := newTestApp(AuthMiddleware(), RequireAdmin())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+tokenFor(t, tt.isSuperuser, tt.isStaff))
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestRequireStaffWithoutClaims(t *testing.T) {
	app := newTestApp(RequireStaff())
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}
