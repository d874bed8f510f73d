package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	AuthService AuthService
}

func NewAuthController(authService AuthService) *AuthController {
	return &AuthController{
		AuthService: authService,
	}
}

type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FullName        string `json:"full_name"`
	Phone           string `json:"phone,omitempty"`
	RecaptchaToken  string `json:"recaptcha_token,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
}

// Register godoc
// @Summary      Register a new patient account
// @Description  Creates an inactive account and mails a verification link; development mode auto-activates
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterRequest true "Register Input"
// @Success      201  {object} map[string]string
// @Failure      400  {object} map[string]string
// @Failure      409  {object} map[string]string
// @Router       /api/auth/register [post]
func (ctrl *AuthController) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, err := ctrl.AuthService.Register(c.Context(), RegisterInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FullName:        req.FullName,
		Phone:           req.Phone,
		RecaptchaToken:  req.RecaptchaToken,
		RemoteIP:        c.IP(),
	})
	if err != nil {
		var vErr *ValidationError
		switch {
		case errors.As(err, &vErr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": vErr.Reason})
		case errors.Is(err, ErrEmailTaken):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to register"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful. Check your email to activate your account.",
		"user_id": user.ID.Hex(),
	})
}

// Verify godoc
// @Summary      Verify an email address
// @Description  Consumes a one-time code and activates the account
// @Tags         auth
// @Produce      json
// @Param        code query string true "Verification code"
// @Success      200  {object} map[string]string
// @Failure      404  {object} map[string]string
// @Router       /api/auth/verify [get]
func (ctrl *AuthController) Verify(c *fiber.Ctx) error {
	code := c.Query("code")

	if err := ctrl.AuthService.Verify(c.Context(), code); err != nil {
		var vErr *ValidationError
		switch {
		case errors.As(err, &vErr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": vErr.Reason})
		case errors.Is(err, ErrCodeNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to verify"})
		}
	}

	return c.JSON(fiber.Map{"message": "Email verified. You can now log in."})
}

// Login godoc
// @Summary      Login
// @Description  Issues a 7-day JWT carrying role names and access flags
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginRequest true "Login Input"
// @Success      200  {object} AuthResponse
// @Failure      401  {object} map[string]string
// @Router       /api/auth/login [post]
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email and password are required",
		})
	}

	token, err := ctrl.AuthService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		// Unknown email and bad password land here with the same body;
		// an unverified account gets its own message but the same status.
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(AuthResponse{Token: token})
}
