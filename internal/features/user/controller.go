package user

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	UserService UserService
}

func NewUserController(userService UserService) *UserController {
	return &UserController{
		UserService: userService,
	}
}

type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
}

type UpdateUserRequest struct {
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type UpdateUserStatusRequest struct {
	Status string `json:"status"` // "Active" or "Suspended"
}

type UpdateUserRolesRequest struct {
	RoleIDs []string `json:"role_ids"`
}

type UpdateUserPermissionsRequest struct {
	PermissionIDs []string `json:"permission_ids"`
}

// ListUsers godoc
// @Summary      List users
// @Description  Paginated user directory with status, role and search filters
// @Tags         admin
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(10)
// @Param        status query string false "Active or Suspended"
// @Param        role query string false "Administrator, Doctor, Staff or Patient"
// @Param        search query string false "Matches email or full name"
// @Success      200  {object} map[string]interface{}
// @Router       /api/admin/users [get]
func (ctrl *UserController) ListUsers(c *fiber.Ctx) error {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "10"), 10, 64)

	q := ListQuery{
		Status: c.Query("status"),
		Role:   c.Query("role"),
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
	}

	users, total, err := ctrl.UserService.ListUsers(c.Context(), q)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch users",
		})
	}

	return c.JSON(fiber.Map{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetUser godoc
// @Summary      Get user by ID
// @Tags         admin
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200  {object} models.User
// @Failure      404  {object} map[string]string
// @Router       /api/admin/users/{id} [get]
func (ctrl *UserController) GetUser(c *fiber.Ctx) error {
	user, err := ctrl.UserService.GetUserByID(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}
	return c.JSON(user)
}

// CreateUser godoc
// @Summary      Create a user
// @Description  Admin-created accounts are active immediately; flags follow the role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        input body CreateUserRequest true "User"
// @Success      201  {object} models.User
// @Failure      400  {object} map[string]string
// @Failure      409  {object} map[string]string
// @Router       /api/admin/users [post]
func (ctrl *UserController) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Email == "" || len(req.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email and a password of at least 8 characters are required",
		})
	}

	user, err := ctrl.UserService.CreateUser(c.Context(), CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownRole):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, ErrEmailTaken):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create user"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// UpdateUser handles partial field updates.
func (ctrl *UserController) UpdateUser(c *fiber.Ctx) error {
	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updates := map[string]interface{}{}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.FullName != "" {
		updates["full_name"] = req.FullName
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}

	if err := ctrl.UserService.UpdateUser(c.Context(), c.Params("id"), updates); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		case errors.Is(err, ErrEmailTaken):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user"})
		}
	}

	return c.JSON(fiber.Map{"message": "User updated"})
}

// UpdateUserStatus flips is_active from the UI status vocabulary.
func (ctrl *UserController) UpdateUserStatus(c *fiber.Ctx) error {
	var req UpdateUserStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var active bool
	switch req.Status {
	case "Active":
		active = true
	case "Suspended":
		active = false
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Status must be Active or Suspended",
		})
	}

	if err := ctrl.UserService.UpdateUserStatus(c.Context(), c.Params("id"), active); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update status"})
	}

	return c.JSON(fiber.Map{"message": "Status updated"})
}

func (ctrl *UserController) UpdateUserRoles(c *fiber.Ctx) error {
	var req UpdateUserRolesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.UserService.UpdateUserRoles(c.Context(), c.Params("id"), req.RoleIDs); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Roles updated"})
}

func (ctrl *UserController) UpdateUserPermissions(c *fiber.Ctx) error {
	var req UpdateUserPermissionsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.UserService.UpdateUserPermissions(c.Context(), c.Params("id"), req.PermissionIDs); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Permissions updated"})
}

// DeleteUser godoc
// @Summary      Delete a user
// @Description  Superuser accounts are protected and cannot be deleted
// @Tags         admin
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200  {object} map[string]string
// @Failure      403  {object} map[string]string
// @Failure      404  {object} map[string]string
// @Router       /api/admin/users/{id} [delete]
func (ctrl *UserController) DeleteUser(c *fiber.Ctx) error {
	if err := ctrl.UserService.DeleteUser(c.Context(), c.Params("id")); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		case errors.Is(err, ErrSuperuserProtected):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete user"})
		}
	}

	return c.JSON(fiber.Map{"message": "User deleted"})
}

// ExportUsers streams the user directory as an .xlsx file.
func (ctrl *UserController) ExportUsers(c *fiber.Ctx) error {
	f, err := ctrl.UserService.ExportUsers(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export users",
		})
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to render spreadsheet",
		})
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="users.xlsx"`)
	return c.Send(buf.Bytes())
}
