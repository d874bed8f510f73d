package role

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type RoleController struct {
	RoleService RoleService
}

func NewRoleController(roleService RoleService) *RoleController {
	return &RoleController{
		RoleService: roleService,
	}
}

type CreateRoleRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	PermissionIDs []string `json:"permission_ids,omitempty"`
}

// CreateRole godoc
// @Summary      Create a role
// @Description  Create a role from the closed role set with an optional permission bundle
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        input body CreateRoleRequest true "Role"
// @Success      201  {object} Role
// @Failure      400  {object} map[string]string
// @Failure      409  {object} map[string]string
// @Router       /api/admin/roles [post]
func (ctrl *RoleController) CreateRole(c *fiber.Ctx) error {
	var req CreateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	role, err := ctrl.RoleService.CreateRole(c.Context(), req.Name, req.Description, req.PermissionIDs)
	if err != nil {
		switch {
		case errors.Is(err, ErrNameRequired), errors.Is(err, ErrUnknownRole):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, ErrNameTaken):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create role"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(role)
}

// ListRoles godoc
// @Summary      List roles
// @Tags         admin
// @Produce      json
// @Success      200  {array} Role
// @Router       /api/admin/roles [get]
func (ctrl *RoleController) ListRoles(c *fiber.Ctx) error {
	roles, err := ctrl.RoleService.ListRoles(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch roles",
		})
	}
	if roles == nil {
		roles = []Role{}
	}
	return c.JSON(roles)
}
