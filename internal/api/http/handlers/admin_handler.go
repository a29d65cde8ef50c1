package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/member-portal/internal/api/dto"
	"github.com/spec-kit/member-portal/internal/domain"
	"github.com/spec-kit/member-portal/internal/service"
)

// AdminHandler exposes the administrative console endpoints.
type AdminHandler struct {
	admin *service.AdminService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: adminService}
}

// Login handles POST /api/admin/login.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	admin, session, err := h.admin.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"admin": dto.NewAdminView(admin),
			"auth":  dto.SessionResponse{Token: session.Token, ExpiresAt: session.ExpiresAt},
		},
	})
}

// ListMembers handles GET /api/admin/members?search=&status=&branch=.
func (h *AdminHandler) ListMembers(c *fiber.Ctx) error {
	filters := service.MemberListFilters{}

	if search := c.Query("search"); search != "" {
		filters.Search = &search
	}
	if branch := c.Query("branch"); branch != "" && branch != "all" {
		filters.Branch = &branch
	}
	if status := c.Query("status"); status != "" && status != "all" {
		parsed := domain.MemberStatus(status)
		switch parsed {
		case domain.MemberStatusActive, domain.MemberStatusInactive, domain.MemberStatusDeactivated:
			filters.Status = &parsed
		default:
			return fiber.NewError(http.StatusBadRequest, "unknown status filter")
		}
	}

	entries, stats, err := h.admin.ListMembers(c.UserContext(), filters)
	if err != nil {
		return err
	}

	members := make([]dto.AdminMemberView, 0, len(entries))
	for _, entry := range entries {
		members = append(members, dto.AdminMemberView{
			MemberView: dto.NewMemberView(&entry.Member),
			Status:     entry.Status,
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    dto.MemberListResponse{Members: members, Stats: stats},
	})
}

// ListBranches handles GET /api/admin/branches.
func (h *AdminHandler) ListBranches(c *fiber.Ctx) error {
	branches, err := h.admin.ListBranches(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "branches": branches})
}

// PermanentDelete handles DELETE /api/admin/delete-member-permanent.
func (h *AdminHandler) PermanentDelete(c *fiber.Ctx) error {
	var req dto.EmailRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "email required")
	}

	if err := h.admin.PermanentDeleteMember(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "member permanently deleted"})
}

// RestoreMember handles POST /api/admin/restore-member.
func (h *AdminHandler) RestoreMember(c *fiber.Ctx) error {
	var req dto.EmailRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "email required")
	}

	member, err := h.admin.RestoreMember(c.UserContext(), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"member": dto.NewMemberView(member)}})
}
