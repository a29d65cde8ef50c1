package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/member-portal/internal/domain"
)

// RequireMember ensures an authenticated member is making the call.
func RequireMember() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.SubjectType != domain.SubjectTypeMember || principal.Member == nil {
			return fiber.NewError(http.StatusForbidden, "member session required")
		}
		return c.Next()
	}
}

// RequireAdmin ensures an authenticated administrator is making the call.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.SubjectType != domain.SubjectTypeAdmin || principal.Admin == nil {
			return fiber.NewError(http.StatusForbidden, "admin session required")
		}
		return c.Next()
	}
}
