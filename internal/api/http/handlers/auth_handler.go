package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/member-portal/internal/api/dto"
	"github.com/spec-kit/member-portal/internal/domain"
	"github.com/spec-kit/member-portal/internal/service"
)

// AuthHandler exposes registration, login and credential recovery endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	member, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		Gender:    req.Gender,
		Birthdate: req.Birthdate,
		Branch:    req.Branch,
		Position:  req.Position,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "registration successful, check your email for the verification code",
		"data":    fiber.Map{"member": dto.NewMemberView(member)},
	})
}

// CheckEmail handles POST /api/check-email.
func (h *AuthHandler) CheckEmail(c *fiber.Ctx) error {
	var req dto.EmailRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "email required")
	}

	exists, err := h.auth.CheckEmail(c.UserContext(), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"exists": exists})
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	member, session, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"member": dto.NewMemberView(member),
			"auth":   dto.SessionResponse{Token: session.Token, ExpiresAt: session.ExpiresAt},
		},
	})
}

// RequestLoginOTP handles POST /api/login-otp-request.
func (h *AuthHandler) RequestLoginOTP(c *fiber.Ctx) error {
	var req dto.EmailRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "email required")
	}

	if err := h.auth.RequestLoginOTP(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "a login code has been sent to your email",
	})
}

// VerifyOTP handles POST /api/verify-otp.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req dto.OTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.auth.VerifyOTP(c.UserContext(), req.Email, req.Code, parsePurpose(req.Purpose))
	if err != nil {
		return err
	}

	response := fiber.Map{"success": true, "message": "code verified"}
	if result.Member != nil && result.Session != nil {
		response["data"] = fiber.Map{
			"member": dto.NewMemberView(result.Member),
			"auth":   dto.SessionResponse{Token: result.Session.Token, ExpiresAt: result.Session.ExpiresAt},
		}
	}
	return c.JSON(response)
}

// ResendOTP handles POST /api/resend-otp.
func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	var req dto.OTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "email required")
	}

	if err := h.auth.ResendOTP(c.UserContext(), req.Email, parsePurpose(req.Purpose)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "a new verification code has been sent to your email",
	})
}

// RequestPasswordReset handles POST /api/reset-password-request. It responds
// 200 whether or not the email exists.
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.EmailRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "email required")
	}

	if err := h.auth.RequestPasswordReset(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "if the email exists, a reset code has been sent",
	})
}

// VerifyResetOTP handles POST /api/reset-password-verify-otp.
func (h *AuthHandler) VerifyResetOTP(c *fiber.Ctx) error {
	var req dto.OTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if _, err := h.auth.VerifyOTP(c.UserContext(), req.Email, req.Code, domain.OTPPurposePasswordReset); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "code verified"})
}

// ConfirmPasswordReset handles POST /api/reset-password-update.
func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Code == "" || req.NewPassword == "" {
		return fiber.NewError(http.StatusBadRequest, "email, code and new password required")
	}

	if err := h.auth.ConfirmPasswordReset(c.UserContext(), req.Email, req.Code, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "password has been reset"})
}

func parsePurpose(raw string) domain.OTPPurpose {
	switch raw {
	case "", "registration":
		return domain.OTPPurposeRegistration
	case "login":
		return domain.OTPPurposeLogin
	case "password_reset", "reset":
		return domain.OTPPurposePasswordReset
	default:
		return domain.OTPPurpose(raw)
	}
}
