package handler

import (
	"github.com/gofiber/fiber/v2"

	"backoffice/internal/service"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// Login issues a bearer token for valid agent credentials.
func Login(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in loginRequest
		if err := bindJSON(c, &in); err != nil {
			return err
		}
		res, err := svc.Login(c.UserContext(), in.Username, in.Password, c.IP())
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

// Logout revokes the caller's current session.
func Logout(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorOf(c)
		if err != nil {
			return err
		}
		if err := svc.Logout(c.UserContext(), actor); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ChangePassword replaces the caller's password and signs out every session.
func ChangePassword(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorOf(c)
		if err != nil {
			return err
		}
		var in changePasswordRequest
		if err := bindJSON(c, &in); err != nil {
			return err
		}
		if err := svc.ChangePassword(c.UserContext(), actor, in.OldPassword, in.NewPassword); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
