package handler

import (
	"github.com/gofiber/fiber/v2"

	"backoffice/internal/service"
)

type settingsRequest struct {
	BroadcastMessage string `json:"broadcast_message"`
}

func GetSettings(svc service.SettingsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := svc.Get(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(s)
	}
}

func UpdateSettings(svc service.SettingsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorOf(c)
		if err != nil {
			return err
		}
		var in settingsRequest
		if err := bindJSON(c, &in); err != nil {
			return err
		}
		s, err := svc.Update(c.UserContext(), actor, in.BroadcastMessage)
		if err != nil {
			return err
		}
		return c.JSON(s)
	}
}
