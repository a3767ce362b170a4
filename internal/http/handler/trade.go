package handler

import (
	"github.com/gofiber/fiber/v2"

	"backoffice/internal/repository"
	"backoffice/internal/service"
)

func ListTrades(svc service.TradeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorOf(c)
		if err != nil {
			return err
		}
		limit, offset, err := pagination(c)
		if err != nil {
			return err
		}
		userID, err := queryID(c, "user_id")
		if err != nil {
			return err
		}
		f := repository.TradeFilter{
			UserID: userID,
			Symbol: c.Query("symbol"),
			Result: c.Query("result"),
		}
		res, err := svc.List(c.UserContext(), actor, f, limit, offset)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}
