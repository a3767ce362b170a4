package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"backoffice/internal/repository"
	"backoffice/internal/service"
)

// ListAuditLogs filters by agent_id, action, target_type and an RFC3339 from/to window.
func ListAuditLogs(svc service.AuditService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorOf(c)
		if err != nil {
			return err
		}
		limit, offset, err := pagination(c)
		if err != nil {
			return err
		}
		agentID, err := queryID(c, "agent_id")
		if err != nil {
			return err
		}
		f := repository.AuditFilter{
			AgentID:    agentID,
			Action:     c.Query("action"),
			TargetType: c.Query("target_type"),
		}
		if f.From, err = queryTime(c, "from"); err != nil {
			return err
		}
		if f.To, err = queryTime(c, "to"); err != nil {
			return err
		}
		res, err := svc.List(c.UserContext(), actor, f, limit, offset)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

func queryTime(c *fiber.Ctx, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, badRequest("INVALID_QUERY", name+" must be RFC3339")
	}
	return t, nil
}
