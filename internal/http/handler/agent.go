package handler

import (
	"github.com/gofiber/fiber/v2"

	"backoffice/internal/model"
	"backoffice/internal/repository"
	"backoffice/internal/service"
)

type createAgentRequest struct {
	Username    string             `json:"username" validate:"required,min=3,max=64"`
	Password    string             `json:"password" validate:"required"`
	Name        string             `json:"name" validate:"max=64"`
	Role        string             `json:"role" validate:"omitempty,oneof=admin agent"`
	Permissions *model.Permissions `json:"permissions"`
}

type updateAgentRequest struct {
	Name   *string `json:"name"`
	Status *string `json:"status" validate:"omitempty,oneof=active disabled"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required"`
}

type assignUsersRequest struct {
	UserIDs []int64 `json:"user_ids" validate:"required,min=1,dive,gt=0"`
}

type profileRequest struct {
	Name string `json:"name" validate:"required"`
}

func ListAgents(svc service.AgentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorOf(c)
		if err != nil {
			return err
		}
		limit, offset, err := pagination(c)
		if err != nil {
			return err
		}
		f := repository.AgentFilter{
			Username: c.Query("username"),
			Status:   model.AgentStatus(c.Query("status")),
			Role:     model.Role(c.Query("role")),
		}
		res, err := svc.List(c.UserContext(), actor, f, limit, offset)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

func GetAgent(svc service.AgentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorOf(c)
		if err != nil {
			return err
		}
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		a, err := svc.Get(c.UserContext(), actor, id)
		if err != nil {
			return err
		}
		return c.JSON(a)
	}
}

func CreateAgent(svc service.AgentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorOf(c)
		if err != nil {
			return err
		}
		var in createAgentRequest
		if err := bindJSON(c, &in); err != nil {
			return err
		}
		input := service.CreateAgentInput{
			Username: in.Username,
			Password: in.Password,
			Name:     in.Name,
			Role:     model.Role(in.Role),
		}
		if in.Permissions != nil {
			input.Permissions = *in.Permissions
		}
		a, err := svc.Create(c.UserContext(), actor, input)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(a)
	}
}

func UpdateAgent(svc service.AgentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorOf(c)
		if err != nil {
			return err
		}
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var in updateAgentRequest
		if err := bindJSON(c, &in); err != nil {
			return err
		}
		input := service.UpdateAgentInput{Name: in.Name}
		if in.Status != nil {
			st := model.AgentStatus(*in.Status)
			input.Status = &st
		}
		a, err := svc.Update(c.UserContext(), actor, id, input)
		if err != nil {
			return err
		}
		return c.JSON(a)
	}
}

func SetAgentPermissions(svc service.AgentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorOf(c)
		if err != nil {
			return err
		}
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var in model.Permissions
		if err := bindJSON(c, &in); err != nil {
			return err
		}
		a, err := svc.SetPermissions(c.UserContext(), actor, id, in)
		if err != nil {
			return err
		}
		return c.JSON(a)
	}
}

func ResetAgentPassword(svc service.AgentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorOf(c)
		if err != nil {
			return err
		}
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var in resetPasswordRequest
		if err := bindJSON(c, &in); err != nil {
			return err
		}
		if err := svc.ResetPassword(c.UserContext(), actor, id, in.NewPassword); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func AssignUsers(svc service.AgentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorOf(c)
		if err != nil {
			return err
		}
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var in assignUsersRequest
		if err := bindJSON(c, &in); err != nil {
			return err
		}
		if err := svc.AssignUsers(c.UserContext(), actor, id, in.UserIDs); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func UnassignUser(svc service.AgentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorOf(c)
		if err != nil {
			return err
		}
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		userID, err := pathID(c, "userId")
		if err != nil {
			return err
		}
		if err := svc.UnassignUser(c.UserContext(), actor, id, userID); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GetProfile returns the caller's own agent record.
func GetProfile(svc service.AgentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorOf(c)
		if err != nil {
			return err
		}
		a, err := svc.Profile(c.UserContext(), actor)
		if err != nil {
			return err
		}
		return c.JSON(a)
	}
}

func UpdateProfile(svc service.AgentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorOf(c)
		if err != nil {
			return err
		}
		var in profileRequest
		if err := bindJSON(c, &in); err != nil {
			return err
		}
		a, err := svc.UpdateProfile(c.UserContext(), actor, in.Name)
		if err != nil {
			return err
		}
		return c.JSON(a)
	}
}
