package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"backoffice/internal/model"
	"backoffice/internal/repository"
	"backoffice/internal/service"
)

type createUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"omitempty,email,max=254"`
	Phone    string `json:"phone" validate:"max=32"`
}

type updateUserRequest struct {
	Email  *string `json:"email" validate:"omitempty,max=254"`
	Phone  *string `json:"phone" validate:"omitempty,max=32"`
	Status *string `json:"status" validate:"omitempty,oneof=active frozen"`
}

type adjustBalanceRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Remark string          `json:"remark" validate:"max=255"`
}

func ListUsers(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorOf(c)
		if err != nil {
			return err
		}
		limit, offset, err := pagination(c)
		if err != nil {
			return err
		}
		f := repository.UserFilter{
			Username: c.Query("username"),
			Status:   model.UserStatus(c.Query("status")),
		}
		res, err := svc.List(c.UserContext(), actor, f, limit, offset)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

func GetUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorOf(c)
		if err != nil {
			return err
		}
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		u, err := svc.Get(c.UserContext(), actor, id)
		if err != nil {
			return err
		}
		return c.JSON(u)
	}
}

func CreateUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorOf(c)
		if err != nil {
			return err
		}
		var in createUserRequest
		if err := bindJSON(c, &in); err != nil {
			return err
		}
		u, err := svc.Create(c.UserContext(), actor, service.CreateUserInput{
			Username: in.Username,
			Email:    in.Email,
			Phone:    in.Phone,
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(u)
	}
}

func UpdateUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorOf(c)
		if err != nil {
			return err
		}
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var in updateUserRequest
		if err := bindJSON(c, &in); err != nil {
			return err
		}
		input := service.UpdateUserInput{Email: in.Email, Phone: in.Phone}
		if in.Status != nil {
			st := model.UserStatus(*in.Status)
			input.Status = &st
		}
		u, err := svc.Update(c.UserContext(), actor, id, input)
		if err != nil {
			return err
		}
		return c.JSON(u)
	}
}

// AdjustBalance applies a signed manual credit or debit.
func AdjustBalance(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorOf(c)
		if err != nil {
			return err
		}
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var in adjustBalanceRequest
		if err := bindJSON(c, &in); err != nil {
			return err
		}
		res, err := svc.AdjustBalance(c.UserContext(), actor, id, in.Amount, in.Remark)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

func ListUserTransactions(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorOf(c)
		if err != nil {
			return err
		}
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		limit, offset, err := pagination(c)
		if err != nil {
			return err
		}
		f := repository.TransactionFilter{
			Type:   model.TransactionType(c.Query("type")),
			Status: model.TransactionStatus(c.Query("status")),
		}
		res, err := svc.Transactions(c.UserContext(), actor, id, f, limit, offset)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}
