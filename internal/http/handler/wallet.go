package handler

import (
	"github.com/gofiber/fiber/v2"

	"backoffice/internal/service"
)

type bankCardRequest struct {
	UserID      *int64 `json:"user_id" validate:"omitempty,gt=0"`
	BankName    string `json:"bank_name" validate:"required,max=64"`
	AccountName string `json:"account_name" validate:"required,max=128"`
	CardNumber  string `json:"card_number" validate:"required,max=32"`
}

type cryptoWalletRequest struct {
	UserID  *int64 `json:"user_id" validate:"omitempty,gt=0"`
	Network string `json:"network" validate:"required"`
	Address string `json:"address" validate:"required,max=128"`
	Label   string `json:"label" validate:"max=64"`
}

// ListWallets returns the wallets of ?user_id, or the caller's own.
func ListWallets(svc service.WalletService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorOf(c)
		if err != nil {
			return err
		}
		userID, err := queryID(c, "user_id")
		if err != nil {
			return err
		}
		var owner *int64
		if userID > 0 {
			owner = &userID
		}
		res, err := svc.List(c.UserContext(), actor, owner)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

func AddBankCard(svc service.WalletService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorOf(c)
		if err != nil {
			return err
		}
		var in bankCardRequest
		if err := bindJSON(c, &in); err != nil {
			return err
		}
		card, err := svc.AddBankCard(c.UserContext(), actor, service.BankCardInput{
			UserID:      in.UserID,
			BankName:    in.BankName,
			AccountName: in.AccountName,
			CardNumber:  in.CardNumber,
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(card)
	}
}

func AddCryptoWallet(svc service.WalletService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorOf(c)
		if err != nil {
			return err
		}
		var in cryptoWalletRequest
		if err := bindJSON(c, &in); err != nil {
			return err
		}
		w, err := svc.AddCryptoWallet(c.UserContext(), actor, service.CryptoWalletInput{
			UserID:  in.UserID,
			Network: in.Network,
			Address: in.Address,
			Label:   in.Label,
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(w)
	}
}

func DeleteBankCard(svc service.WalletService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorOf(c)
		if err != nil {
			return err
		}
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.DeleteBankCard(c.UserContext(), actor, id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func DeleteCryptoWallet(svc service.WalletService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorOf(c)
		if err != nil {
			return err
		}
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.DeleteCryptoWallet(c.UserContext(), actor, id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
