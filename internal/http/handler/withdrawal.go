package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"backoffice/internal/model"
	"backoffice/internal/repository"
	"backoffice/internal/service"
)

type createWithdrawalRequest struct {
	UserID         int64           `json:"user_id" validate:"required,gt=0"`
	Amount         decimal.Decimal `json:"amount"`
	Method         string          `json:"method" validate:"required,oneof=bank crypto"`
	BankCardID     *int64          `json:"bank_card_id" validate:"omitempty,gt=0"`
	CryptoWalletID *int64          `json:"crypto_wallet_id" validate:"omitempty,gt=0"`
}

type reviewRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
	Reason string `json:"reason" validate:"max=255"`
}

func ListWithdrawals(svc service.WithdrawalService) fiber.Handler {
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
		f := repository.WithdrawalFilter{
			UserID: userID,
			Status: model.WithdrawalStatus(c.Query("status")),
		}
		res, err := svc.List(c.UserContext(), actor, f, limit, offset)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

func GetWithdrawal(svc service.WithdrawalService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorOf(c)
		if err != nil {
			return err
		}
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		w, err := svc.Get(c.UserContext(), actor, id)
		if err != nil {
			return err
		}
		return c.JSON(w)
	}
}

func CreateWithdrawal(svc service.WithdrawalService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorOf(c)
		if err != nil {
			return err
		}
		var in createWithdrawalRequest
		if err := bindJSON(c, &in); err != nil {
			return err
		}
		w, err := svc.Create(c.UserContext(), actor, service.CreateWithdrawalInput{
			UserID:         in.UserID,
			Amount:         in.Amount,
			Method:         model.WithdrawalMethod(in.Method),
			BankCardID:     in.BankCardID,
			CryptoWalletID: in.CryptoWalletID,
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(w)
	}
}

// ReviewWithdrawal approves or rejects a pending withdrawal.
func ReviewWithdrawal(svc service.WithdrawalService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorOf(c)
		if err != nil {
			return err
		}
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var in reviewRequest
		if err := bindJSON(c, &in); err != nil {
			return err
		}
		w, err := svc.Review(c.UserContext(), actor, id, service.ReviewAction(in.Action), in.Reason)
		if err != nil {
			return err
		}
		return c.JSON(w)
	}
}

// UploadReceipt accepts multipart/form-data with the receipt in field "file".
func UploadReceipt(svc service.WithdrawalService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorOf(c)
		if err != nil {
			return err
		}
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		if !svc.ReceiptsEnabled() {
			return service.ErrStorageUnavailable
		}
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		w, err := svc.UploadReceipt(c.UserContext(), actor, id, f, fh.Filename, ct, fh.Size)
		if err != nil {
			return err
		}
		return c.JSON(w)
	}
}

// ReceiptURL returns a short-lived download link for the stored receipt.
func ReceiptURL(svc service.WithdrawalService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorOf(c)
		if err != nil {
			return err
		}
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		url, err := svc.ReceiptURL(c.UserContext(), actor, id)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"url": url, "expires_in": int(service.ReceiptURLExpiry.Seconds())})
	}
}
