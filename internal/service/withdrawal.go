package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"backoffice/internal/idgen"
	"backoffice/internal/model"
	"backoffice/internal/repository"
	"backoffice/internal/storage"
)

// ReceiptURLExpiry is how long a presigned receipt link stays valid.
const ReceiptURLExpiry = 15 * time.Minute

const maxReasonLen = 255

type ReviewAction string

const (
	ReviewApprove ReviewAction = "approve"
	ReviewReject  ReviewAction = "reject"
)

func (a ReviewAction) target() (model.WithdrawalStatus, bool) {
	switch a {
	case ReviewApprove:
		return model.WithdrawalApproved, true
	case ReviewReject:
		return model.WithdrawalRejected, true
	}
	return "", false
}

// CreateWithdrawalInput files a payout request for a user. Exactly one wallet id matches Method.
type CreateWithdrawalInput struct {
	UserID         int64
	Amount         decimal.Decimal
	Method         model.WithdrawalMethod
	BankCardID     *int64
	CryptoWalletID *int64
}

// WithdrawalService runs the withdrawal lifecycle: pending, then approved or rejected.
type WithdrawalService interface {
	List(ctx context.Context, actor model.Actor, f repository.WithdrawalFilter, limit, offset int) (*ListResult[model.Withdrawal], error)
	Get(ctx context.Context, actor model.Actor, id int64) (*model.Withdrawal, error)
	// Create debits the user and records a pending ledger row linked to the new withdrawal.
	Create(ctx context.Context, actor model.Actor, in CreateWithdrawalInput) (*model.Withdrawal, error)
	// Review resolves a pending withdrawal. Repeating the applied action returns the stored record.
	Review(ctx context.Context, actor model.Actor, id int64, action ReviewAction, reason string) (*model.Withdrawal, error)
	// UploadReceipt stores a payout receipt for an approved withdrawal.
	UploadReceipt(ctx context.Context, actor model.Actor, id int64, r io.Reader, filename, contentType string, size int64) (*model.Withdrawal, error)
	ReceiptURL(ctx context.Context, actor model.Actor, id int64) (string, error)
	// ReceiptsEnabled reports whether object storage is configured.
	ReceiptsEnabled() bool
}

type withdrawalService struct {
	scope
	tx           repository.Transactor
	users        repository.UserRepository
	wallets      repository.WalletRepository
	transactions repository.TransactionRepository
	withdrawals  repository.WithdrawalRepository
	store        storage.Storage
	audit        *Auditor
	log          logrus.FieldLogger
	now          func() time.Time
}

// NewWithdrawalService wires the service. store may be nil when object storage is not configured.
func NewWithdrawalService(
	tx repository.Transactor,
	agents repository.AgentRepository,
	users repository.UserRepository,
	wallets repository.WalletRepository,
	transactions repository.TransactionRepository,
	withdrawals repository.WithdrawalRepository,
	store storage.Storage,
	audit *Auditor,
	log logrus.FieldLogger,
) WithdrawalService {
	return &withdrawalService{
		scope:        scope{agents: agents},
		tx:           tx,
		users:        users,
		wallets:      wallets,
		transactions: transactions,
		withdrawals:  withdrawals,
		store:        store,
		audit:        audit,
		log:          log,
		now:          time.Now,
	}
}

func (s *withdrawalService) List(ctx context.Context, actor model.Actor, f repository.WithdrawalFilter, limit, offset int) (*ListResult[model.Withdrawal], error) {
	f.AgentID = agentScope(actor)
	res, err := s.withdrawals.List(ctx, f, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return newListResult(res), nil
}

func (s *withdrawalService) Get(ctx context.Context, actor model.Actor, id int64) (*model.Withdrawal, error) {
	w, err := s.withdrawals.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	if err := s.checkUser(ctx, actor, w.UserID); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *withdrawalService) Create(ctx context.Context, actor model.Actor, in CreateWithdrawalInput) (*model.Withdrawal, error) {
	if err := requirePerm(actor, model.PermReviewWithdrawals); err != nil {
		return nil, err
	}
	if !in.Amount.IsPositive() {
		return nil, invalid("amount must be positive")
	}
	if err := checkMoney("amount", in.Amount); err != nil {
		return nil, err
	}
	switch in.Method {
	case model.MethodBank:
		if in.BankCardID == nil || in.CryptoWalletID != nil {
			return nil, invalid("bank withdrawals need bank_card_id only")
		}
	case model.MethodCrypto:
		if in.CryptoWalletID == nil || in.BankCardID != nil {
			return nil, invalid("crypto withdrawals need crypto_wallet_id only")
		}
	default:
		return nil, invalid("unknown method %q", in.Method)
	}
	if err := s.checkUser(ctx, actor, in.UserID); err != nil {
		return nil, err
	}

	var created *model.Withdrawal
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.users.FindByIDForUpdate(ctx, in.UserID)
		if err != nil {
			return err
		}
		if u.Status != model.UserActive {
			return ErrUserInactive
		}
		if u.Balance.LessThan(in.Amount) {
			return ErrInsufficientBalance
		}
		if err := s.checkPayoutWallet(ctx, in); err != nil {
			return err
		}

		newBalance := u.Balance.Sub(in.Amount)
		if err := s.users.UpdateBalance(ctx, u.ID, newBalance); err != nil {
			return err
		}
		operator := actor.AgentID
		orderNumber := idgen.OrderNumber()
		t, err := s.transactions.Create(ctx, &model.Transaction{
			UserID:          u.ID,
			Type:            model.TxWithdrawal,
			Amount:          in.Amount.Neg(),
			OldBalance:      u.Balance,
			NewBalance:      newBalance,
			Status:          model.TxPending,
			Reference:       idgen.Reference(),
			Remark:          orderNumber,
			OperatorAgentID: &operator,
		})
		if err != nil {
			return err
		}
		created, err = s.withdrawals.Create(ctx, &model.Withdrawal{
			OrderNumber:    orderNumber,
			UserID:         u.ID,
			Amount:         in.Amount,
			Method:         in.Method,
			BankCardID:     in.BankCardID,
			CryptoWalletID: in.CryptoWalletID,
			TransactionID:  t.ID,
			Status:         model.WithdrawalPending,
		})
		return err
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}

	s.audit.Record(ctx, actor, ActionWithdrawalCreate, "withdrawal", idString(created.ID), map[string]any{
		"order_number": created.OrderNumber,
		"user_id":      created.UserID,
		"amount":       created.Amount.String(),
		"method":       created.Method,
	})
	return created, nil
}

// checkPayoutWallet requires the selected wallet to exist and belong to the user.
func (s *withdrawalService) checkPayoutWallet(ctx context.Context, in CreateWithdrawalInput) error {
	var owner *int64
	if in.Method == model.MethodBank {
		c, err := s.wallets.FindBankCard(ctx, *in.BankCardID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return invalid("bank card does not exist")
			}
			return err
		}
		owner = c.UserID
	} else {
		w, err := s.wallets.FindCryptoWallet(ctx, *in.CryptoWalletID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return invalid("crypto wallet does not exist")
			}
			return err
		}
		owner = w.UserID
	}
	if owner == nil || *owner != in.UserID {
		return invalid("payout wallet does not belong to the user")
	}
	return nil
}

func (s *withdrawalService) Review(ctx context.Context, actor model.Actor, id int64, action ReviewAction, reason string) (*model.Withdrawal, error) {
	if err := requirePerm(actor, model.PermReviewWithdrawals); err != nil {
		return nil, err
	}
	target, ok := action.target()
	if !ok {
		return nil, invalid("action must be approve or reject")
	}
	reason = strings.TrimSpace(reason)
	if len(reason) > maxReasonLen {
		return nil, invalid("reason must be at most %d characters", maxReasonLen)
	}

	var (
		out     *model.Withdrawal
		changed bool
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		w, err := s.withdrawals.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := s.checkUser(ctx, actor, w.UserID); err != nil {
			return err
		}
		if w.Resolved() {
			if w.Status != target {
				return ErrAlreadyResolved
			}
			out = w
			return nil
		}

		switch target {
		case model.WithdrawalApproved:
			if err := s.transactions.UpdateStatus(ctx, w.TransactionID, model.TxCompleted); err != nil {
				return err
			}
		case model.WithdrawalRejected:
			if err := s.refund(ctx, actor, w); err != nil {
				return err
			}
			w.RejectReason = reason
		}

		at := s.now().UTC()
		reviewer := actor.AgentID
		w.Status = target
		w.ReviewedBy = &reviewer
		w.ReviewedAt = &at
		if err := s.withdrawals.UpdateReview(ctx, w); err != nil {
			return err
		}
		out, changed = w, true
		return nil
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}

	if changed {
		act := ActionWithdrawalApprove
		if target == model.WithdrawalRejected {
			act = ActionWithdrawalReject
		}
		s.audit.Record(ctx, actor, act, "withdrawal", idString(out.ID), map[string]any{
			"order_number": out.OrderNumber,
			"amount":       out.Amount.String(),
			"reason":       out.RejectReason,
		})
	}
	return out, nil
}

// refund fails the pending debit and credits the amount back with a refund ledger row.
func (s *withdrawalService) refund(ctx context.Context, actor model.Actor, w *model.Withdrawal) error {
	if err := s.transactions.UpdateStatus(ctx, w.TransactionID, model.TxFailed); err != nil {
		return err
	}
	u, err := s.users.FindByIDForUpdate(ctx, w.UserID)
	if err != nil {
		return err
	}
	newBalance := u.Balance.Add(w.Amount)
	if err := s.users.UpdateBalance(ctx, u.ID, newBalance); err != nil {
		return err
	}
	operator := actor.AgentID
	_, err = s.transactions.Create(ctx, &model.Transaction{
		UserID:          u.ID,
		Type:            model.TxRefund,
		Amount:          w.Amount,
		OldBalance:      u.Balance,
		NewBalance:      newBalance,
		Status:          model.TxCompleted,
		Reference:       idgen.Reference(),
		Remark:          w.OrderNumber,
		OperatorAgentID: &operator,
	})
	return err
}

func (s *withdrawalService) ReceiptsEnabled() bool { return s.store != nil }

func (s *withdrawalService) UploadReceipt(ctx context.Context, actor model.Actor, id int64, r io.Reader, filename, contentType string, size int64) (*model.Withdrawal, error) {
	if !s.ReceiptsEnabled() {
		return nil, ErrStorageUnavailable
	}
	if err := requirePerm(actor, model.PermReviewWithdrawals); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, invalid("file is required")
	}
	w, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if w.Status != model.WithdrawalApproved {
		return nil, invalid("receipts can only be attached to approved withdrawals")
	}

	obj, err := s.store.Upload(ctx, storage.Object{
		Key:         storage.ReceiptKey(w.OrderNumber, filename),
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": filename,
			"order-number":      w.OrderNumber,
		},
	}, r)
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	if err := s.withdrawals.SetReceipt(ctx, w.ID, obj.Key); err != nil {
		if delErr := s.store.Remove(ctx, obj.Key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", mapRepoErr(err))
	}

	if previous := w.ReceiptPath; previous != "" && previous != obj.Key {
		if err := s.store.Remove(ctx, previous); err != nil {
			s.log.WithError(err).WithField("key", previous).Warn("receipt_cleanup_failed")
		}
	}
	w.ReceiptPath = obj.Key

	s.audit.Record(ctx, actor, ActionWithdrawalReceipt, "withdrawal", idString(w.ID), map[string]any{
		"key":  obj.Key,
		"size": obj.Size,
	})
	return w, nil
}

func (s *withdrawalService) ReceiptURL(ctx context.Context, actor model.Actor, id int64) (string, error) {
	if !s.ReceiptsEnabled() {
		return "", ErrStorageUnavailable
	}
	w, err := s.Get(ctx, actor, id)
	if err != nil {
		return "", err
	}
	if w.ReceiptPath == "" {
		return "", ErrNotFound
	}
	return s.store.SignedURL(ctx, w.ReceiptPath, ReceiptURLExpiry)
}
