package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/zigger-app/gig-backend/internal/models"
	"github.com/zigger-app/gig-backend/internal/pkg/apperror"
	"github.com/zigger-app/gig-backend/internal/repository/common"
)

// WalletRepository отвечает за баланс профилей, журнал wallet_transactions
// и записи escrow_transactions. Все многошаговые операции выполняются в одной
// транзакции: изменение баланса, запись в журнал и escrow фиксируются вместе
// или не фиксируются вовсе.
type WalletRepository struct {
	db *sqlx.DB
}

// NewWalletRepository создаёт экземпляр репозитория.
func NewWalletRepository(db *sqlx.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// Deposit пополняет баланс пользователя и пишет CREDIT запись в журнал.
func (r *WalletRepository) Deposit(ctx context.Context, userID uuid.UUID, amount float64, description string) (*models.WalletTransaction, error) {
	var txn *models.WalletTransaction
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := lockProfileRow(ctx, tx, userID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE profiles SET wallet_balance = wallet_balance + $2, updated_at = NOW()
			WHERE id = $1
		`, userID, amount); err != nil {
			return fmt.Errorf("wallet repository: deposit update balance %w", err)
		}

		var err error
		txn, err = appendLedgerTx(ctx, tx, userID, amount, models.WalletTransactionCredit, description, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// GetBalance возвращает текущий баланс пользователя.
func (r *WalletRepository) GetBalance(ctx context.Context, userID uuid.UUID) (float64, error) {
	var balance float64
	err := r.db.GetContext(ctx, &balance, `SELECT wallet_balance FROM profiles WHERE id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperror.ErrProfileNotFound
		}
		return 0, fmt.Errorf("wallet repository: get balance %w", err)
	}
	return balance, nil
}

// GetEscrowByGigID возвращает escrow запись по заданию.
func (r *WalletRepository) GetEscrowByGigID(ctx context.Context, gigID uuid.UUID) (*models.EscrowTransaction, error) {
	return common.GetByField[models.EscrowTransaction](ctx, r.db, "escrow_transactions", "gig_id", gigID, apperror.ErrEscrowNotFound)
}

// ListTransactions возвращает журнал операций пользователя, новые первыми.
func (r *WalletRepository) ListTransactions(ctx context.Context, userID uuid.UUID) ([]models.WalletTransaction, error) {
	transactions := []models.WalletTransaction{}
	err := r.db.SelectContext(ctx, &transactions, `
		SELECT id, profile_id, amount, type, description, reference_id, created_at
		FROM wallet_transactions WHERE profile_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("wallet repository: list transactions %w", err)
	}
	return transactions, nil
}

// ListAllTransactions возвращает весь журнал (админский обзор).
func (r *WalletRepository) ListAllTransactions(ctx context.Context) ([]models.WalletTransaction, error) {
	transactions := []models.WalletTransaction{}
	err := r.db.SelectContext(ctx, &transactions, `
		SELECT id, profile_id, amount, type, description, reference_id, created_at
		FROM wallet_transactions ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("wallet repository: list all transactions %w", err)
	}
	return transactions, nil
}

// lockProfileRow берёт блокировку строки профиля и проверяет его существование.
func lockProfileRow(ctx context.Context, tx *sqlx.Tx, profileID uuid.UUID) error {
	var id uuid.UUID
	err := tx.GetContext(ctx, &id, `SELECT id FROM profiles WHERE id = $1 FOR UPDATE`, profileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.ErrProfileNotFound
		}
		return fmt.Errorf("wallet repository: lock profile %w", err)
	}
	return nil
}

// lockFundsTx списывает payout с баланса работодателя, пишет DEBIT запись
// и создаёт escrow в статусе held. Выполняется в переданной транзакции,
// чтобы создание задания и блокировка средств фиксировались атомарно.
func lockFundsTx(ctx context.Context, tx *sqlx.Tx, employerID uuid.UUID, gig *models.Gig) error {
	var balance float64
	err := tx.GetContext(ctx, &balance, `SELECT wallet_balance FROM profiles WHERE id = $1 FOR UPDATE`, employerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.ErrProfileNotFound
		}
		return fmt.Errorf("wallet repository: lock funds read balance %w", err)
	}

	if balance < gig.Payout {
		return apperror.ErrInsufficientBalance
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE profiles SET wallet_balance = wallet_balance - $2, updated_at = NOW()
		WHERE id = $1
	`, employerID, gig.Payout); err != nil {
		return fmt.Errorf("wallet repository: lock funds debit %w", err)
	}

	description := fmt.Sprintf("Блокировка средств по заданию: %s", gig.Title)
	if _, err := appendLedgerTx(ctx, tx, employerID, gig.Payout, models.WalletTransactionDebit, description, &gig.ID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO escrow_transactions (gig_id, amount, payer_id, status)
		VALUES ($1, $2, $3, $4)
	`, gig.ID, gig.Payout, employerID, models.EscrowStatusHeld); err != nil {
		return fmt.Errorf("wallet repository: create escrow %w", err)
	}

	return nil
}

// releaseFundsTx выплачивает escrow назначенному исполнителю.
// Повторный вызов по уже рассчитанному escrow — no-op, а не ошибка:
// система вправе легитимно повторять выплату.
func releaseFundsTx(ctx context.Context, tx *sqlx.Tx, gig *models.Gig) error {
	escrow, err := getEscrowForUpdateTx(ctx, tx, gig.ID)
	if err != nil {
		return err
	}

	if escrow.Status != models.EscrowStatusHeld {
		return nil
	}

	if gig.AssignedTo == nil {
		return apperror.ErrNoWorkerAssigned
	}
	workerID := *gig.AssignedTo

	if err := creditBalanceTx(ctx, tx, workerID, escrow.Amount); err != nil {
		return err
	}

	description := fmt.Sprintf("Оплата за задание: %s", gig.Title)
	if _, err := appendLedgerTx(ctx, tx, workerID, escrow.Amount, models.WalletTransactionCredit, description, &gig.ID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE escrow_transactions SET status = $2, payee_id = $3, settled_at = NOW()
		WHERE id = $1
	`, escrow.ID, models.EscrowStatusReleased, workerID); err != nil {
		return fmt.Errorf("wallet repository: release escrow %w", err)
	}

	return nil
}

// refundFundsTx возвращает escrow плательщику. Плательщик берётся из записи
// escrow, а не из задания: кто заблокировал средства, тот их и получает назад.
func refundFundsTx(ctx context.Context, tx *sqlx.Tx, gig *models.Gig) error {
	escrow, err := getEscrowForUpdateTx(ctx, tx, gig.ID)
	if err != nil {
		return err
	}

	if escrow.Status != models.EscrowStatusHeld {
		return nil
	}

	if err := creditBalanceTx(ctx, tx, escrow.PayerID, escrow.Amount); err != nil {
		return err
	}

	description := fmt.Sprintf("Возврат средств за отменённое задание: %s", gig.Title)
	if _, err := appendLedgerTx(ctx, tx, escrow.PayerID, escrow.Amount, models.WalletTransactionCredit, description, &gig.ID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE escrow_transactions SET status = $2, settled_at = NOW()
		WHERE id = $1
	`, escrow.ID, models.EscrowStatusRefunded); err != nil {
		return fmt.Errorf("wallet repository: refund escrow %w", err)
	}

	return nil
}

// getEscrowForUpdateTx читает escrow по заданию под блокировкой строки.
func getEscrowForUpdateTx(ctx context.Context, tx *sqlx.Tx, gigID uuid.UUID) (*models.EscrowTransaction, error) {
	var escrow models.EscrowTransaction
	err := tx.GetContext(ctx, &escrow, `SELECT * FROM escrow_transactions WHERE gig_id = $1 FOR UPDATE`, gigID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrEscrowNotFound
		}
		return nil, fmt.Errorf("wallet repository: get escrow %w", err)
	}
	return &escrow, nil
}

// creditBalanceTx начисляет сумму на баланс существующего профиля.
func creditBalanceTx(ctx context.Context, tx *sqlx.Tx, profileID uuid.UUID, amount float64) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE profiles SET wallet_balance = wallet_balance + $2, updated_at = NOW()
		WHERE id = $1
	`, profileID, amount)
	if err != nil {
		return fmt.Errorf("wallet repository: credit balance %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("wallet repository: credit balance rows affected %w", err)
	}
	if affected == 0 {
		return apperror.ErrProfileNotFound
	}
	return nil
}

// appendLedgerTx добавляет неизменяемую запись в журнал кошелька.
func appendLedgerTx(ctx context.Context, tx *sqlx.Tx, profileID uuid.UUID, amount float64, txnType, description string, referenceID *uuid.UUID) (*models.WalletTransaction, error) {
	var txn models.WalletTransaction
	err := tx.GetContext(ctx, &txn, `
		INSERT INTO wallet_transactions (profile_id, amount, type, description, reference_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, profile_id, amount, type, description, reference_id, created_at
	`, profileID, amount, txnType, description, referenceID)
	if err != nil {
		return nil, fmt.Errorf("wallet repository: append ledger %w", err)
	}
	return &txn, nil
}
