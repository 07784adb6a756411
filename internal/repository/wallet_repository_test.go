package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"github.com/zigger-app/gig-backend/internal/models"
	"github.com/zigger-app/gig-backend/internal/pkg/apperror"
)

// newMockDB поднимает sqlx поверх замоканного соединения. Каждый SQL запрос
// объявляется заранее; незаявленный запрос роняет тест, поэтому проверяется
// не только что выполнилось, но и что лишнего не выполнялось.
func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

// beginMockTx открывает транзакцию для прямой проверки tx-хелперов.
func beginMockTx(t *testing.T, db *sqlx.DB, mock sqlmock.Sqlmock) *sqlx.Tx {
	t.Helper()
	mock.ExpectBegin()
	tx, err := db.BeginTxx(context.Background(), nil)
	assert.NoError(t, err)
	return tx
}

func escrowRows(escrowID, gigID, payerID uuid.UUID, amount float64, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "gig_id", "amount", "payer_id", "payee_id", "status", "created_at", "settled_at"}).
		AddRow(escrowID.String(), gigID.String(), amount, payerID.String(), nil, status, time.Now(), nil)
}

func ledgerRows(profileID uuid.UUID, amount float64, txnType string, gigID uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "profile_id", "amount", "type", "description", "reference_id", "created_at"}).
		AddRow(uuid.NewString(), profileID.String(), amount, txnType, "", gigID.String(), time.Now())
}

func TestLockFundsTx_InsufficientBalance(t *testing.T) {
	db, mock := newMockDB(t)
	tx := beginMockTx(t, db, mock)

	employerID := uuid.New()
	gig := &models.Gig{ID: uuid.New(), Title: "Разгрузка", Payout: 500, CreatedBy: employerID}

	mock.ExpectQuery(`SELECT wallet_balance FROM profiles WHERE id = \$1 FOR UPDATE`).
		WithArgs(employerID).
		WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}).AddRow(100.0))

	err := lockFundsTx(context.Background(), tx, employerID, gig)
	assert.ErrorIs(t, err, apperror.ErrInsufficientBalance)

	// При нехватке средств не появляется ни списания, ни записи журнала, ни escrow
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockFundsTx_DebitsExactPayout(t *testing.T) {
	db, mock := newMockDB(t)
	tx := beginMockTx(t, db, mock)

	employerID := uuid.New()
	gig := &models.Gig{ID: uuid.New(), Title: "Разгрузка", Payout: 500, CreatedBy: employerID}

	mock.ExpectQuery(`SELECT wallet_balance FROM profiles WHERE id = \$1 FOR UPDATE`).
		WithArgs(employerID).
		WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}).AddRow(2000.0))
	mock.ExpectExec(`UPDATE profiles SET wallet_balance = wallet_balance - \$2`).
		WithArgs(employerID, 500.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO wallet_transactions`).
		WithArgs(employerID, 500.0, models.WalletTransactionDebit, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(ledgerRows(employerID, 500.0, models.WalletTransactionDebit, gig.ID))
	mock.ExpectExec(`INSERT INTO escrow_transactions`).
		WithArgs(gig.ID, 500.0, employerID, models.EscrowStatusHeld).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := lockFundsTx(context.Background(), tx, employerID, gig)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockFundsTx_EmployerNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	tx := beginMockTx(t, db, mock)

	employerID := uuid.New()
	gig := &models.Gig{ID: uuid.New(), Title: "Разгрузка", Payout: 500, CreatedBy: employerID}

	mock.ExpectQuery(`SELECT wallet_balance FROM profiles WHERE id = \$1 FOR UPDATE`).
		WithArgs(employerID).
		WillReturnError(sql.ErrNoRows)

	err := lockFundsTx(context.Background(), tx, employerID, gig)
	assert.ErrorIs(t, err, apperror.ErrProfileNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseFundsTx_PaysAssignedWorker(t *testing.T) {
	db, mock := newMockDB(t)
	tx := beginMockTx(t, db, mock)

	employerID := uuid.New()
	workerID := uuid.New()
	escrowID := uuid.New()
	gig := &models.Gig{ID: uuid.New(), Title: "Разгрузка", Payout: 1500, CreatedBy: employerID, AssignedTo: &workerID}

	mock.ExpectQuery(`SELECT \* FROM escrow_transactions WHERE gig_id = \$1 FOR UPDATE`).
		WithArgs(gig.ID).
		WillReturnRows(escrowRows(escrowID, gig.ID, employerID, 1500.0, models.EscrowStatusHeld))
	mock.ExpectExec(`UPDATE profiles SET wallet_balance = wallet_balance \+ \$2`).
		WithArgs(workerID, 1500.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO wallet_transactions`).
		WithArgs(workerID, 1500.0, models.WalletTransactionCredit, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(ledgerRows(workerID, 1500.0, models.WalletTransactionCredit, gig.ID))
	mock.ExpectExec(`UPDATE escrow_transactions SET status = \$2, payee_id = \$3`).
		WithArgs(escrowID, models.EscrowStatusReleased, workerID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := releaseFundsTx(context.Background(), tx, gig)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseFundsTx_AlreadySettledNoOp(t *testing.T) {
	db, mock := newMockDB(t)
	tx := beginMockTx(t, db, mock)

	employerID := uuid.New()
	workerID := uuid.New()
	gig := &models.Gig{ID: uuid.New(), Title: "Разгрузка", CreatedBy: employerID, AssignedTo: &workerID}

	mock.ExpectQuery(`SELECT \* FROM escrow_transactions WHERE gig_id = \$1 FOR UPDATE`).
		WithArgs(gig.ID).
		WillReturnRows(escrowRows(uuid.New(), gig.ID, employerID, 1500.0, models.EscrowStatusReleased))

	// Повторная выплата не начисляет деньги и не пишет в журнал второй раз
	err := releaseFundsTx(context.Background(), tx, gig)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseFundsTx_NoWorkerAssigned(t *testing.T) {
	db, mock := newMockDB(t)
	tx := beginMockTx(t, db, mock)

	employerID := uuid.New()
	gig := &models.Gig{ID: uuid.New(), Title: "Разгрузка", CreatedBy: employerID}

	mock.ExpectQuery(`SELECT \* FROM escrow_transactions WHERE gig_id = \$1 FOR UPDATE`).
		WithArgs(gig.ID).
		WillReturnRows(escrowRows(uuid.New(), gig.ID, employerID, 1500.0, models.EscrowStatusHeld))

	err := releaseFundsTx(context.Background(), tx, gig)
	assert.ErrorIs(t, err, apperror.ErrNoWorkerAssigned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseFundsTx_MissingEscrow(t *testing.T) {
	db, mock := newMockDB(t)
	tx := beginMockTx(t, db, mock)

	workerID := uuid.New()
	gig := &models.Gig{ID: uuid.New(), Title: "Разгрузка", AssignedTo: &workerID}

	mock.ExpectQuery(`SELECT \* FROM escrow_transactions WHERE gig_id = \$1 FOR UPDATE`).
		WithArgs(gig.ID).
		WillReturnError(sql.ErrNoRows)

	err := releaseFundsTx(context.Background(), tx, gig)
	assert.ErrorIs(t, err, apperror.ErrEscrowNotFound)
}

func TestRefundFundsTx_CreditsPayerFromEscrow(t *testing.T) {
	db, mock := newMockDB(t)
	tx := beginMockTx(t, db, mock)

	// Плательщик в escrow намеренно отличается от автора задания:
	// возврат идёт тому, кто блокировал средства
	payerID := uuid.New()
	escrowID := uuid.New()
	gig := &models.Gig{ID: uuid.New(), Title: "Разгрузка", CreatedBy: uuid.New()}

	mock.ExpectQuery(`SELECT \* FROM escrow_transactions WHERE gig_id = \$1 FOR UPDATE`).
		WithArgs(gig.ID).
		WillReturnRows(escrowRows(escrowID, gig.ID, payerID, 800.0, models.EscrowStatusHeld))
	mock.ExpectExec(`UPDATE profiles SET wallet_balance = wallet_balance \+ \$2`).
		WithArgs(payerID, 800.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO wallet_transactions`).
		WithArgs(payerID, 800.0, models.WalletTransactionCredit, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(ledgerRows(payerID, 800.0, models.WalletTransactionCredit, gig.ID))
	mock.ExpectExec(`UPDATE escrow_transactions SET status = \$2, settled_at`).
		WithArgs(escrowID, models.EscrowStatusRefunded).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := refundFundsTx(context.Background(), tx, gig)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefundFundsTx_AlreadyRefundedNoOp(t *testing.T) {
	db, mock := newMockDB(t)
	tx := beginMockTx(t, db, mock)

	payerID := uuid.New()
	gig := &models.Gig{ID: uuid.New(), Title: "Разгрузка", CreatedBy: payerID}

	mock.ExpectQuery(`SELECT \* FROM escrow_transactions WHERE gig_id = \$1 FOR UPDATE`).
		WithArgs(gig.ID).
		WillReturnRows(escrowRows(uuid.New(), gig.ID, payerID, 800.0, models.EscrowStatusRefunded))

	err := refundFundsTx(context.Background(), tx, gig)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
