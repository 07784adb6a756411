package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/zigger-app/gig-backend/internal/models"
	"github.com/zigger-app/gig-backend/internal/pkg/apperror"
)

func gigRows(gigID, employerID uuid.UUID, assignedTo *uuid.UUID, status string) *sqlmock.Rows {
	var assigned interface{}
	if assignedTo != nil {
		assigned = assignedTo.String()
	}
	return sqlmock.NewRows([]string{
		"id", "title", "location_name", "geo_lat", "geo_lng",
		"payout", "currency", "created_by", "assigned_to", "status", "created_at",
	}).AddRow(
		gigID.String(), "Разгрузка", "Склад №3", 55.75, 37.61,
		1500.0, "INR", employerID.String(), assigned, status, time.Now(),
	)
}

func TestGigRepository_AssignWorker_WorkerNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGigRepository(db)

	employerID := uuid.New()
	gigID := uuid.New()
	workerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM gigs WHERE id = \$1 FOR UPDATE`).
		WithArgs(gigID).
		WillReturnRows(gigRows(gigID, employerID, nil, models.GigStatusOpen))
	mock.ExpectQuery(`SELECT id FROM profiles WHERE id = \$1`).
		WithArgs(workerID).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.AssignWorker(context.Background(), employerID, gigID, workerID)
	assert.ErrorIs(t, err, apperror.ErrProfileNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGigRepository_CompleteAndRelease_PaysInSameTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGigRepository(db)

	employerID := uuid.New()
	workerID := uuid.New()
	gigID := uuid.New()
	escrowID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM gigs WHERE id = \$1 FOR UPDATE`).
		WithArgs(gigID).
		WillReturnRows(gigRows(gigID, employerID, &workerID, models.GigStatusInProgress))
	mock.ExpectQuery(`UPDATE gigs SET status = \$2, actual_end_time`).
		WithArgs(gigID, models.GigStatusCompleted).
		WillReturnRows(gigRows(gigID, employerID, &workerID, models.GigStatusCompleted))
	mock.ExpectQuery(`SELECT \* FROM escrow_transactions WHERE gig_id = \$1 FOR UPDATE`).
		WithArgs(gigID).
		WillReturnRows(escrowRows(escrowID, gigID, employerID, 1500.0, models.EscrowStatusHeld))
	mock.ExpectExec(`UPDATE profiles SET wallet_balance = wallet_balance \+ \$2`).
		WithArgs(workerID, 1500.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO wallet_transactions`).
		WithArgs(workerID, 1500.0, models.WalletTransactionCredit, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(ledgerRows(workerID, 1500.0, models.WalletTransactionCredit, gigID))
	mock.ExpectExec(`UPDATE escrow_transactions SET status = \$2, payee_id = \$3`).
		WithArgs(escrowID, models.EscrowStatusReleased, workerID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	gig, err := repo.CompleteAndRelease(context.Background(), workerID, gigID)
	assert.NoError(t, err)
	assert.Equal(t, models.GigStatusCompleted, gig.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGigRepository_GetWorkerApplication_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGigRepository(db)

	gigID := uuid.New()
	workerID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM gig_applications WHERE gig_id = \$1 AND worker_id = \$2`).
		WithArgs(gigID, workerID).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetWorkerApplication(context.Background(), gigID, workerID)
	assert.ErrorIs(t, err, apperror.ErrApplicationNotFound)
}
