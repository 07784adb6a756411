package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/zigger-app/gig-backend/internal/models"
	"github.com/zigger-app/gig-backend/internal/pkg/apperror"
	"github.com/zigger-app/gig-backend/internal/repository/common"
)

// GigRepository отвечает за задания, отклики и их жизненный цикл.
// Переходы статусов, затрагивающие деньги, выполняются в одной транзакции
// с движением средств: частичное состояние "задание завершено, но не оплачено"
// в базе появиться не может.
type GigRepository struct {
	db *sqlx.DB
}

// NewGigRepository создаёт экземпляр репозитория.
func NewGigRepository(db *sqlx.DB) *GigRepository {
	return &GigRepository{db: db}
}

const gigColumns = `
	g.*,
	(SELECT COUNT(*) FROM gig_applications a WHERE a.gig_id = g.id) AS application_count
`

// CreateWithEscrow создаёт задание и блокирует средства работодателя
// в одной транзакции. Если средств недостаточно, задание не создаётся.
func (r *GigRepository) CreateWithEscrow(ctx context.Context, gig *models.Gig) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, gig, `
			INSERT INTO gigs (title, description, location_name, geo_lat, geo_lng,
				payout, currency, start_time, end_time, estimated_hours, created_by, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING *
		`, gig.Title, gig.Description, gig.LocationName, gig.GeoLat, gig.GeoLng,
			gig.Payout, gig.Currency, gig.StartTime, gig.EndTime, gig.EstimatedHours,
			gig.CreatedBy, models.GigStatusOpen)
		if err != nil {
			return fmt.Errorf("gig repository: create gig %w", err)
		}

		return lockFundsTx(ctx, tx, gig.CreatedBy, gig)
	})
}

// GetByID возвращает задание вместе со счётчиком откликов.
func (r *GigRepository) GetByID(ctx context.Context, gigID uuid.UUID) (*models.Gig, error) {
	var gig models.Gig
	err := r.db.GetContext(ctx, &gig, `SELECT `+gigColumns+` FROM gigs g WHERE g.id = $1`, gigID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrGigNotFound
		}
		return nil, fmt.Errorf("gig repository: get by id %w", err)
	}
	return &gig, nil
}

// ListOpen возвращает открытые задания, новые первыми.
func (r *GigRepository) ListOpen(ctx context.Context) ([]models.Gig, error) {
	gigs := []models.Gig{}
	err := r.db.SelectContext(ctx, &gigs, `
		SELECT `+gigColumns+` FROM gigs g
		WHERE g.status = $1 ORDER BY g.created_at DESC
	`, models.GigStatusOpen)
	if err != nil {
		return nil, fmt.Errorf("gig repository: list open %w", err)
	}
	return gigs, nil
}

// ListNearby возвращает открытые задания в радиусе radiusKm от точки.
// Расстояние считается по формуле гаверсинусов прямо в SQL.
func (r *GigRepository) ListNearby(ctx context.Context, lat, lng, radiusKm float64) ([]models.Gig, error) {
	gigs := []models.Gig{}
	err := r.db.SelectContext(ctx, &gigs, `
		SELECT `+gigColumns+` FROM gigs g
		WHERE g.status = $1
		  AND (6371 * acos(least(1.0,
				cos(radians($2)) * cos(radians(g.geo_lat)) * cos(radians(g.geo_lng) - radians($3))
				+ sin(radians($2)) * sin(radians(g.geo_lat))
			))) <= $4
		ORDER BY g.created_at DESC
	`, models.GigStatusOpen, lat, lng, radiusKm)
	if err != nil {
		return nil, fmt.Errorf("gig repository: list nearby %w", err)
	}
	return gigs, nil
}

// ListByEmployer возвращает задания, созданные работодателем.
func (r *GigRepository) ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]models.Gig, error) {
	gigs := []models.Gig{}
	err := r.db.SelectContext(ctx, &gigs, `
		SELECT `+gigColumns+` FROM gigs g
		WHERE g.created_by = $1 ORDER BY g.created_at DESC
	`, employerID)
	if err != nil {
		return nil, fmt.Errorf("gig repository: list by employer %w", err)
	}
	return gigs, nil
}

// ListByWorker возвращает задания, назначенные исполнителю.
func (r *GigRepository) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]models.Gig, error) {
	gigs := []models.Gig{}
	err := r.db.SelectContext(ctx, &gigs, `
		SELECT `+gigColumns+` FROM gigs g
		WHERE g.assigned_to = $1 ORDER BY g.created_at DESC
	`, workerID)
	if err != nil {
		return nil, fmt.Errorf("gig repository: list by worker %w", err)
	}
	return gigs, nil
}

// ListAll возвращает все задания (админский обзор).
func (r *GigRepository) ListAll(ctx context.Context) ([]models.Gig, error) {
	gigs := []models.Gig{}
	err := r.db.SelectContext(ctx, &gigs, `
		SELECT `+gigColumns+` FROM gigs g ORDER BY g.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("gig repository: list all %w", err)
	}
	return gigs, nil
}

// Apply создаёт отклик исполнителя на открытое задание.
// Повторный отклик той же пары (задание, исполнитель) отклоняется
// уникальным индексом.
func (r *GigRepository) Apply(ctx context.Context, app *models.GigApplication) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		gig, err := getGigForUpdateTx(ctx, tx, app.GigID)
		if err != nil {
			return err
		}
		if gig.Status != models.GigStatusOpen {
			return apperror.ErrGigClosed
		}

		err = tx.GetContext(ctx, app, `
			INSERT INTO gig_applications (gig_id, worker_id, bid_amount, pitch_message, status)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING *
		`, app.GigID, app.WorkerID, app.BidAmount, app.PitchMessage, models.ApplicationStatusPending)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23505" {
				return apperror.ErrAlreadyApplied
			}
			return fmt.Errorf("gig repository: create application %w", err)
		}
		return nil
	})
}

// ListApplications возвращает отклики на задание, новые первыми.
func (r *GigRepository) ListApplications(ctx context.Context, gigID uuid.UUID) ([]models.GigApplication, error) {
	apps := []models.GigApplication{}
	err := r.db.SelectContext(ctx, &apps, `
		SELECT * FROM gig_applications WHERE gig_id = $1 ORDER BY created_at DESC
	`, gigID)
	if err != nil {
		return nil, fmt.Errorf("gig repository: list applications %w", err)
	}
	return apps, nil
}

// ListWorkerApplications возвращает отклики исполнителя, новые первыми.
func (r *GigRepository) ListWorkerApplications(ctx context.Context, workerID uuid.UUID) ([]models.GigApplication, error) {
	apps := []models.GigApplication{}
	err := r.db.SelectContext(ctx, &apps, `
		SELECT * FROM gig_applications WHERE worker_id = $1 ORDER BY created_at DESC
	`, workerID)
	if err != nil {
		return nil, fmt.Errorf("gig repository: list worker applications %w", err)
	}
	return apps, nil
}

// GetWorkerApplication возвращает отклик исполнителя на конкретное задание.
func (r *GigRepository) GetWorkerApplication(ctx context.Context, gigID, workerID uuid.UUID) (*models.GigApplication, error) {
	var app models.GigApplication
	err := r.db.GetContext(ctx, &app, `
		SELECT * FROM gig_applications WHERE gig_id = $1 AND worker_id = $2
	`, gigID, workerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("gig repository: get worker application %w", err)
	}
	return &app, nil
}

// AssignWorker назначает исполнителя на открытое задание.
// Принятый отклик помечается accepted, остальные — rejected.
func (r *GigRepository) AssignWorker(ctx context.Context, employerID, gigID, workerID uuid.UUID) (*models.Gig, error) {
	var gig *models.Gig
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		gig, err = getGigForUpdateTx(ctx, tx, gigID)
		if err != nil {
			return err
		}
		if gig.CreatedBy != employerID {
			return apperror.ErrNotAuthorized
		}
		if gig.Status != models.GigStatusOpen {
			return apperror.ErrGigClosed
		}

		var workerExists uuid.UUID
		if err := tx.GetContext(ctx, &workerExists, `SELECT id FROM profiles WHERE id = $1`, workerID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperror.ErrProfileNotFound
			}
			return fmt.Errorf("gig repository: check worker %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE gig_applications SET status = $3
			WHERE gig_id = $1 AND worker_id = $2
		`, gigID, workerID, models.ApplicationStatusAccepted); err != nil {
			return fmt.Errorf("gig repository: accept application %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE gig_applications SET status = $3
			WHERE gig_id = $1 AND worker_id <> $2
		`, gigID, workerID, models.ApplicationStatusRejected); err != nil {
			return fmt.Errorf("gig repository: reject applications %w", err)
		}

		if err := tx.GetContext(ctx, gig, `
			UPDATE gigs SET status = $2, assigned_to = $3
			WHERE id = $1
			RETURNING *
		`, gigID, models.GigStatusAssigned, workerID); err != nil {
			return fmt.Errorf("gig repository: assign worker %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return gig, nil
}

// Start переводит задание в in_progress и фиксирует фактическое начало работы.
// Повторный вызов по уже идущему заданию — no-op.
func (r *GigRepository) Start(ctx context.Context, workerID, gigID uuid.UUID) (*models.Gig, error) {
	var gig *models.Gig
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		gig, err = getGigForUpdateTx(ctx, tx, gigID)
		if err != nil {
			return err
		}
		if gig.AssignedTo == nil || *gig.AssignedTo != workerID {
			return apperror.ErrNotAuthorized
		}
		if gig.Status == models.GigStatusInProgress {
			return nil
		}
		if gig.Status != models.GigStatusAssigned {
			return apperror.ErrGigNotStartable
		}

		if err := tx.GetContext(ctx, gig, `
			UPDATE gigs SET status = $2, actual_start_time = NOW()
			WHERE id = $1
			RETURNING *
		`, gigID, models.GigStatusInProgress); err != nil {
			return fmt.Errorf("gig repository: start gig %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return gig, nil
}

// SaveProof сохраняет фото-подтверждение выполнения работы.
func (r *GigRepository) SaveProof(ctx context.Context, workerID, gigID uuid.UUID, photoURL string) (*models.Gig, error) {
	var gig *models.Gig
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		gig, err = getGigForUpdateTx(ctx, tx, gigID)
		if err != nil {
			return err
		}
		if gig.AssignedTo == nil || *gig.AssignedTo != workerID {
			return apperror.ErrNotAuthorized
		}

		if err := tx.GetContext(ctx, gig, `
			UPDATE gigs SET proof_photo_url = $2
			WHERE id = $1
			RETURNING *
		`, gigID, photoURL); err != nil {
			return fmt.Errorf("gig repository: save proof %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO gig_progress_photos (gig_id, photo_url) VALUES ($1, $2)
		`, gigID, photoURL); err != nil {
			return fmt.Errorf("gig repository: save progress photo %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return gig, nil
}

// ListProgressPhotos возвращает фото прогресса по заданию в порядке добавления.
func (r *GigRepository) ListProgressPhotos(ctx context.Context, gigID uuid.UUID) ([]models.GigProgressPhoto, error) {
	photos := []models.GigProgressPhoto{}
	err := r.db.SelectContext(ctx, &photos, `
		SELECT * FROM gig_progress_photos WHERE gig_id = $1 ORDER BY created_at
	`, gigID)
	if err != nil {
		return nil, fmt.Errorf("gig repository: list progress photos %w", err)
	}
	return photos, nil
}

// UpdateLiveLocation обновляет последнюю известную позицию исполнителя по заданию.
func (r *GigRepository) UpdateLiveLocation(ctx context.Context, workerID, gigID uuid.UUID, lat, lng float64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE gigs SET live_lat = $3, live_lng = $4, last_updated = NOW()
		WHERE id = $1 AND assigned_to = $2
	`, gigID, workerID, lat, lng)
	if err != nil {
		return fmt.Errorf("gig repository: update live location %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("gig repository: update live location rows affected %w", err)
	}
	if affected == 0 {
		return apperror.ErrNotAuthorized
	}
	return nil
}

// CompleteAndRelease завершает задание и выплачивает escrow исполнителю
// в одной транзакции. Повторное завершение уже завершённого задания — no-op.
func (r *GigRepository) CompleteAndRelease(ctx context.Context, workerID, gigID uuid.UUID) (*models.Gig, error) {
	var gig *models.Gig
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		gig, err = getGigForUpdateTx(ctx, tx, gigID)
		if err != nil {
			return err
		}
		if gig.AssignedTo == nil || *gig.AssignedTo != workerID {
			return apperror.ErrNotAuthorized
		}
		if gig.Status == models.GigStatusCompleted {
			return nil
		}
		if gig.Status != models.GigStatusInProgress {
			return apperror.ErrGigNotCompletable
		}

		if err := tx.GetContext(ctx, gig, `
			UPDATE gigs SET status = $2, actual_end_time = NOW()
			WHERE id = $1
			RETURNING *
		`, gigID, models.GigStatusCompleted); err != nil {
			return fmt.Errorf("gig repository: complete gig %w", err)
		}

		return releaseFundsTx(ctx, tx, gig)
	})
	if err != nil {
		return nil, err
	}
	return gig, nil
}

// CancelAndRefund отменяет задание и возвращает escrow плательщику
// в одной транзакции. Завершённое или идущее задание отменить нельзя.
func (r *GigRepository) CancelAndRefund(ctx context.Context, employerID, gigID uuid.UUID) (*models.Gig, error) {
	var gig *models.Gig
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		gig, err = getGigForUpdateTx(ctx, tx, gigID)
		if err != nil {
			return err
		}
		if gig.CreatedBy != employerID {
			return apperror.ErrNotAuthorized
		}
		if gig.Status == models.GigStatusCompleted || gig.Status == models.GigStatusInProgress {
			return apperror.ErrCannotCancel
		}

		if err := tx.GetContext(ctx, gig, `
			UPDATE gigs SET status = $2
			WHERE id = $1
			RETURNING *
		`, gigID, models.GigStatusCancelled); err != nil {
			return fmt.Errorf("gig repository: cancel gig %w", err)
		}

		return refundFundsTx(ctx, tx, gig)
	})
	if err != nil {
		return nil, err
	}
	return gig, nil
}

// getGigForUpdateTx читает задание под блокировкой строки. Блокировка строки
// задания сериализует конкурирующие переходы статусов.
func getGigForUpdateTx(ctx context.Context, tx *sqlx.Tx, gigID uuid.UUID) (*models.Gig, error) {
	var gig models.Gig
	err := tx.GetContext(ctx, &gig, `SELECT * FROM gigs WHERE id = $1 FOR UPDATE`, gigID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrGigNotFound
		}
		return nil, fmt.Errorf("gig repository: get gig for update %w", err)
	}
	return &gig, nil
}
