package models

import (
	"time"

	"github.com/google/uuid"
)

// Gig описывает разовое задание с фиксированной оплатой.
// После создания меняется только статус и связанные с выполнением поля.
type Gig struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	Title          string     `db:"title" json:"title"`
	Description    *string    `db:"description" json:"description,omitempty"`
	LocationName   string     `db:"location_name" json:"location_name"`
	GeoLat         float64    `db:"geo_lat" json:"geo_lat"`
	GeoLng         float64    `db:"geo_lng" json:"geo_lng"`
	Payout         float64    `db:"payout" json:"payout"`
	Currency       string     `db:"currency" json:"currency"`
	StartTime      *time.Time `db:"start_time" json:"start_time,omitempty"`
	EndTime        *time.Time `db:"end_time" json:"end_time,omitempty"`
	EstimatedHours *float64   `db:"estimated_hours" json:"estimated_hours,omitempty"`

	ActualStartTime *time.Time `db:"actual_start_time" json:"actual_start_time,omitempty"`
	ActualEndTime   *time.Time `db:"actual_end_time" json:"actual_end_time,omitempty"`
	ProofPhotoURL   *string    `db:"proof_photo_url" json:"proof_photo_url,omitempty"`

	LiveLat     *float64   `db:"live_lat" json:"live_lat,omitempty"`
	LiveLng     *float64   `db:"live_lng" json:"live_lng,omitempty"`
	LastUpdated *time.Time `db:"last_updated" json:"last_updated,omitempty"`

	CreatedBy  uuid.UUID  `db:"created_by" json:"created_by"`
	AssignedTo *uuid.UUID `db:"assigned_to" json:"assigned_to,omitempty"`
	Status     string     `db:"status" json:"status"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`

	ApplicationCount *int `db:"application_count" json:"application_count,omitempty"`
}

// GigApplication представляет отклик исполнителя на задание.
// Пара (gig_id, worker_id) уникальна на уровне БД.
type GigApplication struct {
	ID           uuid.UUID `db:"id" json:"id"`
	GigID        uuid.UUID `db:"gig_id" json:"gig_id"`
	WorkerID     uuid.UUID `db:"worker_id" json:"worker_id"`
	BidAmount    *float64  `db:"bid_amount" json:"bid_amount,omitempty"`
	PitchMessage *string   `db:"pitch_message" json:"pitch_message,omitempty"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// GigProgressPhoto хранит историю фотоотчётов по заданию.
type GigProgressPhoto struct {
	ID        uuid.UUID `db:"id" json:"id"`
	GigID     uuid.UUID `db:"gig_id" json:"gig_id"`
	PhotoURL  string    `db:"photo_url" json:"photo_url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
