package models

import (
	"time"

	"github.com/google/uuid"
)

// WalletTransaction — неизменяемая запись журнала о движении средств.
// Журнал служит для аудита и отображения, источником истины остаётся баланс профиля.
type WalletTransaction struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	ProfileID   uuid.UUID  `db:"profile_id" json:"profile_id"`
	Amount      float64    `db:"amount" json:"amount"`
	Type        string     `db:"type" json:"type"`
	Description string     `db:"description" json:"description"`
	ReferenceID *uuid.UUID `db:"reference_id" json:"reference_id,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// EscrowTransaction — запись о заблокированных под задание средствах.
// На задание существует не более одной записи в статусе held;
// released и refunded — терминальные статусы.
type EscrowTransaction struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	GigID     uuid.UUID  `db:"gig_id" json:"gig_id"`
	Amount    float64    `db:"amount" json:"amount"`
	PayerID   uuid.UUID  `db:"payer_id" json:"payer_id"`
	PayeeID   *uuid.UUID `db:"payee_id" json:"payee_id,omitempty"`
	Status    string     `db:"status" json:"status"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	SettledAt *time.Time `db:"settled_at" json:"settled_at,omitempty"`
}
