package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile описывает пользователя платформы вместе с балансом кошелька.
// Баланс меняется только внутри транзакций кошелька и никогда не уходит в минус.
type Profile struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Mobile        string    `db:"mobile" json:"mobile"`
	Role          string    `db:"role" json:"role"`
	FullName      *string   `db:"full_name" json:"full_name,omitempty"`
	Email         *string   `db:"email" json:"email,omitempty"`
	WalletBalance float64   `db:"wallet_balance" json:"wallet_balance"`
	TrustScore    int       `db:"trust_score" json:"trust_score"`
	KycStatus     string    `db:"kyc_status" json:"kyc_status"`

	DOB             *time.Time `db:"dob" json:"dob,omitempty"`
	Gender          *string    `db:"gender" json:"gender,omitempty"`
	ProfilePhotoURL *string    `db:"profile_photo_url" json:"profile_photo_url,omitempty"`
	Address         *string    `db:"address" json:"address,omitempty"`
	City            *string    `db:"city" json:"city,omitempty"`
	State           *string    `db:"state" json:"state,omitempty"`
	Pincode         *string    `db:"pincode" json:"pincode,omitempty"`

	// Документы KYC
	IDType         *string `db:"id_type" json:"id_type,omitempty"`
	IDCardNumber   *string `db:"id_card_number" json:"id_card_number,omitempty"`
	IDCardFrontURL *string `db:"id_card_front_url" json:"id_card_front_url,omitempty"`
	IDCardBackURL  *string `db:"id_card_back_url" json:"id_card_back_url,omitempty"`
	SelfieURL      *string `db:"selfie_url" json:"selfie_url,omitempty"`

	// Платёжные реквизиты исполнителя
	BankAccountName   *string  `db:"bank_account_name" json:"bank_account_name,omitempty"`
	BankAccountNumber *string  `db:"bank_account_number" json:"bank_account_number,omitempty"`
	BankIFSC          *string  `db:"bank_ifsc" json:"bank_ifsc,omitempty"`
	UPIID             *string  `db:"upi_id" json:"upi_id,omitempty"`
	GigTypes          *string  `db:"gig_types" json:"gig_types,omitempty"`
	WorkRadius        *float64 `db:"work_radius" json:"work_radius,omitempty"`

	// Реквизиты работодателя
	EmployerType    *string `db:"employer_type" json:"employer_type,omitempty"`
	BusinessName    *string `db:"business_name" json:"business_name,omitempty"`
	NatureOfWork    *string `db:"nature_of_work" json:"nature_of_work,omitempty"`
	BusinessAddress *string `db:"business_address" json:"business_address,omitempty"`
	GSTNumber       *string `db:"gst_number" json:"gst_number,omitempty"`

	CurrentLat         *float64   `db:"current_lat" json:"current_lat,omitempty"`
	CurrentLng         *float64   `db:"current_lng" json:"current_lng,omitempty"`
	LastLocationUpdate *time.Time `db:"last_location_update" json:"last_location_update,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
