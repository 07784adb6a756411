package models

// Role роли пользователей платформы
const (
	RoleWorker   = "worker"
	RoleEmployer = "employer"
	RoleAdmin    = "admin"
)

// GigStatus константы статусов заданий
const (
	GigStatusOpen       = "open"
	GigStatusAssigned   = "assigned"
	GigStatusInProgress = "in_progress"
	GigStatusCompleted  = "completed"
	GigStatusCancelled  = "cancelled"
)

// ApplicationStatus константы статусов откликов
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusAccepted = "accepted"
	ApplicationStatusRejected = "rejected"
)

// KycStatus константы статусов верификации
const (
	KycStatusNotStarted = "not_started"
	KycStatusPending    = "pending"
	KycStatusApproved   = "approved"
	KycStatusRejected   = "rejected"
)

// Статусы escrow
const (
	EscrowStatusHeld     = "held"
	EscrowStatusReleased = "released"
	EscrowStatusRefunded = "refunded"
)

// DefaultTrustScore стартовый рейтинг доверия нового пользователя
const DefaultTrustScore = 100

// Типы записей в журнале кошелька
const (
	WalletTransactionCredit = "CREDIT"
	WalletTransactionDebit  = "DEBIT"
)

// ValidRoles список валидных ролей
var ValidRoles = map[string]struct{}{
	RoleWorker:   {},
	RoleEmployer: {},
	RoleAdmin:    {},
}

// ValidGigStatuses список валидных статусов заданий
var ValidGigStatuses = map[string]struct{}{
	GigStatusOpen:       {},
	GigStatusAssigned:   {},
	GigStatusInProgress: {},
	GigStatusCompleted:  {},
	GigStatusCancelled:  {},
}

// ValidKycStatuses список валидных статусов верификации
var ValidKycStatuses = map[string]struct{}{
	KycStatusNotStarted: {},
	KycStatusPending:    {},
	KycStatusApproved:   {},
	KycStatusRejected:   {},
}
