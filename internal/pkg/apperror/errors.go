package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound            ErrorCode = "NOT_FOUND"
	ErrCodeNotAuthorized       ErrorCode = "NOT_AUTHORIZED"
	ErrCodeInvalidState        ErrorCode = "INVALID_STATE"
	ErrCodeInsufficientBalance ErrorCode = "INSUFFICIENT_BALANCE"
	ErrCodeAlreadyApplied      ErrorCode = "ALREADY_APPLIED"
	ErrCodeInvalidAmount       ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidOtp          ErrorCode = "INVALID_OTP"
	ErrCodeValidation          ErrorCode = "VALIDATION_ERROR"
	ErrCodeInternal            ErrorCode = "INTERNAL_ERROR"
)

// AppError — ошибка уровня приложения с кодом и HTTP статусом.
// Все такие ошибки восстановимы на границе запроса: клиент получает
// отклонённую операцию, а не падение сервиса.
type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeNotAuthorized:
		return http.StatusForbidden
	case ErrCodeInvalidState, ErrCodeInvalidAmount, ErrCodeInsufficientBalance, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeAlreadyApplied:
		return http.StatusConflict
	case ErrCodeInvalidOtp:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Code возвращает код AppError или ErrCodeInternal для прочих ошибок.
func Code(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotFound
}

func IsNotAuthorized(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotAuthorized
}

func IsInvalidState(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeInvalidState
}

var (
	ErrProfileNotFound     = New(ErrCodeNotFound, "пользователь не найден")
	ErrGigNotFound         = New(ErrCodeNotFound, "задание не найдено")
	ErrApplicationNotFound = New(ErrCodeNotFound, "отклик не найден")
	ErrEscrowNotFound      = New(ErrCodeNotFound, "escrow по заданию не найден")
	ErrNotAuthorized       = New(ErrCodeNotAuthorized, "недостаточно прав для операции")
	ErrGigClosed           = New(ErrCodeInvalidState, "задание закрыто для этой операции")
	ErrCannotCancel        = New(ErrCodeInvalidState, "задание нельзя отменить в текущем статусе")
	ErrGigNotStartable     = New(ErrCodeInvalidState, "задание нельзя начать в текущем статусе")
	ErrGigNotCompletable   = New(ErrCodeInvalidState, "задание нельзя завершить в текущем статусе")
	ErrNoWorkerAssigned    = New(ErrCodeInvalidState, "исполнитель не назначен на задание")
	ErrInsufficientBalance = New(ErrCodeInsufficientBalance, "недостаточно средств на балансе")
	ErrAlreadyApplied      = New(ErrCodeAlreadyApplied, "отклик на это задание уже отправлен")
	ErrInvalidAmount       = New(ErrCodeInvalidAmount, "сумма должна быть положительной")
	ErrInvalidOtp          = New(ErrCodeInvalidOtp, "неверный или просроченный код подтверждения")
	ErrNotGigParticipant   = New(ErrCodeNotAuthorized, "вы не участвуете в этом задании")
	ErrGigNotCompleted     = New(ErrCodeInvalidState, "отзыв можно оставить только по завершённому заданию")
	ErrAlreadyReviewed     = New(ErrCodeAlreadyApplied, "отзыв по этому заданию уже оставлен")
)
