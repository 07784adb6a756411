package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinGigTitleLength       = 3
	MaxGigTitleLength       = 200
	MaxGigDescriptionLength = 5000
	MaxLocationNameLength   = 200
	MaxPitchMessageLength   = 2000
	MaxChatMessageLength    = 5000
	MinRating               = 1
	MaxRating               = 5
	MaxPayout               = 1000000.0
	OTPLength               = 6
	DefaultSearchRadiusKm   = 10.0
	MaxSearchRadiusKm       = 100.0
)

// mobileRegexp принимает номер в формате E.164 либо 10-значный локальный номер.
var mobileRegexp = regexp.MustCompile(`^(\+[1-9][0-9]{7,14}|[0-9]{10})$`)

// otpRegexp — ровно шесть цифр.
var otpRegexp = regexp.MustCompile(`^[0-9]{6}$`)

// ValidateMobile проверяет формат мобильного номера.
func ValidateMobile(mobile string) error {
	mobile = strings.TrimSpace(mobile)
	if mobile == "" {
		return fmt.Errorf("номер телефона обязателен")
	}
	if !mobileRegexp.MatchString(mobile) {
		return fmt.Errorf("некорректный формат номера телефона")
	}
	return nil
}

// NormalizeMobile приводит номер к каноническому виду для ключей и поиска.
func NormalizeMobile(mobile string) string {
	mobile = strings.TrimSpace(mobile)
	return strings.ReplaceAll(mobile, " ", "")
}

// ValidateOTP проверяет формат одноразового кода.
func ValidateOTP(code string) error {
	if !otpRegexp.MatchString(code) {
		return fmt.Errorf("код подтверждения должен состоять из %d цифр", OTPLength)
	}
	return nil
}

// ValidateLength проверяет длину строки в рунах.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateCoordinates проверяет, что координаты лежат в допустимых пределах.
func ValidateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("широта должна быть в диапазоне [-90, 90]")
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("долгота должна быть в диапазоне [-180, 180]")
	}
	return nil
}

// ValidateRating проверяет оценку отзыва.
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf("оценка должна быть от %d до %d", MinRating, MaxRating)
	}
	return nil
}
