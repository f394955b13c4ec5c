package errors

import "strings"

// Коды ошибок валидации регистрации.
const (
	CodeInvalidUserName                 = "InvalidUserName"
	CodeInvalidEmail                    = "InvalidEmail"
	CodeDuplicateUserName               = "DuplicateUserName"
	CodeDuplicateEmail                  = "DuplicateEmail"
	CodePasswordTooShort                = "PasswordTooShort"
	CodePasswordRequiresDigit           = "PasswordRequiresDigit"
	CodePasswordRequiresLower           = "PasswordRequiresLower"
	CodePasswordRequiresUpper           = "PasswordRequiresUpper"
	CodePasswordRequiresNonAlphanumeric = "PasswordRequiresNonAlphanumeric"
)

// ValidationError — одна структурированная ошибка валидации.
type ValidationError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// ValidationErrors — агрегированный список ошибок валидации.
//
// Реализует error, поэтому его можно вернуть из сервиса как обычную ошибку,
// а в api слое достать через errors.As и отдать клиенту целиком.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ErrValidation.Error()
	}
	codes := make([]string, 0, len(v))
	for _, e := range v {
		codes = append(codes, e.Code)
	}
	return ErrValidation.Error() + ": " + strings.Join(codes, ", ")
}

// Is позволяет проверять errors.Is(err, ErrValidation).
func (v ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}

// Add добавляет ошибку в список.
func (v *ValidationErrors) Add(code, description string) {
	*v = append(*v, ValidationError{Code: code, Description: description})
}

// Has проверяет наличие ошибки с указанным кодом.
func (v ValidationErrors) Has(code string) bool {
	for _, e := range v {
		if e.Code == code {
			return true
		}
	}
	return false
}
