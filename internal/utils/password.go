package utils

import (
	"crypto/sha256"
	"encoding/base64"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost = 10

	passwordMinLen = 8
	passwordMaxLen = 100

	// bcrypt не принимает пароли длиннее 72 байт
	bcryptMaxBytes = 72
)

const PasswordPolicyMessage = "Your password must have at least 8 characters (at most 100), uppercase and lowercase letters, digits, at least one special character and should not have spaces"

// ValidatePassword проверяет политику паролей: длина 8..100 символов,
// есть заглавная, строчная, цифра и спецсимвол, нет пробельных символов.
func ValidatePassword(password string) bool {
	n := utf8.RuneCountInString(password)
	if n < passwordMinLen || n > passwordMaxLen {
		return false
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsSpace(r):
			return false
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSymbol = true
		}
	}

	return hasUpper && hasLower && hasDigit && hasSymbol
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(bcryptInput(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(password)) == nil
}

// bcryptInput сворачивает длинные пароли в sha256, чтобы влезть в лимит bcrypt.
func bcryptInput(password string) []byte {
	if len(password) <= bcryptMaxBytes {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
