package services

import (
	"fmt"
	"strings"
	"unicode"
)

const maxUsernameLen = 128

// ValidateUsername проверяет, что имя можно безопасно подставить в имя файла.
// Запрещены разделители пути, управляющие символы, ведущая точка (в том числе "..")
// и символы с особым смыслом в URI: %, ? и #.
func ValidateUsername(user string) error {
	switch {
	case user == "":
		return fmt.Errorf("%w: пустое имя", ErrInvalidUsername)
	case len(user) > maxUsernameLen:
		return fmt.Errorf("%w: длиннее %d байт", ErrInvalidUsername, maxUsernameLen)
	case strings.HasPrefix(user, "."):
		return fmt.Errorf("%w: имя не может начинаться с точки", ErrInvalidUsername)
	case strings.ContainsAny(user, `/\:`):
		return fmt.Errorf("%w: имя не может содержать разделители пути", ErrInvalidUsername)
	case strings.ContainsAny(user, "%?#"):
		return fmt.Errorf("%w: имя не может содержать %%, ? или #", ErrInvalidUsername)
	case strings.ContainsFunc(user, unicode.IsControl):
		return fmt.Errorf("%w: имя содержит управляющие символы", ErrInvalidUsername)
	}
	return nil
}
