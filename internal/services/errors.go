package services

import (
	"errors"

	"github.com/maynagashev/passman/internal/repository"
)

// Кастомные ошибки сервиса.
var (
	ErrInvalidCredentials = errors.New("неверное имя пользователя или мастер-пароль")
	ErrUserExists         = errors.New("пользователь уже существует")
	ErrInvalidUsername    = errors.New("недопустимое имя пользователя")
	ErrNotAuthenticated   = errors.New("необходимо войти в систему")
)

// Ошибки хранилища пробрасываются без изменений; алиасы позволяют
// вызывающему коду импортировать только services.
var (
	ErrNotFound           = repository.ErrNotFound
	ErrStorageUnavailable = repository.ErrStorageUnavailable
)
