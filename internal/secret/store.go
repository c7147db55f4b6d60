// Package secret хранит верификаторы мастер-паролей пользователей.
//
// Верификатор - bcrypt-хеш мастер-пароля вместе с именем пользователя.
// Он хранится отдельно от файла с паролями, чтобы схема файла пользователя
// оставалась одной таблицей.
package secret

import (
	"errors"
	"fmt"

	"github.com/maynagashev/passman/models"
)

// ErrNotFound возвращается, если для пользователя нет сохраненного верификатора.
var ErrNotFound = errors.New("верификатор не найден")

// Бэкенды хранения верификаторов.
const (
	BackendFile    = "file"
	BackendKeyring = "keyring"
)

// Store - интерфейс хранилища верификаторов.
type Store interface {
	Get(username string) (models.User, error)
	Set(user models.User) error
	Delete(username string) error
}

// Open создает хранилище верификаторов выбранного бэкенда.
func Open(backend, dir string) (Store, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(dir), nil
	case BackendKeyring:
		return NewKeyringStore(keyringServiceName)
	default:
		return nil, fmt.Errorf("неизвестный бэкенд верификаторов %q", backend)
	}
}
