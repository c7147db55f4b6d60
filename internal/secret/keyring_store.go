package secret

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/99designs/keyring"

	"github.com/maynagashev/passman/models"
)

const keyringServiceName = "passman"

type keyringStore struct {
	ring keyring.Keyring
}

// NewKeyringStore открывает системный keyring через 99designs/keyring.
// Если keyring недоступен, возвращает ошибку, и вызывающий может выбрать файловый бэкенд.
func NewKeyringStore(serviceName string) (Store, error) {
	r, err := keyring.Open(keyring.Config{ServiceName: serviceName})
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия keyring: %w", err)
	}
	return NewKeyringStoreFrom(r), nil
}

// NewKeyringStoreFrom оборачивает уже открытый keyring.
func NewKeyringStoreFrom(ring keyring.Keyring) Store {
	return &keyringStore{ring: ring}
}

func (s *keyringStore) Get(username string) (models.User, error) {
	item, err := s.ring.Get(username)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return models.User{}, fmt.Errorf("%w: %s", ErrNotFound, username)
		}
		return models.User{}, fmt.Errorf("ошибка чтения верификатора из keyring: %w", err)
	}

	var user models.User
	if err = json.Unmarshal(item.Data, &user); err != nil {
		return models.User{}, fmt.Errorf("поврежденный верификатор в keyring: %w", err)
	}
	return user, nil
}

func (s *keyringStore) Set(user models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("ошибка кодирования верификатора: %w", err)
	}
	return s.ring.Set(keyring.Item{
		Key:         user.Username,
		Data:        data,
		Label:       keyringServiceName + ": " + user.Username,
		Description: "passman master password verifier",
	})
}

func (s *keyringStore) Delete(username string) error {
	err := s.ring.Remove(username)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("ошибка удаления верификатора из keyring: %w", err)
	}
	return nil
}
