package secret

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/maynagashev/passman/models"
)

const (
	verifierFileSuffix = ".verifier.json"
	verifierFilePerm   = 0o600
)

// FileStore хранит каждый верификатор в отдельном JSON-файле рядом с базами пользователей.
type FileStore struct {
	dir string
}

// NewFileStore создает файловое хранилище в директории dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(username string) (string, error) {
	if username == "" || filepath.Base(username) != username {
		return "", fmt.Errorf("недопустимое имя пользователя %q", username)
	}
	return filepath.Join(s.dir, username+verifierFileSuffix), nil
}

func (s *FileStore) Get(username string) (models.User, error) {
	path, err := s.path(username)
	if err != nil {
		return models.User{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.User{}, fmt.Errorf("%w: %s", ErrNotFound, username)
		}
		return models.User{}, fmt.Errorf("ошибка чтения верификатора '%s': %w", path, err)
	}

	var user models.User
	if err = json.Unmarshal(data, &user); err != nil {
		return models.User{}, fmt.Errorf("поврежденный файл верификатора '%s': %w", path, err)
	}
	if user.Username != username || user.PasswordHash == "" {
		return models.User{}, fmt.Errorf("поврежденный файл верификатора '%s': неполные данные", path)
	}
	return user, nil
}

// Set записывает верификатор атомарно: во временный файл и затем rename.
func (s *FileStore) Set(user models.User) error {
	path, err := s.path(user.Username)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка кодирования верификатора: %w", err)
	}
	tmpPath := path + ".tmp"
	if err = os.WriteFile(tmpPath, data, verifierFilePerm); err != nil {
		return fmt.Errorf("ошибка записи верификатора '%s': %w", tmpPath, err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("ошибка сохранения верификатора '%s': %w", path, err)
	}
	return nil
}

func (s *FileStore) Delete(username string) error {
	path, err := s.path(username)
	if err != nil {
		return err
	}
	if err = os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("ошибка удаления верификатора '%s': %w", path, err)
	}
	return nil
}
