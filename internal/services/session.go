// Package services содержит бизнес-логику менеджера паролей: регистрацию,
// вход и работу с записями текущего пользователя.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/maynagashev/passman/internal/secret"
	"github.com/maynagashev/passman/models"
)

// dbExt - расширение файла хранилища пользователя.
const dbExt = ".db"

// CredentialStore определяет операции хранилища, нужные сессии.
// Реализуется repository.Store.
type CredentialStore interface {
	Create(ctx context.Context, path string) error
	Bind(ctx context.Context, path string) error
	Unbind(ctx context.Context) error
	Insert(ctx context.Context, cred models.Credential) error
	Lookup(ctx context.Context, platform string) (models.Credential, error)
	List(ctx context.Context) ([]models.Credential, error)
	Close() error
}

// Option настраивает Session.
type Option func(*Session)

// WithHashCost задает стоимость bcrypt. В тестах удобно bcrypt.MinCost.
func WithHashCost(cost int) Option {
	return func(s *Session) {
		s.hashCost = cost
	}
}

// Session управляет текущим пользователем и привязкой хранилища к его файлу.
// Session не потокобезопасна: все вызовы идут из одного потока драйвера.
type Session struct {
	store     CredentialStore
	verifiers secret.Store
	baseDir   string
	hashCost  int
	state     State
	now       func() time.Time
}

// NewSession создает сессию в состоянии Fresh.
func NewSession(store CredentialStore, verifiers secret.Store, baseDir string, opts ...Option) *Session {
	s := &Session{
		store:     store,
		verifiers: verifiers,
		baseDir:   baseDir,
		hashCost:  bcrypt.DefaultCost,
		state:     Fresh{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State возвращает текущее состояние сессии.
func (s *Session) State() State {
	return s.state
}

// CurrentUser возвращает имя вошедшего пользователя или пустую строку.
func (s *Session) CurrentUser() string {
	if st, ok := s.state.(Authenticated); ok {
		return st.User
	}
	return ""
}

// UserPath возвращает путь к файлу хранилища пользователя.
func (s *Session) UserPath(user string) string {
	return filepath.Join(s.baseDir, user+dbExt)
}

// Register создает файл нового пользователя и сохраняет верификатор мастер-пароля.
// После успешной регистрации пользователь еще не вошел.
func (s *Session) Register(ctx context.Context, user, master string) error {
	if err := ValidateUsername(user); err != nil {
		return err
	}

	path := s.UserPath(user)
	if _, err := os.Lstat(path); err == nil {
		slog.Info("Попытка регистрации существующего пользователя", "user", user)
		return fmt.Errorf("%w: %s", ErrUserExists, user)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: проверка файла '%s': %w", ErrStorageUnavailable, path, err)
	}

	// Хешируем до создания файла, чтобы при ошибке нечего было откатывать
	hash, err := hashMaster(master, s.hashCost)
	if err != nil {
		return err
	}

	if err = s.store.Create(ctx, path); err != nil {
		slog.Error("Не удалось создать хранилище пользователя", "user", user, "error", err)
		return err
	}

	verifier := models.User{
		Username:     user,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err = s.verifiers.Set(verifier); err != nil {
		slog.Error("Не удалось сохранить верификатор, откатываем регистрацию", "user", user, "error", err)
		s.rollbackRegister(ctx, path)
		return fmt.Errorf("%w: сохранение верификатора: %w", ErrStorageUnavailable, err)
	}

	s.state = Registered{User: user}
	slog.Info("Пользователь зарегистрирован", "user", user, "path", path)
	return nil
}

// rollbackRegister отвязывает хранилище от только что созданного файла и удаляет его.
func (s *Session) rollbackRegister(ctx context.Context, path string) {
	if err := s.store.Unbind(ctx); err != nil {
		slog.Warn("Не удалось отвязать хранилище при откате", "error", err)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Не удалось удалить файл при откате", "path", path, "error", err)
	}
	s.state = Fresh{}
}

// Login проверяет мастер-пароль и привязывает хранилище к файлу пользователя.
// При любой ошибке состояние сессии не меняется.
func (s *Session) Login(ctx context.Context, user, master string) error {
	if err := ValidateUsername(user); err != nil {
		slog.Info("Вход с недопустимым именем", "error", err)
		return ErrInvalidCredentials
	}

	verifier, err := s.verifiers.Get(user)
	if err != nil {
		if errors.Is(err, secret.ErrNotFound) {
			slog.Info("Вход неизвестного пользователя", "user", user)
			return ErrInvalidCredentials
		}
		return fmt.Errorf("%w: чтение верификатора: %w", ErrStorageUnavailable, err)
	}

	if !checkMaster(verifier.PasswordHash, master) {
		slog.Info("Неверный мастер-пароль", "user", user)
		return ErrInvalidCredentials
	}

	if err = s.store.Bind(ctx, s.UserPath(user)); err != nil {
		slog.Error("Не удалось открыть хранилище пользователя", "user", user, "error", err)
		return err
	}

	s.state = Authenticated{User: user}
	slog.Info("Пользователь вошел", "user", user)
	return nil
}

// Logout возвращает сессию в состояние Fresh и отвязывает хранилище от файла.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.store.Unbind(ctx); err != nil {
		return err
	}
	slog.Info("Выход из сессии", "state", s.state.String())
	s.state = Fresh{}
	return nil
}

// Add сохраняет запись в хранилище текущего пользователя.
// Поле User записи не обязано совпадать с текущим пользователем.
func (s *Session) Add(ctx context.Context, cred models.Credential) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	return s.store.Insert(ctx, cred)
}

// Get возвращает первую запись для платформы.
func (s *Session) Get(ctx context.Context, platform string) (models.Credential, error) {
	if err := s.requireAuth(); err != nil {
		return models.Credential{}, err
	}
	return s.store.Lookup(ctx, platform)
}

// List возвращает все записи текущего пользователя в порядке добавления.
func (s *Session) List(ctx context.Context) ([]models.Credential, error) {
	if err := s.requireAuth(); err != nil {
		return nil, err
	}
	return s.store.List(ctx)
}

// Close освобождает хранилище.
func (s *Session) Close() error {
	return s.store.Close()
}

func (s *Session) requireAuth() error {
	if _, ok := s.state.(Authenticated); !ok {
		return ErrNotAuthenticated
	}
	return nil
}
