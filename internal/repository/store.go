package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/maynagashev/passman/models"
)

// Кастомные ошибки хранилища.
var (
	ErrNotFound           = errors.New("пароль не найден")
	ErrStorageUnavailable = errors.New("хранилище недоступно")
)

// Store хранит записи одного пользователя в таблице password файла SQLite.
// В каждый момент Store привязан ровно к одной базе; привязку можно сменить
// через Bind или Create. Store не потокобезопасен.
type Store struct {
	db   *sqlx.DB
	path string // Пустая строка, если база в памяти
}

// NewStore оборачивает уже открытое подключение.
func NewStore(db *sqlx.DB, path string) *Store {
	return &Store{db: db, path: path}
}

// OpenEmpty возвращает хранилище, привязанное к временной базе в памяти без схемы.
// Используется как заглушка до входа пользователя.
func OpenEmpty(ctx context.Context) (*Store, error) {
	db, err := NewSQLiteDB(ctx, memoryDSN)
	if err != nil {
		return nil, unavailable("открытие базы в памяти", memoryDSN, err)
	}
	return NewStore(db, ""), nil
}

// Path возвращает путь к привязанному файлу или пустую строку для базы в памяти.
func (s *Store) Path() string {
	return s.path
}

// Bind привязывает хранилище к существующему файлу path.
// Схема не создается и не проверяется. Файл не создается, если его нет.
func (s *Store) Bind(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return unavailable("открытие файла", path, err)
	}
	if !info.Mode().IsRegular() {
		return unavailable("открытие файла", path, errors.New("не является обычным файлом"))
	}

	dsn, err := fileDSN(path, modeReadWrite)
	if err != nil {
		return unavailable("открытие файла", path, err)
	}
	db, err := NewSQLiteDB(ctx, dsn)
	if err != nil {
		return unavailable("открытие файла", path, err)
	}

	// Читаем заголовок, чтобы поврежденный файл отсекался сразу, а не при первом запросе
	var tables int
	if err = db.GetContext(ctx, &tables, `SELECT count(*) FROM sqlite_master`); err != nil {
		closeQuietly(db, path)
		return unavailable("чтение файла", path, err)
	}

	s.swap(db, path)
	slog.Info("Хранилище привязано к файлу", "path", path)
	return nil
}

// Create создает файл path, устанавливает схему и привязывает к нему хранилище.
// Вызывать для уже существующего файла - ошибка вызывающего.
func (s *Store) Create(ctx context.Context, path string) error {
	_, statErr := os.Stat(path)
	existed := statErr == nil

	dsn, err := fileDSN(path, modeReadWriteCreate)
	if err != nil {
		return unavailable("создание файла", path, err)
	}
	db, err := NewSQLiteDB(ctx, dsn)
	if err != nil {
		return unavailable("создание файла", path, err)
	}

	if _, err = db.ExecContext(ctx, schemaSQL); err != nil {
		closeQuietly(db, path)
		// Удаляем только то, что создали сами
		if !existed {
			if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				slog.Warn("Не удалось удалить недосозданный файл", "path", path, "error", rmErr)
			}
		}
		return unavailable("создание схемы", path, err)
	}

	s.swap(db, path)
	slog.Info("Создан новый файл хранилища", "path", path)
	return nil
}

// Unbind возвращает хранилище к временной базе в памяти.
func (s *Store) Unbind(ctx context.Context) error {
	db, err := NewSQLiteDB(ctx, memoryDSN)
	if err != nil {
		return unavailable("открытие базы в памяти", memoryDSN, err)
	}
	s.swap(db, "")
	return nil
}

// Insert добавляет одну запись. Дубликаты не проверяются.
func (s *Store) Insert(ctx context.Context, cred models.Credential) error {
	if s.db == nil {
		return s.closedErr()
	}

	query := `INSERT INTO password (user, platform, password) VALUES (:user, :platform, :password)`
	if _, err := s.db.NamedExecContext(ctx, query, cred); err != nil {
		slog.Error("Ошибка вставки записи", "path", s.path, "platform", cred.Platform, "error", err)
		return unavailable("вставка записи", s.path, err)
	}

	slog.Debug("Запись добавлена", "path", s.path, "platform", cred.Platform)
	return nil
}

// Lookup возвращает первую (в порядке вставки) запись с точным совпадением platform.
func (s *Store) Lookup(ctx context.Context, platform string) (models.Credential, error) {
	if s.db == nil {
		return models.Credential{}, s.closedErr()
	}

	query := `SELECT user, platform, password FROM password WHERE platform = ? ORDER BY rowid LIMIT 1`
	var cred models.Credential

	err := s.db.GetContext(ctx, &cred, query, platform)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Debug("Запись не найдена", "path", s.path, "platform", platform)
			return models.Credential{}, fmt.Errorf("%w: %s", ErrNotFound, platform)
		}
		slog.Error("Ошибка поиска записи", "path", s.path, "platform", platform, "error", err)
		return models.Credential{}, unavailable("поиск записи", s.path, err)
	}

	return cred, nil
}

// List возвращает все записи в порядке вставки.
func (s *Store) List(ctx context.Context) ([]models.Credential, error) {
	if s.db == nil {
		return nil, s.closedErr()
	}

	query := `SELECT user, platform, password FROM password ORDER BY rowid`
	creds := []models.Credential{}
	if err := s.db.SelectContext(ctx, &creds, query); err != nil {
		slog.Error("Ошибка чтения списка записей", "path", s.path, "error", err)
		return nil, unavailable("чтение списка записей", s.path, err)
	}
	return creds, nil
}

// Close закрывает текущую привязку. Повторный вызов безопасен.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return unavailable("закрытие", s.path, err)
	}
	return nil
}

// swap заменяет привязку, закрывая предыдущую базу.
func (s *Store) swap(db *sqlx.DB, path string) {
	if s.db != nil {
		closeQuietly(s.db, s.path)
	}
	s.db = db
	s.path = path
}

func (s *Store) closedErr() error {
	return unavailable("обращение к хранилищу", s.path, errors.New("хранилище закрыто"))
}

// closeQuietly закрывает базу, ошибку только логирует.
func closeQuietly(db *sqlx.DB, path string) {
	if err := db.Close(); err != nil {
		slog.Warn("Ошибка закрытия базы", "path", path, "error", err)
	}
}

// unavailable оборачивает ошибку ввода-вывода в ErrStorageUnavailable.
func unavailable(op, path string, err error) error {
	if path == "" {
		path = memoryDSN
	}
	return fmt.Errorf("%w: %s '%s': %w", ErrStorageUnavailable, op, path, err)
}
