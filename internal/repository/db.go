package repository

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // Драйвер SQLite, импортируем для регистрации
)

const (
	driverName = "sqlite"
	memoryDSN  = ":memory:"

	// Одно соединение: операции хранилища идут строго последовательно,
	// а база в памяти живет ровно столько, сколько живет соединение.
	maxOpenConns = 1

	// Режимы открытия файла SQLite.
	modeReadWrite       = "rw"  // Только существующий файл
	modeReadWriteCreate = "rwc" // Создать файл, если его нет

	// synchronous(FULL): каждая вставка фиксируется на диске до возврата.
	filePragmas = "_pragma=busy_timeout(5000)&_pragma=synchronous(FULL)"
)

// schemaSQL - схема нового файла пользователя. Одна таблица, без индексов.
const schemaSQL = `CREATE TABLE password (
	user     TEXT NOT NULL,
	platform TEXT NOT NULL,
	password TEXT NOT NULL
)`

// fileDSN собирает URI подключения к файлу базы. Путь делается абсолютным
// и экранируется, поэтому символы %, ? и # остаются частью имени файла.
func fileDSN(path, mode string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("ошибка получения абсолютного пути: %w", err)
	}
	u := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(abs),
		RawQuery: "mode=" + mode + "&" + filePragmas,
	}
	return u.String(), nil
}

// NewSQLiteDB создает и возвращает новое подключение к базе SQLite.
func NewSQLiteDB(ctx context.Context, dsn string) (*sqlx.DB, error) {
	slog.Debug("Подключение к SQLite...", "dsn", dsn)

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)

	// Проверка соединения
	if err = db.PingContext(ctx); err != nil {
		// Закрываем соединение в случае ошибки пинга
		if closeErr := db.Close(); closeErr != nil {
			slog.Warn("Ошибка закрытия соединения с БД после неудачного пинга", "error", closeErr)
		}
		return nil, fmt.Errorf("ошибка проверки соединения с БД (ping): %w", err)
	}

	return db, nil
}
