package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/maynagashev/passman/internal/config"
)

const (
	logDirPerm         = 0o700
	logFilePermissions = 0o600
)

// setupLogging направляет slog в файл: экран занят интерфейсом.
// Возвращает функцию закрытия файла.
func setupLogging(cfg *config.Config) (func(), error) {
	logPath := cfg.LogPath()
	if err := os.MkdirAll(filepath.Dir(logPath), logDirPerm); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию для логов: %w", err)
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermissions)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть лог-файл: %w", err)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logHandler := slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(logHandler))
	slog.Info("Логгер инициализирован", "path", logPath, "level", level.String())

	return func() {
		if closeErr := logFile.Close(); closeErr != nil {
			fmt.Fprintln(os.Stderr, "Ошибка закрытия лог-файла:", closeErr)
		}
	}, nil
}
