// Package config загружает настройки менеджера паролей.
// Приоритет: флаги командной строки, затем переменные окружения,
// затем YAML-файл, затем значения по умолчанию.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/maynagashev/passman/internal/secret"
)

// Переменные окружения.
const (
	EnvDir             = "PASSMAN_DIR"
	EnvConfig          = "PASSMAN_CONFIG"
	EnvVerifierBackend = "PASSMAN_VERIFIER_BACKEND"
	EnvLogFile         = "PASSMAN_LOG_FILE"
)

const (
	defaultDir     = "."
	logDirName     = "logs"
	logFileName    = "passman.log"
	configDirName  = ".passman"
	configFileName = "config.yaml"
)

// Config хранит настройки приложения.
type Config struct {
	Dir             string `yaml:"dir"`              // Директория с файлами пользователей
	VerifierBackend string `yaml:"verifier_backend"` // file или keyring
	LogFile         string `yaml:"log_file"`         // Пусто - <dir>/logs/passman.log
	Debug           bool   `yaml:"debug"`
}

// Default возвращает настройки по умолчанию: файлы в текущей директории.
func Default() *Config {
	return &Config{
		Dir:             defaultDir,
		VerifierBackend: secret.BackendFile,
	}
}

// DefaultPath возвращает путь к файлу настроек по умолчанию: ~/.passman/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDirName, configFileName)
}

// Load читает YAML-файл поверх значений по умолчанию.
// Отсутствующий файл не является ошибкой.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("ошибка чтения файла настроек '%s': %w", path, err)
	}

	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("ошибка разбора файла настроек '%s': %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv переопределяет настройки из переменных окружения.
// lookup обычно os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if value, ok := lookup(EnvDir); ok && value != "" {
		c.Dir = value
	}
	if value, ok := lookup(EnvVerifierBackend); ok && value != "" {
		c.VerifierBackend = value
	}
	if value, ok := lookup(EnvLogFile); ok && value != "" {
		c.LogFile = value
	}
}

// Validate проверяет итоговые настройки.
func (c *Config) Validate() error {
	if c.Dir == "" {
		return errors.New("не указана директория данных (--dir или " + EnvDir + ")")
	}
	switch c.VerifierBackend {
	case secret.BackendFile, secret.BackendKeyring:
	default:
		return fmt.Errorf("неизвестное хранилище верификаторов '%s' (допустимо: %s, %s)",
			c.VerifierBackend, secret.BackendFile, secret.BackendKeyring)
	}
	return nil
}

// LogPath возвращает путь к файлу логов.
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.Dir, logDirName, logFileName)
}
