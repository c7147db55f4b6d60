// Package kdbx выгружает записи менеджера паролей в файл KeePass (KDBX 4).
package kdbx

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/tobischo/gokeepasslib/v3"
	w "github.com/tobischo/gokeepasslib/v3/wrappers"

	"github.com/maynagashev/passman/models"
)

// Стандартные имена полей записи KeePass.
const (
	fieldNameTitle    = "Title"
	fieldNameUserName = "UserName"
	fieldNamePassword = "Password"
)

const (
	rootGroupName  = "Passman"
	exportFileMode = 0o600
)

// BuildDatabase собирает базу KDBX 4 из записей: одна запись KeePass на каждую.
// Пароль записи помечается как защищенное поле.
func BuildDatabase(creds []models.Credential, master string) *gokeepasslib.Database {
	db := gokeepasslib.NewDatabase(gokeepasslib.WithDatabaseKDBXVersion4())
	db.Credentials = gokeepasslib.NewPasswordCredentials(master)

	rootGroup := gokeepasslib.NewGroup()
	rootGroup.Name = rootGroupName
	for _, cred := range creds {
		rootGroup.Entries = append(rootGroup.Entries, newEntry(cred))
	}

	db.Content.Root = &gokeepasslib.RootData{
		Groups: []gokeepasslib.Group{rootGroup},
	}
	return db
}

func newEntry(cred models.Credential) gokeepasslib.Entry {
	entry := gokeepasslib.NewEntry()
	entry.Values = append(entry.Values,
		gokeepasslib.ValueData{Key: fieldNameTitle, Value: gokeepasslib.V{Content: cred.Platform}},
		gokeepasslib.ValueData{Key: fieldNameUserName, Value: gokeepasslib.V{Content: cred.User}},
		gokeepasslib.ValueData{
			Key:   fieldNamePassword,
			Value: gokeepasslib.V{Content: cred.Password, Protected: w.NewBoolWrapper(true)},
		},
	)
	return entry
}

// OpenFile открывает и дешифрует KDBX файл по указанному пути и паролю.
func OpenFile(filePath string, password string) (*gokeepasslib.Database, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла '%s': %w", filePath, err)
	}
	defer file.Close()

	db := gokeepasslib.NewDatabase()
	db.Credentials = gokeepasslib.NewPasswordCredentials(password)

	if err = gokeepasslib.NewDecoder(file).Decode(db); err != nil {
		return nil, fmt.Errorf("ошибка дешифрования файла '%s': %w", filePath, err)
	}

	// Разблокируем защищенные значения (пароли)
	if err = db.UnlockProtectedEntries(); err != nil {
		return nil, fmt.Errorf("ошибка разблокировки защищенных полей: %w", err)
	}

	return db, nil
}

// SaveFile кодирует и сохраняет базу в файл с правами 0600.
// Существующий файл перезаписывается.
func SaveFile(db *gokeepasslib.Database, filePath string) error {
	if db == nil {
		return errors.New("база данных не инициализирована (nil)")
	}
	if db.Credentials == nil {
		return errors.New("не заданы учетные данные для шифрования")
	}

	// Перед сохранением защищенные поля нужно заблокировать
	if err := db.LockProtectedEntries(); err != nil {
		return fmt.Errorf("ошибка блокировки защищенных полей: %w", err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, exportFileMode)
	if err != nil {
		return fmt.Errorf("ошибка создания файла '%s': %w", filePath, err)
	}

	if err = gokeepasslib.NewEncoder(file).Encode(db); err != nil {
		_ = file.Close()
		return fmt.Errorf("ошибка кодирования и записи БД в файл '%s': %w", filePath, err)
	}
	if err = file.Close(); err != nil {
		return fmt.Errorf("ошибка закрытия файла '%s': %w", filePath, err)
	}

	// Разблокируем обратно, чтобы базой можно было пользоваться дальше
	if err = db.UnlockProtectedEntries(); err != nil {
		slog.Warn("Не удалось разблокировать поля после сохранения", "error", err)
	}
	return nil
}

// GetAllEntries рекурсивно обходит все группы и возвращает плоский список всех записей.
func GetAllEntries(db *gokeepasslib.Database) []gokeepasslib.Entry {
	var entries []gokeepasslib.Entry
	if db == nil || db.Content == nil || db.Content.Root == nil {
		return entries
	}
	collectEntries(&entries, db.Content.Root.Groups)
	return entries
}

func collectEntries(entries *[]gokeepasslib.Entry, groups []gokeepasslib.Group) {
	for _, group := range groups {
		*entries = append(*entries, group.Entries...)
		collectEntries(entries, group.Groups)
	}
}

// Credentials превращает записи KeePass обратно в записи менеджера паролей.
func Credentials(db *gokeepasslib.Database) []models.Credential {
	entries := GetAllEntries(db)
	creds := make([]models.Credential, 0, len(entries))
	for _, entry := range entries {
		creds = append(creds, models.NewCredential(
			entry.GetContent(fieldNameUserName),
			entry.GetTitle(),
			entry.GetPassword(),
		))
	}
	return creds
}
