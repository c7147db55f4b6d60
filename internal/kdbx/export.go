package kdbx

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tobischo/gokeepasslib/v3"

	"github.com/maynagashev/passman/models"
)

const (
	// CustomDataKeyExportedBy - ключ CustomData с именем пользователя, сделавшего выгрузку.
	CustomDataKeyExportedBy = "PassmanExportedBy"
	// CustomDataKeyExportedAt - ключ CustomData со временем выгрузки (RFC 3339).
	CustomDataKeyExportedAt = "PassmanExportedAt"
)

// ExportInfo - сведения о выгрузке, сохраняемые в метаданных файла.
type ExportInfo struct {
	User string
	At   time.Time
}

// Export записывает записи пользователя в новый KDBX файл, зашифрованный мастер-паролем.
func Export(filePath, master string, creds []models.Credential, info ExportInfo) error {
	db := BuildDatabase(creds, master)
	if err := SaveExportInfo(db, info); err != nil {
		return err
	}
	if err := SaveFile(db, filePath); err != nil {
		return err
	}
	slog.Info("Записи выгружены в KDBX", "path", filePath, "user", info.User, "count", len(creds))
	return nil
}

// setCustomDataValue обновляет или добавляет значение в слайс CustomData.
func setCustomDataValue(customData []gokeepasslib.CustomData, key, value string) []gokeepasslib.CustomData {
	for i := range customData {
		if customData[i].Key == key {
			customData[i].Value = value
			return customData
		}
	}
	return append(customData, gokeepasslib.CustomData{Key: key, Value: value})
}

// SaveExportInfo сохраняет сведения о выгрузке в CustomData метаданных базы.
func SaveExportInfo(db *gokeepasslib.Database, info ExportInfo) error {
	if db == nil || db.Content == nil || db.Content.Meta == nil {
		return errors.New("база данных, ее содержимое или метаданные не инициализированы")
	}

	meta := db.Content.Meta
	meta.CustomData = setCustomDataValue(meta.CustomData, CustomDataKeyExportedBy, info.User)
	meta.CustomData = setCustomDataValue(meta.CustomData, CustomDataKeyExportedAt,
		info.At.UTC().Format(time.RFC3339))
	return nil
}

// LoadExportInfo извлекает сведения о выгрузке из CustomData.
// Отсутствующие ключи дают нулевые значения.
func LoadExportInfo(db *gokeepasslib.Database) (ExportInfo, error) {
	var info ExportInfo
	if db == nil || db.Content == nil || db.Content.Meta == nil {
		return info, errors.New("база данных, ее содержимое или метаданные не инициализированы")
	}

	for _, item := range db.Content.Meta.CustomData {
		switch item.Key {
		case CustomDataKeyExportedBy:
			info.User = item.Value
		case CustomDataKeyExportedAt:
			at, err := time.Parse(time.RFC3339, item.Value)
			if err != nil {
				return info, fmt.Errorf("некорректное время выгрузки '%s': %w", item.Value, err)
			}
			info.At = at
		}
	}
	return info, nil
}
