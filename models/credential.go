package models

import (
	"fmt"
	"strings"
)

// Credential представляет одну запись хранилища: пароль пользователя для платформы.
// Тэги `db` используются для маппинга с колонками таблицы password с помощью sqlx.
// Тэги `json` используются для (де)сериализации JSON.
type Credential struct {
	User     string `db:"user" json:"user"`
	Platform string `db:"platform" json:"platform"` // Ключ поиска
	Password string `db:"password" json:"password"` // Хранится как есть, без шифрования
}

// NewCredential создает запись из трех строк.
func NewCredential(user, platform, password string) Credential {
	return Credential{
		User:     user,
		Platform: platform,
		Password: password,
	}
}

// String возвращает представление записи для отладки. Пароль маскируется.
func (c Credential) String() string {
	return fmt.Sprintf("Credential{user=%q platform=%q password=%s}",
		c.User, c.Platform, strings.Repeat("*", len([]rune(c.Password))))
}
