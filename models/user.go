package models

import "time"

// User описывает зарегистрированного пользователя и верификатор его мастер-пароля.
// Сам мастер-пароль никогда не сохраняется, только bcrypt-хеш.
type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}
