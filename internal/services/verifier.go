package services

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt учитывает только первые 72 байта, поэтому мастер-пароль
// сначала сворачивается в SHA-256 (44 символа в base64).
func prehash(master string) []byte {
	sum := sha256.Sum256([]byte(master))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

// hashMaster строит верификатор мастер-пароля.
func hashMaster(master string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(prehash(master), cost)
	if err != nil {
		return "", fmt.Errorf("ошибка хеширования мастер-пароля: %w", err)
	}
	return string(hash), nil
}

// checkMaster сравнивает мастер-пароль с верификатором за постоянное время.
func checkMaster(hash, master string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), prehash(master)) == nil
}
