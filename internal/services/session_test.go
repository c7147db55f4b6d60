package services_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/maynagashev/passman/internal/repository"
	"github.com/maynagashev/passman/internal/secret"
	"github.com/maynagashev/passman/internal/services"
	"github.com/maynagashev/passman/models"
)

// newTestSession создает сессию с настоящим хранилищем во временной директории.
func newTestSession(t *testing.T) (*services.Session, string) {
	t.Helper()
	return newTestSessionWith(t, nil)
}

func newTestSessionWith(t *testing.T, verifiers secret.Store) (*services.Session, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := repository.OpenEmpty(context.Background())
	require.NoError(t, err)
	if verifiers == nil {
		verifiers = secret.NewFileStore(dir)
	}
	sess := services.NewSession(store, verifiers, dir, services.WithHashCost(bcrypt.MinCost))
	t.Cleanup(func() { _ = sess.Close() })
	return sess, dir
}

// registerAndLogin выполняет сценарий "регистрация + вход".
func registerAndLogin(t *testing.T, sess *services.Session, user, master string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, sess.Register(ctx, user, master))
	require.NoError(t, sess.Login(ctx, user, master))
}

func TestNewSession_Fresh(t *testing.T) {
	sess, _ := newTestSession(t)
	assert.Equal(t, services.Fresh{}, sess.State())
	assert.Empty(t, sess.CurrentUser())
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	sess, dir := newTestSession(t)

	require.NoError(t, sess.Register(ctx, "alice", "hunter2"))
	assert.FileExists(t, filepath.Join(dir, "alice.db"))
	assert.Equal(t, services.Registered{User: "alice"}, sess.State())
	assert.Empty(t, sess.CurrentUser(), "После регистрации пользователь еще не вошел")

	require.NoError(t, sess.Login(ctx, "alice", "hunter2"))
	assert.Equal(t, services.Authenticated{User: "alice"}, sess.State())
	assert.Equal(t, "alice", sess.CurrentUser())
}

func TestRegister_VerifierIsHashed(t *testing.T) {
	ctx := context.Background()
	sess, dir := newTestSession(t)
	require.NoError(t, sess.Register(ctx, "alice", "hunter2"))

	user, err := secret.NewFileStore(dir).Get("alice")
	require.NoError(t, err)
	assert.NotContains(t, user.PasswordHash, "hunter2")
	assert.NotEmpty(t, user.PasswordHash)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		user    string
		master  string
		wantErr error
	}{
		{name: "Неверный мастер-пароль", user: "alice", master: "wrong", wantErr: services.ErrInvalidCredentials},
		{name: "Пустой мастер-пароль", user: "alice", master: "", wantErr: services.ErrInvalidCredentials},
		{name: "Неизвестный пользователь", user: "bob", master: "hunter2", wantErr: services.ErrInvalidCredentials},
		{name: "Недопустимое имя", user: "../alice", master: "hunter2", wantErr: services.ErrInvalidCredentials},
		{name: "Успешный вход", user: "alice", master: "hunter2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, _ := newTestSession(t)
			registerAndLogin(t, sess, "alice", "hunter2")
			require.NoError(t, sess.Add(ctx, models.NewCredential("alice", "github.com", "gh-pw")))

			err := sess.Login(ctx, tt.user, tt.master)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			// В любом случае alice остается в системе, хранилище не отвязано
			assert.Equal(t, services.Authenticated{User: "alice"}, sess.State())
			got, err := sess.Get(ctx, "github.com")
			require.NoError(t, err)
			assert.Equal(t, "gh-pw", got.Password)
		})
	}
}

func TestLogin_FreshSessionRejectsEverything(t *testing.T) {
	ctx := context.Background()
	sess, dir := newTestSession(t)

	for _, master := range []string{"", "password", "admin"} {
		err := sess.Login(ctx, "mallory", master)
		require.ErrorIs(t, err, services.ErrInvalidCredentials)
	}
	assert.Equal(t, services.Fresh{}, sess.State())
	assert.NoFileExists(t, filepath.Join(dir, "mallory.db"))
}

func TestLogin_PersistedVerifier(t *testing.T) {
	ctx := context.Background()
	sess, dir := newTestSession(t)
	require.NoError(t, sess.Register(ctx, "alice", "hunter2"))
	require.NoError(t, sess.Close())

	// Новый процесс: новая сессия над той же директорией
	store, err := repository.OpenEmpty(ctx)
	require.NoError(t, err)
	next := services.NewSession(store, secret.NewFileStore(dir), dir, services.WithHashCost(bcrypt.MinCost))
	defer next.Close()

	require.NoError(t, next.Login(ctx, "alice", "hunter2"))
	assert.Equal(t, "alice", next.CurrentUser())
}

func TestLogin_MissingFile(t *testing.T) {
	ctx := context.Background()
	sess, dir := newTestSession(t)
	require.NoError(t, sess.Register(ctx, "alice", "hunter2"))
	require.NoError(t, os.Remove(filepath.Join(dir, "alice.db")))

	err := sess.Login(ctx, "alice", "hunter2")
	require.ErrorIs(t, err, services.ErrStorageUnavailable)
	assert.Equal(t, services.Registered{User: "alice"}, sess.State(), "Состояние не должно измениться")
	assert.Empty(t, sess.CurrentUser())
	assert.NoFileExists(t, filepath.Join(dir, "alice.db"), "Вход не должен создавать файл")
}

func TestRegister_Duplicate(t *testing.T) {
	ctx := context.Background()
	sess, dir := newTestSession(t)
	registerAndLogin(t, sess, "alice", "hunter2")
	require.NoError(t, sess.Add(ctx, models.NewCredential("alice", "github.com", "gh-pw")))

	path := filepath.Join(dir, "alice.db")
	before, err := os.ReadFile(path)
	require.NoError(t, err)
	verifierBefore, err := os.ReadFile(filepath.Join(dir, "alice.verifier.json"))
	require.NoError(t, err)

	err = sess.Register(ctx, "alice", "other")
	require.ErrorIs(t, err, services.ErrUserExists)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after, "Файл не должен измениться")
	verifierAfter, err := os.ReadFile(filepath.Join(dir, "alice.verifier.json"))
	require.NoError(t, err)
	assert.Equal(t, verifierBefore, verifierAfter, "Верификатор не должен измениться")

	// Старый мастер-пароль по-прежнему действует, новый - нет
	require.ErrorIs(t, sess.Login(ctx, "alice", "other"), services.ErrInvalidCredentials)
	require.NoError(t, sess.Login(ctx, "alice", "hunter2"))
}

func TestRegister_ExistingUnreadableFile(t *testing.T) {
	ctx := context.Background()
	sess, dir := newTestSession(t)

	path := filepath.Join(dir, "carol.db")
	require.NoError(t, os.WriteFile(path, []byte("not a database"), 0o000))

	err := sess.Register(ctx, "carol", "pw")
	require.ErrorIs(t, err, services.ErrUserExists)
	assert.Equal(t, services.Fresh{}, sess.State())
}

func TestRegister_InvalidUsername(t *testing.T) {
	ctx := context.Background()
	sess, dir := newTestSession(t)

	invalid := []string{
		"", "../x", "a/b", `a\b`, ".hidden", "..", "nul\x00byte",
		"%2e%2e%2fescaped", "a?b", "c#d",
	}
	for _, user := range invalid {
		err := sess.Register(ctx, user, "pw")
		require.ErrorIs(t, err, services.ErrInvalidUsername, "Имя %q", user)

		err = sess.Login(ctx, user, "pw")
		require.ErrorIs(t, err, services.ErrInvalidCredentials, "Имя %q", user)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "Ни одного файла не должно появиться")
	assert.NoFileExists(t, filepath.Join(filepath.Dir(dir), "x.db"))
	assert.NoFileExists(t, filepath.Join(filepath.Dir(dir), "escaped.db"))
	assert.Equal(t, services.Fresh{}, sess.State())
}

func TestRegister_FileNamedAfterUser(t *testing.T) {
	ctx := context.Background()

	for _, user := range []string{"алиса", "john doe", "a&b=c+d", "x;y@z"} {
		t.Run(user, func(t *testing.T) {
			sess, dir := newTestSession(t)
			registerAndLogin(t, sess, user, "pw")
			require.NoError(t, sess.Add(ctx, models.NewCredential(user, "site", "secret")))

			assert.FileExists(t, filepath.Join(dir, user+".db"))
			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 2, "Только файл пользователя и верификатор")

			err = sess.Register(ctx, user, "other")
			require.ErrorIs(t, err, services.ErrUserExists)
		})
	}
}

// failingVerifiers - хранилище верификаторов, которое не умеет сохранять.
type failingVerifiers struct {
	secret.Store
}

func (failingVerifiers) Set(models.User) error {
	return errors.New("keyring locked")
}

func TestRegister_RollbackOnVerifierFailure(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := repository.OpenEmpty(ctx)
	require.NoError(t, err)
	sess := services.NewSession(store, failingVerifiers{secret.NewFileStore(dir)}, dir,
		services.WithHashCost(bcrypt.MinCost))
	defer sess.Close()

	err = sess.Register(ctx, "alice", "hunter2")
	require.ErrorIs(t, err, services.ErrStorageUnavailable)
	assert.NoFileExists(t, filepath.Join(dir, "alice.db"), "Созданный файл должен быть удален")
	assert.Equal(t, services.Fresh{}, sess.State())
}

func TestAddAndGet(t *testing.T) {
	ctx := context.Background()
	sess, _ := newTestSession(t)
	registerAndLogin(t, sess, "alice", "hunter2")

	want := models.NewCredential("alice", "github.com", "gh-pw")
	require.NoError(t, sess.Add(ctx, want))

	got, err := sess.Get(ctx, "github.com")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = sess.Get(ctx, "nowhere.example")
	require.ErrorIs(t, err, services.ErrNotFound)
}

func TestGet_FirstMatchOnDuplicates(t *testing.T) {
	ctx := context.Background()
	sess, _ := newTestSession(t)
	registerAndLogin(t, sess, "alice", "hunter2")

	require.NoError(t, sess.Add(ctx, models.NewCredential("alice", "x", "a")))
	require.NoError(t, sess.Add(ctx, models.NewCredential("alice", "x", "b")))

	got, err := sess.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, models.NewCredential("alice", "x", "a"), got)

	all, err := sess.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAdd_ForeignUserField(t *testing.T) {
	ctx := context.Background()
	sess, _ := newTestSession(t)
	registerAndLogin(t, sess, "alice", "hunter2")

	want := models.NewCredential("bob", "shared", "pw")
	require.NoError(t, sess.Add(ctx, want))
	got, err := sess.Get(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestUsersAreIsolated(t *testing.T) {
	ctx := context.Background()
	sess, _ := newTestSession(t)

	registerAndLogin(t, sess, "alice", "a-pw")
	require.NoError(t, sess.Add(ctx, models.NewCredential("alice", "github.com", "alice-gh")))

	registerAndLogin(t, sess, "bob", "b-pw")
	_, err := sess.Get(ctx, "github.com")
	require.ErrorIs(t, err, services.ErrNotFound, "Записи alice не должны быть видны bob")

	require.NoError(t, sess.Login(ctx, "alice", "a-pw"))
	got, err := sess.Get(ctx, "github.com")
	require.NoError(t, err)
	assert.Equal(t, "alice-gh", got.Password)
}

func TestNotAuthenticated(t *testing.T) {
	ctx := context.Background()
	cred := models.NewCredential("alice", "github.com", "gh-pw")

	check := func(t *testing.T, sess *services.Session) {
		t.Helper()
		require.ErrorIs(t, sess.Add(ctx, cred), services.ErrNotAuthenticated)
		_, err := sess.Get(ctx, "github.com")
		require.ErrorIs(t, err, services.ErrNotAuthenticated)
		_, err = sess.List(ctx)
		require.ErrorIs(t, err, services.ErrNotAuthenticated)
	}

	t.Run("Fresh", func(t *testing.T) {
		sess, _ := newTestSession(t)
		check(t, sess)
	})

	t.Run("Registered", func(t *testing.T) {
		sess, _ := newTestSession(t)
		require.NoError(t, sess.Register(ctx, "alice", "hunter2"))
		check(t, sess)
	})

	t.Run("После выхода", func(t *testing.T) {
		sess, _ := newTestSession(t)
		registerAndLogin(t, sess, "alice", "hunter2")
		require.NoError(t, sess.Add(ctx, cred))

		require.NoError(t, sess.Logout(ctx))
		assert.Equal(t, services.Fresh{}, sess.State())
		assert.Empty(t, sess.CurrentUser())
		check(t, sess)

		// Данные сохранились и доступны после повторного входа
		require.NoError(t, sess.Login(ctx, "alice", "hunter2"))
		got, err := sess.Get(ctx, "github.com")
		require.NoError(t, err)
		assert.Equal(t, cred, got)
	})
}

func TestLongMasterSecret(t *testing.T) {
	ctx := context.Background()
	sess, _ := newTestSession(t)

	long := string(make([]byte, 100)) + "tail"
	registerAndLogin(t, sess, "alice", long)

	// Отличие после 72-го байта тоже учитывается
	other := string(make([]byte, 100)) + "TAIL"
	require.ErrorIs(t, sess.Login(ctx, "alice", other), services.ErrInvalidCredentials)
}

func TestKeyringVerifiers(t *testing.T) {
	ring := secret.NewKeyringStoreFrom(keyring.NewArrayKeyring(nil))
	sess, dir := newTestSessionWith(t, ring)

	registerAndLogin(t, sess, "alice", "hunter2")
	assert.NoFileExists(t, filepath.Join(dir, "alice.verifier.json"), "Верификатор хранится в связке ключей")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "fresh", services.Fresh{}.String())
	assert.Equal(t, "registered(alice)", services.Registered{User: "alice"}.String())
	assert.Equal(t, "authenticated(alice)", services.Authenticated{User: "alice"}.String())
}
