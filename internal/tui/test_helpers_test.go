//nolint:testpackage // Тесты в том же пакете для доступа к приватным компонентам
package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/maynagashev/passman/models"
)

// mockSession - мок SessionManager.
type mockSession struct {
	mock.Mock
}

func (s *mockSession) Register(ctx context.Context, user, master string) error {
	args := s.Called(ctx, user, master)
	return args.Error(0)
}

func (s *mockSession) Login(ctx context.Context, user, master string) error {
	args := s.Called(ctx, user, master)
	return args.Error(0)
}

func (s *mockSession) Logout(ctx context.Context) error {
	args := s.Called(ctx)
	return args.Error(0)
}

func (s *mockSession) Add(ctx context.Context, cred models.Credential) error {
	args := s.Called(ctx, cred)
	return args.Error(0)
}

func (s *mockSession) Get(ctx context.Context, platform string) (models.Credential, error) {
	args := s.Called(ctx, platform)
	return args.Get(0).(models.Credential), args.Error(1)
}

func (s *mockSession) List(ctx context.Context) ([]models.Credential, error) {
	args := s.Called(ctx)
	creds, _ := args.Get(0).([]models.Credential)
	return creds, args.Error(1)
}

// newTestModel создает модель с моком сессии.
func newTestModel(t *testing.T) (*model, *mockSession) {
	t.Helper()
	session := &mockSession{}
	m := initModel(context.Background(), session, false)
	m.pauseDuration = time.Millisecond
	t.Cleanup(func() { session.AssertExpectations(t) })
	return &m, session
}

// asModel приводит tea.Model к *model.
func asModel(t *testing.T, tm tea.Model) *model {
	t.Helper()
	m, ok := tm.(*model)
	require.True(t, ok, "Должен быть возвращен указатель на model")
	return m
}

// pressRune имитирует нажатие символьной клавиши.
func pressRune(m *model, r rune) (tea.Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// pressKey имитирует нажатие специальной клавиши.
func pressKey(m *model, key tea.KeyType) (tea.Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: key})
}

// typeText вводит строку посимвольно в активное поле.
func typeText(m *model, text string) {
	for _, r := range text {
		pressRune(m, r)
	}
}

// runCmd выполняет команду и возвращает сообщение.
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd, "Ожидалась команда")
	return cmd()
}
