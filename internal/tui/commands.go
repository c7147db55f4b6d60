package tui

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/passman/models"
)

const (
	messagePause         = 2 * time.Second // Пауза на экране сообщения перед повтором
	statusMessageTimeout = 2 * time.Second // Время отображения статусных сообщений
)

// Сообщения об успешном завершении команд сессии.
type (
	registerDoneMsg struct{ user string }
	loginDoneMsg    struct{ user string }
	logoutDoneMsg   struct{}
	addDoneMsg      struct{ cred models.Credential }
	getDoneMsg      struct{ cred models.Credential }
	listDoneMsg     struct{ creds []models.Credential }
)

// sessionErrMsg сообщает об ошибке сессии и о том, какой ввод повторить.
type sessionErrMsg struct {
	title string
	err   error
	retry screenState
}

func (e sessionErrMsg) Error() string {
	return e.err.Error()
}

// resumeMsg приходит после паузы на экране сообщения.
type resumeMsg struct {
	next screenState
}

// clearStatusMsg используется для очистки статусного сообщения.
type clearStatusMsg struct{}

// clearStatusCmd возвращает команду, которая отправит clearStatusMsg через d.
func clearStatusCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// resumeCmd возвращает команду, которая отправит resumeMsg через d.
func resumeCmd(d time.Duration, next screenState) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return resumeMsg{next: next}
	})
}

// makeRegisterCmd выполняет регистрацию.
func (m *model) makeRegisterCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		if err := m.session.Register(m.ctx, username, password); err != nil {
			slog.Warn("Ошибка регистрации", "user", username, "error", err)
			return sessionErrMsg{title: "Регистрация", err: err, retry: registerScreen}
		}
		return registerDoneMsg{user: username}
	}
}

// makeLoginCmd выполняет вход.
func (m *model) makeLoginCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		if err := m.session.Login(m.ctx, username, password); err != nil {
			slog.Warn("Ошибка входа", "user", username, "error", err)
			return sessionErrMsg{title: "Вход", err: err, retry: loginScreen}
		}
		return loginDoneMsg{user: username}
	}
}

// makeLogoutCmd выполняет выход из учетной записи.
func (m *model) makeLogoutCmd() tea.Cmd {
	return func() tea.Msg {
		if err := m.session.Logout(m.ctx); err != nil {
			return sessionErrMsg{title: "Выход", err: err, retry: menuScreen}
		}
		return logoutDoneMsg{}
	}
}

// makeAddCmd сохраняет запись.
func (m *model) makeAddCmd(cred models.Credential) tea.Cmd {
	return func() tea.Msg {
		if err := m.session.Add(m.ctx, cred); err != nil {
			slog.Error("Ошибка сохранения записи", "platform", cred.Platform, "error", err)
			return sessionErrMsg{title: "Добавление", err: err, retry: addScreen}
		}
		return addDoneMsg{cred: cred}
	}
}

// makeGetCmd ищет запись по платформе.
func (m *model) makeGetCmd(platform string) tea.Cmd {
	return func() tea.Msg {
		cred, err := m.session.Get(m.ctx, platform)
		if err != nil {
			return sessionErrMsg{title: "Поиск", err: err, retry: getScreen}
		}
		return getDoneMsg{cred: cred}
	}
}

// makeListCmd загружает все записи.
func (m *model) makeListCmd() tea.Cmd {
	return func() tea.Msg {
		creds, err := m.session.List(m.ctx)
		if err != nil {
			return sessionErrMsg{title: "Список", err: err, retry: menuScreen}
		}
		return listDoneMsg{creds: creds}
	}
}
