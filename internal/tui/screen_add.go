package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/maynagashev/passman/models"
)

var errEmptyPlatform = errors.New("платформа не может быть пустой")

// updateAddScreen обрабатывает ввод новой записи.
func (m *model) updateAddScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	addAction := func() (tea.Model, tea.Cmd) {
		platform := m.addPlatformInput.Value()
		if platform == "" {
			return m.showError("Добавление", errEmptyPlatform, addScreen)
		}
		cred := models.NewCredential(m.currentUser, platform, m.addPasswordInput.Value())
		m.busy = true
		return m, m.makeAddCmd(cred)
	}

	return m.handleTwoFieldInput(
		msg,
		&m.addPlatformInput,
		&m.addPasswordInput,
		&m.addFocusedField,
		addAction,
		menuScreen,
	)
}

// viewAddScreen отображает экран добавления записи.
func (m *model) viewAddScreen() string {
	return viewTwoFieldScreen(
		"Новый пароль",
		"Нажмите Enter для сохранения, Esc для возврата",
		m.addPlatformInput,
		m.addPasswordInput,
	)
}
