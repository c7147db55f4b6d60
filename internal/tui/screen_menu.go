package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// updateMenuScreen обрабатывает команды вошедшего пользователя.
func (m *model) updateMenuScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case keyAdd:
		if m.readOnlyMode {
			return m.setStatusError("Добавление недоступно в режиме только для чтения")
		}
		return m, m.enterScreen(addScreen)
	case keyGet:
		return m, m.enterScreen(getScreen)
	case keyList:
		m.busy = true
		return m, m.makeListCmd()
	case keyLogout:
		m.busy = true
		return m, m.makeLogoutCmd()
	case keyQuit:
		return m, tea.Quit
	}
	return m, nil
}

// viewMenuScreen отображает меню.
func (m *model) viewMenuScreen() string {
	var b strings.Builder
	b.WriteString("Пользователь: " + titleStyle.Render(m.currentUser) + "\n\n")
	b.WriteString("Добавить пароль         " + focusedStyle.Render("[a]") + "\n")
	b.WriteString("Найти пароль            " + focusedStyle.Render("[g]") + "\n")
	b.WriteString("Все записи              " + focusedStyle.Render("[l]") + "\n")
	b.WriteString("Выйти из учетной записи " + focusedStyle.Render("[o]") + "\n")
	b.WriteString("Выход                   " + focusedStyle.Render("[q]"))
	return renderParagraph(appTitle, b.String())
}
