package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// updateGetScreen обрабатывает ввод платформы для поиска.
func (m *model) updateGetScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEsc:
			m.getPlatformInput.Blur()
			m.state = menuScreen
			return m, tea.ClearScreen
		case keyEnter:
			platform := m.getPlatformInput.Value()
			if platform == "" {
				return m.showError("Поиск", errEmptyPlatform, getScreen)
			}
			m.busy = true
			return m, m.makeGetCmd(platform)
		}
	}

	var cmd tea.Cmd
	m.getPlatformInput, cmd = m.getPlatformInput.Update(msg)
	return m, cmd
}

// viewGetScreen отображает экран поиска.
func (m *model) viewGetScreen() string {
	var b strings.Builder
	b.WriteString(m.getPlatformInput.View() + "\n\n")
	b.WriteString(subtleStyle.Render("Нажмите Enter для поиска, Esc для возврата"))
	return renderParagraph("Поиск пароля", b.String())
}

// updateResultScreen возвращает в меню по Esc, Enter или b.
func (m *model) updateResultScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEsc, keyEnter, keyBack:
			m.state = menuScreen
			return m, tea.ClearScreen
		}
	}
	return m, nil
}

// viewResultScreen отображает найденную запись вместе с паролем.
func (m *model) viewResultScreen() string {
	var b strings.Builder
	b.WriteString("Платформа:    " + m.foundCredential.Platform + "\n")
	b.WriteString("Пользователь: " + m.foundCredential.User + "\n")
	b.WriteString("Пароль:       " + successStyle.Render(m.foundCredential.Password))
	return renderParagraph("Найденная запись", b.String())
}
