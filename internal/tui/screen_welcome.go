package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// updateWelcomeScreen обрабатывает клавиши стартового экрана.
// Учитываются только l, r и q; остальные клавиши игнорируются.
func (m *model) updateWelcomeScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case keyLogin:
		return m, m.enterScreen(loginScreen)
	case keyRegister:
		if m.readOnlyMode {
			return m.setStatusError("Регистрация недоступна: директория данных занята другим экземпляром")
		}
		return m, m.enterScreen(registerScreen)
	case keyQuit:
		return m, tea.Quit
	}
	return m, nil
}

// viewWelcomeScreen отображает стартовый экран.
func (m *model) viewWelcomeScreen() string {
	var b strings.Builder
	b.WriteString("Вход          " + focusedStyle.Render("[l]") + "\n")
	b.WriteString("Регистрация   " + focusedStyle.Render("[r]") + "\n")
	b.WriteString("Выход         " + focusedStyle.Render("[q]"))
	return renderParagraph(appTitle, b.String())
}
