package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// viewTwoFieldScreen отображает общий экран ввода двух полей.
func viewTwoFieldScreen(title, hint string, input1, input2 textinput.Model) string {
	var b strings.Builder
	b.WriteString(input1.View() + "\n")
	b.WriteString(input2.View() + "\n\n")
	b.WriteString(subtleStyle.Render(hint))
	return renderParagraph(title, b.String())
}

// updateLoginScreen обрабатывает ввод данных для входа.
func (m *model) updateLoginScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	loginAction := func() (tea.Model, tea.Cmd) {
		m.busy = true
		return m, m.makeLoginCmd(m.loginUsernameInput.Value(), m.loginPasswordInput.Value())
	}

	return m.handleTwoFieldInput(
		msg,
		&m.loginUsernameInput,
		&m.loginPasswordInput,
		&m.loginRegisterFocusedField,
		loginAction,
		welcomeScreen,
	)
}

// viewLoginScreen отображает экран ввода данных для входа.
func (m *model) viewLoginScreen() string {
	return viewTwoFieldScreen(
		"Вход",
		"Нажмите Enter для входа, Esc для возврата",
		m.loginUsernameInput,
		m.loginPasswordInput,
	)
}

// updateRegisterScreen обрабатывает ввод данных для регистрации.
func (m *model) updateRegisterScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	registerAction := func() (tea.Model, tea.Cmd) {
		m.busy = true
		return m, m.makeRegisterCmd(m.registerUsernameInput.Value(), m.registerPasswordInput.Value())
	}

	return m.handleTwoFieldInput(
		msg,
		&m.registerUsernameInput,
		&m.registerPasswordInput,
		&m.loginRegisterFocusedField,
		registerAction,
		welcomeScreen,
	)
}

// viewRegisterScreen отображает экран регистрации.
func (m *model) viewRegisterScreen() string {
	return viewTwoFieldScreen(
		"Регистрация",
		"Нажмите Enter для регистрации, Esc для возврата",
		m.registerUsernameInput,
		m.registerPasswordInput,
	)
}
