package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Update обрабатывает входящие сообщения.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	// == Глобальные сообщения (не зависят от экрана) ==
	case tea.WindowSizeMsg:
		h, v := m.docStyle.GetFrameSize()
		width := msg.Width - h
		m.credentialList.SetSize(width, msg.Height-v-helpStatusHeightOffset)
		for _, in := range []*textinput.Model{
			&m.loginUsernameInput, &m.loginPasswordInput,
			&m.registerUsernameInput, &m.registerPasswordInput,
			&m.addPlatformInput, &m.addPasswordInput, &m.getPlatformInput,
		} {
			in.Width = max(width-inputWidthOffset, 1)
		}
		return m, nil

	case registerDoneMsg:
		m.busy = false
		m.state = welcomeScreen
		return m.setStatusMessage(fmt.Sprintf("Пользователь %s зарегистрирован. Выполните вход.", msg.user))

	case loginDoneMsg:
		m.busy = false
		m.currentUser = msg.user
		m.state = menuScreen
		return m.setStatusMessage("Вход выполнен: " + msg.user)

	case logoutDoneMsg:
		m.busy = false
		m.currentUser = ""
		m.state = welcomeScreen
		return m.setStatusMessage("Вы вышли из учетной записи")

	case addDoneMsg:
		m.busy = false
		m.state = menuScreen
		return m.setStatusMessage("Пароль для " + msg.cred.Platform + " сохранен")

	case getDoneMsg:
		m.busy = false
		m.foundCredential = msg.cred
		m.state = resultScreen
		return m, tea.ClearScreen

	case listDoneMsg:
		return m.showList(msg.creds)

	case sessionErrMsg:
		return m.showError(msg.title, msg.err, msg.retry)

	case clearStatusMsg:
		m.statusMessage = ""
		m.statusMessageError = false
		return m, nil

	case tea.KeyMsg:
		if msg.String() == keyCtrlC {
			return m, tea.Quit
		}
		// Пока выполняется команда сессии, ввод не принимается
		if m.busy {
			return m, nil
		}
	}

	return m.updateScreen(msg)
}

// updateScreen передает сообщение обработчику текущего экрана.
func (m *model) updateScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case welcomeScreen:
		return m.updateWelcomeScreen(msg)
	case loginScreen:
		return m.updateLoginScreen(msg)
	case registerScreen:
		return m.updateRegisterScreen(msg)
	case messageScreen:
		return m.updateMessageScreen(msg)
	case menuScreen:
		return m.updateMenuScreen(msg)
	case addScreen:
		return m.updateAddScreen(msg)
	case getScreen:
		return m.updateGetScreen(msg)
	case resultScreen:
		return m.updateResultScreen(msg)
	case listScreen:
		return m.updateListScreen(msg)
	default:
		return m, nil
	}
}

// enterScreen переключает экран, очищая и фокусируя его поля ввода.
func (m *model) enterScreen(s screenState) tea.Cmd {
	m.state = s
	switch s {
	case loginScreen:
		resetInputs(&m.loginRegisterFocusedField, &m.loginUsernameInput, &m.loginPasswordInput)
	case registerScreen:
		resetInputs(&m.loginRegisterFocusedField, &m.registerUsernameInput, &m.registerPasswordInput)
	case addScreen:
		resetInputs(&m.addFocusedField, &m.addPlatformInput, &m.addPasswordInput)
	case getScreen:
		resetInputs(nil, &m.getPlatformInput)
	default:
		return tea.ClearScreen
	}
	return tea.Batch(textinput.Blink, tea.ClearScreen)
}
